package access

import (
	"errors"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Visibility narrows list queries to the rows a user is entitled to see.
// The returned filters carry the caller's id; the repository turns them into
// membership subqueries:
//
//   - projects: a membership row for the caller exists (optionally in the
//     requested location), or the caller owns the project and no location
//     was asked for;
//   - memberships: the row's subject is the caller;
//   - tasks: the caller holds any membership row on the task's project.
//
// Single-row fetches do not go through Visibility; they are checked by the
// Evaluator instead.
type Visibility struct{}

func (Visibility) Projects(userID int64, f model.ProjectFilter) (model.ProjectFilter, error) {
	if f.Location != nil && !f.Location.Valid() {
		return f, ErrInvalidFilter
	}
	f.VisibleTo = userID
	return f, nil
}

func (Visibility) Memberships(userID int64, f model.MembershipFilter) (model.MembershipFilter, error) {
	if f.Tier != nil && !f.Tier.Valid() {
		return f, ErrInvalidFilter
	}
	if f.Location != nil && !f.Location.Valid() {
		return f, ErrInvalidFilter
	}
	f.SubjectID = userID
	return f, nil
}

func (Visibility) Tasks(userID int64, f model.TaskFilter) (model.TaskFilter, error) {
	switch {
	case f.Category != nil && !f.Category.Valid(),
		f.Priority != nil && !f.Priority.Valid(),
		f.Status != nil && !f.Status.Valid():
		return f, ErrInvalidFilter
	}
	f.VisibleTo = userID
	return f, nil
}
