// Package access decides which projects, memberships and tasks a user may
// see and change.
//
// Authority comes from two places: the project's owner, who may do anything
// with their own project, and membership rows, whose tier is looked up afresh
// on every check. Nothing is cached between calls, so a grant or revoke is
// visible to the very next request.
package access

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

var ErrDenied = errors.New("permission denied")

type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

// Safe reports whether the operation leaves data untouched.
func (o Operation) Safe() bool { return o == OpRead }

func (o Operation) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type Resource int

const (
	ResourceProject Resource = iota
	ResourceMembership
	ResourceTask
)

func (r Resource) String() string {
	switch r {
	case ResourceProject:
		return "project"
	case ResourceMembership:
		return "membership"
	case ResourceTask:
		return "task"
	default:
		return "unknown"
	}
}

// MembershipIndex returns the tier a user holds on a project. found is false
// when there is no membership row.
type MembershipIndex interface {
	TierOf(ctx context.Context, userID, projectID int64) (tier model.Tier, found bool, err error)
}

// Request describes one operation to be checked. Project is the project the
// target belongs to; for creates it is the project referenced by the payload.
// Membership is the target row for membership updates and deletes.
type Request struct {
	UserID     int64
	Op         Operation
	Resource   Resource
	Project    model.Project
	Membership *model.Membership
}

type Evaluator struct {
	index  MembershipIndex
	logger *zap.Logger
}

func NewEvaluator(index MembershipIndex, logger *zap.Logger) *Evaluator {
	return &Evaluator{index: index, logger: logger}
}

// Evaluate returns nil when the request is allowed and ErrDenied when it is
// not. A failed membership lookup is returned as is and must never be taken
// as permission.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) error {
	allowed, err := e.allowed(ctx, req)
	if err != nil {
		return fmt.Errorf("evaluate %s %s: %w", req.Op, req.Resource, err)
	}
	if !allowed {
		e.logger.Debug("access denied",
			zap.Int64("user_id", req.UserID),
			zap.Stringer("op", req.Op),
			zap.Stringer("resource", req.Resource),
			zap.Int64("project_id", req.Project.ID),
		)
		return ErrDenied
	}
	return nil
}

func (e *Evaluator) allowed(ctx context.Context, req Request) (bool, error) {
	isOwner := req.Project.OwnerID == req.UserID

	switch req.Resource {
	case ResourceProject:
		if isOwner {
			return true, nil
		}
		if req.Op.Safe() {
			return e.holds(ctx, req, model.TierView)
		}
		return false, nil

	case ResourceMembership:
		if req.Op.Safe() {
			return true, nil
		}
		if isOwner {
			return true, nil
		}
		if req.Op != OpCreate {
			if req.Membership == nil {
				return false, errors.New("membership target missing")
			}
			// share-tier members never touch the owner's own row
			if req.Membership.SubjectID == req.Project.OwnerID {
				return false, nil
			}
		}
		return e.holds(ctx, req, model.TierShare)

	case ResourceTask:
		if isOwner {
			return true, nil
		}
		if req.Op.Safe() {
			return e.holds(ctx, req, model.TierView)
		}
		return e.holds(ctx, req, model.TierEdit)
	}

	return false, nil
}

func (e *Evaluator) holds(ctx context.Context, req Request, min model.Tier) (bool, error) {
	tier, found, err := e.index.TierOf(ctx, req.UserID, req.Project.ID)
	if err != nil {
		return false, err
	}
	return found && tier.AtLeast(min), nil
}
