package model

type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner"`
}

type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	return pr
}

// ProjectView is a project as seen by one user: the caller's own membership
// row is attached when there is one.
type ProjectView struct {
	Project
	Membership *int64    `json:"membership"`
	Tier       *Tier     `json:"tier"`
	Location   *Location `json:"location"`
}

func NewProjectView(p Project, m *Membership) ProjectView {
	v := ProjectView{Project: p}
	if m != nil {
		id, tier, loc := m.ID, m.Tier, m.Location
		v.Membership, v.Tier, v.Location = &id, &tier, &loc
	}
	return v
}

type ProjectFilter struct {
	VisibleTo int64
	Location  *Location
	Name      *string
}
