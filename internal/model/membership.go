package model

// Tier is a permission level on a project. Lower value means more authority.
type Tier int

const (
	TierShare Tier = 1
	TierEdit  Tier = 2
	TierView  Tier = 3
)

func (t Tier) Valid() bool { return t >= TierShare && t <= TierView }

// AtLeast reports whether t grants at least the authority of min.
func (t Tier) AtLeast(min Tier) bool { return t.Valid() && t <= min }

func (t Tier) String() string {
	switch t {
	case TierShare:
		return "share"
	case TierEdit:
		return "edit"
	case TierView:
		return "view"
	default:
		return "unknown"
	}
}

type Location int

const (
	LocationMain    Location = 1
	LocationArchive Location = 2
	LocationTrash   Location = 3
)

func (l Location) Valid() bool { return l >= LocationMain && l <= LocationTrash }

// Membership grants Subject access to Project at Tier.
type Membership struct {
	ID        int64    `json:"id"`
	ProjectID int64    `json:"project"`
	SubjectID int64    `json:"subject"`
	Tier      Tier     `json:"tier"`
	Location  Location `json:"location"`
}

type MembershipPatch struct {
	Tier     *Tier     `json:"tier"`
	Location *Location `json:"location"`
}

func (p MembershipPatch) Apply(m Membership) Membership {
	if p.Tier != nil {
		m.Tier = *p.Tier
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	return m
}

type MembershipFilter struct {
	SubjectID int64
	ProjectID *int64
	Tier      *Tier
	Location  *Location
}
