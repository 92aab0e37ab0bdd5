package model

type Category int

const (
	CategoryTask    Category = 1
	CategoryFeature Category = 2
	CategoryBug     Category = 3
	CategoryOther   Category = 4
)

func (c Category) Valid() bool { return c >= CategoryTask && c <= CategoryOther }

type Priority int

const (
	PriorityNone   Priority = 1
	PriorityLow    Priority = 2
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 4
)

func (p Priority) Valid() bool { return p >= PriorityNone && p <= PriorityHigh }

type Status int

const (
	StatusBacklog    Status = 1
	StatusInProgress Status = 2
	StatusTesting    Status = 3
	StatusCompleted  Status = 4
)

func (s Status) Valid() bool { return s >= StatusBacklog && s <= StatusCompleted }

func (s Status) String() string {
	switch s {
	case StatusBacklog:
		return "backlog"
	case StatusInProgress:
		return "in_progress"
	case StatusTesting:
		return "testing"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type Task struct {
	ID          int64    `json:"id"`
	ProjectID   int64    `json:"project"`
	OwnerID     int64    `json:"owner"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
}

// TaskPatch содержит только изменяемые поля; project не меняется после создания.
type TaskPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *Category `json:"category"`
	Priority    *Priority `json:"priority"`
	Status      *Status   `json:"status"`
	OwnerID     *int64    `json:"owner"`
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.OwnerID != nil {
		t.OwnerID = *p.OwnerID
	}
	return t
}

type TaskFilter struct {
	VisibleTo int64
	ProjectID *int64
	Category  *Category
	Priority  *Priority
	Status    *Status
}

// TaskStats - сводка по задачам проекта
type TaskStats struct {
	ProjectID  int64          `json:"project"`
	TotalTasks int            `json:"total_tasks"`
	ByStatus   map[string]int `json:"by_status"`
}
