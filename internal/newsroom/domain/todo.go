package domain

import "time"

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TodoItem struct {
	ID           string
	Title        string
	Description  string // optional
	AssigneeID   string // optional, empty when unassigned
	AssigneeName string
	Priority     TodoPriority
	Completed    bool
	// CompletedAt is set iff Completed is true.
	CompletedAt *time.Time
	CreatorID   string
	CreatorName string
	CreatedAt   time.Time
}
