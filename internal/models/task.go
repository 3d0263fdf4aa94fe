package models

import "time"

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a member of the priority enumeration.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the declared enum order of the priority: low < medium < high.
// Sorting priority_desc therefore lists high-priority tasks first.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

// TaskOrder is the closed set of list orderings.
type TaskOrder string

const (
	OrderCreatedAsc   TaskOrder = "created_asc"
	OrderCreatedDesc  TaskOrder = "created_desc"
	OrderDeadlineAsc  TaskOrder = "deadline_asc"
	OrderDeadlineDesc TaskOrder = "deadline_desc"
	OrderPriorityAsc  TaskOrder = "priority_asc"
	OrderPriorityDesc TaskOrder = "priority_desc"
)

// Valid reports whether o is a member of the order enumeration.
func (o TaskOrder) Valid() bool {
	switch o {
	case OrderCreatedAsc, OrderCreatedDesc,
		OrderDeadlineAsc, OrderDeadlineDesc,
		OrderPriorityAsc, OrderPriorityDesc:
		return true
	}
	return false
}

// Task represents a todo item owned by exactly one user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []Tag      `json:"tags"`
	OwnerID     string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
