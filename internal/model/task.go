package model

import "encoding/json"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPlanned    TaskStatus = "Planlagt"
	TaskStatusInProgress TaskStatus = "I gang"
	TaskStatusCompleted  TaskStatus = "Afsluttet"
	TaskStatusCancelled  TaskStatus = "Annulleret"
)

// TaskStatuses lists every task status in workflow order.
var TaskStatuses = []TaskStatus{
	TaskStatusPlanned,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// Label returns the English label of the status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPlanned:
		return "Planned"
	case TaskStatusInProgress:
		return "In progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Lav"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "Høj"
	TaskPriorityUrgent TaskPriority = "Akut"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityUrgent,
}

// Label returns the English label of the priority.
func (p TaskPriority) Label() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	case TaskPriorityUrgent:
		return "Urgent"
	default:
		return string(p)
	}
}

// Task is a schedulable unit of work, optionally tied to an installation.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	InstallationID string       `json:"installation_id,omitempty"`
	CreatedDate    *Time        `json:"created_date"`
	DueDate        *Time        `json:"due_date,omitempty"`
	CompletedDate  *Time        `json:"completed_date,omitempty"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	ActualHours    *float64     `json:"actual_hours,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// TaskCreate is the payload for POST /tasks.
type TaskCreate struct {
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	InstallationID string       `json:"installation_id,omitempty"`
	DueDate        *Time        `json:"due_date,omitempty"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// TaskDraft is the editable projection of a Task.
type TaskDraft struct {
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	InstallationID string
	DueDate        *Time
	CompletedDate  *Time
	AssignedTo     string
	EstimatedHours *float64
	ActualHours    *float64
	Notes          string
}

// Draft returns the editable fields of t.
func (t Task) Draft() TaskDraft {
	return TaskDraft{
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		InstallationID: t.InstallationID,
		DueDate:        t.DueDate,
		CompletedDate:  t.CompletedDate,
		AssignedTo:     t.AssignedTo,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Notes:          t.Notes,
	}
}

// TaskUpdate is a partial update for PUT /tasks/{id}.
type TaskUpdate struct {
	Title          Opt[string]
	Description    Opt[string]
	Status         Opt[TaskStatus]
	Priority       Opt[TaskPriority]
	InstallationID Opt[string]
	DueDate        Opt[*Time]
	CompletedDate  Opt[*Time]
	AssignedTo     Opt[string]
	EstimatedHours Opt[*float64]
	ActualHours    Opt[*float64]
	Notes          Opt[string]
}

// IsEmpty reports whether the update carries no fields.
func (u TaskUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Status.Set &&
		!u.Priority.Set && !u.InstallationID.Set && !u.DueDate.Set &&
		!u.CompletedDate.Set && !u.AssignedTo.Set && !u.EstimatedHours.Set &&
		!u.ActualHours.Set && !u.Notes.Set
}

// MarshalJSON encodes only the fields that are set.
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	p := payload{}
	putOpt(p, "title", u.Title)
	putOpt(p, "description", u.Description)
	putOpt(p, "status", u.Status)
	putOpt(p, "priority", u.Priority)
	putNullableString(p, "installation_id", u.InstallationID)
	putTime(p, "due_date", u.DueDate)
	putTime(p, "completed_date", u.CompletedDate)
	putOpt(p, "assigned_to", u.AssignedTo)
	putOpt(p, "estimated_hours", u.EstimatedHours)
	putOpt(p, "actual_hours", u.ActualHours)
	putOpt(p, "notes", u.Notes)
	return json.Marshal(p)
}
