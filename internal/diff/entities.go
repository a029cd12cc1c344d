package diff

import (
	"time"

	"github.com/nhle/inspection/internal/model"
)

type installationRecord model.InstallationDraft

func (d installationRecord) Fields() []Field[model.InstallationUpdate] {
	return []Field[model.InstallationUpdate]{
		{"address", d.Address, func(u *model.InstallationUpdate) { u.Address = model.Some(d.Address) }},
		{"customer_name", d.CustomerName, func(u *model.InstallationUpdate) { u.CustomerName = model.Some(d.CustomerName) }},
		{"installation_date", d.InstallationDate, func(u *model.InstallationUpdate) { u.InstallationDate = model.Some(d.InstallationDate) }},
		{"last_inspection", d.LastInspection, func(u *model.InstallationUpdate) { u.LastInspection = model.Some(d.LastInspection) }},
	}
}

// Installation returns the fields of draft that differ from original.
func Installation(original, draft model.InstallationDraft) model.InstallationUpdate {
	u, _ := Compute[installationRecord, model.InstallationUpdate](installationRecord(original), installationRecord(draft))
	return u
}

type testRecord model.TestDraft

func (d testRecord) Fields() []Field[model.TestUpdate] {
	return []Field[model.TestUpdate]{
		{"value", d.Value, func(u *model.TestUpdate) { u.Value = model.Some(d.Value) }},
		{"unit", d.Unit, func(u *model.TestUpdate) { u.Unit = model.Some(d.Unit) }},
		{"status", d.Status, func(u *model.TestUpdate) { u.Status = model.Some(d.Status) }},
		{"notes", d.Notes, func(u *model.TestUpdate) { u.Notes = model.Some(d.Notes) }},
		{"image_path", d.ImagePath, func(u *model.TestUpdate) { u.ImagePath = model.Some(d.ImagePath) }},
	}
}

// Test returns the fields of draft that differ from original.
func Test(original, draft model.TestDraft) model.TestUpdate {
	u, _ := Compute[testRecord, model.TestUpdate](testRecord(original), testRecord(draft))
	return u
}

type taskRecord model.TaskDraft

func (d taskRecord) Fields() []Field[model.TaskUpdate] {
	return []Field[model.TaskUpdate]{
		{"title", d.Title, func(u *model.TaskUpdate) { u.Title = model.Some(d.Title) }},
		{"description", d.Description, func(u *model.TaskUpdate) { u.Description = model.Some(d.Description) }},
		{"status", d.Status, func(u *model.TaskUpdate) { u.Status = model.Some(d.Status) }},
		{"priority", d.Priority, func(u *model.TaskUpdate) { u.Priority = model.Some(d.Priority) }},
		{"installation_id", d.InstallationID, func(u *model.TaskUpdate) { u.InstallationID = model.Some(d.InstallationID) }},
		{"due_date", d.DueDate, func(u *model.TaskUpdate) { u.DueDate = model.Some(d.DueDate) }},
		{"completed_date", d.CompletedDate, func(u *model.TaskUpdate) { u.CompletedDate = model.Some(d.CompletedDate) }},
		{"assigned_to", d.AssignedTo, func(u *model.TaskUpdate) { u.AssignedTo = model.Some(d.AssignedTo) }},
		{"estimated_hours", d.EstimatedHours, func(u *model.TaskUpdate) { u.EstimatedHours = model.Some(d.EstimatedHours) }},
		{"actual_hours", d.ActualHours, func(u *model.TaskUpdate) { u.ActualHours = model.Some(d.ActualHours) }},
		{"notes", d.Notes, func(u *model.TaskUpdate) { u.Notes = model.Some(d.Notes) }},
	}
}

// Task returns the fields of draft that differ from original, then applies
// the completion rule with now as the completion time.
func Task(original, draft model.TaskDraft, now time.Time) model.TaskUpdate {
	u, _ := Compute[taskRecord, model.TaskUpdate](taskRecord(original), taskRecord(draft))
	StampCompletion(&u, original.Status, now)
	return u
}

// StampCompletion sets CompletedDate to now when u moves a task into
// Completed from another status and does not already carry a completion
// date.
func StampCompletion(u *model.TaskUpdate, from model.TaskStatus, now time.Time) {
	if !u.Status.Set || u.Status.Value != model.TaskStatusCompleted {
		return
	}
	if from == model.TaskStatusCompleted || u.CompletedDate.Set {
		return
	}
	u.CompletedDate = model.Some(model.NewTime(now))
}
