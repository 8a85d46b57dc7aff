package model

import (
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type RecurringType string

const (
	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
	RecurringCustom  RecurringType = "custom"
)

func (r RecurringType) Valid() bool {
	switch r {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringCustom:
		return true
	}
	return false
}

// Recurring is stored and round-tripped as-is. Nothing in this service
// expands it into a next occurrence; that is a pending product decision.
type Recurring struct {
	Type     RecurringType `firestore:"type,omitempty" json:"type"`
	Interval int           `firestore:"interval,omitempty" json:"interval,omitempty"` // days, only meaningful for custom
}

type Subtask struct {
	SubtaskID string `firestore:"subtaskid,omitempty" json:"id"`
	Title     string `firestore:"title,omitempty" json:"title"`
	Completed bool   `firestore:"completed" json:"completed"`
}

// NotificationPrefs are per-task, per-channel opt-in flags.
type NotificationPrefs struct {
	Email   bool `firestore:"email" json:"email"`
	Browser bool `firestore:"browser" json:"browser"`
}

type Task struct {
	TaskID        string            `firestore:"taskid,omitempty" json:"id"`
	OwnerID       string            `firestore:"ownerid,omitempty" json:"ownerId"`
	Title         string            `firestore:"title,omitempty" json:"title"`
	Description   string            `firestore:"description,omitempty" json:"description,omitempty"`
	Completed     bool              `firestore:"completed" json:"completed"`
	Priority      Priority          `firestore:"priority,omitempty" json:"priority"`
	DueDate       *time.Time        `firestore:"duedate,omitempty" json:"dueDate,omitempty"`
	Category      string            `firestore:"category,omitempty" json:"category,omitempty"`
	Recurring     *Recurring        `firestore:"recurring,omitempty" json:"recurring,omitempty"`
	Subtasks      []Subtask         `firestore:"subtasks,omitempty" json:"subtasks,omitempty"`
	Notifications NotificationPrefs `firestore:"notifications" json:"notifications"`
	CreatedAt     time.Time         `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedat,omitempty" json:"updatedAt"`
}

// Subtask looks up a subtask by id. The second return reports presence.
func (t *Task) Subtask(subtaskID string) (Subtask, bool) {
	for _, s := range t.Subtasks {
		if s.SubtaskID == subtaskID {
			return s, true
		}
	}
	return Subtask{}, false
}
