package dto

type RecurringRequest struct {
	Type     string `json:"type" binding:"required,oneof=daily weekly monthly custom"`
	Interval int    `json:"interval" binding:"omitempty,gt=0"`
}

type SubtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type NotificationsRequest struct {
	Email   bool `json:"email"`
	Browser bool `json:"browser"`
}

type CreateTaskRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   string                `json:"description"`
	Priority      string                `json:"priority" binding:"required,oneof=low medium high"`
	DueDate       string                `json:"dueDate"` // RFC3339
	Category      string                `json:"category"`
	Recurring     *RecurringRequest     `json:"recurring"`
	Subtasks      []SubtaskRequest      `json:"subtasks"`
	Notifications *NotificationsRequest `json:"notifications"`
}

// UpdateTaskRequest carries a partial update; nil means "leave unchanged".
type UpdateTaskRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Completed     *bool                 `json:"completed"`
	Priority      *string               `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *string               `json:"dueDate"` // RFC3339
	Category      *string               `json:"category"`
	Recurring     *RecurringRequest     `json:"recurring"`
	Notifications *NotificationsRequest `json:"notifications"`
}
