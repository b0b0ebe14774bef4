package dto

import "github.com/josh-kartchner/traction/internal/ordering"

// ReorderRequest is the body of PATCH /reorder. Validation is done by the
// service so every malformed batch gets the same 400.
type ReorderRequest struct {
	Type  string          `json:"type" example:"tasks"`
	Items []ordering.Item `json:"items"`
}

type MyTasksResponse struct {
	Today       string             `json:"today" example:"2026-03-14"`
	Overdue     []TaskViewResponse `json:"overdue"`
	DueToday    []TaskViewResponse `json:"dueToday"`
	DueTomorrow []TaskViewResponse `json:"dueTomorrow"`
	Upcoming    []TaskViewResponse `json:"upcoming"`
	NoDueDate   []TaskViewResponse `json:"noDueDate"`
}

type ReportResponse struct {
	NotStarted []TaskViewResponse `json:"notStarted"`
	InProgress []TaskViewResponse `json:"inProgress"`
	OnHold     []TaskViewResponse `json:"onHold"`
	Completed  []TaskViewResponse `json:"completed"`
}

type TodayResponse struct {
	Today          string `json:"today" example:"2026-03-14"`
	HasDateChanged bool   `json:"hasDateChanged"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	TaskCount *int   `json:"taskCount,omitempty"`
}
