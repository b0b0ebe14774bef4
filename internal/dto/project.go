package dto

import "time"

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=2000"`
}

// UpdateProjectRequest is a partial update; omitted fields are unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=2000"`
	SortOrder   *int    `json:"sortOrder" binding:"omitempty,min=0"`
	IsArchived  *bool   `json:"isArchived"`
}

type ProjectResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	ImageURL      *string           `json:"imageUrl"`
	SortOrder     int               `json:"sortOrder"`
	IsArchived    bool              `json:"isArchived"`
	OpenTaskCount int               `json:"openTaskCount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Sections      []SectionResponse `json:"sections,omitempty"`
}

type ListProjectsResponse struct {
	Items []ProjectResponse `json:"items"`
}

type CreateSectionRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	SortOrder *int   `json:"sortOrder" binding:"omitempty,min=0"`
}

type UpdateSectionRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	SortOrder *int    `json:"sortOrder" binding:"omitempty,min=0"`
}

type SectionResponse struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"projectId"`
	Name      string         `json:"name"`
	SortOrder int            `json:"sortOrder"`
	CreatedAt time.Time      `json:"createdAt"`
	Tasks     []TaskResponse `json:"tasks"`
}
