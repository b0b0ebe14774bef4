package handlers

import (
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/duedate"
)

func projectToResponse(p dom.Project) dto.ProjectResponse {
	out := dto.ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		SortOrder:     p.SortOrder,
		IsArchived:    p.IsArchived,
		OpenTaskCount: p.OpenTaskCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, s := range p.Sections {
		out.Sections = append(out.Sections, sectionToResponse(s))
	}
	return out
}

func projectsToResponses(list []dom.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, projectToResponse(p))
	}
	return out
}

func sectionToResponse(s dom.Section) dto.SectionResponse {
	tasks := make([]dto.TaskResponse, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, taskToResponse(t))
	}
	return dto.SectionResponse{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		Name:      s.Name,
		SortOrder: s.SortOrder,
		CreatedAt: s.CreatedAt,
		Tasks:     tasks,
	}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	out := dto.TaskResponse{
		ID:          t.ID,
		SectionID:   t.SectionID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		SortOrder:   t.SortOrder,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, c := range t.Comments {
		out.Comments = append(out.Comments, commentToResponse(c))
	}
	for _, a := range t.Attachments {
		out.Attachments = append(out.Attachments, attachmentToResponse(a))
	}
	return out
}

func commentToResponse(c dom.Comment) dto.CommentResponse {
	return dto.CommentResponse{ID: c.ID, TaskID: c.TaskID, Body: c.Body, CreatedAt: c.CreatedAt}
}

func attachmentToResponse(a dom.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        a.ID,
		TaskID:    a.TaskID,
		FileName:  a.FileName,
		FileURL:   a.FileURL,
		FileSize:  a.FileSize,
		MimeType:  a.MimeType,
		CreatedAt: a.CreatedAt,
	}
}

func viewToResponse(v dom.TaskView) dto.TaskViewResponse {
	return dto.TaskViewResponse{
		TaskResponse: taskToResponse(v.Task),
		ProjectID:    v.ProjectID,
		ProjectName:  v.ProjectName,
		SectionName:  v.SectionName,
	}
}

func viewsToResponses(list []dom.TaskView) []dto.TaskViewResponse {
	out := make([]dto.TaskViewResponse, 0, len(list))
	for _, v := range list {
		out = append(out, viewToResponse(v))
	}
	return out
}

// labeled converts a bucket and adds each task's relative due label.
func labeled(list []dom.TaskView, today duedate.Date) []dto.TaskViewResponse {
	out := viewsToResponses(list)
	for i, v := range list {
		if v.DueDate != nil {
			out[i].Label = duedate.RelativeLabel(*v.DueDate, today)
		}
	}
	return out
}
