// Package client drives drag-and-drop reordering against the API: it keeps a
// local board, shows each drop immediately and settles it with one request.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/ordering"
)

const (
	apiPrefix      = "/api/v1"
	sessionCookie  = "session_id"
	defaultTimeout = 10 * time.Second
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one API server with one session.
type Client struct {
	baseURL string
	session string
	http    *http.Client
	logger  *log.Logger
}

// New returns a client for baseURL (scheme and host, no /api/v1).
// A nil httpClient gets a default with a 10s timeout.
func New(baseURL, session string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    httpClient,
		logger:  logger,
	}
}

// Project fetches a project with its sections and tasks.
func (c *Client) Project(ctx context.Context, id string) (dom.Project, error) {
	var res dto.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, &res); err != nil {
		return dom.Project{}, err
	}
	return projectFromResponse(res), nil
}

// Reorder sends one batch of sort keys.
func (c *Client) Reorder(ctx context.Context, kind ordering.Kind, items []ordering.Item) error {
	return c.do(ctx, http.MethodPatch, "/reorder", dto.ReorderRequest{Type: string(kind), Items: items}, nil)
}

// MoveTask re-parents a task to another section.
func (c *Client) MoveTask(ctx context.Context, taskID, sectionID string) error {
	body := map[string]string{"sectionId": sectionID}
	return c.do(ctx, http.MethodPatch, "/tasks/"+taskID, body, nil)
}

// Today asks the server for its current date and whether it differs from since.
func (c *Client) Today(ctx context.Context, since string) (dto.TodayResponse, error) {
	var res dto.TodayResponse
	path := "/today"
	if since != "" {
		path += "?since=" + since
	}
	err := c.do(ctx, http.MethodGet, path, nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e dto.ErrorResponse
		if sonic.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func projectFromResponse(r dto.ProjectResponse) dom.Project {
	p := dom.Project{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		SortOrder:     r.SortOrder,
		IsArchived:    r.IsArchived,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		OpenTaskCount: r.OpenTaskCount,
		Sections:      make([]dom.Section, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		sec := dom.Section{
			ID:        s.ID,
			ProjectID: s.ProjectID,
			Name:      s.Name,
			SortOrder: s.SortOrder,
			CreatedAt: s.CreatedAt,
			Tasks:     make([]dom.Task, 0, len(s.Tasks)),
		}
		for _, t := range s.Tasks {
			sec.Tasks = append(sec.Tasks, dom.Task{
				ID:          t.ID,
				SectionID:   t.SectionID,
				Title:       t.Title,
				Description: t.Description,
				Status:      dom.Status(t.Status),
				DueDate:     t.DueDate,
				SortOrder:   t.SortOrder,
				CompletedAt: t.CompletedAt,
				CreatedAt:   t.CreatedAt,
				UpdatedAt:   t.UpdatedAt,
			})
		}
		p.Sections = append(p.Sections, sec)
	}
	return p
}
