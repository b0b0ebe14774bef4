package domain

import "time"

// DefaultSections are created with every new project, in this order.
var DefaultSections = []string{"To Do", "In Progress", "Done"}

// Project is the top-level container. Sort keys are global across projects.
type Project struct {
	ID          string
	Name        string
	Description *string
	ImageURL    *string
	SortOrder   int
	IsArchived  bool

	CreatedAt time.Time
	UpdatedAt time.Time

	Sections      []Section
	OpenTaskCount int
}

func (p Project) GetSortOrder() int { return p.SortOrder }

func (p Project) WithSortOrder(n int) Project {
	p.SortOrder = n
	return p
}

// Section groups tasks inside one project. A project always keeps at least one.
type Section struct {
	ID        string
	ProjectID string
	Name      string
	SortOrder int
	CreatedAt time.Time

	Tasks []Task
}

func (s Section) GetSortOrder() int { return s.SortOrder }

func (s Section) WithSortOrder(n int) Section {
	s.SortOrder = n
	return s
}
