package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Project matches the API response for project operations.
type Project struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	OrganizationID int64  `json:"organizationId"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// ProjectMember is a user's membership in a project.
type ProjectMember struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	OrganizationID int64  `json:"organizationId"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// ListProjects retrieves all projects visible to the caller.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject retrieves a project by ID.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject updates an existing project.
func (c *Client) UpdateProject(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}

// ListProjectMembers retrieves the members of a project.
func (c *Client) ListProjectMembers(ctx context.Context, id int64) ([]ProjectMember, error) {
	var members []ProjectMember
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/members", id), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddProjectMember adds a user to a project with the given project role.
func (c *Client) AddProjectMember(ctx context.Context, projectID, userID int64, role string) error {
	path := fmt.Sprintf("/projects/%d/members/%d/%s/add", projectID, userID, url.PathEscape(role))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RemoveProjectMember removes a user's project role.
func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int64, role string) error {
	path := fmt.Sprintf("/projects/%d/members/%d/%s/delete", projectID, userID, url.PathEscape(role))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListProjectDeliverables retrieves the deliverables of a project.
func (c *Client) ListProjectDeliverables(ctx context.Context, id int64) ([]Deliverable, error) {
	var deliverables []Deliverable
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/deliverables", id), nil, &deliverables); err != nil {
		return nil, err
	}
	return deliverables, nil
}
