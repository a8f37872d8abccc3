package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Deliverable matches the API response for deliverable operations.
type Deliverable struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ProjectID   int64  `json:"projectId"`
	DueDate     string `json:"dueDate,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
}

// CreateDeliverableRequest is the request body for creating a deliverable.
type CreateDeliverableRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectID   int64  `json:"projectId"`
	DueDate     string `json:"dueDate,omitempty"`
}

// UpdateDeliverableRequest is the request body for updating a deliverable.
type UpdateDeliverableRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// ListDeliverables retrieves all deliverables visible to the caller.
func (c *Client) ListDeliverables(ctx context.Context) ([]Deliverable, error) {
	var deliverables []Deliverable
	if err := c.do(ctx, http.MethodGet, "/deliverables", nil, &deliverables); err != nil {
		return nil, err
	}
	return deliverables, nil
}

// CreateDeliverable creates a new deliverable.
func (c *Client) CreateDeliverable(ctx context.Context, req CreateDeliverableRequest) (*Deliverable, error) {
	var deliverable Deliverable
	if err := c.do(ctx, http.MethodPost, "/deliverables", req, &deliverable); err != nil {
		return nil, err
	}
	return &deliverable, nil
}

// GetDeliverable retrieves a deliverable by ID.
func (c *Client) GetDeliverable(ctx context.Context, id int64) (*Deliverable, error) {
	var deliverable Deliverable
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/deliverables/%d", id), nil, &deliverable); err != nil {
		return nil, err
	}
	return &deliverable, nil
}

// UpdateDeliverable updates an existing deliverable.
func (c *Client) UpdateDeliverable(ctx context.Context, id int64, req UpdateDeliverableRequest) (*Deliverable, error) {
	var deliverable Deliverable
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/deliverables/%d", id), req, &deliverable); err != nil {
		return nil, err
	}
	return &deliverable, nil
}

// DeleteDeliverable removes a deliverable.
func (c *Client) DeleteDeliverable(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/deliverables/%d", id), nil, nil)
}

// SubmitDeliverable submits a deliverable to a client for review.
func (c *Client) SubmitDeliverable(ctx context.Context, id, clientID int64) (*Deliverable, error) {
	var deliverable Deliverable
	path := fmt.Sprintf("/deliverables/%d/submit?clientId=%d", id, clientID)
	if err := c.do(ctx, http.MethodPut, path, nil, &deliverable); err != nil {
		return nil, err
	}
	return &deliverable, nil
}

// UploadDeliverableFile attaches a file to a deliverable using a
// multipart body.
func (c *Client) UploadDeliverableFile(ctx context.Context, id int64, filename string, content io.Reader) error {
	return c.upload(ctx, fmt.Sprintf("/deliverables/%d/upload", id), "file", filename, content, nil)
}
