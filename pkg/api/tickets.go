package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Ticket matches the API response for ticket operations.
type Ticket struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	ProjectID   int64  `json:"projectId"`
	ReporterID  int64  `json:"reporterId"`
	AssigneeID  int64  `json:"assigneeId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// CreateTicketRequest is the request body for creating a ticket.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	ProjectID   int64  `json:"projectId"`
	AssigneeID  int64  `json:"assigneeId,omitempty"`
}

// TicketComment is a comment on a ticket.
type TicketComment struct {
	ID        int64  `json:"id"`
	TicketID  int64  `json:"ticketId"`
	AuthorID  int64  `json:"authorId"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// createCommentRequest is the request body for commenting on a ticket.
type createCommentRequest struct {
	Body string `json:"body"`
}

// GetTicket retrieves a ticket by ID.
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/tickets/%d", id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTicketsByUser retrieves the tickets assigned to or reported by a user.
func (c *Client) ListTicketsByUser(ctx context.Context, userID int64) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/tickets/userid/%d", userID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListTicketsByProject retrieves the tickets of a project.
func (c *Client) ListTicketsByProject(ctx context.Context, projectID int64) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/tickets/project/%d", projectID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket creates a new ticket.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPost, "/v1/tickets", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// SubmitTicketForApproval moves a ticket into the approval workflow.
func (c *Client) SubmitTicketForApproval(ctx context.Context, id int64) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/tickets/%d/submit-approval", id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// AssignTicket reassigns a ticket to a new assignee on behalf of an actor.
func (c *Client) AssignTicket(ctx context.Context, id, newAssigneeID, actorID int64) (*Ticket, error) {
	var ticket Ticket
	path := fmt.Sprintf("/v1/tickets/%d/assign?newAssigneeId=%d&actorId=%d", id, newAssigneeID, actorID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ApproveTicket approves a ticket on behalf of a client.
func (c *Client) ApproveTicket(ctx context.Context, id, clientID int64) (*Ticket, error) {
	var ticket Ticket
	path := fmt.Sprintf("/v1/tickets/%d/approve?clientId=%d", id, clientID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RejectTicket rejects a ticket on behalf of an approver.
func (c *Client) RejectTicket(ctx context.Context, id, approverID int64) (*Ticket, error) {
	var ticket Ticket
	path := fmt.Sprintf("/v1/tickets/%d/reject?approverId=%d", id, approverID)
	if err := c.do(ctx, http.MethodPut, path, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UploadTicketAttachment attaches a file to a ticket using a multipart body.
func (c *Client) UploadTicketAttachment(ctx context.Context, id, uploaderID int64, filename string, content io.Reader) error {
	path := fmt.Sprintf("/v1/tickets/%d/attachments?uploaderId=%d", id, uploaderID)
	return c.upload(ctx, path, "file", filename, content, nil)
}

// ListTicketComments retrieves the comments of a ticket.
func (c *Client) ListTicketComments(ctx context.Context, ticketID int64) ([]TicketComment, error) {
	var comments []TicketComment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/tickets/%d/comments", ticketID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateTicketComment adds a comment to a ticket.
func (c *Client) CreateTicketComment(ctx context.Context, ticketID int64, body string) (*TicketComment, error) {
	var comment TicketComment
	path := fmt.Sprintf("/v1/tickets/%d/comments", ticketID)
	if err := c.do(ctx, http.MethodPost, path, createCommentRequest{Body: body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
