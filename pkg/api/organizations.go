package api

import (
	"context"
	"fmt"
	"net/http"
)

// Organization matches the API response for organization operations.
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// OrganizationRequest is the request body for creating or updating an
// organization.
type OrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact,omitempty"`
}

// OrganizationStats is the aggregate view returned by the stats endpoint.
type OrganizationStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ProjectCount int `json:"projectCount"`
	UserCount    int `json:"userCount"`
}

// ListOrganizations retrieves all organizations.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.do(ctx, http.MethodGet, "/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// CreateOrganization creates a new organization.
func (c *Client) CreateOrganization(ctx context.Context, req OrganizationRequest) (*Organization, error) {
	var org Organization
	if err := c.do(ctx, http.MethodPost, "/organizations", req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrganization retrieves an organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/organizations/%d", id), nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization updates an existing organization.
func (c *Client) UpdateOrganization(ctx context.Context, id int64, req OrganizationRequest) (*Organization, error) {
	var org Organization
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/organizations/%d", id), req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// DeleteOrganization removes an organization.
func (c *Client) DeleteOrganization(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/organizations/%d", id), nil, nil)
}

// GetOrganizationStats retrieves aggregate organization statistics.
func (c *Client) GetOrganizationStats(ctx context.Context) (*OrganizationStats, error) {
	var stats OrganizationStats
	if err := c.do(ctx, http.MethodGet, "/organizations/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
