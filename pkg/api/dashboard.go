package api

import (
	"context"
	"net/http"
)

// DashboardSummary is the aggregate view shown on the landing screen.
type DashboardSummary struct {
	ProjectCount     int `json:"projectCount"`
	DeliverableCount int `json:"deliverableCount"`
	OpenTickets      int `json:"openTickets"`
	PendingApprovals int `json:"pendingApprovals"`
	UserCount        int `json:"userCount"`
}

// GetDashboard retrieves the dashboard summary for the current user.
func (c *Client) GetDashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
