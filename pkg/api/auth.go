package api

import (
	"context"
	"net/http"
	"net/url"
)

// LoginRequest is the request body for authenticating a user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the request body for registering a new user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Login authenticates a user and returns the issued credential.
// The credential is not persisted here; session handling owns storage.
// A 401 reports rejected credentials and does not touch the stored
// session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.doPublic(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.doPublic(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyEmail confirms a pending registration using an emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doPublic(ctx, http.MethodPost, "/auth/verify-email?token="+url.QueryEscape(token), nil, nil)
}

// RefreshToken exchanges the current credential for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword starts the password reset flow for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doPublic(ctx, http.MethodPost, "/auth/forgot-password?email="+url.QueryEscape(email), nil, nil)
}
