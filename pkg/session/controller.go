// Package session owns the authenticated session lifecycle: login,
// restore from storage, logout, and the reaction to unauthorized
// responses. Exactly one session is current at a time.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meridianhq/mctl/pkg/api"
	"github.com/meridianhq/mctl/pkg/claims"
	"github.com/meridianhq/mctl/pkg/tokenstore"
)

// State is the session lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrNotAuthenticated indicates an operation that requires an
// authenticated session was invoked without one.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session pairs the current credential with the authenticated user.
type Session struct {
	Token   string
	Claims  *claims.Claims
	Profile *api.User
}

// Controller owns the session lifecycle. It is safe for concurrent use;
// in particular, HandleUnauthorized may be invoked from multiple
// in-flight requests at once and destroys the session exactly once.
type Controller struct {
	client *api.Client
	tokens tokenstore.Store
	logger *slog.Logger
	now    func() time.Time

	// onExpired is notified once per forced session destruction. The
	// application shell uses it to return to the unauthenticated entry
	// point, decoupling the HTTP pipeline from navigation.
	onExpired func()

	mu      sync.Mutex
	state   State
	current *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithExpiredHandler registers the callback fired when the session is
// destroyed by an unauthorized response.
func WithExpiredHandler(handler func()) Option {
	return func(c *Controller) {
		c.onExpired = handler
	}
}

// WithClock overrides the time source (for testing expiry handling).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a session controller over the given client and
// token store. The store must be the same one the client dispatches with.
func NewController(client *api.Client, tokens tokenstore.Store, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		tokens: tokens,
		now:    time.Now,
		state:  StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the current session, or nil when unauthenticated.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Login authenticates against the backend and persists the issued
// credential. On failure the controller remains unauthenticated and the
// classified error is returned as-is.
func (c *Controller) Login(ctx context.Context, username, password string) (*Session, error) {
	c.mu.Lock()
	c.state = StateAuthenticating
	c.mu.Unlock()

	resp, err := c.client.Login(ctx, username, password)
	if err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.current = nil
		c.mu.Unlock()
		return nil, err
	}

	if err := c.tokens.Save(resp.Token); err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.current = nil
		c.mu.Unlock()
		return nil, err
	}

	// Decode failure is tolerated: the raw credential is what the
	// backend validates, the claims only inform UI gating.
	decoded, decodeErr := claims.Decode(resp.Token)
	if decodeErr != nil {
		c.logger.Warn("credential claims not decodable", "error", decodeErr)
		decoded = nil
	}

	profile := resp.User
	sess := &Session{
		Token:   resp.Token,
		Claims:  decoded,
		Profile: &profile,
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.current = sess
	c.mu.Unlock()

	c.logger.Info("session established",
		"user", profile.Username,
		"role", profile.Role,
	)
	return sess, nil
}

// Restore recreates a session from the persisted credential without a
// network round trip. A missing, undecodable, or expired credential
// yields no session; expired and undecodable credentials are cleared.
func (c *Controller) Restore() (*Session, bool) {
	token, err := c.tokens.Load()
	if err != nil {
		return nil, false
	}

	decoded, err := claims.Decode(token)
	if err != nil || decoded.Expired(c.now()) {
		// A credential we cannot vouch for locally is destroyed rather
		// than sent on startup.
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.logger.Warn("clear stale credential", "error", clearErr)
		}
		c.logger.Info("stored credential not restorable", "decodable", err == nil)
		return nil, false
	}

	sess := &Session{
		Token:  token,
		Claims: decoded,
		Profile: &api.User{
			ID:       decoded.UserID,
			Username: decoded.Subject,
			Role:     decoded.Role,
		},
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.current = sess
	c.mu.Unlock()

	c.logger.Info("session restored", "user", decoded.Subject, "role", decoded.Role)
	return sess, true
}

// RefreshProfile re-fetches the authenticated user's profile from the
// backend. The profile is never trusted from claims once a fetch is
// possible. Returns ErrNotAuthenticated when no session is current.
func (c *Controller) RefreshProfile(ctx context.Context) (*api.User, error) {
	c.mu.Lock()
	if c.state != StateAuthenticated || c.current == nil {
		c.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	id := c.current.Profile.ID
	c.mu.Unlock()

	user, err := c.client.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.Profile = user
	}
	c.mu.Unlock()
	return user, nil
}

// Logout destroys the session unconditionally. It never fails: a clear
// error is logged and the controller still transitions to
// unauthenticated.
func (c *Controller) Logout() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("clear token on logout", "error", err)
	}

	c.mu.Lock()
	c.state = StateUnauthenticated
	c.current = nil
	c.mu.Unlock()

	c.logger.Info("session destroyed", "reason", "logout")
}

// HandleUnauthorized reacts to an unauthorized response. Wire it to the
// client with api.WithUnauthorizedHook. Concurrent in-flight requests
// that each observe a 401 all land here; only the first destroys the
// session and notifies the expired handler, the rest are no-ops. Only an
// established session is eligible: a 401 observed while unauthenticated
// or mid-login never counts as forced expiry.
func (c *Controller) HandleUnauthorized() {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return
	}
	c.state = StateUnauthenticated
	c.current = nil
	c.mu.Unlock()

	// The client already cleared the store; clearing again is a no-op
	// but keeps this path correct when invoked directly.
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("clear token after unauthorized response", "error", err)
	}

	c.logger.Info("session destroyed", "reason", "unauthorized")
	if c.onExpired != nil {
		c.onExpired()
	}
}
