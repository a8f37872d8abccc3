package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/mctl/internal/testutil/mockhttp"
	"github.com/meridianhq/mctl/pkg/api"
	"github.com/meridianhq/mctl/pkg/apierror"
	"github.com/meridianhq/mctl/pkg/claims"
	"github.com/meridianhq/mctl/pkg/tokenstore"
)

func signToken(t *testing.T, c claims.Claims) string {
	t.Helper()
	key := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	raw, err := jwt.Signed(signer).Claims(c).Serialize()
	require.NoError(t, err)
	return raw
}

func newTestController(t *testing.T, serverURL string, opts ...Option) (*Controller, *tokenstore.MemStore) {
	t.Helper()
	store := tokenstore.NewMemStore()
	var ctrl *Controller
	client := api.New(serverURL,
		api.WithTokenStore(store),
		api.WithUnauthorizedHook(func() {
			if ctrl != nil {
				ctrl.HandleUnauthorized()
			}
		}),
	)
	ctrl = NewController(client, store, opts...)
	return ctrl, store
}

func TestLoginEstablishesSession(t *testing.T) {
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		Role:      "project_manager",
		UserID:    42,
	})
	server := mockhttp.New().
		JSON("/auth/login", api.LoginResponse{
			Token: token,
			User:  api.User{ID: 42, Username: "asha", Role: "project_manager"},
		}).
		Build()
	defer server.Close()

	ctrl, store := newTestController(t, server.URL)

	sess, err := ctrl.Login(context.Background(), "asha", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, ctrl.State())
	assert.Equal(t, "asha", sess.Profile.Username)
	require.NotNil(t, sess.Claims)
	assert.Equal(t, "project_manager", sess.Claims.Role)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestLoginFailureStaysUnauthenticated(t *testing.T) {
	server := mockhttp.New().
		JSONWithStatus("/auth/login", http.StatusUnauthorized, map[string]string{"error": "bad credentials"}).
		Build()
	defer server.Close()

	ctrl, store := newTestController(t, server.URL)

	_, err := ctrl.Login(context.Background(), "asha", "wrong")
	require.Error(t, err)
	assert.True(t, apierror.IsUnauthorized(err))
	assert.Equal(t, StateUnauthenticated, ctrl.State())
	assert.Nil(t, ctrl.Current())
	assert.False(t, store.Exists())
}

func TestRejectedLoginDoesNotFireExpiredHandler(t *testing.T) {
	server := mockhttp.New().
		JSONWithStatus("/auth/login", http.StatusUnauthorized, map[string]string{"error": "bad credentials"}).
		Build()
	defer server.Close()

	var expiredCalls int
	ctrl, _ := newTestController(t, server.URL,
		WithExpiredHandler(func() { expiredCalls++ }),
	)

	_, err := ctrl.Login(context.Background(), "asha", "wrong")
	require.Error(t, err)
	assert.True(t, apierror.IsUnauthorized(err))
	assert.Zero(t, expiredCalls, "a rejected login is not a session expiry")
}

func TestFailedReloginPreservesStoredCredential(t *testing.T) {
	server := mockhttp.New().
		JSONWithStatus("/auth/login", http.StatusUnauthorized, map[string]string{"error": "bad credentials"}).
		Build()
	defer server.Close()

	var expiredCalls int
	ctrl, store := newTestController(t, server.URL,
		WithExpiredHandler(func() { expiredCalls++ }),
	)

	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, store.Save(token))
	_, ok := ctrl.Restore()
	require.True(t, ok)

	_, err := ctrl.Login(context.Background(), "asha", "wrong")
	require.Error(t, err)

	stored, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, token, stored, "failed re-login must not destroy the stored credential")
	assert.Zero(t, expiredCalls)
}

func TestLoginToleratesOpaqueToken(t *testing.T) {
	server := mockhttp.New().
		JSON("/auth/login", api.LoginResponse{
			Token: "opaque-not-a-jwt",
			User:  api.User{ID: 1, Username: "asha"},
		}).
		Build()
	defer server.Close()

	ctrl, store := newTestController(t, server.URL)

	sess, err := ctrl.Login(context.Background(), "asha", "s3cret")
	require.NoError(t, err)
	assert.Nil(t, sess.Claims)
	assert.Equal(t, StateAuthenticated, ctrl.State())
	assert.True(t, store.Exists())
}

func TestRestoreIsNetworkFree(t *testing.T) {
	builder := mockhttp.New()
	capture := builder.Capture()
	server := builder.Build()
	defer server.Close()

	ctrl, store := newTestController(t, server.URL)
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		Role:      "consultant",
		UserID:    7,
	})
	require.NoError(t, store.Save(token))

	sess, ok := ctrl.Restore()
	require.True(t, ok)
	assert.Equal(t, StateAuthenticated, ctrl.State())
	assert.Equal(t, "asha", sess.Profile.Username)
	assert.Equal(t, "consultant", sess.Profile.Role)
	assert.Equal(t, int64(7), sess.Profile.ID)

	assert.Equal(t, 0, capture.Count(), "restore must not touch the network")
}

func TestRestoreClearsExpiredCredential(t *testing.T) {
	ctrl, store := newTestController(t, "http://unused.test")
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, store.Save(token))

	_, ok := ctrl.Restore()
	assert.False(t, ok)
	assert.Equal(t, StateUnauthenticated, ctrl.State())
	assert.False(t, store.Exists(), "expired credential must be destroyed")
}

func TestRestoreClearsUndecodableCredential(t *testing.T) {
	ctrl, store := newTestController(t, "http://unused.test")
	require.NoError(t, store.Save("not-a-jwt"))

	_, ok := ctrl.Restore()
	assert.False(t, ok)
	assert.False(t, store.Exists())
}

func TestRestoreWithClockOverride(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctrl, store := newTestController(t, "http://unused.test",
		WithClock(func() time.Time { return frozen }),
	)
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: frozen.Add(time.Minute).Unix(),
	})
	require.NoError(t, store.Save(token))

	_, ok := ctrl.Restore()
	assert.True(t, ok)
}

func TestRestoreWithNoCredential(t *testing.T) {
	ctrl, _ := newTestController(t, "http://unused.test")

	_, ok := ctrl.Restore()
	assert.False(t, ok)
	assert.Equal(t, StateUnauthenticated, ctrl.State())
}

func TestLogoutNeverFails(t *testing.T) {
	ctrl, store := newTestController(t, "http://unused.test")
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, store.Save(token))
	_, ok := ctrl.Restore()
	require.True(t, ok)

	ctrl.Logout()
	assert.Equal(t, StateUnauthenticated, ctrl.State())
	assert.Nil(t, ctrl.Current())
	assert.False(t, store.Exists())

	// Logging out while logged out is a no-op.
	ctrl.Logout()
	assert.Equal(t, StateUnauthenticated, ctrl.State())
}

func TestHandleUnauthorizedExactlyOnce(t *testing.T) {
	var expiredCalls int
	var mu sync.Mutex
	ctrl, store := newTestController(t, "http://unused.test",
		WithExpiredHandler(func() {
			mu.Lock()
			expiredCalls++
			mu.Unlock()
		}),
	)

	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, store.Save(token))
	_, ok := ctrl.Restore()
	require.True(t, ok)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.HandleUnauthorized()
		}()
	}
	wg.Wait()

	assert.Equal(t, StateUnauthenticated, ctrl.State())
	assert.False(t, store.Exists())
	assert.Equal(t, 1, expiredCalls, "expired handler must fire exactly once")
}

func TestHandleUnauthorizedWhileUnauthenticatedIsNoop(t *testing.T) {
	var expiredCalls int
	ctrl, _ := newTestController(t, "http://unused.test",
		WithExpiredHandler(func() { expiredCalls++ }),
	)

	ctrl.HandleUnauthorized()
	assert.Zero(t, expiredCalls)
}

func TestUnauthorizedResponseDestroysSession(t *testing.T) {
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		UserID:    42,
	})
	server := mockhttp.New().
		JSONWithStatus("/users/42", http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"}).
		Build()
	defer server.Close()

	var expiredCalls int
	ctrl, store := newTestController(t, server.URL,
		WithExpiredHandler(func() { expiredCalls++ }),
	)
	require.NoError(t, store.Save(token))
	_, ok := ctrl.Restore()
	require.True(t, ok)

	_, err := ctrl.RefreshProfile(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsUnauthorized(err))
	assert.Equal(t, StateUnauthenticated, ctrl.State())
	assert.False(t, store.Exists())
	assert.Equal(t, 1, expiredCalls)
}

func TestRefreshProfile(t *testing.T) {
	token := signToken(t, claims.Claims{
		Subject:   "asha",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		Role:      "consultant",
		UserID:    7,
	})
	server := mockhttp.New().
		JSON("/users/7", api.User{ID: 7, Username: "asha", FullName: "Asha Rao", Role: "consultant"}).
		Build()
	defer server.Close()

	ctrl, store := newTestController(t, server.URL)
	require.NoError(t, store.Save(token))
	_, ok := ctrl.Restore()
	require.True(t, ok)

	profile, err := ctrl.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.FullName)
	assert.Equal(t, "Asha Rao", ctrl.Current().Profile.FullName)
}

func TestRefreshProfileWhileUnauthenticated(t *testing.T) {
	ctrl, _ := newTestController(t, "http://unused.test")

	profile, err := ctrl.RefreshProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Nil(t, profile)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticating", StateAuthenticating.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
