// Package tokenstore persists the current bearer credential for the
// Meridian CLI. Storage is purely mechanical: no expiry checks, no
// decoding. Absence of a stored token means unauthenticated.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Store provides access to the persisted bearer credential.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the stored token.
	// Returns ErrTokenNotFound if no token is stored.
	Load() (string, error)

	// Save stores a token, replacing any prior value.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error

	// Exists returns true if a token is stored.
	Exists() bool

	// Path returns the storage location (for display purposes).
	Path() string
}

var (
	// ErrTokenNotFound indicates no token is stored.
	ErrTokenNotFound = errors.New("token not found")

	// ErrInvalidPermissions indicates the token file is readable by other users.
	ErrInvalidPermissions = errors.New("insecure file permissions: token file accessible to other users")
)

// IsNotFound returns true if the error is due to a missing token.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTokenNotFound) || errors.Is(err, fs.ErrNotExist)
}

// FileStore stores the bearer token in a single file with owner-only
// permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the token file location. The MCTL_TOKEN_PATH
// environment variable overrides the default (useful for testing).
func DefaultPath() string {
	if env := os.Getenv("MCTL_TOKEN_PATH"); env != "" {
		return env
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".mctl", "token")
}

// Load loads the token from the file.
// Returns ErrTokenNotFound if the file doesn't exist.
// Returns ErrInvalidPermissions if the file is accessible to other users.
func (s *FileStore) Load() (string, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("stat token file: %w", err)
	}

	// Windows ACLs are not expressible through file mode bits.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		return "", ErrInvalidPermissions
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Save writes the token with owner-only permissions, replacing any prior
// value. Creates parent directories if they don't exist.
func (s *FileStore) Save(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	// Write-then-rename so a concurrent Load never observes a partial token.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Safe to call when no token exists.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Exists returns true if the token file exists.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// MemStore is an in-memory token store, used in tests and embedding
// contexts where durable storage is not wanted.
type MemStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemStore creates an empty in-memory token store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the stored token, or ErrTokenNotFound.
func (s *MemStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrTokenNotFound
	}
	return s.token, nil
}

// Save stores a token, replacing any prior value.
func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Clear removes the stored token.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// Exists returns true if a token is stored.
func (s *MemStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Path returns a placeholder for in-memory stores.
func (s *MemStore) Path() string {
	return "(memory)"
}

// Ensure interfaces are implemented
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemStore)(nil)
)
