// Package session persists the authentication credential between runs.
// The session lives as a JSON file under $DASHKIT_CONFIG_DIR (or ~/.dashkit)
// with owner-only permissions.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnvConfigDir overrides where the session file is stored.
const EnvConfigDir = "DASHKIT_CONFIG_DIR"

const sessionFile = "session.json"

// ErrNoSession is returned when no credential is stored.
var ErrNoSession = errors.New("no active session")

// ErrExpired is returned when the stored credential has expired.
var ErrExpired = errors.New("session expired")

// Session is the persisted credential.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s *Session) expired() bool {
	return s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt)
}

// Store reads and writes the session file. It caches the loaded session in
// memory behind a mutex; the api client reads through Token on every call.
type Store struct {
	mu   sync.RWMutex
	dir  string
	sess *Session
}

// Open resolves the session directory ($DASHKIT_CONFIG_DIR, else ~/.dashkit),
// creating it with 0700 if needed.
func Open() (*Store, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create config directory: %w", err)
		}
		return &Store{dir: dir}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".dashkit")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create .dashkit directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path() string { return filepath.Join(s.dir, sessionFile) }

// Load reads the session from disk (or the in-memory cache).
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil {
		if s.sess.expired() {
			return nil, ErrExpired
		}
		return s.sess, nil
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.expired() {
		return nil, ErrExpired
	}

	s.sess = &sess
	return s.sess, nil
}

// Save persists the session to disk with 0600 permissions.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.sess = sess
	return nil
}

// Clear removes the session from disk and memory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path()); err == nil {
		if err := os.Remove(s.path()); err != nil {
			return fmt.Errorf("remove session file: %w", err)
		}
	}
	s.sess = nil
	return nil
}

// IsAuthenticated reports whether a live (non-expired) session exists.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Token implements api.TokenSource: the current credential, if any.
// Missing or expired sessions report no token.
func (s *Store) Token() (string, bool) {
	sess, err := s.Load()
	if err != nil || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
