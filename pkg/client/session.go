package client

import "sync"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Identity is what the session remembers about the signed-in user. Role and
// DisplayName are both present or the identity is treated as absent.
type Identity struct {
	Role        Role
	DisplayName string
	Token       string
}

func (id Identity) complete() bool {
	return id.Role != "" && id.DisplayName != ""
}

// SessionStore holds the identity for the lifetime of a session. One writer
// (the login/logout flow) and any number of readers (role gates).
type SessionStore struct {
	mu       sync.RWMutex
	identity Identity
	present  bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set installs an identity. A partial identity clears the store instead, so
// a corrupted write can never half-authenticate a session.
func (s *SessionStore) Set(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !identity.complete() {
		s.identity = Identity{}
		s.present = false
		return
	}
	s.identity = identity
	s.present = true
}

func (s *SessionStore) Get() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present || !s.identity.complete() {
		return Identity{}, false
	}
	return s.identity, true
}

func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
	s.present = false
}
