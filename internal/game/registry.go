package game

import "sync"

// Registry is the process-wide index of live sessions. It answers lookups by
// game code, by admin connection, and by player connection, and is the
// authority on code uniqueness among currently active games.
type Registry struct {
	mu      sync.RWMutex
	byCode  map[string]*Session
	byAdmin map[string]string // admin connID -> code
	newCode func() string
}

func NewRegistry() *Registry {
	return &Registry{
		byCode:  make(map[string]*Session),
		byAdmin: make(map[string]string),
		newCode: NewCode,
	}
}

// Create stores a new session for the admin, generating codes until one is
// free. An admin already hosting a live game gets that game back instead of
// a duplicate; the second return reports whether a session was created.
func (r *Registry) Create(adminID string, build func(code string) *Session) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code, ok := r.byAdmin[adminID]; ok {
		return r.byCode[code], false
	}

	code := r.newCode()
	for {
		if _, taken := r.byCode[code]; !taken {
			break
		}
		code = r.newCode()
	}

	session := build(code)
	r.byCode[code] = session
	r.byAdmin[adminID] = code
	return session, true
}

// GetByCode resolves a live session from its public game code.
func (r *Registry) GetByCode(code string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byCode[code]
	return s, ok
}

// GetByAdmin resolves the session an admin connection controls.
func (r *Registry) GetByAdmin(adminID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.byAdmin[adminID]
	if !ok {
		return nil, false
	}
	s, ok := r.byCode[code]
	return s, ok
}

// GetByPlayer scans live rosters for the session containing the player. The
// scan reflects current membership, not a snapshot taken at join time.
func (r *Registry) GetByPlayer(connID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.byCode {
		if s.HasPlayer(connID) {
			return s, true
		}
	}
	return nil, false
}

// Remove tears the session down and drops it from every index. The code
// becomes free for reuse by later games. Removing an unknown code is a
// no-op.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byCode[code]
	if !ok {
		return
	}
	s.Teardown()
	delete(r.byCode, code)
	delete(r.byAdmin, s.AdminID())
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}
