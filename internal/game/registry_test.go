package game

import "testing"

func newTestRegistry(codes ...string) *Registry {
	r := NewRegistry()
	if len(codes) > 0 {
		i := 0
		r.newCode = func() string {
			code := codes[i%len(codes)]
			i++
			return code
		}
	}
	return r
}

func buildSession(adminID string) func(code string) *Session {
	return func(code string) *Session {
		return NewSession(code, adminID, testQuiz())
	}
}

func TestRegistryCreateAndLookup(t *testing.T) {
	r := NewRegistry()

	s, created := r.Create("admin-1", buildSession("admin-1"))
	if !created || s == nil {
		t.Fatalf("expected new session")
	}
	if len(s.Code()) != codeLength {
		t.Fatalf("unexpected code %q", s.Code())
	}

	if got, ok := r.GetByCode(s.Code()); !ok || got != s {
		t.Fatalf("lookup by code failed")
	}
	if got, ok := r.GetByAdmin("admin-1"); !ok || got != s {
		t.Fatalf("lookup by admin failed")
	}
}

func TestRegistryOneSessionPerAdmin(t *testing.T) {
	r := NewRegistry()

	first, _ := r.Create("admin-1", buildSession("admin-1"))
	second, created := r.Create("admin-1", buildSession("admin-1"))
	if created {
		t.Fatalf("repeated create must not make a duplicate")
	}
	if second != first {
		t.Fatalf("expected the existing session back")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", r.Len())
	}
}

func TestRegistryRetriesOnCodeCollision(t *testing.T) {
	r := newTestRegistry("AAAAAA", "AAAAAA", "BBBBBB")

	first, _ := r.Create("admin-1", buildSession("admin-1"))
	second, _ := r.Create("admin-2", buildSession("admin-2"))

	if first.Code() != "AAAAAA" {
		t.Fatalf("first code: %q", first.Code())
	}
	if second.Code() != "BBBBBB" {
		t.Fatalf("expected retry past the collision, got %q", second.Code())
	}
}

func TestRegistryPlayerLookupTracksRoster(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Create("admin-1", buildSession("admin-1"))

	if _, ok := r.GetByPlayer("c1"); ok {
		t.Fatalf("player not joined yet")
	}

	s.AddPlayer("c1", "Alice")
	if got, ok := r.GetByPlayer("c1"); !ok || got != s {
		t.Fatalf("player lookup should find the session")
	}

	s.RemovePlayer("c1")
	if _, ok := r.GetByPlayer("c1"); ok {
		t.Fatalf("player lookup must reflect live roster")
	}
}

func TestRegistryRemoveClearsAllIndexesAndFreesCode(t *testing.T) {
	r := newTestRegistry("AAAAAA")

	s, _ := r.Create("admin-1", buildSession("admin-1"))
	s.AddPlayer("c1", "Alice")
	code := s.Code()

	r.Remove(code)

	if _, ok := r.GetByCode(code); ok {
		t.Fatalf("code index not cleared")
	}
	if _, ok := r.GetByAdmin("admin-1"); ok {
		t.Fatalf("admin index not cleared")
	}
	if _, ok := r.GetByPlayer("c1"); ok {
		t.Fatalf("player index not cleared")
	}

	// The same code can back a fresh game afterwards.
	reused, created := r.Create("admin-2", buildSession("admin-2"))
	if !created || reused.Code() != "AAAAAA" {
		t.Fatalf("expected code reuse, got %q created=%v", reused.Code(), created)
	}
	if reused.PlayerCount() != 0 {
		t.Fatalf("reused code must not carry residual state")
	}

	// Removing an unknown code is a no-op.
	r.Remove("ZZZZZZ")
}
