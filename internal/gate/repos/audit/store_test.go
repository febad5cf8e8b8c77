package audit

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		ev := domain.AuditEvent{
			Type:    domain.AuditContentAccess,
			CID:     fmt.Sprintf("Qm%d", i),
			Details: fmt.Sprintf("request %d", i),
		}
		if err := s.Append(ev); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}

	events, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent(): %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Recent(3) returned %d events, want 3", len(events))
	}
	// Newest first.
	for i, wantCID := range []string{"Qm4", "Qm3", "Qm2"} {
		if events[i].CID != wantCID {
			t.Errorf("events[%d].CID = %q, want %q", i, events[i].CID, wantCID)
		}
	}
}

func TestRecentMoreThanStored(t *testing.T) {
	s := openTestStore(t)

	if err := s.Append(domain.AuditEvent{Type: domain.AuditStartup}); err != nil {
		t.Fatalf("Append(): %v", err)
	}

	events, err := s.Recent(100)
	if err != nil {
		t.Fatalf("Recent(): %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Recent(100) returned %d events, want 1", len(events))
	}
}

func TestRecentZero(t *testing.T) {
	s := openTestStore(t)
	events, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0): %v", err)
	}
	if events != nil {
		t.Errorf("Recent(0) = %v, want nil", events)
	}
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(); err != nil {
		t.Errorf("Ping(): %v", err)
	}
}

func TestReopenPreservesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	if err := s.Append(domain.AuditEvent{Type: domain.AuditBlockHit, CID: "QmPersisted"}); err != nil {
		t.Fatalf("Append(): %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	events, err := s2.Recent(1)
	if err != nil {
		t.Fatalf("Recent(): %v", err)
	}
	if len(events) != 1 || events[0].CID != "QmPersisted" {
		t.Errorf("Recent() after reopen = %v, want the persisted event", events)
	}
}
