package notices

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

type stubRegistry struct {
	profile jurisdiction.Profile
}

func (s *stubRegistry) Active() (jurisdiction.Profile, bool) {
	if s.profile == nil {
		return nil, false
	}
	return s.profile, true
}

type captureAuditor struct {
	events []domain.AuditEvent
}

func (c *captureAuditor) Record(ev domain.AuditEvent) { c.events = append(c.events, ev) }

type captureNotifier struct {
	receipts []domain.Receipt
	err      error
}

func (c *captureNotifier) Notify(receipt domain.Receipt, n domain.Notice) error {
	if c.err != nil {
		return c.err
	}
	c.receipts = append(c.receipts, receipt)
	return nil
}

func validEUNotice() domain.Notice {
	return domain.Notice{
		"complainant_name":            "Jane Q. Author",
		"contact_email":               "jane@example.com",
		"infringing_cid":              "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"illegal_content_explanation": "Unauthorized full copy",
		"good_faith_statement":        "I have a good faith belief",
	}
}

func newTestService(t *testing.T, reg *stubRegistry, aud *captureAuditor, notifier Notifier) *Service {
	t.Helper()
	s, err := New(Options{
		Registry: reg,
		Audit:    aud,
		Notifier: notifier,
		Clock:    clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Logger:   log.NewNoopLogger(),
	})
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return s
}

func TestSubmitValidNotice(t *testing.T) {
	aud := &captureAuditor{}
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, aud, nil)

	receipt, err := s.Submit(validEUNotice())
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	if receipt.CountryCode != "EU" {
		t.Errorf("CountryCode = %q, want EU", receipt.CountryCode)
	}
	if receipt.SLAHours != 24 {
		t.Errorf("SLAHours = %d, want 24", receipt.SLAHours)
	}
	if receipt.CID != "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG" {
		t.Errorf("CID = %q, want the infringing CID", receipt.CID)
	}
	if !strings.HasPrefix(receipt.Reference, "EU-20250601120000-") {
		t.Errorf("Reference = %q, want EU-<timestamp>-<tail>", receipt.Reference)
	}

	if len(aud.events) != 1 || aud.events[0].Type != domain.AuditNoticeSubmitted {
		t.Errorf("audit events = %v, want one notice_submitted", aud.events)
	}
}

func TestSubmitInvalidNoticeRejected(t *testing.T) {
	aud := &captureAuditor{}
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, aud, nil)

	n := validEUNotice()
	delete(n, "good_faith_statement")

	_, err := s.Submit(n)
	var verr *jurisdiction.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ValidationError: %v", err, err)
	}
	if verr.Field != "good_faith_statement" {
		t.Errorf("field = %q, want good_faith_statement", verr.Field)
	}

	// A rejected notice leaves no trace.
	if len(aud.events) != 0 {
		t.Errorf("audit events = %v, want none for a rejected notice", aud.events)
	}
}

func TestSubmitWithoutActiveProfile(t *testing.T) {
	s := newTestService(t, &stubRegistry{}, &captureAuditor{}, nil)

	_, err := s.Submit(validEUNotice())
	if err == nil {
		t.Fatal("Submit() succeeded with no active profile")
	}
}

func TestLookup(t *testing.T) {
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, &captureAuditor{}, nil)

	receipt, err := s.Submit(validEUNotice())
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	got, ok := s.Lookup(receipt.Reference)
	if !ok {
		t.Fatalf("Lookup(%q) not found", receipt.Reference)
	}
	if got.Reference != receipt.Reference {
		t.Errorf("Lookup returned %+v, want %+v", got, receipt)
	}

	if _, ok := s.Lookup("EU-00000000000000-deadbeef"); ok {
		t.Error("Lookup of unknown reference succeeded")
	}
}

func TestNotifierReceivesAcceptedNotice(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, &captureAuditor{}, notifier)

	receipt, err := s.Submit(validEUNotice())
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if len(notifier.receipts) != 1 || notifier.receipts[0].Reference != receipt.Reference {
		t.Errorf("notifier receipts = %v, want the accepted receipt", notifier.receipts)
	}
}

func TestNotifierFailureIsSwallowed(t *testing.T) {
	notifier := &captureNotifier{err: errors.New("smtp down")}
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, &captureAuditor{}, notifier)

	if _, err := s.Submit(validEUNotice()); err != nil {
		t.Errorf("Submit() failed because of the notifier: %v", err)
	}
}

func TestReferencesAreUnique(t *testing.T) {
	s := newTestService(t, &stubRegistry{profile: jurisdiction.NewEUProfile()}, &captureAuditor{}, nil)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		receipt, err := s.Submit(validEUNotice())
		if err != nil {
			t.Fatalf("Submit(): %v", err)
		}
		if _, dup := seen[receipt.Reference]; dup {
			t.Fatalf("duplicate reference %q", receipt.Reference)
		}
		seen[receipt.Reference] = struct{}{}
	}
}
