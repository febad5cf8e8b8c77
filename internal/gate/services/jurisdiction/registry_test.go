package jurisdiction

import (
	"testing"

	"github.com/haukened/cid-gate/internal/gate/common/log"
)

func TestDefaultRegistryProfiles(t *testing.T) {
	r := NewDefaultRegistry(log.NewNoopLogger())

	list := r.List()
	for _, code := range []string{"US", "EU", "FR", "PL"} {
		if _, ok := list[code]; !ok {
			t.Errorf("List() missing %s", code)
		}
		if _, ok := r.Get(code); !ok {
			t.Errorf("Get(%s) not found", code)
		}
	}
	if len(list) != 4 {
		t.Errorf("List() has %d entries, want 4", len(list))
	}
}

func TestNoActiveProfileAtConstruction(t *testing.T) {
	r := NewDefaultRegistry(log.NewNoopLogger())
	if _, ok := r.Active(); ok {
		t.Error("Active() reported a profile before SetActive was called")
	}
}

func TestSetActive(t *testing.T) {
	r := NewDefaultRegistry(log.NewNoopLogger())

	if !r.SetActive("FR") {
		t.Fatal("SetActive(FR) = false, want true")
	}
	p, ok := r.Active()
	if !ok || p.CountryCode() != "FR" {
		t.Fatalf("Active() = %v, %v, want FR profile", p, ok)
	}

	// Case-insensitive and whitespace-tolerant.
	if !r.SetActive(" us ") {
		t.Error("SetActive(' us ') = false, want true")
	}
	p, _ = r.Active()
	if p.CountryCode() != "US" {
		t.Errorf("Active() = %s, want US", p.CountryCode())
	}
}

func TestSetActiveUnknownLeavesActiveUnchanged(t *testing.T) {
	r := NewDefaultRegistry(log.NewNoopLogger())
	r.SetActive("EU")

	if r.SetActive("XX") {
		t.Error("SetActive(XX) = true, want false")
	}
	p, ok := r.Active()
	if !ok || p.CountryCode() != "EU" {
		t.Errorf("Active() after failed switch = %v, want EU unchanged", p)
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewDefaultRegistry(log.NewNoopLogger())
	if _, ok := r.Get("ZZ"); ok {
		t.Error("Get(ZZ) = true, want false")
	}
}

func TestFallbackBlockedPage(t *testing.T) {
	page := FallbackBlockedPage("malware")
	if page.Reason != "malware" {
		t.Errorf("Reason = %q, want malware", page.Reason)
	}
	if page.Title == "" || page.Message == "" || page.Law == "" {
		t.Errorf("fallback page has empty fields: %+v", page)
	}
}
