package jurisdiction

import (
	"errors"
	"strings"
	"testing"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// validNotice returns a submission that satisfies every built-in profile.
func validNotice() domain.Notice {
	return domain.Notice{
		"copyright_owner":              "Jane Q. Author",
		"author_name":                  "Jane Q. Author",
		"complainant_name":             "Jane Q. Author",
		"contact_email":                "jane@example.com",
		"contact_address":              "1 Example Street",
		"contact_phone":                "+1 555 0100",
		"infringing_cid":               "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"copyrighted_work_description": "A novel",
		"work_description":             "A novel",
		"illegal_content_explanation":  "Unauthorized full copy",
		"justification":                "Unauthorized full copy",
		"moral_rights_statement":       "I attest my moral rights are infringed",
		"economic_rights_statement":    "I hold the economic rights",
		"good_faith_statement":         "I have a good faith belief",
		"accuracy_statement":           "Accurate under penalty of perjury",
		"signature":                    "Jane Q. Author",
	}
}

func fieldError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ValidationError: %v", err, err)
	}
	return verr
}

func TestProfileMetadata(t *testing.T) {
	tests := []struct {
		profile  Profile
		code     string
		slaHours int
	}{
		{NewUSProfile(), "US", 48},
		{NewEUProfile(), "EU", 24},
		{NewFRProfile(), "FR", 72},
		{NewPLProfile(), "PL", 72},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := tt.profile.CountryCode(); got != tt.code {
				t.Errorf("CountryCode() = %q, want %q", got, tt.code)
			}
			if got := tt.profile.SLAHours(); got != tt.slaHours {
				t.Errorf("SLAHours() = %d, want %d", got, tt.slaHours)
			}
			if tt.profile.LawName() == "" || tt.profile.LawReference() == "" {
				t.Error("law metadata must not be empty")
			}
			if tt.profile.NoticeTemplate() == "" || tt.profile.CounterNoticeTemplate() == "" {
				t.Error("templates must not be empty")
			}
			if len(tt.profile.RequiredFields()) == 0 {
				t.Error("RequiredFields() must not be empty")
			}
			if len(tt.profile.TakedownReasons()) == 0 {
				t.Error("TakedownReasons() must not be empty")
			}
		})
	}
}

func TestEUHasShortestSLA(t *testing.T) {
	eu := NewEUProfile().SLAHours()
	for _, p := range []Profile{NewUSProfile(), NewFRProfile(), NewPLProfile()} {
		if p.SLAHours() <= eu {
			t.Errorf("%s SLA %dh should exceed EU's %dh", p.CountryCode(), p.SLAHours(), eu)
		}
	}
}

func TestValidNoticeAcceptedByAllProfiles(t *testing.T) {
	for _, p := range []Profile{NewUSProfile(), NewEUProfile(), NewFRProfile(), NewPLProfile()} {
		if err := p.ValidateNotice(validNotice()); err != nil {
			t.Errorf("%s rejected a valid notice: %v", p.CountryCode(), err)
		}
	}
}

func TestMissingRequiredFieldRejected(t *testing.T) {
	for _, p := range []Profile{NewUSProfile(), NewEUProfile(), NewFRProfile(), NewPLProfile()} {
		t.Run(p.CountryCode(), func(t *testing.T) {
			for _, field := range p.RequiredFields() {
				n := validNotice()
				delete(n, field)
				err := p.ValidateNotice(n)
				if err == nil {
					t.Errorf("notice missing %q was accepted", field)
					continue
				}
				if verr := fieldError(t, err); verr.Field != field {
					t.Errorf("error names field %q, want %q", verr.Field, field)
				}
			}
		})
	}
}

func TestUSRequiresAccuracyStatement(t *testing.T) {
	n := validNotice()
	delete(n, "accuracy_statement")

	err := NewUSProfile().ValidateNotice(n)
	verr := fieldError(t, err)
	if verr.Field != "accuracy_statement" {
		t.Errorf("field = %q, want accuracy_statement", verr.Field)
	}

	// The EU profile has no such requirement.
	if err := NewEUProfile().ValidateNotice(n); err != nil {
		t.Errorf("EU rejected a notice without accuracy_statement: %v", err)
	}
}

func TestFRRequiresMoralRightsStatement(t *testing.T) {
	n := validNotice()
	delete(n, "moral_rights_statement")

	err := NewFRProfile().ValidateNotice(n)
	verr := fieldError(t, err)
	if verr.Field != "moral_rights_statement" {
		t.Errorf("field = %q, want moral_rights_statement", verr.Field)
	}
	// Localized wording.
	if !strings.Contains(verr.Message, "requis") && !strings.Contains(verr.Message, "manquant") {
		t.Errorf("FR error not localized: %q", verr.Message)
	}
}

func TestInvalidCIDRejected(t *testing.T) {
	n := validNotice()
	n["infringing_cid"] = "not-a-cid"

	for _, p := range []Profile{NewUSProfile(), NewEUProfile(), NewFRProfile(), NewPLProfile()} {
		err := p.ValidateNotice(n)
		if err == nil {
			t.Errorf("%s accepted an invalid CID", p.CountryCode())
			continue
		}
		if verr := fieldError(t, err); verr.Field != domain.FieldInfringingCID {
			t.Errorf("%s error field = %q, want %q", p.CountryCode(), verr.Field, domain.FieldInfringingCID)
		}
	}
}

func TestInvalidEmailRejected(t *testing.T) {
	n := validNotice()
	n["contact_email"] = "no-at-sign"

	err := NewUSProfile().ValidateNotice(n)
	verr := fieldError(t, err)
	if verr.Field != domain.FieldContactEmail {
		t.Errorf("field = %q, want %q", verr.Field, domain.FieldContactEmail)
	}
}

func TestEUBlockedPageLocalization(t *testing.T) {
	p := NewEUProfile()

	en := p.BlockedPageText("dmca", "")
	if !strings.Contains(en.Law, "2022/2065") {
		t.Errorf("english page law = %q, want DSA reference", en.Law)
	}

	pl := p.BlockedPageText("dmca", "pl")
	if pl.Title == en.Title {
		t.Error("pl variant should differ from the english default")
	}
	if pl.Reason != "dmca" {
		t.Errorf("reason = %q, want dmca passed through", pl.Reason)
	}
}

func TestBlockedPageCarriesReason(t *testing.T) {
	for _, p := range []Profile{NewUSProfile(), NewEUProfile(), NewFRProfile(), NewPLProfile()} {
		page := p.BlockedPageText("malware", "")
		if page.Reason != "malware" {
			t.Errorf("%s page reason = %q, want malware", p.CountryCode(), page.Reason)
		}
		if page.Title == "" || page.Message == "" || page.Law == "" {
			t.Errorf("%s page has empty fields: %+v", p.CountryCode(), page)
		}
	}
}
