package jurisdiction

import (
	"fmt"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// euProfile implements the EU Digital Services Act notice-and-action
// mechanism, Regulation (EU) 2022/2065. Lighter field set and the shortest
// SLA of the built-in profiles.
type euProfile struct{}

// NewEUProfile returns the EU DSA profile.
func NewEUProfile() Profile { return euProfile{} }

func (euProfile) CountryCode() string  { return "EU" }
func (euProfile) LawName() string      { return "DSA (Digital Services Act)" }
func (euProfile) LawReference() string { return "Regulation (EU) 2022/2065" }
func (euProfile) SLAHours() int        { return 24 }

func (euProfile) RequiredFields() []string {
	return []string{
		"complainant_name",
		domain.FieldContactEmail,
		domain.FieldInfringingCID,
		"illegal_content_explanation",
		"good_faith_statement",
	}
}

func (p euProfile) ValidateNotice(n domain.Notice) error {
	return validateCommon(n, p.RequiredFields(), domain.FieldContactEmail, messages{
		missingField: func(f string) string { return fmt.Sprintf("Missing required field: %s", f) },
		invalidCID:   "Invalid IPFS CID format",
		invalidEmail: "Invalid email address",
	})
}

func (euProfile) NoticeTemplate() string {
	return `# DSA Notice and Action Mechanism

## Article 16 Requirements - Notification of Illegal Content

### 1. Complainant Information
Full name or company name and email address.

### 2. Description of Illegal Content
- **IPFS CID:** ` + "`ipfs://...`" + `
- **Legal Basis:** which law or regulation is violated
- **Explanation:** why this content is illegal

### 3. Statement of Good Faith
*"I confirm that I have a good faith belief that the information and
allegations in this notice are accurate and complete."*

## Your Rights Under DSA
- **Article 20:** right to complain about content moderation decisions
- **Article 23:** we will provide a Statement of Reasons for our decision

**Response Time:** 24 hours for illegal content.
`
}

func (euProfile) CounterNoticeTemplate() string {
	return `# DSA Complaint (Article 20)

## Right to Complain About Content Moderation Decisions

1. Your name, email, and the reference ID from the takedown notice.
2. The blocked CID, removal date, and the Statement of Reasons you received.
3. Grounds for complaint and any supporting evidence.

**Processing Time:** We will review your complaint within 7 days and provide
a detailed Statement of Reasons for our final decision.

**Further Appeal:** If unsatisfied, you may submit the dispute to a certified
out-of-court dispute settlement body.
`
}

func (euProfile) FooterHTML() string {
	return `<div class="dsa-badge">DSA Compliant Gateway (European Union) &mdash; <a href="/copyright/report">Report Illegal Content</a> &mdash; <small>Regulation (EU) 2022/2065 compliant</small></div>`
}

func (euProfile) TakedownReasons() map[string]string {
	return map[string]string{
		"copyright":       "Copyright Infringement",
		"illegal_content": "Illegal Content (DSA)",
		"hate_speech":     "Hate Speech",
		"csam":            "Child Sexual Abuse Material",
		"terrorism":       "Terrorist Content",
	}
}

func (euProfile) BlockedPageText(reason, language string) domain.BlockedPage {
	if language == "pl" {
		return domain.BlockedPage{
			Title:   "451 - Treść niedostępna z przyczyn prawnych",
			Message: "Ta treść została zablokowana zgodnie z Digital Services Act (DSA).",
			Reason:  reason,
			Law:     "Rozporządzenie (UE) 2022/2065",
			Action:  "Jeśli uważasz, że usunięcie było błędne, możesz złożyć skargę.",
			Link:    "/dsa-complaint",
		}
	}
	return domain.BlockedPage{
		Title:   "451 - Content Unavailable For Legal Reasons",
		Message: "This content has been blocked under the Digital Services Act (DSA).",
		Reason:  reason,
		Law:     "Regulation (EU) 2022/2065",
		Action:  "If you believe this removal was incorrect, you may file a complaint.",
		Link:    "/dsa-complaint",
	}
}
