package jurisdiction

import (
	"fmt"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// usProfile implements DMCA compliance for the United States.
// 17 U.S.C. § 512 safe harbor provisions.
type usProfile struct{}

// NewUSProfile returns the US DMCA profile.
func NewUSProfile() Profile { return usProfile{} }

func (usProfile) CountryCode() string  { return "US" }
func (usProfile) LawName() string      { return "DMCA (Digital Millennium Copyright Act)" }
func (usProfile) LawReference() string { return "17 U.S.C. § 512" }
func (usProfile) SLAHours() int        { return 48 }

func (usProfile) RequiredFields() []string {
	return []string{
		"copyright_owner",
		domain.FieldContactEmail,
		"contact_address",
		"contact_phone",
		domain.FieldInfringingCID,
		"copyrighted_work_description",
		"good_faith_statement",
		"accuracy_statement",
		"signature",
	}
}

func (p usProfile) ValidateNotice(n domain.Notice) error {
	err := validateCommon(n, p.RequiredFields(), domain.FieldContactEmail, messages{
		missingField: func(f string) string { return fmt.Sprintf("Missing required field: %s", f) },
		invalidCID:   "Invalid IPFS CID format",
		invalidEmail: "Invalid email address",
	})
	if err != nil {
		return err
	}
	// Both statements must be explicit affirmations, not just present.
	if n.Get("good_faith_statement") == "" {
		return &ValidationError{Field: "good_faith_statement", Message: "Good faith statement is required"}
	}
	if n.Get("accuracy_statement") == "" {
		return &ValidationError{Field: "accuracy_statement", Message: "Accuracy statement under penalty of perjury is required"}
	}
	return nil
}

func (usProfile) NoticeTemplate() string {
	return `# DMCA Takedown Notice

## Required Information Under 17 U.S.C. § 512(c)(3)

### 1. Identification of Copyrighted Work
- **Title / Author / Registration number / Description**

### 2. Identification of Infringing Material
- **IPFS CID:** ` + "`ipfs://...`" + `
- **Description:** how the material infringes your copyright

### 3. Contact Information
- Full legal name, physical address, email address, phone number

### 4. Good Faith Statement
*"I have a good faith belief that use of the copyrighted material described
above in the manner complained of is not authorized by the copyright owner,
its agent, or the law."*

### 5. Accuracy Statement (Under Penalty of Perjury)
*"The information in this notification is accurate, and under penalty of
perjury, I am the copyright owner or authorized to act on behalf of the owner
of an exclusive right that is allegedly infringed."*

### 6. Signature
Physical or electronic signature and date.

**Important:** False claims may result in liability under 17 U.S.C. § 512(f).
**Response Time:** We will respond within 48 hours.
`
}

func (usProfile) CounterNoticeTemplate() string {
	return `# DMCA Counter-Notice

## Under 17 U.S.C. § 512(g)

1. Identification of the removed material (CID, original URL, removal date).
2. Your name, address, phone, and email.
3. Statement under penalty of perjury that the material was removed as a
   result of mistake or misidentification.
4. Consent to the jurisdiction of the Federal District Court for your
   judicial district, and acceptance of service of process from the original
   complainant.
5. Signature and date.

**Processing Time:** Content may be restored in 10-14 business days unless
the original complainant files a court action.
`
}

func (usProfile) FooterHTML() string {
	return `<div class="dmca-badge">DMCA Compliant Gateway (USA) &mdash; <a href="/copyright/report">Report Copyright Infringement</a> &mdash; <small>Protected by 17 U.S.C. &sect; 512 Safe Harbor provisions</small></div>`
}

func (usProfile) TakedownReasons() map[string]string {
	return map[string]string{
		"dmca":      "DMCA Takedown Notice",
		"copyright": "Copyright Infringement",
		"trademark": "Trademark Infringement",
	}
}

func (usProfile) BlockedPageText(reason, language string) domain.BlockedPage {
	return domain.BlockedPage{
		Title:   "451 - Content Unavailable For Legal Reasons",
		Message: "This content has been removed in response to a DMCA takedown notice.",
		Reason:  reason,
		Law:     "17 U.S.C. § 512",
		Action:  "If you believe this removal was in error, you may file a DMCA counter-notice.",
		Link:    "/copyright/counter-notice",
	}
}
