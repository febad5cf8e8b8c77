// Package jurisdiction holds the compliance profiles that shape the gateway's
// legal surface: required notice fields, validation rules, SLAs, and the
// localized copy rendered on blocked responses. Exactly one profile is active
// at a time; the set of known profiles is fixed at process start.
package jurisdiction

import "github.com/haukened/cid-gate/internal/gate/domain"

// Profile is the capability set every jurisdiction implements. Profiles are
// immutable after construction.
type Profile interface {
	// CountryCode returns the ISO code, e.g. "US", "EU", "FR", "PL".
	CountryCode() string
	// LawName names the governing act, e.g. "DMCA (Digital Millennium Copyright Act)".
	LawName() string
	// LawReference cites the statute, e.g. "17 U.S.C. § 512".
	LawReference() string
	// RequiredFields lists the notice form fields this jurisdiction mandates, in order.
	RequiredFields() []string
	// SLAHours is the required response time for a valid notice.
	SLAHours() int
	// NoticeTemplate returns the takedown notice template (markdown).
	NoticeTemplate() string
	// CounterNoticeTemplate returns the counter-notice template for disputed takedowns.
	CounterNoticeTemplate() string
	// ValidateNotice checks a submission against this jurisdiction's rules.
	// The first failing check short-circuits with a *ValidationError whose
	// message is written in the jurisdiction's language where applicable.
	ValidateNotice(n domain.Notice) error
	// BlockedPageText returns localized copy for the HTTP 451 response.
	// Unknown languages fall back to the profile's default language.
	BlockedPageText(reason, language string) domain.BlockedPage
	// FooterHTML returns the compliance badge for the site footer.
	FooterHTML() string
	// TakedownReasons maps valid reason codes to human-readable descriptions.
	TakedownReasons() map[string]string
}

// ValidationError is a structured notice rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
