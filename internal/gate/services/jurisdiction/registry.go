package jurisdiction

import (
	"strings"
	"sync/atomic"

	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// Registry holds the fixed set of compliance profiles and the process-wide
// "active" pointer. The profile set is built once from an explicit constructor
// list; there is no runtime discovery. The active pointer is an atomically
// swapped reference so request-path reads never block the admin switch.
type Registry struct {
	profiles map[string]Profile
	active   atomic.Pointer[Profile]
	logger   log.Logger
}

// NewRegistry builds a registry from the given profiles. Later duplicates of
// a country code win, matching explicit registration order.
func NewRegistry(logger log.Logger, profiles ...Profile) *Registry {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	r := &Registry{
		profiles: make(map[string]Profile, len(profiles)),
		logger:   logger,
	}
	for _, p := range profiles {
		r.profiles[strings.ToUpper(p.CountryCode())] = p
	}
	return r
}

// NewDefaultRegistry registers every built-in jurisdiction.
// Adding a jurisdiction means adding a constructor here; nothing else in the
// gateway references concrete profile types.
func NewDefaultRegistry(logger log.Logger) *Registry {
	return NewRegistry(logger,
		NewUSProfile(),
		NewEUProfile(),
		NewFRProfile(),
		NewPLProfile(),
	)
}

// SetActive switches the active profile. Unknown codes leave the previously
// active profile unchanged and report failure; this is a no-op failure, not
// an error condition.
func (r *Registry) SetActive(countryCode string) bool {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	p, ok := r.profiles[code]
	if !ok {
		r.logger.Warn(map[string]any{"country": code}, "unknown_jurisdiction")
		return false
	}
	r.active.Store(&p)
	r.logger.Info(map[string]any{"country": code, "law": p.LawName()}, "jurisdiction_activated")
	return true
}

// Active returns the currently active profile, or false when none is set.
func (r *Registry) Active() (Profile, bool) {
	p := r.active.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Get returns a specific profile by country code.
func (r *Registry) Get(countryCode string) (Profile, bool) {
	p, ok := r.profiles[strings.ToUpper(strings.TrimSpace(countryCode))]
	return p, ok
}

// List maps every known country code to its law name.
func (r *Registry) List() map[string]string {
	out := make(map[string]string, len(r.profiles))
	for code, p := range r.profiles {
		out[code] = p.LawName()
	}
	return out
}

// ValidateNotice validates a submission against the active profile.
func (r *Registry) ValidateNotice(n domain.Notice) error {
	p, ok := r.Active()
	if !ok {
		return &ValidationError{Message: "no compliance profile active"}
	}
	return p.ValidateNotice(n)
}

// FallbackBlockedPage is the fixed generic payload used when no profile is
// active. A compliance-text outage must never turn a block into a 5xx.
func FallbackBlockedPage(reason string) domain.BlockedPage {
	return domain.BlockedPage{
		Title:   "451 - Content Unavailable For Legal Reasons",
		Message: "This content has been blocked by the gateway operator.",
		Reason:  reason,
		Law:     "gateway policy",
	}
}
