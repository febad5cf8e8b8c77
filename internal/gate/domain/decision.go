package domain

// BlockDecision represents the outcome of evaluating a CID against the merged
// blocklist. Pure value type, no external dependencies.
type BlockDecision struct {
	Blocked bool   // true if the CID is blocked by any source
	CID     string // the CID that was evaluated
	Reason  string // reason tag of the matching entry
	Source  string // which list matched: "override" or "denylist"
}

// IsBlocked is a convenience accessor.
func (d BlockDecision) IsBlocked() bool { return d.Blocked }

// EmptyDecision returns a not-blocked decision for the given CID.
func EmptyDecision(cid string) BlockDecision { return BlockDecision{CID: cid} }

// BlockedPage is the localized copy rendered on an HTTP 451 response.
// Action and Link are optional and empty when a jurisdiction offers no
// counter-notice path.
type BlockedPage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Law     string `json:"law"`
	Action  string `json:"action,omitempty"`
	Link    string `json:"link,omitempty"`
	Note    string `json:"note,omitempty"`
}
