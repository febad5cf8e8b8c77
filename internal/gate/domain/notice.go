package domain

import "time"

// Field names shared by the jurisdiction notice schemas. Profiles reference
// these plus their own jurisdiction-specific fields.
const (
	FieldContactEmail  = "contact_email"
	FieldInfringingCID = "infringing_cid"
)

// Notice is a takedown notice submission: a flat mapping of form field name
// to value, validated by the active jurisdiction profile.
type Notice map[string]string

// Get returns the value for a field, or "" when absent.
func (n Notice) Get(field string) string { return n[field] }

// Receipt acknowledges an accepted takedown notice.
type Receipt struct {
	Reference   string    `json:"reference"`
	CountryCode string    `json:"country_code"`
	CID         string    `json:"cid"`
	SLAHours    int       `json:"sla_hours"`
	SubmittedAt time.Time `json:"submitted_at"`
}
