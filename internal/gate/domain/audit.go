package domain

import "time"

// AuditEventType classifies discrete audit events emitted by the gateway core.
type AuditEventType string

const (
	AuditContentAccess      AuditEventType = "content_access"
	AuditBlockHit           AuditEventType = "block_hit"
	AuditDenylistSync       AuditEventType = "denylist_sync"
	AuditJurisdictionChange AuditEventType = "jurisdiction_change"
	AuditNoticeSubmitted    AuditEventType = "notice_submitted"
	AuditGatewayError       AuditEventType = "gateway_error"
	AuditStartup            AuditEventType = "startup"
)

// AuditEvent is a structured audit record. Delivery to the sink is
// fire-and-forget; a failed write must never block or fail the request path.
type AuditEvent struct {
	Type       AuditEventType `json:"type"`
	CID        string         `json:"cid,omitempty"`
	ClientAddr string         `json:"client_addr,omitempty"`
	Details    string         `json:"details,omitempty"`
	Time       time.Time      `json:"time"`
}
