package httpserver

import (
	"context"
	"net/http"

	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

// ContentHandler serves the /ipfs/ and /ipns/ request pipeline.
type ContentHandler interface {
	ServeContent(w http.ResponseWriter, r *http.Request, contentPath string, ns domain.Namespace)
}

// DecisionAdmin is the administrative surface of the access-decision cache.
type DecisionAdmin interface {
	Reload()
	Stats() (int, map[string]int)
	Decide(cid string) domain.BlockDecision
}

// SyncTrigger forces a denylist sync pass.
type SyncTrigger interface {
	Sync(ctx context.Context) (int, error)
}

// JurisdictionAdmin exposes the registry's administrative operations.
type JurisdictionAdmin interface {
	SetActive(countryCode string) bool
	Active() (jurisdiction.Profile, bool)
	List() map[string]string
}

// NoticeIntake accepts takedown notice submissions.
type NoticeIntake interface {
	Submit(n domain.Notice) (domain.Receipt, error)
	Lookup(reference string) (domain.Receipt, bool)
}

// AuditReader is the read half of the audit store used by admin and health.
type AuditReader interface {
	Recent(n int) ([]domain.AuditEvent, error)
	Ping() error
}

// Auditor receives fire-and-forget audit events for admin actions.
type Auditor interface {
	Record(ev domain.AuditEvent)
}

// Prober checks upstream daemon reachability for the health endpoint.
type Prober interface {
	Probe(ctx context.Context) error
}
