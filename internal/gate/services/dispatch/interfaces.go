package dispatch

import (
	"context"

	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

// Decider answers whether a CID is blocked. Local, cached, sub-millisecond;
// the dispatcher calls it synchronously with no retries or timeout.
type Decider interface {
	Decide(cid string) domain.BlockDecision
}

// Streamer forwards an allowed request upstream and streams the outcome.
type Streamer interface {
	Fetch(ctx context.Context, path string, ns domain.Namespace) (*domain.StreamResult, error)
}

// Jurisdictions is the read side of the jurisdiction registry the dispatcher
// needs to render block pages.
type Jurisdictions interface {
	Active() (jurisdiction.Profile, bool)
}

// Auditor receives fire-and-forget audit events.
type Auditor interface {
	Record(ev domain.AuditEvent)
}
