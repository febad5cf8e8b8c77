package audit

import (
	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// Appender is the write half of the audit store.
type Appender interface {
	Append(ev domain.AuditEvent) error
}

// Recorder delivers audit events fire-and-forget: a failed append is logged
// and swallowed, never surfaced to the request path.
type Recorder struct {
	store  Appender
	clock  clock.Clock
	logger log.Logger
}

// NewRecorder wraps an Appender. A nil store yields a recorder that only logs.
func NewRecorder(store Appender, clk clock.Clock, logger log.Logger) *Recorder {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Recorder{store: store, clock: clk, logger: logger}
}

// Record stamps and persists an event. Errors are swallowed.
func (r *Recorder) Record(ev domain.AuditEvent) {
	if ev.Time.IsZero() {
		ev.Time = r.clock.Now()
	}
	r.logger.Info(map[string]any{
		"event":   string(ev.Type),
		"cid":     ev.CID,
		"client":  ev.ClientAddr,
		"details": ev.Details,
	}, "audit")
	if r.store == nil {
		return
	}
	if err := r.store.Append(ev); err != nil {
		r.logger.Warn(map[string]any{"error": err.Error(), "event": string(ev.Type)}, "audit_append_failed")
	}
}
