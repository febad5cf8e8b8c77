// Package dispatch orchestrates the per-request pipeline: extract the CID,
// consult the access-decision cache, and either render the jurisdiction's
// legal block response or hand off to the streaming proxy.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

// blockedCacheControl forbids intermediaries from caching block decisions,
// which change whenever the override file or the jurisdiction changes.
const blockedCacheControl = "no-cache, no-store, must-revalidate"

// Dispatcher is the gateway request orchestrator.
type Dispatcher struct {
	decider       Decider
	streamer      Streamer
	jurisdictions Jurisdictions
	audit         Auditor
	logger        log.Logger
}

// Options configures a Dispatcher.
type Options struct {
	Decider       Decider
	Streamer      Streamer
	Jurisdictions Jurisdictions
	Audit         Auditor
	Logger        log.Logger
}

// New constructs a Dispatcher.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Dispatcher{
		decider:       opts.Decider,
		streamer:      opts.Streamer,
		jurisdictions: opts.Jurisdictions,
		audit:         opts.Audit,
		logger:        logger,
	}
}

// ServeContent handles one gateway request. contentPath is everything after
// the /ipfs/ or /ipns/ route prefix: the CID (first segment) plus an optional
// intra-object sub-path that passes through to upstream unchanged.
func (d *Dispatcher) ServeContent(w http.ResponseWriter, r *http.Request, contentPath string, ns domain.Namespace) {
	contentPath = strings.TrimPrefix(contentPath, "/")
	if contentPath == "" {
		http.Error(w, "missing content identifier", http.StatusBadRequest)
		return
	}
	id := contentPath
	if i := strings.IndexByte(contentPath, '/'); i >= 0 {
		id = contentPath[:i]
	}

	d.audit.Record(domain.AuditEvent{
		Type:       domain.AuditContentAccess,
		CID:        id,
		ClientAddr: r.RemoteAddr,
		Details:    fmt.Sprintf("ns=%s path=%s", ns, contentPath),
	})

	if dec := d.decider.Decide(id); dec.IsBlocked() {
		d.writeBlocked(w, r, dec)
		return
	}

	d.proxy(w, r, contentPath, ns)
}

// writeBlocked renders the HTTP 451 response using the active jurisdiction's
// localized copy, falling back to a fixed generic payload when no profile is
// active. Status and cache behavior are identical across jurisdictions; only
// the wording differs.
func (d *Dispatcher) writeBlocked(w http.ResponseWriter, r *http.Request, dec domain.BlockDecision) {
	d.audit.Record(domain.AuditEvent{
		Type:       domain.AuditBlockHit,
		CID:        dec.CID,
		ClientAddr: r.RemoteAddr,
		Details:    fmt.Sprintf("reason=%s source=%s", dec.Reason, dec.Source),
	})

	var page domain.BlockedPage
	if profile, ok := d.jurisdictions.Active(); ok {
		page = profile.BlockedPageText(dec.Reason, r.URL.Query().Get("lang"))
	} else {
		page = jurisdiction.FallbackBlockedPage(dec.Reason)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", blockedCacheControl)
	w.Header().Set("X-Content-Blocked", dec.Reason)
	w.WriteHeader(http.StatusUnavailableForLegalReasons)
	if err := json.NewEncoder(w).Encode(page); err != nil {
		d.logger.Warn(map[string]any{"error": err.Error()}, "blocked_page_write_failed")
	}
}

// proxy delegates to the streaming client and maps typed failures onto
// distinct statuses with generic bodies.
func (d *Dispatcher) proxy(w http.ResponseWriter, r *http.Request, contentPath string, ns domain.Namespace) {
	res, err := d.streamer.Fetch(r.Context(), contentPath, ns)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUpstreamNotFound):
			http.Error(w, "Content not found on the IPFS network", http.StatusNotFound)
		case errors.Is(err, domain.ErrUpstreamTimeout):
			d.audit.Record(domain.AuditEvent{Type: domain.AuditGatewayError, Details: "upstream timeout"})
			http.Error(w, "IPFS gateway timeout - content may be unavailable or too large", http.StatusGatewayTimeout)
		default:
			d.audit.Record(domain.AuditEvent{Type: domain.AuditGatewayError, Details: "upstream unreachable"})
			d.logger.Error(map[string]any{"error": err.Error(), "path": contentPath}, "upstream_fetch_failed")
			http.Error(w, "IPFS gateway error", http.StatusServiceUnavailable)
		}
		return
	}
	defer res.Body.Close()

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", res.CacheControl)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(res.Status)

	// Streaming is append-only: a mid-stream upstream failure truncates the
	// response, and the already-sent partial body is not retracted.
	if _, err := io.Copy(w, res.Body); err != nil {
		d.logger.Warn(map[string]any{"error": err.Error(), "path": contentPath}, "stream_truncated")
	}
}
