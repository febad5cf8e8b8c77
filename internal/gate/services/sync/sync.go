// Package sync keeps the local denylist snapshot aligned with the externally
// published feed: fetch, parse, atomic snapshot replacement, and a fixed-
// cadence background loop. Sync failures are contained here; the previous
// snapshot stays in effect and no in-flight request ever sees the error.
package sync

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/repos/denylist"
)

// SyncError wraps a failed sync pass with its source URL.
type SyncError struct {
	URL string
	Err error
}

func (e *SyncError) Error() string { return fmt.Sprintf("denylist sync from %s: %v", e.URL, e.Err) }
func (e *SyncError) Unwrap() error { return e.Err }

// Doer abstracts the HTTP client for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SnapshotStore is the write half of the denylist snapshot repository.
type SnapshotStore interface {
	Write(snap domain.Snapshot) error
	ModTime() (time.Time, bool)
}

// Reloader invalidates the access-decision cache after a successful sync so
// the new snapshot is visible without waiting for the window to expire.
type Reloader interface {
	Reload()
}

// Auditor receives fire-and-forget audit events.
type Auditor interface {
	Record(ev domain.AuditEvent)
}

// Syncer fetches the external denylist and replaces the local snapshot.
type Syncer struct {
	url      string
	timeout  time.Duration
	interval time.Duration
	http     Doer
	store    SnapshotStore
	cache    Reloader
	audit    Auditor
	clock    clock.Clock
	logger   log.Logger
}

// Options configures a Syncer.
type Options struct {
	// URL of the external denylist feed.
	URL string
	// Timeout bounds one fetch. Defaults to 30s.
	Timeout time.Duration
	// Interval is the fixed re-sync cadence. Defaults to 24h.
	Interval time.Duration
	// HTTPClient can be injected for testing. Defaults to http.DefaultClient.
	HTTPClient Doer

	Store  SnapshotStore
	Cache  Reloader
	Audit  Auditor
	Clock  clock.Clock
	Logger log.Logger
}

// New constructs a Syncer.
func New(opts Options) *Syncer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Syncer{
		url:      opts.URL,
		timeout:  opts.Timeout,
		interval: opts.Interval,
		http:     opts.HTTPClient,
		store:    opts.Store,
		cache:    opts.Cache,
		audit:    opts.Audit,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

// Sync performs one pass: fetch the feed, parse it, replace the snapshot,
// and invalidate the decision cache. Returns the number of accepted entries.
// On any failure the previous snapshot is retained unchanged.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	count, err := s.sync(ctx)
	if err != nil {
		s.logger.Error(map[string]any{"url": s.url, "error": err.Error()}, "denylist_sync_failed")
		s.audit.Record(domain.AuditEvent{
			Type:    domain.AuditDenylistSync,
			Details: fmt.Sprintf("failed: %v", err),
		})
		return 0, err
	}

	s.logger.Info(map[string]any{"url": s.url, "entries": count}, "denylist_synced")
	s.audit.Record(domain.AuditEvent{
		Type:    domain.AuditDenylistSync,
		Details: fmt.Sprintf("accepted %d entries", count),
	})
	return count, nil
}

func (s *Syncer) sync(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, &SyncError{URL: s.url, Err: err}
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, &SyncError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &SyncError{URL: s.url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	entries, err := denylist.ParseFeed(resp.Body, s.logger)
	if err != nil {
		return 0, &SyncError{URL: s.url, Err: err}
	}

	snap := domain.Snapshot{
		Entries:   entries,
		SourceURL: s.url,
		FetchedAt: s.clock.Now(),
	}
	if err := s.store.Write(snap); err != nil {
		return 0, &SyncError{URL: s.url, Err: err}
	}

	s.cache.Reload()
	return len(entries), nil
}

// Run drives the sync schedule: one pass at startup if the local snapshot is
// missing or older than the interval, then a fixed-cadence loop until ctx is
// cancelled. A failed pass does not shorten or lengthen the next attempt; the
// cadence stays fixed with no backoff.
func (s *Syncer) Run(ctx context.Context) {
	if s.needsInitialSync() {
		_, _ = s.Sync(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug(nil, "denylist_sync_loop_stopped")
			return
		case <-ticker.C:
			_, _ = s.Sync(ctx)
		}
	}
}

// needsInitialSync reports whether the snapshot is absent or stale at startup.
func (s *Syncer) needsInitialSync() bool {
	mod, ok := s.store.ModTime()
	if !ok {
		s.logger.Info(nil, "denylist_snapshot_missing")
		return true
	}
	if age := s.clock.Now().Sub(mod); age > s.interval {
		s.logger.Info(map[string]any{"age": age.String()}, "denylist_snapshot_stale")
		return true
	}
	return false
}
