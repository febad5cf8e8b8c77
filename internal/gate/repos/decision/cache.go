// Package decision merges the operator override list with the synced denylist
// snapshot into a single blocked-CID lookup, cached for a fixed time window to
// bound re-parse cost.
package decision

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// bloomFPRate is the target false-positive rate for the per-merge prefilter.
// A false positive only costs one map lookup, so the rate is relaxed.
const bloomFPRate = 0.01

// Source yields a cid → reason mapping. Both the override store and the
// denylist snapshot store satisfy this; absence of the backing file must be
// reported as an empty map, not an error.
type Source interface {
	Load() (map[string]string, error)
}

// match records which list produced a blocked entry.
type match struct {
	reason string
	source string
}

// entry is one cached merge: the computation time, the merged mapping, and a
// Bloom filter over its keys for fast negatives. Entries are immutable once
// published; staleness is a single comparison against the clock.
type entry struct {
	computedAt time.Time
	merged     map[string]match
	bloom      *bloom.BloomFilter
}

// Cache is the access-decision cache. Reads recompute the merge at most once
// per window; Reload forces the next read to recompute immediately.
//
// Two requests may recompute concurrently. The merge is a pure function of its
// two inputs, so duplicate work is wasted but never unsafe, and readers always
// observe either the old or the new entry in full.
type Cache struct {
	mu       sync.RWMutex
	override Source
	denylist Source
	window   time.Duration
	clock    clock.Clock
	logger   log.Logger
	current  *entry
}

// Options configures a Cache.
type Options struct {
	Override Source
	Denylist Source
	Window   time.Duration
	Clock    clock.Clock
	Logger   log.Logger
}

// New constructs a Cache. Window defaults to 300s when unset.
func New(opts Options) *Cache {
	if opts.Window <= 0 {
		opts.Window = 300 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Cache{
		override: opts.Override,
		denylist: opts.Denylist,
		window:   opts.Window,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

// Decide evaluates a CID against the merged blocklist.
// Policy: on internal errors, prefer Allow (not blocked).
func (c *Cache) Decide(id string) domain.BlockDecision {
	e := c.freshEntry()
	if e == nil {
		return domain.EmptyDecision(id)
	}
	// Definite-negative short circuit before touching the map.
	if !e.bloom.TestString(id) {
		return domain.EmptyDecision(id)
	}
	if m, ok := e.merged[id]; ok {
		return domain.BlockDecision{Blocked: true, CID: id, Reason: m.reason, Source: m.source}
	}
	return domain.EmptyDecision(id)
}

// IsBlocked returns the block reason for a CID, or false when it is allowed.
func (c *Cache) IsBlocked(id string) (string, bool) {
	d := c.Decide(id)
	return d.Reason, d.Blocked
}

// Reload invalidates the cached merge so the next lookup recomputes
// immediately, bypassing the window floor. Used by the admin reload operation
// and by the sync job after a successful snapshot write.
func (c *Cache) Reload() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	c.logger.Debug(nil, "decision_cache_invalidated")
}

// Stats reports the size of the current merge and a per-reason breakdown,
// recomputing first if the window has lapsed.
func (c *Cache) Stats() (int, map[string]int) {
	e := c.freshEntry()
	if e == nil {
		return 0, map[string]int{}
	}
	byReason := make(map[string]int)
	for _, m := range e.merged {
		byReason[m.reason]++
	}
	return len(e.merged), byReason
}

// freshEntry returns the current entry, recomputing when absent or stale.
// On recompute failure the previous entry is retained (stale data beats no
// data) and nil is returned only when there has never been a successful merge.
func (c *Cache) freshEntry() *entry {
	now := c.clock.Now()

	c.mu.RLock()
	e := c.current
	c.mu.RUnlock()
	if e != nil && now.Sub(e.computedAt) < c.window {
		return e
	}

	fresh, err := c.compute(now)
	if err != nil {
		c.logger.Error(map[string]any{"error": err.Error()}, "blocklist_merge_failed")
		return e
	}

	c.mu.Lock()
	c.current = fresh
	c.mu.Unlock()
	return fresh
}

// compute performs one merge pass. Override entries win on key collision.
func (c *Cache) compute(now time.Time) (*entry, error) {
	deny, err := c.denylist.Load()
	if err != nil {
		return nil, err
	}
	over, err := c.override.Load()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]match, len(deny)+len(over))
	for id, reason := range deny {
		merged[id] = match{reason: reason, source: "denylist"}
	}
	for id, reason := range over {
		merged[id] = match{reason: reason, source: "override"}
	}

	n := uint(len(merged))
	if n == 0 {
		n = 1
	}
	bf := bloom.NewWithEstimates(n, bloomFPRate)
	for id := range merged {
		bf.AddString(id)
	}

	c.logger.Debug(map[string]any{
		"denylist": len(deny),
		"override": len(over),
		"merged":   len(merged),
	}, "blocklist_merged")

	return &entry{computedAt: now, merged: merged, bloom: bf}, nil
}
