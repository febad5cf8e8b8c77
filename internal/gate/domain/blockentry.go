package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultReason is applied to override-list entries that carry no reason tag.
const DefaultReason = "policy_violation"

// DenylistReason tags entries ingested from the official IPFS denylist feed.
const DenylistReason = "ipfs-official-denylist"

// BlockEntry is a single blocked content identifier with a short
// machine-readable reason tag (e.g. "malware", "dmca").
//
// Notes:
// - CID is opaque and case-sensitive; format is checked elsewhere by prefix heuristic.
// - Reason must never be empty; callers default it before construction.
type BlockEntry struct {
	CID    string
	Reason string
}

// NewBlockEntry constructs a BlockEntry and validates its fields.
func NewBlockEntry(cid, reason string) (BlockEntry, error) {
	e := BlockEntry{
		CID:    strings.TrimSpace(cid),
		Reason: strings.TrimSpace(reason),
	}
	if err := e.Validate(); err != nil {
		return BlockEntry{}, err
	}
	return e, nil
}

// Validate checks the BlockEntry for required fields.
func (e BlockEntry) Validate() error {
	if e.CID == "" {
		return fmt.Errorf("entry cid must not be empty")
	}
	if e.Reason == "" {
		return fmt.Errorf("entry reason must not be empty")
	}
	return nil
}

// Snapshot is the full replacement unit produced by one denylist sync pass.
// A new snapshot replaces the previous one wholesale; entries removed upstream
// disappear from the next snapshot.
type Snapshot struct {
	Entries   []BlockEntry
	SourceURL string
	FetchedAt time.Time
}
