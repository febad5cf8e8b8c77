// Package denylist persists the synced snapshot of the external denylist and
// parses the feed's foreign text format. The snapshot file is written only by
// the sync job and replaced wholesale on every pass.
package denylist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// Store reads and writes the local denylist snapshot file. The on-disk shape
// matches the override file (`<cid> <reason>` lines) prefixed with provenance
// comments naming the source URL and fetch time.
type Store struct {
	path   string
	logger log.Logger
}

// New returns a Store persisting to path.
func New(path string, logger log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the configured snapshot path.
func (s *Store) Path() string { return s.path }

// Write replaces the snapshot file with the given snapshot. The write goes to
// a temp file in the same directory followed by an atomic rename, so a crash
// mid-write never leaves a half-written file visible to readers.
func (s *Store) Write(snap domain.Snapshot) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// best-effort cleanup when the rename never happened
		_ = os.Remove(tmpName)
	}()

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "# IPFS Official Denylist - auto-generated, do not edit\n")
	fmt.Fprintf(w, "# Source: %s\n", snap.SourceURL)
	fmt.Fprintf(w, "# Fetched: %s\n\n", snap.FetchedAt.UTC().Format(time.RFC3339))
	for _, e := range snap.Entries {
		fmt.Fprintf(w, "%s %s\n", e.CID, e.Reason)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.logger.Debug(map[string]any{"path": s.path, "entries": len(snap.Entries)}, "snapshot_written")
	return nil
}

// Load reads the snapshot into a cid → reason map. A missing file is a
// normal state (no sync has succeeded yet) and yields an empty map.
func (s *Store) Load() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		reason := domain.DenylistReason
		if len(fields) > 1 {
			reason = strings.Join(fields[1:], " ")
		}
		out[fields[0]] = reason
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return out, nil
}

// ModTime returns the snapshot file's modification time, or false when the
// file does not exist. Used for the startup staleness check.
func (s *Store) ModTime() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
