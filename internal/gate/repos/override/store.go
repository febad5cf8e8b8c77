// Package override reads the operator-maintained block list. Entries here are
// authoritative and always win over the synced denylist on conflict.
package override

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/haukened/cid-gate/internal/gate/common/cid"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// Store loads block entries from a flat file of `<cid> [reason]` lines.
// `#`-prefixed lines and blank lines are ignored; a missing reason defaults
// to domain.DefaultReason. A missing file is a normal startup state and
// yields an empty map.
type Store struct {
	path   string
	logger log.Logger
}

// New returns a Store reading from path.
func New(path string, logger log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the configured file path.
func (s *Store) Path() string { return s.path }

// Load reads and parses the override file into a cid → reason map.
func (s *Store) Load() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug(map[string]any{"path": s.path}, "override_file_absent")
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("open override file: %w", err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		id := fields[0]
		if !cid.HasKnownPrefix(id) {
			s.logger.Debug(map[string]any{"line": lineNum, "token": id}, "override_skip_invalid_cid")
			continue
		}

		reason := domain.DefaultReason
		if len(fields) > 1 {
			reason = strings.Join(fields[1:], " ")
		}
		out[id] = reason
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan override file: %w", err)
	}

	s.logger.Debug(map[string]any{"path": s.path, "count": len(out)}, "override_loaded")
	return out, nil
}
