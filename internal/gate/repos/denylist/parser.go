package denylist

import (
	"bufio"
	"io"
	"strings"

	"github.com/haukened/cid-gate/internal/gate/common/cid"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

// ParseFeed extracts block entries from the official denylist feed, which is
// published as nginx location directives:
//
//	location ~ "^/ipfs/QmXXX" { return 410; }
//	location ~ "^/ipns/QmXXX" { return 410; }
//
// Rules:
// - Line order is irrelevant; each line is parsed independently
// - A line is a candidate only if it contains a location directive referencing /ipfs/ or /ipns/
// - The CID is the path segment up to the next quote or slash
// - Tokens failing the prefix heuristic are skipped, as is anything unparseable
//
// This is a best-effort filter: malformed feed data degrades to fewer
// entries, never to an error. De-duplicates by CID, preserving first-seen order.
func ParseFeed(r io.Reader, logger log.Logger) ([]domain.BlockEntry, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]domain.BlockEntry, 0, 256)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if !strings.Contains(line, "location") {
			continue
		}

		token, ok := extractCID(line)
		if !ok {
			logger.Debug(map[string]any{"line": lineNum}, "feed_skip_no_path")
			continue
		}
		if !cid.HasKnownPrefix(token) {
			logger.Debug(map[string]any{"line": lineNum, "token": token}, "feed_skip_invalid_cid")
			continue
		}
		if _, dup := seen[token]; dup {
			logger.Debug(map[string]any{"line": lineNum, "cid": token}, "feed_skip_duplicate")
			continue
		}

		entry, err := domain.NewBlockEntry(token, domain.DenylistReason)
		if err != nil {
			logger.Debug(map[string]any{"line": lineNum, "error": err.Error()}, "feed_skip_constructor_error")
			continue
		}
		out = append(out, entry)
		seen[token] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// extractCID pulls the first path segment after /ipfs/ or /ipns/,
// terminated by a quote or slash.
func extractCID(line string) (string, bool) {
	idx := strings.Index(line, "/ipfs/")
	width := len("/ipfs/")
	if idx < 0 {
		idx = strings.Index(line, "/ipns/")
		width = len("/ipns/")
	}
	if idx < 0 {
		return "", false
	}

	rest := line[idx+width:]
	end := strings.IndexAny(rest, `"/`)
	if end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
