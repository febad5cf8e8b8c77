// Package cid provides the cheap prefix heuristic used to recognize
// content identifiers. No multibase or multihash decoding happens here;
// malformed input degrades to "not a CID", never to an error.
package cid

import "strings"

// knownPrefixes covers CIDv0 ("Qm"), CIDv1 dag-pb base32 ("bafy") and
// IPNS keys ("k51") as published in the official gateway denylist.
var knownPrefixes = []string{"Qm", "bafy", "k51"}

// HasKnownPrefix reports whether s looks like a CID. Case-sensitive.
func HasKnownPrefix(s string) bool {
	if s == "" {
		return false
	}
	for _, p := range knownPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
