package domain

import (
	"errors"
	"io"
)

// Typed outcomes for upstream fetch failures. The dispatcher maps these to
// distinct HTTP statuses; nothing upstream-internal leaks into bodies.
var (
	// ErrUpstreamTimeout: the daemon exceeded the deadline (surfaced as 504).
	ErrUpstreamTimeout = errors.New("upstream gateway timeout")
	// ErrUpstreamUnreachable: connection-level failure (surfaced as 503).
	ErrUpstreamUnreachable = errors.New("upstream gateway unreachable")
	// ErrUpstreamNotFound: the daemon reported the content absent (surfaced as 404).
	ErrUpstreamNotFound = errors.New("content not found")
)

// Namespace selects the upstream path family.
type Namespace uint8

const (
	// NamespaceIPFS addresses immutable content by CID.
	NamespaceIPFS Namespace = iota
	// NamespaceIPNS addresses mutable content by name.
	NamespaceIPNS
)

// String returns the upstream path segment for the namespace.
func (n Namespace) String() string {
	if n == NamespaceIPNS {
		return "ipns"
	}
	return "ipfs"
}

// CacheControl returns the cache directive attached to proxied responses in
// this namespace. Content-addressed data is immutable by construction; name-
// addressed data can change, so it gets a short-lived directive instead.
func (n Namespace) CacheControl() string {
	if n == NamespaceIPNS {
		return "public, max-age=60"
	}
	return "public, max-age=29030400, immutable"
}

// StreamResult is a successful upstream fetch. Body streams the upstream
// response and must be closed by the caller.
type StreamResult struct {
	Status       int
	ContentType  string
	CacheControl string
	Body         io.ReadCloser
}
