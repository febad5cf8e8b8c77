// Package upstream forwards allowed requests to the local IPFS daemon's HTTP
// gateway and exposes the response as a typed, streamable outcome.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// Doer abstracts the HTTP client for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches content paths from the daemon's HTTP gateway.
type Client struct {
	base    string
	timeout time.Duration
	http    Doer
}

// Options configures a Client.
type Options struct {
	// BaseURL of the daemon's HTTP gateway, e.g. "http://127.0.0.1:8080".
	BaseURL string
	// Timeout bounds a whole fetch including body streaming. Defaults to 120s.
	Timeout time.Duration
	// HTTPClient can be injected for testing. Defaults to http.DefaultClient.
	HTTPClient Doer
}

// NewClient creates an upstream gateway client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Client{
		base:    strings.TrimSuffix(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
	}, nil
}

// Fetch requests {base}/{namespace}/{path} and returns the streamed outcome.
// The path is the CID (or name) plus any intra-object sub-path, passed
// through unchanged. The caller's ctx cancels the fetch mid-stream when the
// client disconnects; closing the result body releases the deadline timer.
func (c *Client) Fetch(ctx context.Context, path string, ns domain.Namespace) (*domain.StreamResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	target := fmt.Sprintf("%s/%s/%s", c.base, ns, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, classifyError(err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		cancel()
		return nil, domain.ErrUpstreamNotFound
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &domain.StreamResult{
		Status:       resp.StatusCode,
		ContentType:  contentType,
		CacheControl: ns.CacheControl(),
		Body:         &cancelOnClose{rc: resp.Body, cancel: cancel},
	}, nil
}

// probeCID is a well-known CID (the "hello world" directory) used only to
// confirm the daemon answers; any routable status counts as healthy.
const probeCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

// Probe checks daemon reachability for the health endpoint.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/ipfs/"+probeCID, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("%w: probe status %d", domain.ErrUpstreamUnreachable, resp.StatusCode)
	}
}

// classifyError maps transport failures onto the typed outcomes.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrUpstreamTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrUpstreamTimeout
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
}

// cancelOnClose ties the fetch deadline's cancel func to body close so the
// timer is released exactly when streaming ends.
type cancelOnClose struct {
	rc     io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Read(p []byte) (int, error) { return c.rc.Read(p) }

func (c *cancelOnClose) Close() error {
	err := c.rc.Close()
	c.cancel()
	return err
}
