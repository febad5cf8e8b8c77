// Package notices handles takedown notice intake: validation against the
// active jurisdiction profile, receipt issuance, and hand-off to an optional
// notification collaborator.
package notices

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

// Registry is the slice of the jurisdiction registry the intake needs.
type Registry interface {
	Active() (jurisdiction.Profile, bool)
}

// Auditor receives fire-and-forget audit events.
type Auditor interface {
	Record(ev domain.AuditEvent)
}

// Notifier forwards an accepted notice to the operator (e.g. by mail).
// Delivery is fire-and-forget: failures are logged and swallowed.
type Notifier interface {
	Notify(receipt domain.Receipt, n domain.Notice) error
}

// Service validates and acknowledges takedown notices. Accepted receipts are
// kept in a bounded LRU memo so recent references can be looked up without a
// round-trip to the audit store.
type Service struct {
	registry Registry
	audit    Auditor
	notifier Notifier
	memo     *lru.Cache[string, domain.Receipt]
	clock    clock.Clock
	logger   log.Logger
}

// Options configures a Service.
type Options struct {
	Registry Registry
	Audit    Auditor
	// Notifier is optional; nil disables notification.
	Notifier Notifier
	// MemoSize bounds the receipt memo. Defaults to 256.
	MemoSize int
	Clock    clock.Clock
	Logger   log.Logger
}

// New constructs a Service.
func New(opts Options) (*Service, error) {
	if opts.MemoSize <= 0 {
		opts.MemoSize = 256
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	memo, err := lru.New[string, domain.Receipt](opts.MemoSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		registry: opts.Registry,
		audit:    opts.Audit,
		notifier: opts.Notifier,
		memo:     memo,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}, nil
}

// Submit validates a notice against the active jurisdiction and, when valid,
// issues a receipt. A rejected notice is never partially persisted.
func (s *Service) Submit(n domain.Notice) (domain.Receipt, error) {
	profile, ok := s.registry.Active()
	if !ok {
		return domain.Receipt{}, &jurisdiction.ValidationError{Message: "no compliance profile active"}
	}

	if err := profile.ValidateNotice(n); err != nil {
		return domain.Receipt{}, err
	}

	now := s.clock.Now()
	receipt := domain.Receipt{
		Reference:   s.reference(profile.CountryCode(), now),
		CountryCode: profile.CountryCode(),
		CID:         n.Get(domain.FieldInfringingCID),
		SLAHours:    profile.SLAHours(),
		SubmittedAt: now,
	}
	s.memo.Add(receipt.Reference, receipt)

	s.audit.Record(domain.AuditEvent{
		Type:    domain.AuditNoticeSubmitted,
		CID:     receipt.CID,
		Details: fmt.Sprintf("ref=%s jurisdiction=%s", receipt.Reference, receipt.CountryCode),
	})

	if s.notifier != nil {
		if err := s.notifier.Notify(receipt, n); err != nil {
			s.logger.Warn(map[string]any{"error": err.Error(), "ref": receipt.Reference}, "notice_notify_failed")
		}
	}

	return receipt, nil
}

// Lookup returns a recently issued receipt by reference.
func (s *Service) Lookup(reference string) (domain.Receipt, bool) {
	return s.memo.Get(reference)
}

// reference builds a human-quotable id: jurisdiction, timestamp, random tail.
func (s *Service) reference(countryCode string, now time.Time) string {
	var tail [4]byte
	_, _ = rand.Read(tail[:])
	return fmt.Sprintf("%s-%s-%s", countryCode, now.Format("20060102150405"), hex.EncodeToString(tail[:]))
}
