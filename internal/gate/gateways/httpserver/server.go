// Package httpserver is the gateway's HTTP transport. It owns socket
// lifecycle and routing and delegates all request logic to the service layer.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/netutil"

	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
)

// Server hosts the gateway, admin, health, and copyright-report routes.
type Server struct {
	addr     string
	maxConns int
	logger   log.Logger

	content       ContentHandler
	decisions     DecisionAdmin
	syncer        SyncTrigger
	jurisdictions JurisdictionAdmin
	notices       NoticeIntake
	audit         AuditReader
	recorder      Auditor
	prober        Prober

	// Synchronization for graceful shutdown
	mu      sync.Mutex
	running bool
	ln      net.Listener
	srv     *http.Server
}

// Options configures a Server.
type Options struct {
	Addr string
	// MaxConns bounds concurrent connections via netutil.LimitListener.
	// Defaults to 512.
	MaxConns int

	Content       ContentHandler
	Decisions     DecisionAdmin
	Syncer        SyncTrigger
	Jurisdictions JurisdictionAdmin
	Notices       NoticeIntake
	Audit         AuditReader
	Recorder      Auditor
	Prober        Prober

	Logger log.Logger
}

// New constructs a Server.
func New(opts Options) *Server {
	if opts.MaxConns <= 0 {
		opts.MaxConns = 512
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Server{
		addr:          opts.Addr,
		maxConns:      opts.MaxConns,
		logger:        logger,
		content:       opts.Content,
		decisions:     opts.Decisions,
		syncer:        opts.Syncer,
		jurisdictions: opts.Jurisdictions,
		notices:       opts.Notices,
		audit:         opts.Audit,
		recorder:      opts.Recorder,
		prober:        opts.Prober,
	}
}

// Start binds the listener and begins serving. Non-blocking; serve errors
// other than graceful close are logged.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("HTTP transport already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}
	s.ln = netutil.LimitListener(ln, s.maxConns)

	s.srv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.running = true

	s.logger.Info(map[string]any{
		"transport": "http",
		"address":   s.addr,
		"max_conns": s.maxConns,
	}, "Gateway transport started")

	go func() {
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{"error": err.Error()}, "HTTP serve failed")
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.srv.Shutdown(ctx)
}

// Address returns the bound listener address.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ipfs/", func(w http.ResponseWriter, r *http.Request) {
		s.content.ServeContent(w, r, strings.TrimPrefix(r.URL.Path, "/ipfs/"), domain.NamespaceIPFS)
	})
	mux.HandleFunc("GET /ipns/", func(w http.ResponseWriter, r *http.Request) {
		s.content.ServeContent(w, r, strings.TrimPrefix(r.URL.Path, "/ipns/"), domain.NamespaceIPNS)
	})

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /admin/blocklist/reload", s.handleBlocklistReload)
	mux.HandleFunc("GET /admin/blocklist/stats", s.handleBlocklistStats)
	mux.HandleFunc("GET /admin/blocklist/check/{cid}", s.handleBlocklistCheck)
	mux.HandleFunc("POST /admin/denylist/sync", s.handleDenylistSync)
	mux.HandleFunc("GET /admin/jurisdictions", s.handleJurisdictionList)
	mux.HandleFunc("PUT /admin/jurisdictions/active", s.handleJurisdictionSwitch)
	mux.HandleFunc("GET /admin/audit/recent", s.handleAuditRecent)

	mux.HandleFunc("POST /copyright/report", s.handleNoticeSubmit)
	mux.HandleFunc("GET /copyright/report/{reference}", s.handleNoticeLookup)
	mux.HandleFunc("GET /copyright/template", s.handleNoticeTemplate)
	mux.HandleFunc("GET /copyright/counter-template", s.handleCounterTemplate)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"upstream":  "ok",
		"audit":     "ok",
	}

	if err := s.prober.Probe(r.Context()); err != nil {
		status["upstream"] = "error"
	}
	if err := s.audit.Ping(); err != nil {
		status["audit"] = "error"
	}
	total, _ := s.decisions.Stats()
	status["blocklist"] = total
	if p, ok := s.jurisdictions.Active(); ok {
		status["jurisdiction"] = p.CountryCode()
	} else {
		status["jurisdiction"] = "none"
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleBlocklistReload(w http.ResponseWriter, r *http.Request) {
	s.decisions.Reload()
	total, _ := s.decisions.Stats()
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "count": total})
}

func (s *Server) handleBlocklistStats(w http.ResponseWriter, r *http.Request) {
	total, byReason := s.decisions.Stats()
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "by_reason": byReason})
}

func (s *Server) handleBlocklistCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("cid")
	dec := s.decisions.Decide(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"cid":     id,
		"blocked": dec.Blocked,
		"reason":  dec.Reason,
		"source":  dec.Source,
	})
}

func (s *Server) handleDenylistSync(w http.ResponseWriter, r *http.Request) {
	count, err := s.syncer.Sync(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"status":  "error",
			"message": "denylist sync failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "entries": count})
}

func (s *Server) handleJurisdictionList(w http.ResponseWriter, r *http.Request) {
	active := ""
	if p, ok := s.jurisdictions.Active(); ok {
		active = p.CountryCode()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    active,
		"available": s.jurisdictions.List(),
	})
}

func (s *Server) handleJurisdictionSwitch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CountryCode string `json:"country_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	previous := "none"
	if p, ok := s.jurisdictions.Active(); ok {
		previous = p.CountryCode()
	}
	if !s.jurisdictions.SetActive(body.CountryCode) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown jurisdiction"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(body.CountryCode))
	s.recorder.Record(domain.AuditEvent{
		Type:       domain.AuditJurisdictionChange,
		ClientAddr: r.RemoteAddr,
		Details:    fmt.Sprintf("%s -> %s", previous, code),
	})
	writeJSON(w, http.StatusOK, map[string]any{"active": code})
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	n := 50
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 1000 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid n"})
			return
		}
		n = parsed
	}
	events, err := s.audit.Recent(n)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "audit store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleNoticeSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid form data"})
		return
	}
	n := make(domain.Notice, len(r.PostForm))
	for field := range r.PostForm {
		n[field] = strings.TrimSpace(r.PostForm.Get(field))
	}

	receipt, err := s.notices.Submit(n)
	if err != nil {
		var verr *jurisdiction.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error": verr.Message,
				"field": verr.Field,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "notice intake failed"})
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleNoticeLookup(w http.ResponseWriter, r *http.Request) {
	receipt, ok := s.notices.Lookup(r.PathValue("reference"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown reference"})
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleNoticeTemplate(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, func(p jurisdiction.Profile) string { return p.NoticeTemplate() })
}

func (s *Server) handleCounterTemplate(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, func(p jurisdiction.Profile) string { return p.CounterNoticeTemplate() })
}

func (s *Server) writeTemplate(w http.ResponseWriter, pick func(jurisdiction.Profile) string) {
	p, ok := s.jurisdictions.Active()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no active jurisdiction"})
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(pick(p)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
