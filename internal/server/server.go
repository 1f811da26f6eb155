// Package server is the HTTP transport for the diagnostic tools: named,
// argument-less endpoints that serialize the canonical envelope to the wire.
// Authentication is a property of this transport, not of the collectors.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostprobe-dev/hostprobe/internal/collect"
	"github.com/hostprobe-dev/hostprobe/internal/store"
	"github.com/hostprobe-dev/hostprobe/internal/telemetry"
	"github.com/hostprobe-dev/hostprobe/pkg/api"
)

type Server struct {
	Version string

	svc     *collect.Service
	metrics *telemetry.Collector
	audit   *store.Store // optional
	token   string
	pretty  bool
	log     zerolog.Logger
	srv     *http.Server
}

// Options for constructing a Server. Audit may be nil.
type Options struct {
	Version   string
	AuthToken string
	Pretty    bool
	Audit     *store.Store
}

func New(svc *collect.Service, metrics *telemetry.Collector, opts Options, log zerolog.Logger) *Server {
	token := opts.AuthToken
	if token == "" {
		token = os.Getenv("HOSTPROBE_API_TOKEN")
	}
	return &Server{
		Version: opts.Version,
		svc:     svc,
		metrics: metrics,
		audit:   opts.Audit,
		token:   token,
		pretty:  opts.Pretty,
		log:     log,
	}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/v0/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		_ = r.Body.Close()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.HeartbeatResponse{
			Time:    time.Now(),
			Host:    r.Host,
			Version: s.Version,
		})
	})
	mux.HandleFunc("/v0/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.metrics.Snapshot())
	})
	mux.HandleFunc("/v0/tools", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.svc.Tools())
	})
	mux.HandleFunc("/v0/tools/", s.handleTool)
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()
	name := strings.TrimPrefix(r.URL.Path, "/v0/tools/")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "bad tool name", http.StatusBadRequest)
		return
	}
	device := r.URL.Query().Get("device")

	start := time.Now()
	env, err := s.svc.Run(r.Context(), name, device)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logInvocation(r.Context(), name, env.Message, int(env.Code), len(env.Data), time.Since(start))

	body, err := env.Encode(s.pretty)
	if err != nil {
		s.log.Error().Err(err).Str("tool", name).Msg("encode envelope")
		http.Error(w, "encode failure", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) logInvocation(ctx context.Context, tool, message string, code, records int, d time.Duration) {
	s.log.Info().Str("tool", tool).Int("code", code).Int("records", records).
		Dur("duration", d).Msg("tool invocation")
	if s.audit == nil {
		return
	}
	err := s.audit.RecordInvocation(ctx, store.Invocation{
		Tool:       tool,
		Code:       code,
		Message:    message,
		Records:    records,
		DurationMS: d.Milliseconds(),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("audit write failed")
	}
}

// authorized checks the optional bearer token. With no token configured the
// transport is open (the deployment is expected to front it with its own
// access control).
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	x := r.Header.Get("X-Auth-Token")
	return auth == "Bearer "+s.token || x == s.token
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	s.log.Info().Str("addr", addr).Msg("serving diagnostics API")
	return s.srv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return fmt.Errorf("server not running")
	}
	return s.srv.Shutdown(ctx)
}
