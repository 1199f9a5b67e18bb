// Package httpapi exposes the moderation service over HTTP with chi.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/logger"
	"github.com/venuemarket/moderation/internal/metrics"
	"github.com/venuemarket/moderation/internal/moderation"
	"github.com/venuemarket/moderation/internal/ratelimit"
	"github.com/venuemarket/moderation/internal/review"
	"github.com/venuemarket/moderation/internal/store"
)

// Reviewer runs checks and reviews.
type Reviewer interface {
	Check(content string) moderation.Result
	Review(ctx context.Context, m review.Message) review.Outcome
}

// AlertAdmin lists and resolves persisted alerts.
type AlertAdmin interface {
	ListAlerts(ctx context.Context, f store.AlertFilter) ([]alert.Alert, error)
	ResolveAlert(ctx context.Context, alertID, adminID int64) (alert.Alert, error)
}

// StrikeAdmin reads and clears a sender's strike counter.
type StrikeAdmin interface {
	Count(ctx context.Context, senderID int64) (int, error)
	Clear(ctx context.Context, senderID int64) error
}

// RateLimiter reports whether an identifier is still within rule.
type RateLimiter interface {
	Allow(ctx context.Context, identifier string, rule ratelimit.Rule) (bool, error)
}

// Deps are the collaborators of the router. Only Reviewer is required.
type Deps struct {
	Reviewer Reviewer
	Alerts   AlertAdmin
	Strikes  StrikeAdmin
	Limiter  RateLimiter
	Rule     ratelimit.Rule
	Ready    func(ctx context.Context) error
}

type api struct {
	deps Deps
	log  *logger.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	a := &api{deps: d, log: logger.Named("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.accessLog)
	r.Use(a.recoverJSON)

	r.Get("/healthz", a.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(a.rateLimit)
		}
		r.Post("/moderation/check", a.check)
		r.Post("/moderation/messages", a.reviewMessage)
		if d.Alerts != nil {
			r.Get("/admin/alerts", a.listAlerts)
			r.Post("/admin/alerts/{id}/resolve", a.resolveAlert)
		}
		if d.Strikes != nil {
			r.Get("/admin/senders/{id}/strikes", a.senderStrikes)
			r.Delete("/admin/senders/{id}/strikes", a.clearStrikes)
		}
	})
	return r
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	if a.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.deps.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rateLimit throttles per client address. Limiter errors fail open.
func (a *api) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, _ := a.deps.Limiter.Allow(r.Context(), clientAddr(r), a.deps.Rule)
		if !ok {
			metrics.RateLimitedTotal.Inc()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (a *api) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (a *api) recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				a.log.Error().
					Interface("panic", rec).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("handler panic")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
