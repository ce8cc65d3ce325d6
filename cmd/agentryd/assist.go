package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/halcyon-labs/agentry"
	"github.com/halcyon-labs/agentry/internal/logging"
	"github.com/halcyon-labs/agentry/internal/metrics"
	"github.com/halcyon-labs/agentry/internal/requestlog"
)

// auditTimeout bounds the request log write after the stream ends. The
// request context may already be cancelled by then, so the write runs
// on its own deadline.
const auditTimeout = 5 * time.Second

// assistHandler serves POST /assist (default agent) and
// POST /agents/{agent}/assist (named agent).
func assistHandler(host *agentry.Host, audit requestlog.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var agent agentry.Agent
		var ok bool
		if name := chi.URLParam(r, "agent"); name != "" {
			agent, ok = host.Get(name)
			if !ok {
				writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown agent %q", name))
				return
			}
		} else {
			agent, ok = host.Default()
			if !ok {
				writeJSONError(w, http.StatusServiceUnavailable, "no agents registered")
				return
			}
		}

		var req agentry.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.FillDefaults()

		streamAssist(w, r, agent, audit, req)
	}
}

// streamAssist runs the agent in its own goroutine and drains its event
// channel into the response as SSE frames. The stream always terminates
// with the done event; agent errors and panics surface as a final
// ERROR event first.
func streamAssist(w http.ResponseWriter, r *http.Request, agent agentry.Agent, audit requestlog.Writer, req agentry.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx)
	start := time.Now()

	rh := agentry.NewChannelHandler(ctx, agent.Name())
	errc := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("agent panicked", "agent", agent.Name(), "panic", rec)
				_ = rh.EmitError(http.StatusInternalServerError, "The agent failed to process this request.")
				_ = rh.Complete()
				errc <- fmt.Errorf("agent %s panicked: %v", agent.Name(), rec)
			}
		}()
		err := agent.Assist(ctx, req.Session, req.Query, rh)
		if err != nil && !errors.Is(err, context.Canceled) {
			_ = rh.EmitError(http.StatusInternalServerError, "The agent failed to process this request.")
		}
		// No-op when the agent already completed; guarantees the drain
		// loop below terminates.
		_ = rh.Complete()
		errc <- err
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)

	var names []string
	for ev := range rh.Events() {
		names = append(names, ev.Name)
		metrics.EventsTotal.WithLabelValues(agent.Name(), ev.Name).Inc()
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error("marshal event failed", "event", ev.Name, "error", err)
			continue
		}
		_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
		if flusher != nil {
			flusher.Flush()
		}
	}
	err := <-errc

	latency := time.Since(start)
	intent, cacheHit := requestlog.Classify(names)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AssistsTotal.WithLabelValues(agent.Name(), intent, status).Inc()
	metrics.AssistDuration.WithLabelValues(agent.Name()).Observe(latency.Seconds())

	entry := requestlog.Entry{
		TraceID:   logging.TraceIDFromContext(ctx),
		Agent:     agent.Name(),
		SessionID: req.Session.ActivityID,
		Intent:    intent,
		CacheHit:  cacheHit,
		Events:    len(names),
		LatencyMS: latency.Milliseconds(),
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	auditCtx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if werr := audit.Write(auditCtx, entry); werr != nil {
		log.Warn("request log write failed", "error", werr)
	}

	if err != nil {
		log.Error("assist failed", "agent", agent.Name(), "error", err)
		return
	}
	log.Info("assist completed",
		"agent", agent.Name(),
		"intent", intent,
		"cache_hit", cacheHit,
		"events", len(names),
		"duration_ms", latency.Milliseconds(),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
