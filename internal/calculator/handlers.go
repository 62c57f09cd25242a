package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/tape"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// MaxKeysPerRequest bounds a single key sequence.
const MaxKeysPerRequest = 256

// TapeReader lists recorded calculations.
type TapeReader interface {
	Recent(ctx context.Context, limit int) ([]tape.Entry, error)
}

// Handler serves the calculator endpoints.
type Handler struct {
	sessions *session.Store
	tape     TapeReader
}

// NewHandler returns a Handler backed by sessions. tr may be nil, in which
// case GET /calculator/tape returns no entries.
func NewHandler(sessions *session.Store, tr TapeReader) *Handler {
	return &Handler{sessions: sessions, tape: tr}
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	h.syncSessionGauge()

	ctx := observability.ContextWithSessionID(r.Context(), sess.ID)
	observability.LoggerWithTrace(ctx).Info("session created",
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, sess.Snapshot())
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, sess.Snapshot())
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(id); err != nil {
		handlers.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	h.syncSessionGauge()

	ctx := observability.ContextWithSessionID(r.Context(), id)
	observability.LoggerWithTrace(ctx).Info("session deleted")

	w.WriteHeader(http.StatusNoContent)
}

// SessionsEvicted is the callback for session.Store.Run.
func (h *Handler) SessionsEvicted(ids []string) {
	h.syncSessionGauge()
	observability.Logger.Info("idle sessions evicted",
		zap.Int("count", len(ids)),
		zap.Strings("session_ids", ids),
	)
}

func (h *Handler) syncSessionGauge() {
	if sessionsGauge != nil {
		sessionsGauge.Set(float64(h.sessions.Len()))
	}
}

// lookup resolves the {id} URL parameter, writing a 404 when it is unknown.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		handlers.WriteError(w, status, err.Error())
		return nil, false
	}
	return sess, true
}

// ---------------------------------------------------------------------------
// Handlers: key presses
// ---------------------------------------------------------------------------

// PressKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.handleKeys(w, r, "keys", sess, true)
}

// Evaluate handles POST /calculator/evaluate. It runs a key sequence on a
// throwaway engine, creating a child span for every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	h.handleKeys(w, r, "evaluate", h.sessions.Scratch(), false)
}

// handleKeys is the shared implementation for key sequence endpoints.
func (h *Handler) handleKeys(w http.ResponseWriter, r *http.Request, opName string, sess *session.Session, tracked bool) {
	ctx := r.Context()
	if tracked {
		ctx = observability.ContextWithSessionID(ctx, sess.ID)
	}
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.session.id", sess.ID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}
	if len(req.Keys) > MaxKeysPerRequest {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "too many keys",
			fmt.Errorf("%d keys, limit is %d", len(req.Keys), MaxKeysPerRequest), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys.count", len(req.Keys)))

	steps, unknown := h.press(ctx, sess, req.Keys)
	last := steps[len(steps)-1]

	span.SetAttributes(
		attribute.String("calculator.display", last.Display),
		attribute.String("calculator.state", last.State),
	)
	if last.Error != "" {
		span.SetStatus(codes.Error, last.Error)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	logger.Info("key sequence applied",
		zap.String("operation", opName),
		zap.Int("keys", len(req.Keys)),
		zap.String("display", last.Display),
		zap.String("state", last.State),
		zap.Strings("unknown", unknown),
		zap.String("request_id", requestID),
	)

	resp := KeysResponse{
		Steps:   steps,
		Display: last.Display,
		State:   last.State,
		Error:   last.Error,
		Unknown: unknown,
	}
	if tracked {
		resp.SessionID = sess.ID
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// press normalizes and applies keys one at a time, one child span per key.
// Unrecognised keys still reach the engine, which rejects them.
func (h *Handler) press(ctx context.Context, sess *session.Session, keys []string) ([]session.Step, []string) {
	logger := observability.LoggerWithTrace(ctx)
	steps := make([]session.Step, 0, len(keys))
	var unknown []string

	for i, key := range keys {
		cmd, ok := keypad.Normalize(key)
		if !ok {
			unknown = append(unknown, key)
		}

		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%s", cmd.Kind()),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.raw", key),
				attribute.String("calculator.key.command", string(cmd)),
			),
		)

		start := time.Now()
		step, err := sess.Press(ctx, cmd)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		if err != nil {
			keySpan.RecordError(err)
			logger.Warn("calculation not recorded",
				zap.String("command", string(cmd)),
				zap.Error(err),
			)
		}

		attrs := metric.WithAttributes(attribute.String("kind", cmd.Kind()))
		keysCounter.Add(ctx, 1, attrs)
		keyHistogram.Record(ctx, elapsed, attrs)

		if step.EnteredError {
			keySpan.SetStatus(codes.Error, step.Error)
			errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(cmd))))
			logger.Warn("calculator entered error state",
				zap.Int("key", i),
				zap.String("command", string(cmd)),
				zap.String("error", step.Error),
			)
		}

		if step.Result != "" {
			calculationsCounter.Add(ctx, 1)
			if v, err := strconv.ParseFloat(step.Result, 64); err == nil {
				resultGauge.Record(ctx, v)
			}
			keySpan.AddEvent("calculation.complete", trace.WithAttributes(
				attribute.String("result", step.Result),
			))
		}

		keySpan.SetAttributes(
			attribute.String("calculator.display", step.Display),
			attribute.String("calculator.state", step.State),
		)
		keySpan.End()

		logger.Debug("key applied",
			zap.String("command", string(cmd)),
			zap.String("display", step.Display),
			zap.String("state", step.State),
			zap.Float64("duration_ms", elapsed),
		)

		steps = append(steps, step)
	}

	return steps, unknown
}

// ---------------------------------------------------------------------------
// Handler: tape
// ---------------------------------------------------------------------------

// Tape handles GET /calculator/tape?limit=N
func (h *Handler) Tape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.tape")
	defer span.End()

	limit := tape.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			observability.RecordError(ctx, span, logger, errorCounter, "tape", "invalid limit", fmt.Errorf("limit=%q", v), http.StatusBadRequest, w)
			return
		}
		limit = n
	}

	resp := TapeResponse{Entries: []tape.Entry{}}
	if h.tape != nil {
		entries, err := h.tape.Recent(ctx, limit)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "tape", "reading tape failed", err, http.StatusInternalServerError, w)
			return
		}
		resp.Entries = entries
	}

	span.SetAttributes(attribute.Int("calculator.tape.entries", len(resp.Entries)))
	handlers.WriteJSON(w, http.StatusOK, resp)
}
