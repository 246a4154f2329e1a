// Package server exposes the session and reporting operations as a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/hsaito/retentio/internal/memory"
	"github.com/hsaito/retentio/internal/progress"
	"github.com/hsaito/retentio/internal/selector"
	"github.com/hsaito/retentio/internal/session"
	"github.com/hsaito/retentio/internal/stats"
)

//go:generate mockgen -source=handler.go -destination=../mocks/server/mock_handler.go -package=mock_server

// SessionService is the session surface the handler serves.
type SessionService interface {
	Start(ctx context.Context, userID int64, mode string, policy selector.Policy, scope selector.Scope) (*session.Descriptor, error)
	NextBatch(ctx context.Context, sessionID string, n int) (*session.Batch, error)
	SubmitAnswer(ctx context.Context, sessionID string, itemID int64, q memory.Quality, duration time.Duration) (*session.AnswerSummary, error)
	Skip(ctx context.Context, sessionID string, itemID int64) error
	End(ctx context.Context, sessionID string) (*session.Descriptor, error)
	Status(ctx context.Context, sessionID string) (*session.Descriptor, error)
	Resume(ctx context.Context, userID int64, mode string, scope selector.Scope) (*session.Descriptor, error)
}

// StatsService is the reporting surface the handler serves.
type StatsService interface {
	Overview(ctx context.Context, userID int64, mode string) (*stats.Overview, error)
	DueByContainer(ctx context.Context, userID int64, mode string, containerIDs []int64) ([]stats.ContainerDue, error)
	RecentActivity(ctx context.Context, userID int64, limit int) ([]progress.ReviewLog, error)
	MonthlyActivity(ctx context.Context, userID int64, year, month int) (stats.ActivityResult, error)
}

// Handler serves the study API.
type Handler struct {
	sessions SessionService
	stats    StatsService
	scopes   selector.ScopeResolver
	scales   memory.ScaleSet
	validate *validator.Validate
	trans    ut.Translator
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sessions SessionService, statsSvc StatsService, scopes selector.ScopeResolver, scales memory.ScaleSet, logger *slog.Logger) (*Handler, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &Handler{
		sessions: sessions,
		stats:    statsSvc,
		scopes:   scopes,
		scales:   scales,
		validate: validate,
		trans:    trans,
		logger:   logger,
	}, nil
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sessions", h.startSession)
	mux.HandleFunc("POST /api/v1/sessions/resume", h.resumeSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.sessionStatus)
	mux.HandleFunc("POST /api/v1/sessions/{id}/batch", h.nextBatch)
	mux.HandleFunc("POST /api/v1/sessions/{id}/answers", h.submitAnswer)
	mux.HandleFunc("POST /api/v1/sessions/{id}/skips", h.skipItem)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.endSession)
	mux.HandleFunc("GET /api/v1/stats/overview", h.statsOverview)
	mux.HandleFunc("GET /api/v1/stats/containers", h.statsContainers)
	mux.HandleFunc("GET /api/v1/stats/activity", h.statsActivity)
	mux.HandleFunc("GET /api/v1/stats/recent", h.statsRecent)
}

type scopeRequest struct {
	All          bool    `json:"all"`
	ContainerIDs []int64 `json:"container_ids" validate:"required_without=All"`
}

func (s scopeRequest) toScope() selector.Scope {
	if s.All {
		return selector.ScopeAll()
	}
	return selector.ScopeContainers(s.ContainerIDs...)
}

type startSessionRequest struct {
	Mode   string       `json:"mode" validate:"required"`
	Policy string       `json:"policy" validate:"required,policy"`
	Scope  scopeRequest `json:"scope"`
}

type startSessionResponse struct {
	Session         *session.Descriptor `json:"session,omitempty"`
	NoEligibleItems bool                `json:"no_eligible_items,omitempty"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req startSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	policy, err := selector.ParsePolicy(req.Policy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d, err := h.sessions.Start(r.Context(), userID, req.Mode, policy, req.Scope.toScope())
	if errors.Is(err, session.ErrNoEligibleItems) {
		// A normal terminal signal for the UI, not a failure.
		h.writeJSON(w, http.StatusOK, startSessionResponse{NoEligibleItems: true})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, startSessionResponse{Session: d})
}

type resumeSessionRequest struct {
	Mode  string       `json:"mode" validate:"required"`
	Scope scopeRequest `json:"scope"`
}

func (h *Handler) resumeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req resumeSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.sessions.Resume(r.Context(), userID, req.Mode, req.Scope.toScope())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, startSessionResponse{Session: d})
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

type nextBatchRequest struct {
	Limit int `json:"limit" validate:"required,gt=0,lte=100"`
}

func (h *Handler) nextBatch(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	var req nextBatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	batch, err := h.sessions.NextBatch(r.Context(), d.ID, req.Limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, batch)
}

type submitAnswerRequest struct {
	ItemID     int64 `json:"item_id" validate:"required"`
	ScaleSize  int   `json:"scale_size" validate:"required"`
	Button     int   `json:"button" validate:"gte=0"`
	DurationMs int64 `json:"duration_ms" validate:"gte=0"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if !h.decode(w, r, &req) {
		return
	}

	quality, err := h.scales.MapButton(req.ScaleSize, req.Button)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.sessions.SubmitAnswer(r.Context(), d.ID, req.ItemID,
		quality, time.Duration(req.DurationMs)*time.Millisecond)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

type skipItemRequest struct {
	ItemID int64 `json:"item_id" validate:"required"`
}

func (h *Handler) skipItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	var req skipItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.Skip(r.Context(), d.ID, req.ItemID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	owned, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	d, err := h.sessions.End(r.Context(), owned.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

func (h *Handler) statsOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		h.writeMessage(w, http.StatusBadRequest, "mode is required")
		return
	}

	overview, err := h.stats.Overview(r.Context(), userID, mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) statsContainers(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		h.writeMessage(w, http.StatusBadRequest, "mode is required")
		return
	}

	containerIDs, err := h.scopes.AccessibleContainerIDs(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	workload, err := h.stats.DueByContainer(r.Context(), userID, mode, containerIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, workload)
}

func (h *Handler) statsActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)

	result, err := h.stats.MonthlyActivity(r.Context(), userID, year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) statsRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 20)

	logs, err := h.stats.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, logs)
}

// ownedSession loads the session from the {id} path segment and checks it
// belongs to the authenticated user. A session owned by someone else is
// reported as not found so its existence does not leak.
func (h *Handler) ownedSession(w http.ResponseWriter, r *http.Request) (*session.Descriptor, bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return nil, false
	}
	d, err := h.sessions.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	if d.UserID != userID {
		h.writeError(w, r, session.ErrSessionNotFound)
		return nil, false
	}
	return d, true
}

// userID reads the authenticated user from the X-User-ID header set by
// the auth proxy in front of this service.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeMessage(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, translateErrors(h.trans, err))
		return false
	}
	return true
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps sentinel errors onto HTTP statuses. Unknown errors are
// storage-level failures and stay opaque to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		h.writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrItemNotInSession),
		errors.Is(err, memory.ErrInvalidRating),
		errors.Is(err, selector.ErrUnknownPolicy):
		h.writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrConflict),
		errors.Is(err, session.ErrSessionNotActive):
		h.writeMessage(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
		h.writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response failed", slog.Any("error", err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
