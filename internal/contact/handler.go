package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"terrapulse/internal/httpx"
	"terrapulse/internal/middleware"
	"terrapulse/internal/transport"
	"terrapulse/internal/validation"

	"github.com/google/uuid"
)

const SessionCookieName = "tp_session"

type Handler struct {
	registry     *Registry
	service      *Service
	val          *validation.Validator
	log          *slog.Logger
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewHandler(registry *Registry, service *Service, val *validation.Validator, log *slog.Logger, sessionTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		registry:     registry,
		service:      service,
		val:          val,
		log:          log,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// Submit validates the form and starts a submission for the caller's session.
// It answers 202 while the send runs, or the resolved state with ?wait=true.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var fields Fields
	if err := httpx.DecodeJSON(r.Body, &fields); err != nil {
		log.Warn("contact submit: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(fields); err != nil {
		log.Warn("contact submit: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	sessionID := h.ensureSession(w, r)
	log = log.With(slog.String("session_id", sessionID))
	lc, err := h.registry.Submit(sessionID, fields)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			log.Warn("contact submit: already in flight")
			transport.WriteJSON(w, http.StatusConflict, lc.Snapshot())
			return
		}
		log.Error("contact submit: start failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "submission error", nil)
		return
	}

	if !httpx.QueryBool(r.URL.Query(), "wait") {
		log.Info("contact submit: started")
		transport.WriteJSON(w, http.StatusAccepted, lc.Snapshot())
		return
	}

	snap, err := lc.Wait(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("contact submit: client gone before resolution")
			return
		}
		log.Info("contact submit: still submitting at deadline")
		transport.WriteJSON(w, http.StatusAccepted, snap)
		return
	}
	log.Info("contact submit: resolved", slog.String("status", string(snap.Status)))
	transport.WriteJSON(w, http.StatusOK, snap)
}

// Status reports the caller's submission state. Unknown sessions are idle.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	snap := Snapshot{Status: StatusIdle}
	if sessionID, ok := sessionFromRequest(r); ok {
		if lc, found := h.registry.Get(sessionID); found {
			snap = lc.Snapshot()
		}
	}

	log.Info("contact status: ok", slog.String("status", string(snap.Status)))
	transport.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		log.Warn("admin contacts list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListInbox(ctx, limit, offset)
	if err != nil {
		log.Error("admin contacts list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func sessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || !ValidSessionID(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := sessionFromRequest(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	return id
}
