package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"travgram/internal/session"
)

// AdminHandler serves the debug-only maintenance routes. It is mounted only
// when the server runs with DEBUG=true and performs no permission check.
type AdminHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewAdminHandler(sessions *session.Manager, log *zap.Logger) *AdminHandler {
	return &AdminHandler{sessions: sessions, log: log}
}

// DeleteAllUsers removes every account and trip and ends the session.
func (h *AdminHandler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteAllUsers(r.Context()); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.Warn("all users deleted through admin route", zap.String("remote_ip", r.RemoteAddr))
	w.WriteHeader(http.StatusNoContent)
}
