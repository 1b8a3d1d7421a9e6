package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"travgram/internal/session"
)

type AuthHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewAuthHandler(sessions *session.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, log: log}
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string  `json:"token,omitempty"`
	User  UserDTO `json:"user"`
}

// Signup registers an account. The token is only present when the server
// logs new users in straight away.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ConfirmPassword != "" {
		if err := session.ConfirmPassword(req.Password, req.ConfirmPassword); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	u, err := h.sessions.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	resp := sessionResponse{User: ToUserDTO(u)}
	if current, ok := h.sessions.CurrentUser(); ok && current.ID == u.ID {
		resp.Token = h.sessions.Token()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decode(w, r, &c) {
		return
	}
	if c.Email == "" || c.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}
	u, err := h.sessions.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: h.sessions.Token(), User: ToUserDTO(u)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const passwordResetMessage = "If an account exists for this email, reset instructions will be sent."

// PasswordReset answers every well-formed email with the same message, so the
// response says nothing about which accounts exist. No mail is sent.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !session.ValidEmail(strings.ToLower(strings.TrimSpace(req.Email))) {
		writeError(w, h.log, &session.ValidationError{Field: "email", Message: "invalid email address"})
		return
	}
	h.log.Info("password reset requested")
	writeJSON(w, http.StatusAccepted, map[string]string{"message": passwordResetMessage})
}
