package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"travgram/internal/media"
	"travgram/internal/session"
)

type UserHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewUserHandler(sessions *session.Manager, log *zap.Logger) *UserHandler {
	return &UserHandler{sessions: sessions, log: log}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessions.CurrentUser()
	if !ok {
		writeError(w, h.log, session.ErrNotLoggedIn)
		return
	}
	writeJSON(w, http.StatusOK, ToUserDTO(u))
}

// GetProfileImage serves the current user's picture. Inline images are
// decoded and written directly; stored objects are redirected to.
func (h *UserHandler) GetProfileImage(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessions.CurrentUser()
	if !ok {
		writeError(w, h.log, session.ErrNotLoggedIn)
		return
	}
	if u.ProfileImageURL == nil {
		writeError(w, h.log, session.ErrNotFound)
		return
	}
	url := *u.ProfileImageURL
	if !strings.HasPrefix(url, "data:") {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	data, contentType, err := media.DecodeDataURL(url)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// UpdateMe updates provided fields on the current user's profile. An empty
// fullname or bio removes it; profile_image is base64 image data.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username          *string `json:"username"`
		Fullname          *string `json:"fullname"`
		Bio               *string `json:"bio"`
		ProfileImage      []byte  `json:"profile_image"`
		ClearProfileImage bool    `json:"clear_profile_image"`
	}
	if !decode(w, r, &body) {
		return
	}

	draft, err := h.sessions.EditProfile()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if body.Username != nil {
		draft.SetUsername(*body.Username)
	}
	if body.Fullname != nil {
		draft.SetFullname(*body.Fullname)
	}
	if body.Bio != nil {
		draft.SetBio(*body.Bio)
	}
	if body.ClearProfileImage {
		draft.ClearProfileImage()
	}
	if body.ProfileImage != nil {
		if err := draft.SetProfileImage(body.ProfileImage); err != nil {
			h.sessions.DiscardChanges()
			writeError(w, h.log, err)
			return
		}
	}
	if err := h.sessions.SaveChanges(r.Context()); err != nil {
		h.sessions.DiscardChanges()
		writeError(w, h.log, err)
		return
	}
	u, _ := h.sessions.CurrentUser()
	writeJSON(w, http.StatusOK, ToUserDTO(u))
}
