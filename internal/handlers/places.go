package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"travgram/internal/collab"
	"travgram/internal/session"
)

type PlaceHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewPlaceHandler(sessions *session.Manager, log *zap.Logger) *PlaceHandler {
	return &PlaceHandler{sessions: sessions, log: log}
}

type PlaceDTO struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Search handles GET /api/places?q=&lat=&lon=&lat_span=&lon_span=. The region
// parameters are optional.
func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var region collab.Region
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"lat", &region.CenterLatitude},
		{"lon", &region.CenterLongitude},
		{"lat_span", &region.SpanLatitude},
		{"lon_span", &region.SpanLongitude},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, h.log, &session.ValidationError{Field: f.name, Message: "not a number"})
			return
		}
		*f.dst = v
	}

	places, err := h.sessions.SearchPlaces(r.Context(), q.Get("q"), region)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := make([]PlaceDTO, 0, len(places))
	for _, p := range places {
		out = append(out, PlaceDTO{Name: p.Name, Latitude: p.Latitude, Longitude: p.Longitude})
	}
	writeJSON(w, http.StatusOK, out)
}
