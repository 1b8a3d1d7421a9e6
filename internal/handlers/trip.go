package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"travgram/internal/models"
	"travgram/internal/session"
)

type TripHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewTripHandler(sessions *session.Manager, log *zap.Logger) *TripHandler {
	return &TripHandler{sessions: sessions, log: log}
}

type createTripRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"` // RFC 3339 or YYYY-MM-DD
	Type      string   `json:"type"`
	Budget    float64  `json:"budget"`
	Expenses  float64  `json:"expenses"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PlaceName *string  `json:"place_name"`
	Photos    [][]byte `json:"photos"`
	Remind    bool     `json:"remind"`
}

type updateTripRequest struct {
	Name          *string  `json:"name"`
	Date          *string  `json:"date"`
	Type          *string  `json:"type"`
	Budget        *float64 `json:"budget"`
	Expenses      *float64 `json:"expenses"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	PlaceName     *string  `json:"place_name"`
	ClearLocation bool     `json:"clear_location"`
}

// List returns the cached trips; ?refresh=true re-reads them from the store.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips := h.sessions.Trips()
	if r.URL.Query().Get("refresh") == "true" {
		var err error
		if trips, err = h.sessions.FetchTrips(r.Context()); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ToTripDTOs(trips))
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decode(w, r, &req) {
		return
	}
	in := session.NewTrip{
		Name:      req.Name,
		Budget:    req.Budget,
		Expenses:  req.Expenses,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		PlaceName: req.PlaceName,
		Photos:    req.Photos,
		Remind:    req.Remind,
	}
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		in.Date = d
	}
	if req.Type != "" {
		in.Type, _ = models.ParseTripType(req.Type)
	}

	trip, err := h.sessions.AddTrip(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToTripDTO(trip))
}

func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTripRequest
	if !decode(w, r, &req) {
		return
	}
	var date time.Time
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = d
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		http.Error(w, "latitude and longitude go together", http.StatusBadRequest)
		return
	}

	h.edit(w, r, http.StatusOK, func(d *session.TripDraft) (any, error) {
		if req.Name != nil {
			d.SetName(*req.Name)
		}
		if req.Date != nil {
			d.SetDate(date)
		}
		if req.Type != nil {
			t, _ := models.ParseTripType(*req.Type)
			d.SetType(t)
		}
		if req.Budget != nil {
			d.SetBudget(*req.Budget)
		}
		if req.Expenses != nil {
			d.SetExpenses(*req.Expenses)
		}
		if req.ClearLocation {
			d.ClearLocation()
		}
		if req.Latitude != nil {
			d.SetLocation(*req.Latitude, *req.Longitude)
		}
		if req.PlaceName != nil {
			d.SetPlaceName(*req.PlaceName)
		}
		return nil, nil
	})
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteTrip(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPhoto appends the raw request body as a photo.
func (h *TripHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.edit(w, r, http.StatusCreated, func(d *session.TripDraft) (any, error) {
		p, err := d.AppendPhoto(data)
		if err != nil {
			return nil, err
		}
		return PhotoDTO{
			ID:          p.ID,
			Position:    p.Position,
			ContentType: p.ContentType,
			URL:         "/api/trips/" + d.ID() + "/photos/" + p.ID,
		}, nil
	})
}

func (h *TripHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	trip, err := h.sessions.Trip(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	photoID := chi.URLParam(r, "photoID")
	for _, p := range trip.Photos {
		if p.ID == photoID {
			w.Header().Set("Content-Type", p.ContentType)
			w.Write(p.Data)
			return
		}
	}
	writeError(w, h.log, session.ErrNotFound)
}

func (h *TripHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	h.edit(w, r, http.StatusOK, func(d *session.TripDraft) (any, error) {
		return nil, d.RemovePhoto(photoID)
	})
}

// edit runs fn against a draft of the trip named in the URL and saves it.
// When fn returns no body the saved trip is written instead. On any failure
// the draft is dropped.
func (h *TripHandler) edit(w http.ResponseWriter, r *http.Request, status int, fn func(d *session.TripDraft) (any, error)) {
	id := chi.URLParam(r, "id")
	d, err := h.sessions.EditTrip(id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	body, err := fn(d)
	if err == nil {
		err = h.sessions.SaveChanges(r.Context())
	}
	if err != nil {
		h.sessions.CancelEdit(id)
		writeError(w, h.log, err)
		return
	}
	if body == nil {
		trip, err := h.sessions.Trip(id)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		body = ToTripDTO(trip)
	}
	writeJSON(w, status, body)
}
