package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"travgram/internal/currency"
	"travgram/internal/models"
	"travgram/internal/session"
	"travgram/internal/stats"
	"travgram/internal/tips"
)

type DashboardHandler struct {
	sessions *session.Manager
	rates    currency.Table
	tips     tips.Catalog
	log      *zap.Logger
}

func NewDashboardHandler(sessions *session.Manager, rates currency.Table, catalog tips.Catalog, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{sessions: sessions, rates: rates, tips: catalog, log: log}
}

type statsResponse struct {
	stats.Summary
	FormattedBudget    string   `json:"formatted_budget"`
	FormattedExpenses  string   `json:"formatted_expenses"`
	FormattedRemaining string   `json:"formatted_remaining"`
	Currencies         []string `json:"currencies"`
}

// Stats summarizes the current user's trips. Accepts optional query param
// currency=ISO code; amounts default to the base currency.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := stats.Summarize(h.sessions.Trips(), h.rates, r.URL.Query().Get("currency"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := statsResponse{Summary: summary, Currencies: h.rates.Codes()}
	if out.FormattedBudget, err = currency.Format(summary.TotalBudget, summary.Currency); err != nil {
		writeError(w, h.log, err)
		return
	}
	out.FormattedExpenses, _ = currency.Format(summary.TotalExpenses, summary.Currency)
	out.FormattedRemaining, _ = currency.Format(summary.Remaining, summary.Currency)
	writeJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Tips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tips)
}

func (h *DashboardHandler) TripTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.TripTypes)
}
