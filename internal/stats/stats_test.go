package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travgram/internal/currency"
	"travgram/internal/models"
)

func TestSummarize(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", Name: "Paris", Type: models.TripCity, Budget: 20000, Expenses: 5000},
		{ID: "t2", Name: "Alps", Type: models.TripMountain, Budget: 1000, Expenses: 1500},
		{ID: "t3", Name: "Tokyo", Type: models.TripCity, Budget: 3000},
	}

	s, err := Summarize(trips, currency.DefaultTable(), "")
	require.NoError(t, err)
	assert.Equal(t, "TWD", s.Currency)
	assert.Equal(t, 3, s.TripCount)
	assert.Equal(t, 24000.0, s.TotalBudget)
	assert.Equal(t, 6500.0, s.TotalExpenses)
	assert.Equal(t, 17500.0, s.Remaining)
	assert.Equal(t, []string{"t2"}, s.OverBudget)
	require.Len(t, s.Bars, 3)
	assert.Equal(t, "Paris", s.Bars[0].Name)
	assert.Equal(t, []TypeCount{{Type: models.TripCity, Count: 2}, {Type: models.TripMountain, Count: 1}}, s.Types)
}

func TestSummarizeConverts(t *testing.T) {
	table := currency.Table{"TWD": 1, "USD": 0.5}
	s, err := Summarize([]models.Trip{{ID: "t1", Type: models.TripSea, Budget: 100, Expenses: 40}}, table, "USD")
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.TotalBudget)
	assert.Equal(t, 20.0, s.Bars[0].Expenses)
}

func TestSummarizeReportsISOCode(t *testing.T) {
	s, err := Summarize(nil, currency.DefaultTable(), " usd ")
	require.NoError(t, err)
	assert.Equal(t, "USD", s.Currency)
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(nil, currency.DefaultTable(), "TWD")
	require.NoError(t, err)
	assert.Zero(t, s.TripCount)
	assert.NotNil(t, s.Bars)
	assert.NotNil(t, s.Types)
}

func TestSummarizeUnknownCurrency(t *testing.T) {
	_, err := Summarize(nil, currency.Table{"TWD": 1}, "EUR")
	assert.ErrorIs(t, err, currency.ErrUnknownCurrency)
}
