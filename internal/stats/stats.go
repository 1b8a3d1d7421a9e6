package stats

import (
	"sort"

	"travgram/internal/currency"
	"travgram/internal/models"
)

type TripBar struct {
	TripID   string  `json:"trip_id"`
	Name     string  `json:"name"`
	Budget   float64 `json:"budget"`
	Expenses float64 `json:"expenses"`
}

type TypeCount struct {
	Type  models.TripType `json:"type"`
	Count int             `json:"count"`
}

// Summary powers the statistics screen: per-trip budget against expenses and
// the distribution of trip types.
type Summary struct {
	Currency      string      `json:"currency"`
	TripCount     int         `json:"trip_count"`
	TotalBudget   float64     `json:"total_budget"`
	TotalExpenses float64     `json:"total_expenses"`
	Remaining     float64     `json:"remaining"`
	OverBudget    []string    `json:"over_budget"`
	Bars          []TripBar   `json:"bars"`
	Types         []TypeCount `json:"types"`
}

// Summarize aggregates trips, converting amounts from the base currency into
// code using table.
func Summarize(trips []models.Trip, table currency.Table, code string) (Summary, error) {
	if code == "" {
		code = currency.Base
	}
	iso, err := currency.Normalize(code)
	if err != nil {
		return Summary{}, err
	}
	rate, err := table.Convert(1, iso)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Currency: iso, TripCount: len(trips), Bars: []TripBar{}, Types: []TypeCount{}, OverBudget: []string{}}
	counts := map[models.TripType]int{}
	for _, t := range trips {
		budget, expenses := t.Budget*rate, t.Expenses*rate
		s.TotalBudget += budget
		s.TotalExpenses += expenses
		s.Bars = append(s.Bars, TripBar{TripID: t.ID, Name: t.Name, Budget: budget, Expenses: expenses})
		if t.Expenses > t.Budget {
			s.OverBudget = append(s.OverBudget, t.ID)
		}
		counts[t.Type]++
	}
	s.Remaining = s.TotalBudget - s.TotalExpenses

	for typ, n := range counts {
		s.Types = append(s.Types, TypeCount{Type: typ, Count: n})
	}
	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Count != s.Types[j].Count {
			return s.Types[i].Count > s.Types[j].Count
		}
		return s.Types[i].Type < s.Types[j].Type
	})
	return s, nil
}
