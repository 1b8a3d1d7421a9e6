package session

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"travgram/internal/collab"
)

// SearchPlaces looks up places matching query inside region. Named places
// from the current user's own trips come first, followed by results from the
// configured searcher. A zero span leaves that axis unbounded.
func (m *Manager) SearchPlaces(ctx context.Context, query string, region collab.Region) ([]collab.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "required")
	}

	m.mu.Lock()
	if err := m.requireLoginLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	trips := cloneTrips(m.trips)
	searcher := m.places
	m.mu.Unlock()

	needle := strings.ToLower(query)
	seen := map[string]bool{}
	out := []collab.Place{}
	add := func(p collab.Place) {
		key := strings.ToLower(p.Name)
		if seen[key] || !inRegion(region, p.Latitude, p.Longitude) {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	var own []collab.Place
	for _, t := range trips {
		if t.PlaceName == nil || t.Latitude == nil || t.Longitude == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*t.PlaceName), needle) {
			own = append(own, collab.Place{Name: *t.PlaceName, Latitude: *t.Latitude, Longitude: *t.Longitude})
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Name < own[j].Name })
	for _, p := range own {
		add(p)
	}

	if searcher == nil {
		return out, nil
	}
	found, err := searcher.Search(ctx, query, region)
	if err != nil {
		if len(out) > 0 {
			m.log.Warn("place search failed, returning own places", zap.String("query", query), zap.Error(err))
			return out, nil
		}
		return nil, err
	}
	for _, p := range found {
		add(p)
	}
	return out, nil
}

func inRegion(r collab.Region, lat, lon float64) bool {
	if r.SpanLatitude > 0 && math.Abs(lat-r.CenterLatitude) > r.SpanLatitude/2 {
		return false
	}
	if r.SpanLongitude > 0 && math.Abs(lon-r.CenterLongitude) > r.SpanLongitude/2 {
		return false
	}
	return true
}
