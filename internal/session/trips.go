package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travgram/internal/collab"
	"travgram/internal/media"
	"travgram/internal/models"
)

// NewTrip carries the fields of the add-trip form.
type NewTrip struct {
	Name      string
	Date      time.Time
	Type      models.TripType
	Budget    float64
	Expenses  float64
	Latitude  *float64
	Longitude *float64
	PlaceName *string
	Photos    [][]byte
	// Remind schedules a notification at the trip date.
	Remind bool
}

func (m *Manager) requireLoginLocked() error {
	if m.state != LoggedIn {
		return ErrNotLoggedIn
	}
	return nil
}

// AddTrip creates a trip owned by the current user.
func (m *Manager) AddTrip(ctx context.Context, in NewTrip) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return models.Trip{}, err
	}

	now := m.now().UTC()
	trip := models.Trip{
		ID:        uuid.NewString(),
		OwnerID:   m.current.ID,
		Name:      in.Name,
		Date:      in.Date,
		Type:      in.Type,
		Budget:    in.Budget,
		Expenses:  in.Expenses,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		PlaceName: in.PlaceName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if trip.Date.IsZero() {
		trip.Date = now
	}
	if trip.Type == "" {
		trip.Type = models.TripCity
	}
	trip = trip.Clone()
	if err := validateTrip(&trip); err != nil {
		return models.Trip{}, err
	}
	for i, data := range in.Photos {
		contentType, err := media.DetectImage(data)
		if err != nil {
			return models.Trip{}, invalid("photos", fmt.Sprintf("photo %d is not an image", i))
		}
		trip.Photos = append(trip.Photos, models.Photo{
			ID:          uuid.NewString(),
			TripID:      trip.ID,
			Position:    i,
			ContentType: contentType,
			Data:        append([]byte(nil), data...),
		})
	}

	if in.Remind {
		trip.ReminderID = m.scheduleReminder(ctx, trip)
	}

	m.store.Insert(&trip)
	if err := m.store.Save(ctx); err != nil {
		m.cancelReminder(ctx, trip)
		return models.Trip{}, m.storageFailure("add trip", err)
	}
	m.log.Info("trip added", zap.String("trip_id", trip.ID), zap.String("user_id", trip.OwnerID))

	m.trips = append(m.trips, trip)
	sortByDate(m.trips)
	m.publishLocked()
	return trip.Clone(), nil
}

// DeleteTrip removes one of the current user's trips and any open draft of it.
func (m *Manager) DeleteTrip(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return err
	}
	idx := m.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	trip := m.trips[idx]

	m.store.Delete(&trip)
	if err := m.store.Save(ctx); err != nil {
		return m.storageFailure("delete trip", err)
	}
	m.log.Info("trip deleted", zap.String("trip_id", id))

	m.cancelReminder(ctx, trip)
	m.trips = append(m.trips[:idx:idx], m.trips[idx+1:]...)
	delete(m.drafts, id)
	m.publishLocked()
	return nil
}

// FetchTrips re-reads the current user's trips from the store and refreshes
// the cached list.
func (m *Manager) FetchTrips(ctx context.Context) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return nil, err
	}
	trips, err := m.fetchOwned(ctx, m.current.ID)
	if err != nil {
		return nil, m.storageFailure("fetch trips", err)
	}
	m.trips = trips
	m.publishLocked()
	return cloneTrips(trips), nil
}

// Trips returns the cached list, sorted by date.
func (m *Manager) Trips() []models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTrips(m.trips)
}

// Trip returns a cached trip by id.
func (m *Manager) Trip(id string) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return models.Trip{}, err
	}
	idx := m.indexLocked(id)
	if idx < 0 {
		return models.Trip{}, ErrNotFound
	}
	return m.trips[idx].Clone(), nil
}

// EditTrip opens a draft of the trip. Asking twice for the same trip returns
// the same draft until it is saved or discarded.
func (m *Manager) EditTrip(id string) (*TripDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return nil, err
	}
	if d, ok := m.drafts[id]; ok {
		return d, nil
	}
	idx := m.indexLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	d := newTripDraft(m.trips[idx])
	m.drafts[id] = d
	return d, nil
}

// EditProfile opens a draft of the current user's profile.
func (m *Manager) EditProfile() (*ProfileDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return nil, err
	}
	if m.profile == nil {
		m.profile = newProfileDraft(*m.current)
	}
	return m.profile, nil
}

// CancelEdit drops the draft of one trip.
func (m *Manager) CancelEdit(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
}

// DiscardChanges drops every open draft. The store is not touched.
func (m *Manager) DiscardChanges() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = map[string]*TripDraft{}
	m.profile = nil
}

func (m *Manager) HasChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile != nil && m.profile.Changed() {
		return true
	}
	for _, d := range m.drafts {
		if d.Changed() {
			return true
		}
	}
	return false
}

type reminderSwap struct {
	old, replacement models.Trip
}

// SaveChanges validates and commits every open draft in a single store save.
// On failure the drafts stay open and nothing is applied.
func (m *Manager) SaveChanges(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoginLocked(); err != nil {
		return err
	}

	now := m.now().UTC()
	var (
		trips   []models.Trip
		swaps   []reminderSwap
		user    *models.User
		oldURL  *string
		upload  string
		profile = m.profile
	)

	ids := make([]string, 0, len(m.drafts))
	for id := range m.drafts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		d := m.drafts[id]
		if !d.Changed() {
			continue
		}
		t := d.Trip()
		if err := validateTrip(&t); err != nil {
			return err
		}
		t.UpdatedAt = now
		trips = append(trips, t)
	}

	if profile != nil && profile.Changed() {
		u, data, clearImage := profile.result()
		u.Username = strings.TrimSpace(u.Username)
		if u.Username == "" {
			return invalid("username", "required")
		}
		if data != nil || clearImage {
			oldURL = u.ProfileImageURL
			u.ProfileImageURL = nil
		}
		if data != nil {
			key := fmt.Sprintf("profiles/%s/%s", u.ID, uuid.NewString())
			url, err := m.images.Put(ctx, key, data)
			if err != nil {
				if errors.Is(err, media.ErrNotImage) {
					return invalid("profile_image", "not an image")
				}
				m.log.Error("profile image upload failed", zap.Error(err))
				return fmt.Errorf("save changes: %w: %w", ErrStorage, err)
			}
			upload = url
			u.ProfileImageURL = &url
		}
		user = &u
	}

	if len(trips) == 0 && user == nil {
		m.drafts = map[string]*TripDraft{}
		m.profile = nil
		return nil
	}

	for i := range trips {
		idx := m.indexLocked(trips[i].ID)
		if idx < 0 || m.trips[idx].ReminderID == nil || m.trips[idx].Date.Equal(trips[i].Date) {
			continue
		}
		old := m.trips[idx]
		trips[i].ReminderID = m.scheduleReminder(ctx, trips[i])
		swaps = append(swaps, reminderSwap{old: old, replacement: trips[i]})
	}

	for i := range trips {
		m.store.Update(&trips[i])
	}
	if user != nil {
		m.store.Update(user)
	}
	if err := m.store.Save(ctx); err != nil {
		if upload != "" {
			if rmErr := m.images.Remove(ctx, upload); rmErr != nil {
				m.log.Warn("failed to remove orphaned profile image", zap.Error(rmErr))
			}
		}
		for _, s := range swaps {
			m.cancelReminder(ctx, s.replacement)
		}
		return m.storageFailure("save changes", err)
	}

	for _, s := range swaps {
		m.cancelReminder(ctx, s.old)
	}
	if oldURL != nil {
		if err := m.images.Remove(ctx, *oldURL); err != nil {
			m.log.Warn("failed to remove replaced profile image", zap.Error(err))
		}
	}
	for _, t := range trips {
		if idx := m.indexLocked(t.ID); idx >= 0 {
			m.trips[idx] = t
		}
	}
	sortByDate(m.trips)
	if user != nil {
		m.current = user
	}
	m.drafts = map[string]*TripDraft{}
	m.profile = nil
	m.log.Info("changes saved", zap.Int("trips", len(trips)), zap.Bool("profile", user != nil))
	m.publishLocked()
	return nil
}

// scheduleReminder returns the notification id, or nil when no reminder
// could be scheduled. Failures are logged and otherwise ignored.
func (m *Manager) scheduleReminder(ctx context.Context, t models.Trip) *string {
	if m.notifier == nil || !t.Date.After(m.now()) {
		return nil
	}
	id, err := m.notifier.Schedule(ctx, collab.Notification{
		Title: "Upcoming trip",
		Body:  fmt.Sprintf("%s starts today", t.Name),
	}, t.Date)
	if err != nil {
		m.log.Warn("failed to schedule trip reminder", zap.String("trip_id", t.ID), zap.Error(err))
		return nil
	}
	return &id
}

func (m *Manager) cancelReminder(ctx context.Context, t models.Trip) {
	if m.notifier == nil || t.ReminderID == nil {
		return
	}
	if err := m.notifier.Cancel(ctx, *t.ReminderID); err != nil {
		m.log.Warn("failed to cancel trip reminder", zap.String("trip_id", t.ID), zap.Error(err))
	}
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.trips {
		if m.trips[i].ID == id {
			return i
		}
	}
	return -1
}

func sortByDate(trips []models.Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		if !trips[i].Date.Equal(trips[j].Date) {
			return trips[i].Date.Before(trips[j].Date)
		}
		return trips[i].ID < trips[j].ID
	})
}

func cloneTrips(trips []models.Trip) []models.Trip {
	if trips == nil {
		return nil
	}
	out := make([]models.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out
}
