package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travgram/internal/collab"
	"travgram/internal/media"
	"travgram/internal/models"
	"travgram/internal/store"
	"travgram/internal/tasks"
)

type fakeNotifier struct {
	mu        sync.Mutex
	next      int
	scheduled map[string]time.Time
	cancels   []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{scheduled: map[string]time.Time{}}
}

func (n *fakeNotifier) Schedule(_ context.Context, _ collab.Notification, at time.Time) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	id := fmt.Sprintf("reminder-%d", n.next)
	n.scheduled[id] = at
	return id, nil
}

func (n *fakeNotifier) Cancel(_ context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancels = append(n.cancels, id)
	return nil
}

func (n *fakeNotifier) cancelled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.cancels...)
}

// pending counts reminders that were scheduled and not cancelled.
func (n *fakeNotifier) pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := len(n.scheduled)
	for _, id := range n.cancels {
		if _, ok := n.scheduled[id]; ok {
			count--
		}
	}
	return count
}

func ptr[T any](v T) *T { return &v }

func TestAddTripParisScenario(t *testing.T) {
	m, u := loggedIn(t, newEnv())
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := m.AddTrip(ctx, NewTrip{
		Name:      "Paris trip",
		Date:      date,
		Type:      models.TripCity,
		Budget:    20000,
		Expenses:  0,
		Latitude:  ptr(48.85),
		Longitude: ptr(2.35),
	})
	require.NoError(t, err)

	trips, err := m.FetchTrips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Paris trip", trips[0].Name)
	assert.Equal(t, 20000.0, trips[0].Budget)
	assert.Equal(t, u.ID, trips[0].OwnerID)
	assert.True(t, trips[0].Date.Equal(date))
	assert.Equal(t, 48.85, *trips[0].Latitude)
}

func TestAddTripRequiresLogin(t *testing.T) {
	m := newEnv().manager(t)
	_, err := m.AddTrip(context.Background(), NewTrip{Name: "Nowhere"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = m.FetchTrips(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, m.DeleteTrip(context.Background(), "x"), ErrNotLoggedIn)
}

func TestAddTripDefaults(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	trip, err := m.AddTrip(context.Background(), NewTrip{Name: "  Taipei  "})
	require.NoError(t, err)
	assert.Equal(t, "Taipei", trip.Name)
	assert.Equal(t, models.TripCity, trip.Type)
	assert.True(t, trip.Date.Equal(testNow))
	assert.Nil(t, trip.ReminderID)
}

func TestAddTripValidation(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	tests := []struct {
		name  string
		in    NewTrip
		field string
	}{
		{"empty name", NewTrip{Name: " "}, "name"},
		{"unknown type", NewTrip{Name: "a", Type: "space"}, "type"},
		{"negative budget", NewTrip{Name: "a", Budget: -1}, "budget"},
		{"negative expenses", NewTrip{Name: "a", Expenses: -5}, "expenses"},
		{"half a coordinate", NewTrip{Name: "a", Latitude: ptr(10.0)}, "location"},
		{"latitude out of range", NewTrip{Name: "a", Latitude: ptr(91.0), Longitude: ptr(0.0)}, "latitude"},
		{"photo not an image", NewTrip{Name: "a", Photos: [][]byte{png(1), []byte("text")}}, "photos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddTrip(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, m.Trips())
}

func TestAddTripStorageFailure(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	e.store.failWith(errors.New("disk unavailable"))

	_, err := m.AddTrip(context.Background(), NewTrip{Name: "Lost", Date: testNow.Add(time.Hour), Remind: true})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "disk unavailable")
	assert.Empty(t, m.Trips())
	assert.Len(t, e.notifier.cancelled(), 1, "reminder for the unsaved trip is withdrawn")
}

func TestAddTripReminder(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	ctx := context.Background()
	date := testNow.Add(72 * time.Hour)

	future, err := m.AddTrip(ctx, NewTrip{Name: "Alishan", Date: date, Remind: true})
	require.NoError(t, err)
	require.NotNil(t, future.ReminderID)
	assert.True(t, e.notifier.scheduled[*future.ReminderID].Equal(date))

	past, err := m.AddTrip(ctx, NewTrip{Name: "Yilan", Date: testNow.Add(-time.Hour), Remind: true})
	require.NoError(t, err)
	assert.Nil(t, past.ReminderID)

	require.NoError(t, m.DeleteTrip(ctx, future.ID))
	assert.Equal(t, []string{*future.ReminderID}, e.notifier.cancelled())
}

func TestDeleteTripRemovesExactlyOne(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		trip, err := m.AddTrip(ctx, NewTrip{Name: fmt.Sprintf("trip %d", i), Date: testNow.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
		ids = append(ids, trip.ID)
	}
	before := m.Trips()

	require.NoError(t, m.DeleteTrip(ctx, ids[1]))

	trips, err := m.FetchTrips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, before[0], trips[0])
	assert.Equal(t, before[2], trips[1])
	assert.Equal(t, trips, m.Trips())

	assert.ErrorIs(t, m.DeleteTrip(ctx, ids[1]), ErrNotFound)
}

func TestTripsAreScopedToOwner(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice, _ := loggedIn(t, e)
	_, err := alice.AddTrip(ctx, NewTrip{Name: "alice's trip"})
	require.NoError(t, err)
	require.NoError(t, alice.Logout(ctx))

	bob := e.manager(t)
	_, err = bob.Register(ctx, "bob", "bob@x.com", "pw123456")
	require.NoError(t, err)
	_, err = bob.Login(ctx, "bob@x.com", "pw123456")
	require.NoError(t, err)

	trips, err := bob.FetchTrips(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestTripsCacheIsACopy(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	_, err := m.AddTrip(context.Background(), NewTrip{Name: "Keelung"})
	require.NoError(t, err)

	trips := m.Trips()
	trips[0].Name = "changed"
	assert.Equal(t, "Keelung", m.Trips()[0].Name)
}

func TestPhotoAppendRemoveKeepsOrder(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Penghu", Photos: [][]byte{png(0)}})
	require.NoError(t, err)

	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	var added []models.Photo
	for i := 1; i <= 3; i++ {
		p, err := d.AppendPhoto(png(byte(i)))
		require.NoError(t, err)
		added = append(added, p)
	}
	require.Len(t, d.Photos(), 4)

	require.NoError(t, d.RemovePhoto(added[0].ID))
	assert.ErrorIs(t, d.RemovePhoto(added[0].ID), ErrNotFound)
	require.NoError(t, m.SaveChanges(ctx))

	trips, err := m.FetchTrips(ctx)
	require.NoError(t, err)
	photos := trips[0].Photos
	require.Len(t, photos, 3)
	assert.Equal(t, png(0), photos[0].Data)
	assert.Equal(t, png(2), photos[1].Data)
	assert.Equal(t, png(3), photos[2].Data)
	for i, p := range photos {
		assert.Equal(t, i, p.Position)
		assert.Equal(t, "image/png", p.ContentType)
	}
}

func TestAppendThenRemovePhotoLeavesDraftUnchanged(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Lukang"})
	require.NoError(t, err)
	require.Empty(t, trip.Photos)

	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	p, err := d.AppendPhoto(png(1))
	require.NoError(t, err)
	assert.True(t, d.Changed())
	require.NoError(t, d.RemovePhoto(p.ID))
	assert.False(t, d.Changed())
	assert.False(t, m.HasChanges())

	saves := e.store.saves
	require.NoError(t, m.SaveChanges(ctx))
	assert.Equal(t, saves, e.store.saves, "nothing to write")
}

func TestAppendPhotoRejectsNonImage(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	trip, err := m.AddTrip(context.Background(), NewTrip{Name: "Kenting"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)

	_, err = d.AppendPhoto([]byte("definitely not a picture"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, d.Photos())
}

func TestDraftIsIsolatedUntilSave(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Taichung", Budget: 100})
	require.NoError(t, err)

	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	again, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	assert.Same(t, d, again)

	assert.False(t, m.HasChanges())
	d.SetName("Taichung again")
	d.SetBudget(250)
	assert.True(t, m.HasChanges())
	assert.Equal(t, "Taichung", m.Trips()[0].Name)

	m.DiscardChanges()
	assert.False(t, m.HasChanges())
	stored, err := e.store.FetchTrips(ctx, store.TripFilter{ID: trip.ID})
	require.NoError(t, err)
	assert.Equal(t, "Taichung", stored[0].Name)

	d, err = m.EditTrip(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taichung", d.Trip().Name)
	d.SetName("Taichung again")
	d.SetExpenses(40)
	d.SetType(models.TripCulinary)
	require.NoError(t, m.SaveChanges(ctx))

	assert.False(t, m.HasChanges())
	got := m.Trips()[0]
	assert.Equal(t, "Taichung again", got.Name)
	assert.Equal(t, 40.0, got.Expenses)
	assert.Equal(t, models.TripCulinary, got.Type)
	stored, err = e.store.FetchTrips(ctx, store.TripFilter{ID: trip.ID})
	require.NoError(t, err)
	assert.Equal(t, "Taichung again", stored[0].Name)
}

func TestCancelEdit(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	trip, err := m.AddTrip(context.Background(), NewTrip{Name: "Nantou"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	d.SetName("changed")

	m.CancelEdit(trip.ID)
	assert.False(t, m.HasChanges())
	require.NoError(t, m.SaveChanges(context.Background()))
	assert.Equal(t, "Nantou", m.Trips()[0].Name)
}

func TestEditUnknownTrip(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	_, err := m.EditTrip("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveChangesValidationKeepsDraft(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Chiayi"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)

	d.SetBudget(-10)
	err = m.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, m.HasChanges())

	d.SetBudget(10)
	require.NoError(t, m.SaveChanges(ctx))
	assert.Equal(t, 10.0, m.Trips()[0].Budget)
}

func TestSaveChangesFailureAppliesNothing(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	ctx := context.Background()
	a, err := m.AddTrip(ctx, NewTrip{Name: "A"})
	require.NoError(t, err)
	b, err := m.AddTrip(ctx, NewTrip{Name: "B", Date: testNow.Add(time.Hour)})
	require.NoError(t, err)

	da, err := m.EditTrip(a.ID)
	require.NoError(t, err)
	da.SetName("A2")
	db, err := m.EditTrip(b.ID)
	require.NoError(t, err)
	db.SetName("B2")
	p, err := m.EditProfile()
	require.NoError(t, err)
	p.SetBio("hello")

	e.store.failWith(errors.New("write conflict"))
	err = m.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrStorage)
	assert.True(t, m.HasChanges())
	assert.Equal(t, "A", m.Trips()[0].Name)
	assert.Equal(t, "B", m.Trips()[1].Name)

	e.store.failWith(nil)
	stored, err := e.store.FetchTrips(ctx, store.TripFilter{OrderBy: store.SortByName})
	require.NoError(t, err)
	assert.Equal(t, "A", stored[0].Name)
	assert.Equal(t, "B", stored[1].Name)

	require.NoError(t, m.SaveChanges(ctx))
	assert.Equal(t, "A2", m.Trips()[0].Name)
	assert.Equal(t, "B2", m.Trips()[1].Name)
	u, _ := m.CurrentUser()
	assert.Equal(t, "hello", *u.Bio)
}

func TestSaveChangesReschedulesReminder(t *testing.T) {
	e := newEnv()
	m, _ := loggedIn(t, e)
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Lanyu", Date: testNow.Add(24 * time.Hour), Remind: true})
	require.NoError(t, err)
	oldID := *trip.ReminderID

	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	newDate := testNow.Add(96 * time.Hour)
	d.SetDate(newDate)
	require.NoError(t, m.SaveChanges(ctx))

	saved := m.Trips()[0]
	require.NotNil(t, saved.ReminderID)
	assert.NotEqual(t, oldID, *saved.ReminderID)
	assert.True(t, e.notifier.scheduled[*saved.ReminderID].Equal(newDate))
	assert.Equal(t, []string{oldID}, e.notifier.cancelled())
}

func TestDeleteTripDropsDraft(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Matsu"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	d.SetName("changed")

	require.NoError(t, m.DeleteTrip(ctx, trip.ID))
	assert.False(t, m.HasChanges())
	require.NoError(t, m.SaveChanges(ctx))
}

func TestLogoutClearsDrafts(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	ctx := context.Background()
	trip, err := m.AddTrip(ctx, NewTrip{Name: "Kinmen"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	d.SetName("changed")

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.HasChanges())
	assert.ErrorIs(t, m.SaveChanges(ctx), ErrNotLoggedIn)
}

func TestProfileEdit(t *testing.T) {
	e := newEnv()
	m, u := loggedIn(t, e)
	ctx := context.Background()

	p, err := m.EditProfile()
	require.NoError(t, err)
	p.SetFullname("Alice Liddell")
	p.SetBio("wanderer")
	assert.ErrorIs(t, p.SetProfileImage([]byte("nope")), ErrValidation)
	require.NoError(t, p.SetProfileImage(pngBytes))
	assert.Equal(t, "Alice Liddell", *p.User().Fullname)
	require.NoError(t, m.SaveChanges(ctx))

	current, _ := m.CurrentUser()
	assert.Equal(t, "Alice Liddell", *current.Fullname)
	assert.Equal(t, "wanderer", *current.Bio)
	require.NotNil(t, current.ProfileImageURL)
	data, ct, err := media.DecodeDataURL(*current.ProfileImageURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, pngBytes, data)

	stored, err := e.store.FetchUsers(ctx, store.UserFilter{ID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, current.ProfileImageURL, stored[0].ProfileImageURL)

	p, err = m.EditProfile()
	require.NoError(t, err)
	p.ClearProfileImage()
	p.SetBio("")
	require.NoError(t, m.SaveChanges(ctx))
	current, _ = m.CurrentUser()
	assert.Nil(t, current.ProfileImageURL)
	assert.Nil(t, current.Bio)
}

func TestProfileUsernameRequired(t *testing.T) {
	m, _ := loggedIn(t, newEnv())
	p, err := m.EditProfile()
	require.NoError(t, err)
	p.SetUsername("  ")

	var verr *ValidationError
	require.ErrorAs(t, m.SaveChanges(context.Background()), &verr)
	assert.Equal(t, "username", verr.Field)
}

type recordingImages struct {
	mu      sync.Mutex
	puts    []string
	removed []string
}

func (r *recordingImages) Put(_ context.Context, key string, data []byte) (string, error) {
	if _, err := media.DetectImage(data); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts = append(r.puts, key)
	return "https://img.test/" + key, nil
}

func (r *recordingImages) Remove(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, url)
	return nil
}

func TestProfileImageReplacementRemovesOldObject(t *testing.T) {
	e := newEnv()
	images := &recordingImages{}
	ctx := context.Background()
	m := e.manager(t, func(d *Deps) { d.Images = images })
	u, err := m.Register(ctx, "alice", "alice@x.com", "pw123456")
	require.NoError(t, err)
	_, err = m.Login(ctx, "alice@x.com", "pw123456")
	require.NoError(t, err)

	p, _ := m.EditProfile()
	require.NoError(t, p.SetProfileImage(png(1)))
	require.NoError(t, m.SaveChanges(ctx))
	current, _ := m.CurrentUser()
	first := *current.ProfileImageURL
	assert.Contains(t, first, "profiles/"+u.ID+"/")

	p, _ = m.EditProfile()
	require.NoError(t, p.SetProfileImage(png(2)))
	e.store.failWith(errors.New("offline"))
	require.ErrorIs(t, m.SaveChanges(ctx), ErrStorage)
	require.Len(t, images.puts, 2)
	orphan := "https://img.test/" + images.puts[1]
	assert.Equal(t, []string{orphan}, images.removed)

	e.store.failWith(nil)
	require.NoError(t, m.SaveChanges(ctx))
	current, _ = m.CurrentUser()
	assert.NotEqual(t, first, *current.ProfileImageURL)
	assert.Equal(t, []string{orphan, first}, images.removed)
}

type fakeGeocoder struct {
	called  chan struct{}
	release chan struct{}
	name    string
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, bool, error) {
	if g.called != nil {
		g.called <- struct{}{}
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	return g.name, g.name != "", nil
}

func draftFor(t *testing.T) (*Manager, *TripDraft) {
	t.Helper()
	m, _ := loggedIn(t, newEnv())
	trip, err := m.AddTrip(context.Background(), NewTrip{Name: "Somewhere"})
	require.NoError(t, err)
	d, err := m.EditTrip(trip.ID)
	require.NoError(t, err)
	return m, d
}

func TestResolvePlace(t *testing.T) {
	_, d := draftFor(t)
	d.SetLocation(25.03, 121.56)

	scope := tasks.NewScope(context.Background())
	d.ResolvePlace(scope, &fakeGeocoder{name: "Taipei 101"})
	require.NoError(t, scope.Wait())
	require.NotNil(t, d.Trip().PlaceName)
	assert.Equal(t, "Taipei 101", *d.Trip().PlaceName)
}

func TestResolvePlaceDropsStaleResult(t *testing.T) {
	_, d := draftFor(t)
	d.SetLocation(25.03, 121.56)

	geo := &fakeGeocoder{called: make(chan struct{}, 1), release: make(chan struct{}), name: "Taipei 101"}
	scope := tasks.NewScope(context.Background())
	d.ResolvePlace(scope, geo)
	<-geo.called
	d.SetLocation(22.62, 120.30)
	close(geo.release)
	require.NoError(t, scope.Wait())
	assert.Nil(t, d.Trip().PlaceName)
}

func TestResolvePlaceDroppedWhenScopeCloses(t *testing.T) {
	_, d := draftFor(t)
	d.SetLocation(25.03, 121.56)

	geo := &fakeGeocoder{called: make(chan struct{}, 1), release: make(chan struct{}), name: "Taipei 101"}
	scope := tasks.NewScope(context.Background())
	d.ResolvePlace(scope, geo)
	<-geo.called
	require.NoError(t, scope.Close())
	assert.Nil(t, d.Trip().PlaceName)
}

func TestApplyPlace(t *testing.T) {
	_, d := draftFor(t)
	d.ApplyPlace(collab.Place{Name: "Sun Moon Lake", Latitude: 23.86, Longitude: 120.91})
	trip := d.Trip()
	assert.True(t, trip.HasLocation())
	assert.Equal(t, "Sun Moon Lake", *trip.PlaceName)

	d.SetLocation(23.0, 120.0)
	assert.Nil(t, d.Trip().PlaceName)
	d.ClearLocation()
	assert.False(t, d.Trip().HasLocation())
}

type fakePhotoSource struct {
	blobs [][]byte
	err   error
}

func (s fakePhotoSource) Load(context.Context) ([][]byte, error) { return s.blobs, s.err }

func TestLoadPhotos(t *testing.T) {
	_, d := draftFor(t)
	scope := tasks.NewScope(context.Background())
	d.LoadPhotos(scope, fakePhotoSource{blobs: [][]byte{png(1), png(2)}})
	require.NoError(t, scope.Wait())
	photos := d.Photos()
	require.Len(t, photos, 2)
	assert.Equal(t, png(1), photos[0].Data)
	assert.Equal(t, 1, photos[1].Position)
}

func TestLoadPhotosRejectsBatchWithNonImage(t *testing.T) {
	_, d := draftFor(t)
	scope := tasks.NewScope(context.Background())
	d.LoadPhotos(scope, fakePhotoSource{blobs: [][]byte{png(1), []byte("text")}})
	assert.ErrorIs(t, scope.Wait(), ErrValidation)
	assert.Empty(t, d.Photos())
}

func TestLoadPhotosSourceError(t *testing.T) {
	_, d := draftFor(t)
	scope := tasks.NewScope(context.Background())
	d.LoadPhotos(scope, fakePhotoSource{err: errors.New("permission denied")})
	assert.ErrorContains(t, scope.Wait(), "permission denied")
}
