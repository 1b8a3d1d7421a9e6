package session

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"travgram/internal/collab"
	"travgram/internal/media"
	"travgram/internal/models"
	"travgram/internal/tasks"
)

// TripDraft is a private copy of a trip being edited. Nothing written to it
// reaches the store until Manager.SaveChanges.
type TripDraft struct {
	mu       sync.Mutex
	original models.Trip
	work     models.Trip
}

func newTripDraft(t models.Trip) *TripDraft {
	return &TripDraft{original: t.Clone(), work: t.Clone()}
}

func (d *TripDraft) ID() string { return d.original.ID }

// Trip returns a copy of the edited trip.
func (d *TripDraft) Trip() models.Trip {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.work.Clone()
}

func (d *TripDraft) Changed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !reflect.DeepEqual(normalizedTrip(d.original), normalizedTrip(d.work))
}

// normalizedTrip treats a trip without photos the same whether its slice is nil
// or empty.
func normalizedTrip(t models.Trip) models.Trip {
	if len(t.Photos) == 0 {
		t.Photos = nil
	}
	return t
}

func (d *TripDraft) SetName(name string) {
	d.mu.Lock()
	d.work.Name = name
	d.mu.Unlock()
}

func (d *TripDraft) SetDate(date time.Time) {
	d.mu.Lock()
	d.work.Date = date
	d.mu.Unlock()
}

func (d *TripDraft) SetType(t models.TripType) {
	d.mu.Lock()
	d.work.Type = t
	d.mu.Unlock()
}

func (d *TripDraft) SetBudget(v float64) {
	d.mu.Lock()
	d.work.Budget = v
	d.mu.Unlock()
}

func (d *TripDraft) SetExpenses(v float64) {
	d.mu.Lock()
	d.work.Expenses = v
	d.mu.Unlock()
}

// SetLocation moves the pin. The place name is cleared until it is resolved
// again.
func (d *TripDraft) SetLocation(lat, lon float64) {
	d.mu.Lock()
	d.work.Latitude = &lat
	d.work.Longitude = &lon
	d.work.PlaceName = nil
	d.mu.Unlock()
}

func (d *TripDraft) ClearLocation() {
	d.mu.Lock()
	d.work.Latitude, d.work.Longitude, d.work.PlaceName = nil, nil, nil
	d.mu.Unlock()
}

func (d *TripDraft) SetPlaceName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name == "" {
		d.work.PlaceName = nil
		return
	}
	d.work.PlaceName = &name
}

// ApplyPlace takes a place search result as the trip location.
func (d *TripDraft) ApplyPlace(p collab.Place) {
	d.mu.Lock()
	defer d.mu.Unlock()
	lat, lon, name := p.Latitude, p.Longitude, p.Name
	d.work.Latitude = &lat
	d.work.Longitude = &lon
	d.work.PlaceName = nil
	if name != "" {
		d.work.PlaceName = &name
	}
}

// AppendPhoto adds an image at the end of the photo list.
func (d *TripDraft) AppendPhoto(data []byte) (models.Photo, error) {
	contentType, err := media.DetectImage(data)
	if err != nil {
		return models.Photo{}, invalid("photos", "not an image")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.appendLocked(contentType, data)
	return clonePhoto(p), nil
}

func (d *TripDraft) appendLocked(contentType string, data []byte) models.Photo {
	p := models.Photo{
		ID:          uuid.NewString(),
		TripID:      d.work.ID,
		Position:    len(d.work.Photos),
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	d.work.Photos = append(d.work.Photos, p)
	return p
}

// RemovePhoto removes exactly the photo with the given id.
func (d *TripDraft) RemovePhoto(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.work.Photos {
		if p.ID != id {
			continue
		}
		photos := make([]models.Photo, 0, len(d.work.Photos)-1)
		photos = append(photos, d.work.Photos[:i]...)
		photos = append(photos, d.work.Photos[i+1:]...)
		for j := range photos {
			photos[j].Position = j
		}
		d.work.Photos = photos
		return nil
	}
	return ErrNotFound
}

func (d *TripDraft) Photos() []models.Photo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Photo, len(d.work.Photos))
	for i, p := range d.work.Photos {
		out[i] = clonePhoto(p)
	}
	return out
}

// ResolvePlace looks up a name for the current coordinates in the
// background. The result is dropped if the scope closes or the coordinates
// change before the lookup returns.
func (d *TripDraft) ResolvePlace(scope *tasks.Scope, geocoder collab.Geocoder) {
	d.mu.Lock()
	if !d.work.HasLocation() {
		d.mu.Unlock()
		return
	}
	lat, lon := *d.work.Latitude, *d.work.Longitude
	d.mu.Unlock()

	scope.Go(func(ctx context.Context) error {
		name, ok, err := geocoder.ReverseGeocode(ctx, lat, lon)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reverse geocode: %w", err)
		}
		if !ok {
			return nil
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.work.HasLocation() || *d.work.Latitude != lat || *d.work.Longitude != lon {
			return nil
		}
		d.work.PlaceName = &name
		return nil
	})
}

// LoadPhotos appends the images picked from source in the background. If any
// of them is not an image none are appended.
func (d *TripDraft) LoadPhotos(scope *tasks.Scope, source collab.PhotoSource) {
	scope.Go(func(ctx context.Context) error {
		blobs, err := source.Load(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load photos: %w", err)
		}
		types := make([]string, len(blobs))
		for i, b := range blobs {
			if types[i], err = media.DetectImage(b); err != nil {
				return invalid("photos", fmt.Sprintf("photo %d is not an image", i))
			}
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, b := range blobs {
			d.appendLocked(types[i], b)
		}
		return nil
	})
}

func clonePhoto(p models.Photo) models.Photo {
	p.Data = append([]byte(nil), p.Data...)
	return p
}
