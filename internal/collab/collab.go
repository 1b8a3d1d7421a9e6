// Package collab declares the platform services the session layer consumes
// but does not implement: geocoding, place search, local notifications and
// the photo picker.
package collab

import (
	"context"
	"time"
)

type Geocoder interface {
	// ReverseGeocode returns a place name for the coordinate. ok is false
	// when the service knows no name for it.
	ReverseGeocode(ctx context.Context, lat, lon float64) (name string, ok bool, err error)
}

type Region struct {
	CenterLatitude  float64
	CenterLongitude float64
	SpanLatitude    float64
	SpanLongitude   float64
}

type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

type PlaceSearcher interface {
	Search(ctx context.Context, query string, region Region) ([]Place, error)
}

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Schedule(ctx context.Context, n Notification, at time.Time) (id string, err error)
	Cancel(ctx context.Context, id string) error
}

type PhotoSource interface {
	// Load returns the raw bytes of each picked image in pick order.
	Load(ctx context.Context) ([][]byte, error)
}
