package models

import (
	"strings"
	"time"
)

type User struct {
	ID              string    `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"` // bcrypt verifier, never the password
	ProfileImageURL *string   `db:"profile_image_url" json:"profile_image_url,omitempty"`
	Fullname        *string   `db:"fullname" json:"fullname,omitempty"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

func (u *User) EntityID() string { return u.ID }

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	u.ProfileImageURL = cloneString(u.ProfileImageURL)
	u.Fullname = cloneString(u.Fullname)
	u.Bio = cloneString(u.Bio)
	return u
}

type TripType string

const (
	TripMountain    TripType = "mountain"
	TripSea         TripType = "sea"
	TripCity        TripType = "city"
	TripAttraction  TripType = "attraction"
	TripIsland      TripType = "island"
	TripCountryside TripType = "countryside"
	TripLake        TripType = "lake"
	TripForest      TripType = "forest"
	TripDesert      TripType = "desert"
	TripHistoric    TripType = "historic"
	TripCulinary    TripType = "culinary"
	TripShopping    TripType = "shopping"
	TripFestival    TripType = "festival"
	TripBusiness    TripType = "business"
)

// TripTypes is the catalog in display order.
var TripTypes = []TripType{
	TripMountain, TripSea, TripCity, TripAttraction, TripIsland, TripCountryside, TripLake,
	TripForest, TripDesert, TripHistoric, TripCulinary, TripShopping, TripFestival, TripBusiness,
}

// ParseTripType normalizes s and reports whether it names a catalog entry.
func ParseTripType(s string) (TripType, bool) {
	t := TripType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t TripType) Valid() bool {
	for _, known := range TripTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Photo struct {
	ID          string `db:"id" json:"id"`
	TripID      string `db:"trip_id" json:"-"`
	Position    int    `db:"position" json:"position"`
	ContentType string `db:"content_type" json:"content_type"`
	Data        []byte `db:"data" json:"-"`
}

type Trip struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	Name       string    `db:"name" json:"name"`
	Date       time.Time `db:"date" json:"date"`
	Type       TripType  `db:"type" json:"type"`
	Budget     float64   `db:"budget" json:"budget"`
	Expenses   float64   `db:"expenses" json:"expenses"`
	Latitude   *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64  `db:"longitude" json:"longitude,omitempty"`
	PlaceName  *string   `db:"place_name" json:"place_name,omitempty"`
	ReminderID *string   `db:"reminder_id" json:"reminder_id,omitempty"`
	Photos     []Photo   `db:"-" json:"photos"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

func (t *Trip) EntityID() string { return t.ID }

// Clone deep-copies the trip including photo bytes.
func (t Trip) Clone() Trip {
	t.Latitude = cloneFloat(t.Latitude)
	t.Longitude = cloneFloat(t.Longitude)
	t.PlaceName = cloneString(t.PlaceName)
	t.ReminderID = cloneString(t.ReminderID)
	if t.Photos != nil {
		photos := make([]Photo, len(t.Photos))
		for i, p := range t.Photos {
			p.Data = append([]byte(nil), p.Data...)
			photos[i] = p
		}
		t.Photos = photos
	}
	return t
}

// HasLocation reports whether both coordinates are set.
func (t Trip) HasLocation() bool { return t.Latitude != nil && t.Longitude != nil }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
