package handlers

import (
	"fmt"
	"time"

	"travgram/internal/models"
)

type UserDTO struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	CreatedAt       string  `json:"created_at"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Fullname        *string `json:"fullname,omitempty"`
	Bio             *string `json:"bio,omitempty"`
}

func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		ProfileImageURL: u.ProfileImageURL,
		Fullname:        u.Fullname,
		Bio:             u.Bio,
	}
}

// PhotoDTO describes a photo without its bytes; URL serves them.
type PhotoDTO struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

type TripDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	Type      models.TripType `json:"type"`
	Budget    float64         `json:"budget"`
	Expenses  float64         `json:"expenses"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	PlaceName *string         `json:"place_name,omitempty"`
	Reminder  bool            `json:"reminder"`
	Photos    []PhotoDTO      `json:"photos"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func ToTripDTO(t models.Trip) TripDTO {
	dto := TripDTO{
		ID:        t.ID,
		Name:      t.Name,
		Date:      t.Date.Format(time.RFC3339),
		Type:      t.Type,
		Budget:    t.Budget,
		Expenses:  t.Expenses,
		Latitude:  t.Latitude,
		Longitude: t.Longitude,
		PlaceName: t.PlaceName,
		Reminder:  t.ReminderID != nil,
		Photos:    make([]PhotoDTO, 0, len(t.Photos)),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
	for _, p := range t.Photos {
		dto.Photos = append(dto.Photos, PhotoDTO{
			ID:          p.ID,
			Position:    p.Position,
			ContentType: p.ContentType,
			URL:         fmt.Sprintf("/api/trips/%s/photos/%s", t.ID, p.ID),
		})
	}
	return dto
}

func ToTripDTOs(trips []models.Trip) []TripDTO {
	out := make([]TripDTO, 0, len(trips))
	for _, t := range trips {
		out = append(out, ToTripDTO(t))
	}
	return out
}

// parseDate accepts RFC 3339 or a bare YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
