package session

import (
	"math"
	"regexp"
	"strings"

	"travgram/internal/models"
)

const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateRegistration(username, email, password string) error {
	if username == "" {
		return invalid("username", "required")
	}
	if !ValidEmail(email) {
		return invalid("email", "invalid email format")
	}
	if len([]rune(password)) < MinPasswordLength {
		return invalid("password", "must be at least 8 characters")
	}
	return nil
}

// ConfirmPassword checks the repeated password typed on the signup form.
func ConfirmPassword(password, confirmation string) error {
	if password != confirmation {
		return invalid("confirm_password", "passwords do not match")
	}
	return nil
}

func validateTrip(t *models.Trip) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("name", "required")
	}
	if !t.Type.Valid() {
		return invalid("type", "unknown trip type "+string(t.Type))
	}
	if t.Budget < 0 || math.IsNaN(t.Budget) || math.IsInf(t.Budget, 0) {
		return invalid("budget", "must be a non-negative number")
	}
	if t.Expenses < 0 || math.IsNaN(t.Expenses) || math.IsInf(t.Expenses, 0) {
		return invalid("expenses", "must be a non-negative number")
	}
	if (t.Latitude == nil) != (t.Longitude == nil) {
		return invalid("location", "latitude and longitude go together")
	}
	if t.Latitude != nil {
		if *t.Latitude < -90 || *t.Latitude > 90 || math.IsNaN(*t.Latitude) {
			return invalid("latitude", "out of range")
		}
		if *t.Longitude < -180 || *t.Longitude > 180 || math.IsNaN(*t.Longitude) {
			return invalid("longitude", "out of range")
		}
	}
	return nil
}
