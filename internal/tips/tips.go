// Package tips holds the onboarding hints shown next to form fields. The
// catalog is a plain value handed to the presentation layer.
package tips

import "time"

type Tip struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

type Catalog struct {
	// DisplayFrequency is the minimum gap between two tips.
	DisplayFrequency time.Duration `json:"display_frequency"`
	Tips             []Tip         `json:"tips"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		DisplayFrequency: time.Hour,
		Tips: []Tip{
			{ID: "trip-name", Title: "Trip Name", Message: "Please enter a clear trip name for easier reference later.", Icon: "pencil"},
			{ID: "budget", Title: "Set Budget", Message: "Use the slider to set your trip budget and choose a different currency.", Icon: "dollarsign.circle"},
			{ID: "location", Title: "Select Location", Message: "Use the map to pinpoint your desired location or search for an address.", Icon: "mappin.and.ellipse"},
			{ID: "photo", Title: "Manage Photos", Message: "Add, view, or remove photos to make your trip memories more vivid.", Icon: "photo.on.rectangle.angled"},
			{ID: "profile-picture", Title: "Profile Picture", Message: "Upload a clear and recognizable profile picture to make your profile stand out.", Icon: "person.crop.circle.badge.plus"},
			{ID: "full-name", Title: "Full Name", Message: "Use your full name so others can easily identify you.", Icon: "person.fill"},
			{ID: "bio", Title: "Bio", Message: "Add a short bio to let others know more about you.", Icon: "text.alignleft"},
		},
	}
}

func (c Catalog) Lookup(id string) (Tip, bool) {
	for _, t := range c.Tips {
		if t.ID == id {
			return t, true
		}
	}
	return Tip{}, false
}
