package session

import (
	"sync"

	"travgram/internal/media"
	"travgram/internal/models"
)

// ProfileDraft holds pending edits to the current user's profile.
type ProfileDraft struct {
	mu         sync.Mutex
	base       models.User
	username   string
	fullname   *string
	bio        *string
	image      []byte
	clearImage bool
}

func newProfileDraft(u models.User) *ProfileDraft {
	u = u.Clone()
	return &ProfileDraft{
		base:     u,
		username: u.Username,
		fullname: u.Fullname,
		bio:      u.Bio,
	}
}

func (p *ProfileDraft) SetUsername(name string) {
	p.mu.Lock()
	p.username = name
	p.mu.Unlock()
}

// SetFullname sets the full name; "" removes it.
func (p *ProfileDraft) SetFullname(name string) {
	p.mu.Lock()
	p.fullname = optional(name)
	p.mu.Unlock()
}

// SetBio sets the bio; "" removes it.
func (p *ProfileDraft) SetBio(bio string) {
	p.mu.Lock()
	p.bio = optional(bio)
	p.mu.Unlock()
}

// SetProfileImage replaces the profile picture on save.
func (p *ProfileDraft) SetProfileImage(data []byte) error {
	if _, err := media.DetectImage(data); err != nil {
		return invalid("profile_image", "not an image")
	}
	p.mu.Lock()
	p.image = append([]byte(nil), data...)
	p.clearImage = false
	p.mu.Unlock()
	return nil
}

func (p *ProfileDraft) ClearProfileImage() {
	p.mu.Lock()
	p.image = nil
	p.clearImage = p.base.ProfileImageURL != nil
	p.mu.Unlock()
}

func (p *ProfileDraft) Changed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.username != p.base.Username ||
		!sameString(p.fullname, p.base.Fullname) ||
		!sameString(p.bio, p.base.Bio) ||
		p.image != nil || p.clearImage
}

// User previews the edited profile. A pending new image is not reflected in
// ProfileImageURL until it has been stored.
func (p *ProfileDraft) User() models.User {
	u, _, clearImage := p.result()
	if clearImage {
		u.ProfileImageURL = nil
	}
	return u
}

// result returns the edited user, the new image bytes if any, and whether the
// current image is to be removed.
func (p *ProfileDraft) result() (models.User, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := p.base.Clone()
	u.Username = p.username
	u.Fullname = p.fullname
	u.Bio = p.bio
	u = u.Clone()
	var image []byte
	if p.image != nil {
		image = append([]byte(nil), p.image...)
	}
	return u, image, p.clearImage
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
