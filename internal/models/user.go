package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Location     *string   `json:"location,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LocationOrEmpty dereferences Location for rendering.
func (u User) LocationOrEmpty() string {
	if u.Location == nil {
		return ""
	}
	return *u.Location
}

// Session is the server-side record behind a session cookie. User is a copy
// taken at login and rewritten after profile edits; it never carries the hash.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
