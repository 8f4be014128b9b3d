// Package model holds the entities stored by erasite and rendered by its views.
package model

import (
	"strconv"
	"time"
)

// Era is a historical period of game design.
type Era struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	PreviousTitle *string   `db:"previous_title" json:"previous_title"`
	Description   string    `db:"description" json:"description"`
	StartYear     int       `db:"start_year" json:"start_year"`
	EndYear       int       `db:"end_year" json:"end_year"`
	ImageURL      string    `db:"image_url" json:"image_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Tags          []string  `db:"-" json:"tags"`
}

// Link returns the public path of the era page.
func (e Era) Link() string {
	return "/eras/" + strconv.FormatInt(e.ID, 10)
}

// Tag is a label shared by many eras.
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Comment is a visitor message attached to an era.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	EraID     int64     `db:"era_id" json:"era_id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Email     string    `db:"email" json:"-"` // never shown to visitors
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Feedback is a general visitor message, not tied to any era.
type Feedback struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User is an account that can sign in to the admin panel.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

// Principal is the authenticated caller of a request. The zero value is an
// anonymous visitor.
type Principal struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// Authenticated reports whether the principal came from a signed-in session.
func (p Principal) Authenticated() bool {
	return p.ID != 0
}

// EraInput carries the writable fields of an era. Tags are already split
// and normalized.
type EraInput struct {
	Title       string
	Description string
	StartYear   int
	EndYear     int
	ImageURL    string
	Tags        []string
}
