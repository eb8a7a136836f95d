package types

import "time"

// Story represents a single travel-journal entry owned by a user.
type Story struct {
	// ID is the unique identifier of the story.
	ID int `json:"id" db:"id"`

	// UserID is the identifier of the account that owns this story.
	// Ownership is established from the access token at creation time
	// and every story operation is scoped to it.
	UserID int `json:"userId" db:"user_id"`

	// Title is the headline of the journal entry.
	Title string `json:"title" db:"title"`

	// Story is the narrative text of the entry.
	Story string `json:"story" db:"story"`

	// VisitedLocation names the place the entry is about.
	VisitedLocation string `json:"visitedLocation" db:"visited_location"`

	// ImageURL references the cover image for the entry. It is either a
	// URL returned by the image-upload endpoint or an external URL
	// supplied by the client; the server treats it as an opaque string.
	ImageURL string `json:"imageUrl" db:"image_url"`

	// VisitedDate is the calendar date of the visit. Clients supply it
	// as epoch milliseconds.
	VisitedDate time.Time `json:"visitedDate" db:"visited_date"`

	// IsFavourite marks the entry as pinned; favourites sort first.
	IsFavourite bool `json:"isFavourite" db:"is_favourite"`

	// CreatedAt is the timestamp at which the story was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the story.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
