package types

import "time"

// User represents a registered journal account.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// FullName is the display name supplied at registration.
	FullName string `json:"fullName" db:"full_name"`

	// Email is the unique login identity of the account. It is stored
	// case-sensitively; uniqueness is enforced by the database.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Public returns the fields of the user that are safe to echo back in
// registration and login responses.
func (u User) Public() PublicUser {
	return PublicUser{
		FullName: u.FullName,
		Email:    u.Email,
	}
}

// PublicUser is the subset of User returned alongside an access token.
type PublicUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
