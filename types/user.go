package types

import "time"

// User represents an account in the system.
// It contains identity, profile preferences, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique across all users
	// and doubles as the login identifier.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// PreferredLanguage is the default translation target for the user,
	// as a short ISO-style code (e.g. "pt", "en").
	PreferredLanguage string `json:"preferred_language" db:"preferred_language"`

	// Theme is the UI theme preference ("light" or "dark").
	Theme string `json:"theme" db:"theme"`

	// Notifications reports whether the user opted into translation
	// notifications.
	Notifications bool `json:"notifications" db:"notifications"`

	// AutoDetectLanguage reports whether the source language should be
	// detected automatically when the user does not pick one.
	AutoDetectLanguage bool `json:"auto_detect_language" db:"auto_detect_language"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
