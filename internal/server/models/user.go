// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by a unique email. The password is stored
// only as a bcrypt hash. AvatarKey, when set, is the object-storage key of
// the user's avatar image.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	AvatarKey    *string
	CreatedAt    time.Time
}
