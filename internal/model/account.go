package model

import "time"

// Account is the identity record behind a session. Profile data lives in User.
type Account struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Verified     bool   `gorm:"default:false"`
	CreatedAt    time.Time

	// Last sign out or password change
	SignedOutAt *time.Time
	// Sessions carry the version they were issued under. Bumping it revokes
	// every session issued so far.
	TokenVersion int `gorm:"default:0;not null"`

	VerificationTokens []VerificationToken `gorm:"foreignKey:UserID"`
	ResendRequest      ResendRequest       `gorm:"foreignKey:UserID"`
}
