package model

import "time"

// User is the profile mirrored for every authenticated account. The ID is
// shared with the Account it belongs to.
type User struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"index" json:"email"`
	DisplayName   string    `json:"displayName"`
	NationalID    string    `json:"nationalId,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Role          Role      `gorm:"default:user;not null" json:"role"`
	DocumentCount int       `gorm:"default:0;not null" json:"documentCount"`
	EmailVerified bool      `gorm:"default:false" json:"emailVerified"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
