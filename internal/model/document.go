// Package model defines database models
package model

import "time"

type Document struct {
	ID      string `gorm:"primaryKey;size:32" json:"id"`
	OwnerID string `gorm:"index;not null" json:"ownerId"`

	Title        string   `gorm:"not null" json:"title"`
	Description  string   `json:"description"`
	Category     Category `gorm:"index;not null" json:"category"`
	DocumentType string   `json:"documentType"`

	// Describes the stored binary. Written once at upload and never touched by edits
	MediaURL string `json:"mediaUrl"`
	MediaID  string `json:"mediaId"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`

	Tags StringSlice `json:"tags"`

	ShareEnabled   bool       `gorm:"default:false" json:"shareEnabled"`
	PublicShareURL *string    `json:"publicShareUrl"`
	QRCodeData     *string    `gorm:"column:qr_code_data" json:"qrCodeData"`
	ShareExpiry    *time.Time `json:"shareExpiry"`

	// Only ever touched through an atomic increment
	ViewCount int64 `gorm:"default:0;not null" json:"viewCount"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expired reports whether the share link stopped being valid at t. A view at the
// exact expiry instant is still allowed.
func (d *Document) Expired(t time.Time) bool {
	return d.ShareExpiry != nil && t.After(*d.ShareExpiry)
}

// SharedAt reports whether an anonymous reader may see the document at t.
// ShareEnabled alone is not enough because expiry is never written back.
func (d *Document) SharedAt(t time.Time) bool {
	return d.ShareEnabled && !d.Expired(t)
}
