package model

import "time"

type ShareAction string

const (
	ShareActionEnabled  ShareAction = "enabled"
	ShareActionDisabled ShareAction = "disabled"
	ShareActionViewed   ShareAction = "viewed"
)

// AccessLog is an append-only record of sharing changes and public views.
// Nothing in the application reads these back.
type AccessLog struct {
	ID            uint        `gorm:"primaryKey;autoIncrement"`
	DocumentID    string      `gorm:"index;not null"`
	ActorID       *string     // nil for anonymous viewers
	Action        ShareAction `gorm:"not null"`
	Timestamp     time.Time   `gorm:"not null"`
	ClientContext string      `gorm:"size:512"`
}
