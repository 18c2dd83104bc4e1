package service

import (
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type ShareStatus string

const (
	ShareStatusPrivate ShareStatus = "private"
	ShareStatusShared  ShareStatus = "shared"
	ShareStatusExpired ShareStatus = "expired"
)

// ExpiryPresets are the link lifetimes offered to clients, in hours. 0 never expires.
var ExpiryPresets = []int{0, 1, 24, 168, 720}

// Sharing moves documents between private and publicly readable and serves
// the anonymous reads
type Sharing struct {
	store  *store.Store
	origin string
	now    func() time.Time
}

func NewSharing(s *store.Store, origin string, now func() time.Time) *Sharing {
	if now == nil {
		now = time.Now
	}

	return &Sharing{
		store:  s,
		origin: origin,
		now:    func() time.Time { return now().UTC() },
	}
}

type SharedBy struct {
	DisplayName string `json:"displayName"`
}

// PublicDocument is what anonymous readers get. It never carries the owner id
// or e-mail.
type PublicDocument struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     model.Category `json:"category"`
	DocumentType string         `json:"documentType"`
	MediaURL     string         `json:"mediaUrl"`
	ThumbnailURL string         `json:"thumbnailUrl"`
	OptimizedURL string         `json:"optimizedUrl,omitempty"`
	FileSize     int64          `json:"fileSize"`
	MimeType     string         `json:"mimeType"`
	CreatedAt    time.Time      `json:"createdAt"`
	ViewCount    int64          `json:"viewCount"`
	SharedBy     SharedBy       `json:"sharedBy"`
}

// Status derives the sharing state at t. Expiry is never stored, so this is
// the only correct way to ask whether a link works.
func Status(d *model.Document, t time.Time) ShareStatus {
	switch {
	case !d.ShareEnabled:
		return ShareStatusPrivate
	case d.Expired(t):
		return ShareStatusExpired
	}

	return ShareStatusShared
}

func (s *Sharing) Status(d *model.Document) ShareStatus {
	return Status(d, s.now())
}

// Enable makes the document publicly readable. expiryHours of 0 means the
// link never expires. Calling it on a shared document recomputes the expiry.
func (s *Sharing) Enable(ctx context.Context, documentID, ownerID string, expiryHours int) (*model.Document, error) {
	if expiryHours < 0 {
		return nil, validation("expiry hours can't be negative")
	}

	d, err := s.owned(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	shareURL := GenerateShareURL(s.origin, d.ID)

	var expiry *time.Time
	if expiryHours > 0 {
		t := now.Add(time.Duration(expiryHours) * time.Hour)
		expiry = &t
	}

	err = s.store.UpdateDocument(ctx, d.ID, map[string]any{
		"share_enabled":    true,
		"public_share_url": shareURL,
		"qr_code_data":     shareURL,
		"share_expiry":     expiry,
		"updated_at":       now,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	d.ShareEnabled = true
	d.PublicShareURL = &shareURL
	d.QRCodeData = &shareURL
	d.ShareExpiry = expiry
	d.UpdatedAt = now

	s.log(ctx, d.ID, &ownerID, model.ShareActionEnabled, now)

	return d, nil
}

// Disable makes the document private again and forgets the link
func (s *Sharing) Disable(ctx context.Context, documentID, ownerID string) (*model.Document, error) {
	d, err := s.owned(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	err = s.store.UpdateDocument(ctx, d.ID, map[string]any{
		"share_enabled":    false,
		"public_share_url": nil,
		"qr_code_data":     nil,
		"share_expiry":     nil,
		"updated_at":       now,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	d.ShareEnabled = false
	d.PublicShareURL = nil
	d.QRCodeData = nil
	d.ShareExpiry = nil
	d.UpdatedAt = now

	s.log(ctx, d.ID, &ownerID, model.ShareActionDisabled, now)

	return d, nil
}

// View serves an anonymous read and counts it. Every denial is reported as
// ErrShareUnavailable.
func (s *Sharing) View(ctx context.Context, documentID string) (*PublicDocument, error) {
	d, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			zap.L().Debug("Public view denied", zap.String("documentID", documentID), zap.String("reason", "not found"))
			return nil, ErrShareUnavailable
		}

		return nil, storeErr(err)
	}

	now := s.now()

	if st := Status(d, now); st != ShareStatusShared {
		zap.L().Debug("Public view denied", zap.String("documentID", documentID), zap.String("reason", string(st)))
		return nil, ErrShareUnavailable
	}

	err = s.store.Increment(ctx, &model.Document{}, d.ID, store.ColumnViewCount, 1, map[string]any{
		"updated_at": now,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShareUnavailable
		}

		return nil, storeErr(err)
	}

	s.log(ctx, d.ID, nil, model.ShareActionViewed, now)

	name := "Anonymous"
	if u, err := s.store.GetUser(ctx, d.OwnerID); err == nil && u.DisplayName != "" {
		name = u.DisplayName
	}

	rt := media.ResourceTypeFor(d.MimeType)

	pd := &PublicDocument{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		DocumentType: d.DocumentType,
		MediaURL:     d.MediaURL,
		ThumbnailURL: media.ThumbnailURL(d.MediaURL, rt),
		FileSize:     d.FileSize,
		MimeType:     d.MimeType,
		CreatedAt:    d.CreatedAt,
		ViewCount:    d.ViewCount + 1,
		SharedBy:     SharedBy{DisplayName: name},
	}

	if rt == media.ResourceImage {
		pd.OptimizedURL = media.OptimizeForWeb(d.MediaURL)
	}

	return pd, nil
}

func (s *Sharing) owned(ctx context.Context, documentID, ownerID string) (*model.Document, error) {
	d, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, storeErr(err)
	}

	if d.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	return d, nil
}

// log writes an access log entry. A failed write never fails the operation.
func (s *Sharing) log(ctx context.Context, documentID string, actorID *string, action model.ShareAction, t time.Time) {
	err := s.store.AppendAccessLog(ctx, &model.AccessLog{
		DocumentID:    documentID,
		ActorID:       actorID,
		Action:        action,
		Timestamp:     t,
		ClientContext: ClientContext(ctx),
	})
	if err != nil {
		zap.L().Error("Failed to write access log",
			zap.Error(err),
			zap.String("documentID", documentID),
			zap.String("action", string(action)),
		)
	}
}
