package internal

import (
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/pkg/security"
	"time"

	"gorm.io/gorm"
)

// Deps is everything the handlers need, built once at startup
type Deps struct {
	DB    *gorm.DB
	Store *store.Store
	Auth  *auth.Provider
	Media media.Host

	Documents *service.Documents
	Sharing   *service.Sharing
	Profiles  *service.Profiles
	Admin     *service.Admin
	Contacts  *service.Contacts

	MaxUploadSize int64
	SecureCookies bool
}

type Options struct {
	JWTSecret     []byte
	Origin        string
	Mailer        auth.Mailer
	MaxUploadSize int64
	SecureCookies bool
	Now           func() time.Time
	// Argon overrides the default password hashing parameters
	Argon *security.ArgonHash
}

func NewDeps(db *gorm.DB, host media.Host, o Options) *Deps {
	if o.Now == nil {
		o.Now = time.Now
	}

	s := store.New(db)

	authOpts := auth.Options{
		Secret: o.JWTSecret,
		Origin: o.Origin,
		Mailer: o.Mailer,
		Now:    o.Now,
		Argon:  o.Argon,
	}

	d := &Deps{
		DB:            db,
		Store:         s,
		Auth:          auth.New(db, authOpts),
		Media:         host,
		Documents:     service.NewDocuments(s, o.Now),
		Sharing:       service.NewSharing(s, o.Origin, o.Now),
		Profiles:      service.NewProfiles(s, o.Now),
		Admin:         service.NewAdmin(s, o.Now),
		Contacts:      service.NewContacts(s, o.Now),
		MaxUploadSize: o.MaxUploadSize,
		SecureCookies: o.SecureCookies,
	}

	d.Auth.OnSessionChange(d.Profiles.OnSessionChange)

	return d
}
