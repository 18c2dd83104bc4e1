package service

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/pkg/validators"
	"context"
	"fmt"
	"strings"
	"time"
)

const maxMessageLength = 5000

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Contacts struct {
	store *store.Store
	now   func() time.Time
}

func NewContacts(s *store.Store, now func() time.Time) *Contacts {
	if now == nil {
		now = time.Now
	}

	return &Contacts{
		store: s,
		now:   func() time.Time { return now().UTC() },
	}
}

// Submit stores a contact message. userID is nil for anonymous senders.
func (c *Contacts) Submit(ctx context.Context, f ContactForm, userID *string) (*model.Contact, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	switch {
	case f.Name == "":
		return nil, validation("name can't be empty")
	case f.Subject == "":
		return nil, validation("subject can't be empty")
	case f.Message == "":
		return nil, validation("message can't be empty")
	case len(f.Message) > maxMessageLength:
		return nil, validation("message is too long")
	}

	if err := validators.EmailValidator(f.Email); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrValidation, err)
	}

	m := &model.Contact{
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		UserID:    userID,
		CreatedAt: c.now(),
	}

	if err := c.store.CreateContact(ctx, m); err != nil {
		return nil, storeErr(err)
	}

	return m, nil
}
