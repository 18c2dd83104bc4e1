package testutil

import (
	"bitwise74/docvault-api/internal/media"
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"
)

// Clock is a settable time source
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer records every message instead of sending it
type Mailer struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

func (m *Mailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *Mailer) Last() Mail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return Mail{}
	}

	return m.Sent[len(m.Sent)-1]
}

// MediaHost keeps uploads in memory
type MediaHost struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	FailOn  string
}

func NewMediaHost() *MediaHost {
	return &MediaHost{Objects: map[string][]byte{}}
}

func (h *MediaHost) Upload(_ context.Context, r io.Reader, opts media.UploadOptions) (*media.Upload, error) {
	if h.FailOn != "" && h.FailOn == opts.FileName {
		return nil, media.ErrUploadFailed
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := media.ObjectKey("test", opts.Folder, "obj"+strconv.Itoa(len(h.Objects)), opts.FileName)
	h.Objects[key] = b

	return &media.Upload{
		URL:      "https://cdn.test/upload/" + key,
		MediaID:  key,
		Bytes:    int64(len(b)),
		MimeType: opts.ContentType,
	}, nil
}

func (h *MediaHost) Delete(_ context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.Objects[id]; !ok {
		return errors.New("no such object")
	}

	delete(h.Objects, id)
	h.Deleted = append(h.Deleted, id)

	return nil
}
