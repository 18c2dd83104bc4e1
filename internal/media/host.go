// Package media talks to the host that stores uploaded binaries and builds
// the derived URLs clients use to show them.
package media

import (
	"context"
	"errors"
	"io"
)

var ErrUploadFailed = errors.New("media upload failed")

// Host stores and removes binaries. Derived sizes are produced by URL
// templating and never uploaded separately.
type Host interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*Upload, error)
	Delete(ctx context.Context, mediaID string) error
}

type UploadOptions struct {
	Folder      string
	Category    string
	FileName    string
	ContentType string
	Size        int64
}

// Upload describes a stored binary
type Upload struct {
	URL      string `json:"url"`
	MediaID  string `json:"mediaId"`
	Bytes    int64  `json:"bytes"`
	MimeType string `json:"mimeType"`
}
