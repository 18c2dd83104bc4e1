package media

import (
	a "bitwise74/docvault-api/aws"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const minMultipartSize = 12 << 20

// S3Host keeps binaries in an S3 compatible bucket. PublicURL must point at
// a CDN that understands the transformation segments after /upload/.
type S3Host struct {
	S3         *a.S3Client
	PublicURL  string
	BaseFolder string
	now        func() time.Time
}

func NewS3Host(c *a.S3Client, publicURL, baseFolder string) *S3Host {
	return &S3Host{
		S3:         c,
		PublicURL:  strings.TrimSuffix(publicURL, "/"),
		BaseFolder: baseFolder,
		now:        time.Now,
	}
}

func (h *S3Host) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*Upload, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate media key, %w", err)
	}

	key := ObjectKey(h.BaseFolder, opts.Folder, id, opts.FileName)

	input := &s3.PutObjectInput{
		Bucket:        h.S3.Bucket,
		Key:           aws.String(key),
		Body:          r,
		ContentType:   aws.String(opts.ContentType),
		ContentLength: aws.Int64(opts.Size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Tagging:       aws.String(objectTags(opts, h.now())),
	}

	if opts.Size > minMultipartSize {
		uploader := manager.NewUploader(h.S3.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = uploader.Upload(ctx, input)
	} else {
		_, err = h.S3.C.PutObject(ctx, input)
	}
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrUploadFailed, err)
	}

	zap.L().Debug("Uploaded media", zap.String("key", key), zap.Int64("size", opts.Size))

	return &Upload{
		URL:      h.PublicURL + "/upload/" + key,
		MediaID:  key,
		Bytes:    opts.Size,
		MimeType: opts.ContentType,
	}, nil
}

func (h *S3Host) Delete(ctx context.Context, mediaID string) error {
	_, err := h.S3.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: h.S3.Bucket,
		Key:    aws.String(mediaID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media %s, %w", mediaID, err)
	}

	return nil
}

// ObjectKey builds <base>/<folder>/<id><ext>, ext taken from the original name
func ObjectKey(base, folder, id, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(base, folder, id+ext)
}

func objectTags(opts UploadOptions, now time.Time) string {
	category := opts.Category
	if category == "" {
		category = "general"
	}

	return url.Values{
		"app":      {"secure-docs"},
		"folder":   {opts.Folder},
		"year":     {strconv.Itoa(now.Year())},
		"category": {category},
	}.Encode()
}
