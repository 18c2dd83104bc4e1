package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "https://cdn.example.com/upload/secure-documents/government-ids/abc123.png"

func TestTransformedURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/upload/w_200,h_200,c_fill,q_auto,f_auto/secure-documents/government-ids/abc123.png",
		TransformedURL(sample, Thumbnail),
	)

	assert.Equal(t, sample, TransformedURL(sample, Transform{}))
	assert.Equal(t, "https://elsewhere.com/x.png", TransformedURL("https://elsewhere.com/x.png", Medium))
	assert.Empty(t, TransformedURL("", Medium))
}

func TestThumbnailURL(t *testing.T) {
	assert.Contains(t, ThumbnailURL(sample, ResourceImage), "/upload/w_200,h_200,c_fill,q_auto,f_auto/")
	assert.Contains(t, ThumbnailURL(sample, ResourceVideo), "/upload/w_200,h_200,c_fill,q_auto,f_jpg,so_1/")
	assert.Equal(t, DocumentIconURL, ThumbnailURL(sample, ResourceRaw))
	assert.Empty(t, ThumbnailURL("", ResourceImage))
}

func TestResponsiveURLs(t *testing.T) {
	r := ResponsiveURLs(sample)

	assert.Equal(t, sample, r.Original)
	assert.Contains(t, r.Medium, "/upload/w_800,h_600,c_limit,q_auto:good,f_auto/")
	assert.Contains(t, r.Large, "/upload/w_1200,h_800,c_limit,q_auto:good/")
	assert.Contains(t, OptimizeForWeb(sample), "/upload/q_auto:good,f_auto/")
}

func TestParseMediaID(t *testing.T) {
	id, err := ParseMediaID(sample)
	require.NoError(t, err)
	assert.Equal(t, "secure-documents/government-ids/abc123.png", id)

	id, err = ParseMediaID("https://cdn.example.com/upload/v1712/folder/x.pdf?dl=1")
	require.NoError(t, err)
	assert.Equal(t, "folder/x.pdf", id)

	_, err = ParseMediaID("https://cdn.example.com/files/x.pdf")
	assert.ErrorIs(t, err, ErrInvalidMediaURL)
}

func TestFolderFor(t *testing.T) {
	assert.Equal(t, "healthcare-records", FolderFor("healthcare"))
	assert.Equal(t, "other-documents", FolderFor("pets"))
}

func TestResourceTypeFor(t *testing.T) {
	assert.Equal(t, ResourceImage, ResourceTypeFor("image/png"))
	assert.Equal(t, ResourceVideo, ResourceTypeFor("video/mp4"))
	assert.Equal(t, ResourceRaw, ResourceTypeFor("application/pdf"))
}

func TestObjectKeyAndTags(t *testing.T) {
	assert.Equal(t, "secure-documents/government-ids/abc.pdf", ObjectKey("secure-documents", "government-ids", "abc", "Passport.PDF"))
	assert.Equal(t, "f/abc", ObjectKey("", "f", "abc", "noext"))

	tags := objectTags(UploadOptions{Folder: "government-ids"}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "app=secure-docs&category=general&folder=government-ids&year=2025", tags)
}
