package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidMediaURL = errors.New("invalid media url")

// DocumentIconURL is shown for binaries that have no image rendition
const DocumentIconURL = "/assets/icons/document-icon.png"

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
)

// Transform is a set of derived-size parameters. Zero fields are left out.
type Transform struct {
	Width       int
	Height      int
	Crop        string
	Quality     string
	Format      string
	StartOffset int
}

var (
	Thumbnail = Transform{Width: 200, Height: 200, Crop: "fill", Quality: "auto", Format: "auto"}
	Medium    = Transform{Width: 800, Height: 600, Crop: "limit", Quality: "auto:good", Format: "auto"}
	Large     = Transform{Width: 1200, Height: 800, Crop: "limit", Quality: "auto:good"}
	Web       = Transform{Quality: "auto:good", Format: "auto"}
)

var folders = map[string]string{
	"education":      "education-documents",
	"healthcare":     "healthcare-records",
	"government":     "government-ids",
	"transportation": "transportation-documents",
	"others":         "other-documents",
}

var mediaIDRegex = regexp.MustCompile(`/upload/(?:v\d+/)?([^?#]+)`)

func (t Transform) String() string {
	var parts []string

	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	if t.StartOffset > 0 {
		parts = append(parts, fmt.Sprintf("so_%d", t.StartOffset))
	}

	return strings.Join(parts, ",")
}

// TransformedURL inserts the transformation segment right after /upload/.
// URLs without that marker come back unchanged.
func TransformedURL(url string, t Transform) string {
	seg := t.String()
	if url == "" || seg == "" {
		return url
	}

	return strings.Replace(url, "/upload/", "/upload/"+seg+"/", 1)
}

func ThumbnailURL(url string, rt ResourceType) string {
	if url == "" {
		return ""
	}

	switch rt {
	case ResourceImage:
		return TransformedURL(url, Thumbnail)
	case ResourceVideo:
		t := Thumbnail
		t.Format = "jpg"
		t.StartOffset = 1
		return TransformedURL(url, t)
	case ResourceRaw:
		return DocumentIconURL
	}

	return ""
}

type Responsive struct {
	Thumbnail string `json:"thumbnail"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
	Original  string `json:"original"`
}

func ResponsiveURLs(url string) Responsive {
	return Responsive{
		Thumbnail: TransformedURL(url, Thumbnail),
		Medium:    TransformedURL(url, Medium),
		Large:     TransformedURL(url, Large),
		Original:  url,
	}
}

func OptimizeForWeb(url string) string {
	return TransformedURL(url, Web)
}

// ParseMediaID pulls the object key out of a media URL, skipping an optional
// version segment.
func ParseMediaID(url string) (string, error) {
	m := mediaIDRegex.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidMediaURL
	}

	return m[1], nil
}

// FolderFor maps a document category to its storage folder. Unknown
// categories share the "others" folder.
func FolderFor(category string) string {
	if f, ok := folders[category]; ok {
		return f
	}

	return folders["others"]
}

func ResourceTypeFor(mime string) ResourceType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return ResourceImage
	case strings.HasPrefix(mime, "video/"):
		return ResourceVideo
	}

	return ResourceRaw
}
