package document

import (
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
)

// documentView is what owners get back. Status and URLs are derived on every
// response and never stored.
type documentView struct {
	model.Document
	ShareStatus  service.ShareStatus `json:"shareStatus"`
	ThumbnailURL string              `json:"thumbnailUrl"`
	URLs         *media.Responsive   `json:"urls,omitempty"`
}

func newView(s *service.Sharing, d *model.Document, responsive bool) documentView {
	v := documentView{
		Document:     *d,
		ShareStatus:  s.Status(d),
		ThumbnailURL: media.ThumbnailURL(d.MediaURL, media.ResourceTypeFor(d.MimeType)),
	}

	if responsive && media.ResourceTypeFor(d.MimeType) == media.ResourceImage {
		r := media.ResponsiveURLs(d.MediaURL)
		v.URLs = &r
	}

	return v
}

func newViews(s *service.Sharing, docs []model.Document) []documentView {
	out := make([]documentView, 0, len(docs))
	for i := range docs {
		out = append(out, newView(s, &docs[i], false))
	}

	return out
}
