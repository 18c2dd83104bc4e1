package service

import (
	"errors"
	"net/url"
	"strings"
)

const sharePathPrefix = "/shared/"

var ErrInvalidShareURL = errors.New("invalid share url")

// GenerateShareURL returns <origin>/shared/<id>
func GenerateShareURL(origin, id string) string {
	return strings.TrimSuffix(origin, "/") + sharePathPrefix + url.PathEscape(id)
}

// ParseDocumentID is the inverse of GenerateShareURL
func ParseDocumentID(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidShareURL
	}

	i := strings.LastIndex(u.EscapedPath(), sharePathPrefix)
	if i < 0 {
		return "", ErrInvalidShareURL
	}

	escaped := u.EscapedPath()[i+len(sharePathPrefix):]
	if escaped == "" || strings.Contains(escaped, "/") {
		return "", ErrInvalidShareURL
	}

	id, err := url.PathUnescape(escaped)
	if err != nil {
		return "", ErrInvalidShareURL
	}

	return id, nil
}
