package validators

import (
	"bitwise74/docvault-api/internal/model"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrTitleEmpty          = errors.New("document title can't be empty")
	ErrTitleTooLong        = errors.New("document title is too long")
	ErrCategoryInvalid     = errors.New("invalid document category")
	ErrDocumentTypeInvalid = errors.New("document type doesn't belong to the category")
	ErrTagInvalid          = errors.New("tags can't contain commas")
	ErrTooManyTags         = errors.New("too many tags")
)

const (
	maxTitleLength = 200
	maxTags        = 20
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func CategoryValidator(c model.Category) error {
	if !c.Valid() {
		return ErrCategoryInvalid
	}

	return nil
}

func DocumentTypeValidator(c model.Category, t string) error {
	if err := CategoryValidator(c); err != nil {
		return err
	}

	if !c.Accepts(t) {
		return ErrDocumentTypeInvalid
	}

	return nil
}

func TitleValidator(t string) error {
	if strings.TrimSpace(t) == "" {
		return ErrTitleEmpty
	}

	if len(t) > maxTitleLength {
		return ErrTitleTooLong
	}

	return nil
}

func TagsValidator(tags []string) error {
	if len(tags) > maxTags {
		return ErrTooManyTags
	}

	for _, t := range tags {
		if strings.Contains(t, ",") {
			return ErrTagInvalid
		}
	}

	return nil
}

// SanitizeInput trims s and strips angle brackets
func SanitizeInput(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(s))
}

func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

func ValidateCategory(c string) bool {
	return model.Category(c).Valid()
}

func ValidateDocumentType(c, t string) bool {
	return model.Category(c).Accepts(t)
}
