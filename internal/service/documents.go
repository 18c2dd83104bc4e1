package service

import (
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/store"
	"bitwise74/docvault-api/pkg/util"
	"bitwise74/docvault-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize    = 10
	MaxPageSize        = 250
	DefaultSearchLimit = 20
)

// Sort fields accepted by List and Search, mapped to their columns
var sortColumns = map[string]string{
	"createdAt": store.ColumnCreatedAt,
	"updatedAt": store.ColumnUpdatedAt,
	"title":     store.ColumnTitle,
	"fileSize":  store.ColumnFileSize,
	"viewCount": store.ColumnViewCount,
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type ListOptions struct {
	Category      model.Category
	SortField     string
	SortDirection SortDirection
	PageSize      int
	// Cursor is the last document of the previous page
	Cursor *model.Document
}

type Page struct {
	Items   []model.Document `json:"items"`
	HasMore bool             `json:"hasMore"`
	Cursor  *model.Document  `json:"-"`
}

type SearchOptions struct {
	Category      model.Category
	SortField     string
	SortDirection SortDirection
	Limit         int
}

// NewDocument is the metadata of a freshly uploaded binary
type NewDocument struct {
	Title        string
	Description  string
	Category     model.Category
	DocumentType string
	Tags         []string

	MediaURL string
	MediaID  string
	FileSize int64
	MimeType string
}

// DocumentPatch holds owner editable fields, nil means unchanged
type DocumentPatch struct {
	Title        *string
	Description  *string
	Category     *model.Category
	DocumentType *string
	Tags         *[]string
}

type Documents struct {
	store *store.Store
	now   func() time.Time
}

func NewDocuments(s *store.Store, now func() time.Time) *Documents {
	if now == nil {
		now = time.Now
	}

	return &Documents{
		store: s,
		now:   func() time.Time { return now().UTC() },
	}
}

// Create stores the record and bumps the owner's document count in one
// transaction
func (ds *Documents) Create(ctx context.Context, ownerID string, n NewDocument) (*model.Document, error) {
	n.Title = validators.SanitizeInput(n.Title)
	n.Description = validators.SanitizeInput(n.Description)
	n.Tags = cleanTags(n.Tags)

	if err := validateMeta(n.Title, n.Category, n.DocumentType, n.Tags); err != nil {
		return nil, err
	}

	id, err := util.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document id, %w", err)
	}

	now := ds.now()
	d := &model.Document{
		ID:           id,
		OwnerID:      ownerID,
		Title:        n.Title,
		Description:  n.Description,
		Category:     n.Category,
		DocumentType: n.DocumentType,
		MediaURL:     n.MediaURL,
		MediaID:      n.MediaID,
		FileSize:     n.FileSize,
		MimeType:     n.MimeType,
		Tags:         n.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = ds.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateDocument(ctx, d); err != nil {
			return err
		}

		return tx.Increment(ctx, &model.User{}, ownerID, "document_count", 1, map[string]any{"updated_at": now})
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return d, nil
}

// CheckDocument validates upload metadata without touching the store
func CheckDocument(n NewDocument) error {
	return validateMeta(validators.SanitizeInput(n.Title), n.Category, n.DocumentType, cleanTags(n.Tags))
}

// Get returns a document its owner asked for. Owner reads never count as views.
func (ds *Documents) Get(ctx context.Context, documentID, ownerID string) (*model.Document, error) {
	d, err := ds.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, storeErr(err)
	}

	if d.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	return d, nil
}

// Update edits the descriptive fields. The binary and the owner never change.
func (ds *Documents) Update(ctx context.Context, documentID, ownerID string, p DocumentPatch) (*model.Document, error) {
	d, err := ds.Get(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}

	if p.Title != nil {
		d.Title = validators.SanitizeInput(*p.Title)
		patch["title"] = d.Title
	}

	if p.Description != nil {
		d.Description = validators.SanitizeInput(*p.Description)
		patch["description"] = d.Description
	}

	if p.Category != nil {
		d.Category = *p.Category
		patch["category"] = d.Category
	}

	if p.DocumentType != nil {
		d.DocumentType = *p.DocumentType
		patch["document_type"] = d.DocumentType
	}

	if p.Tags != nil {
		d.Tags = cleanTags(*p.Tags)
		patch["tags"] = d.Tags
	}

	if len(patch) == 0 {
		return nil, validation("nothing to update")
	}

	if err := validateMeta(d.Title, d.Category, d.DocumentType, d.Tags); err != nil {
		return nil, err
	}

	d.UpdatedAt = ds.now()
	patch["updated_at"] = d.UpdatedAt

	if err := ds.store.UpdateDocument(ctx, d.ID, patch); err != nil {
		return nil, storeErr(err)
	}

	return d, nil
}

// Delete removes the record and decrements the owner's document count in one
// transaction. The caller is responsible for removing the binary.
func (ds *Documents) Delete(ctx context.Context, documentID, ownerID string) (*model.Document, error) {
	d, err := ds.Get(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	err = ds.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.DeleteDocument(ctx, d.ID); err != nil {
			return err
		}

		return tx.Increment(ctx, &model.User{}, ownerID, "document_count", -1, map[string]any{"updated_at": ds.now()})
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return d, nil
}

// List returns one page of the owner's documents. HasMore is true whenever
// the page is full, so the last page may come back empty.
func (ds *Documents) List(ctx context.Context, ownerID string, o ListOptions) (*Page, error) {
	q, err := buildQuery(ownerID, o.Category, o.SortField, o.SortDirection)
	if err != nil {
		return nil, err
	}

	switch {
	case o.PageSize == 0:
		o.PageSize = DefaultPageSize
	case o.PageSize < 0 || o.PageSize > MaxPageSize:
		return nil, validation("page size must be between 1 and %d", MaxPageSize)
	}

	if o.Cursor != nil && o.Cursor.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	q.Limit = o.PageSize
	q.After = o.Cursor

	docs, err := ds.store.QueryDocuments(ctx, q)
	if err != nil {
		return nil, storeErr(err)
	}

	p := &Page{
		Items:   docs,
		HasMore: len(docs) == o.PageSize,
	}

	if len(docs) > 0 {
		p.Cursor = &docs[len(docs)-1]
	}

	return p, nil
}

// Search fetches one sorted page of Limit documents and keeps the ones whose
// title, description or tags contain term. Matches outside that page are not
// seen.
func (ds *Documents) Search(ctx context.Context, ownerID, term string, o SearchOptions) ([]model.Document, error) {
	q, err := buildQuery(ownerID, o.Category, o.SortField, o.SortDirection)
	if err != nil {
		return nil, err
	}

	switch {
	case o.Limit == 0:
		o.Limit = DefaultSearchLimit
	case o.Limit < 0 || o.Limit > MaxPageSize:
		return nil, validation("limit must be between 1 and %d", MaxPageSize)
	}

	q.Limit = o.Limit

	docs, err := ds.store.QueryDocuments(ctx, q)
	if err != nil {
		return nil, storeErr(err)
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return docs, nil
	}

	matched := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if matches(&d, term) {
			matched = append(matched, d)
		}
	}

	return matched, nil
}

// Stats reduces every document of the owner into totals
func (ds *Documents) Stats(ctx context.Context, ownerID string) (*model.Stats, error) {
	docs, err := ds.store.QueryDocuments(ctx, store.DocumentQuery{OwnerID: ownerID})
	if err != nil {
		return nil, storeErr(err)
	}

	s := model.NewStats()
	for i := range docs {
		s.Add(&docs[i])
	}

	return s, nil
}

// Cursor resolves an after= id into the document it names. Only the owner's
// documents can serve as a cursor.
func (ds *Documents) Cursor(ctx context.Context, documentID, ownerID string) (*model.Document, error) {
	d, err := ds.Get(ctx, documentID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccessDenied) {
			return nil, validation("invalid cursor")
		}

		return nil, err
	}

	return d, nil
}

func buildQuery(ownerID string, c model.Category, field string, dir SortDirection) (store.DocumentQuery, error) {
	if c != "" && !c.Valid() {
		return store.DocumentQuery{}, validation("invalid category %q", c)
	}

	if field == "" {
		field = "createdAt"
	}

	col, ok := sortColumns[field]
	if !ok {
		return store.DocumentQuery{}, validation("invalid sort field %q", field)
	}

	switch dir {
	case "":
		dir = SortDesc
	case SortAsc, SortDesc:
	default:
		return store.DocumentQuery{}, validation("invalid sort direction %q", dir)
	}

	return store.DocumentQuery{
		OwnerID:    ownerID,
		Category:   c,
		SortColumn: col,
		Descending: dir == SortDesc,
	}, nil
}

func matches(d *model.Document, term string) bool {
	return strings.Contains(strings.ToLower(d.Title), term) ||
		strings.Contains(strings.ToLower(d.Description), term) ||
		d.Tags.ContainsFold(term)
}

func validateMeta(title string, c model.Category, docType string, tags []string) error {
	if err := validators.TitleValidator(title); err != nil {
		return fmt.Errorf("%w, %w", ErrValidation, err)
	}

	if err := validators.DocumentTypeValidator(c, docType); err != nil {
		return fmt.Errorf("%w, %w", ErrValidation, err)
	}

	if err := validators.TagsValidator(tags); err != nil {
		return fmt.Errorf("%w, %w", ErrValidation, err)
	}

	return nil
}

// cleanTags trims tags and drops empty and duplicate ones
func cleanTags(tags []string) model.StringSlice {
	out := make(model.StringSlice, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		t = validators.SanitizeInput(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
