package model

// Stats is computed from an owner's documents on every request and never stored
type Stats struct {
	TotalDocuments    int              `json:"totalDocuments"`
	SharedDocuments   int              `json:"sharedDocuments"`
	TotalViews        int64            `json:"totalViews"`
	TotalStorageBytes int64            `json:"totalStorageBytes"`
	CategoryStats     map[Category]int `json:"categoryStats"`
}

// NewStats returns zeroed stats with every category present
func NewStats() *Stats {
	s := &Stats{CategoryStats: make(map[Category]int, len(Categories))}
	for _, c := range Categories {
		s.CategoryStats[c] = 0
	}

	return s
}

// Add folds one document into the totals
func (s *Stats) Add(d *Document) {
	s.TotalDocuments++
	if d.ShareEnabled {
		s.SharedDocuments++
	}

	s.TotalViews += d.ViewCount
	s.TotalStorageBytes += d.FileSize

	if _, ok := s.CategoryStats[d.Category]; ok {
		s.CategoryStats[d.Category]++
	}
}
