package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// ListService handles listing and filtering catalogued assets
type ListService struct {
	catalog ports.CatalogReader
}

// NewListService creates a new list service
func NewListService(catalog ports.CatalogReader) *ListService {
	return &ListService{
		catalog: catalog,
	}
}

// ListRequest represents a request to list catalogued assets
type ListRequest struct {
	Type       domain.TypeTag // Filter by asset type (optional)
	CopiesOnly bool           // Only assets that record an origin
	SortBy     string         // "path", "name", "type", "deps" (default: path)
	Reverse    bool           // Reverse sort order
}

// ListResponse represents the response from listing assets
type ListResponse struct {
	Entries []domain.CatalogEntry
	Total   int
}

// Execute lists catalogued assets with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	entries, err := s.catalog.Entries(ctx, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	if req.CopiesOnly {
		entries = filterCopies(entries)
	}

	entries = sortEntries(entries, req.SortBy, req.Reverse)

	return &ListResponse{
		Entries: entries,
		Total:   len(entries),
	}, nil
}

func filterCopies(entries []domain.CatalogEntry) []domain.CatalogEntry {
	var filtered []domain.CatalogEntry
	for _, e := range entries {
		if e.Origin.IsValid() {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func sortEntries(entries []domain.CatalogEntry, sortBy string, reverse bool) []domain.CatalogEntry {
	less := func(a, b domain.CatalogEntry) bool {
		switch sortBy {
		case "name":
			return strings.ToLower(a.Handle.LeafName()) < strings.ToLower(b.Handle.LeafName())
		case "type":
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		case "deps":
			if len(a.Dependencies) != len(b.Dependencies) {
				return len(a.Dependencies) > len(b.Dependencies)
			}
		}
		return a.Handle.String() < b.Handle.String()
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
	return entries
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
	Type  domain.TypeTag
}

// SearchResponse represents search results
type SearchResponse struct {
	Entries []domain.CatalogEntry
	Total   int
}

// Search performs fuzzy search on asset names, paths and types
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	entries, err := s.catalog.Entries(ctx, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	if strings.TrimSpace(req.Query) == "" {
		return &SearchResponse{
			Entries: entries,
			Total:   len(entries),
		}, nil
	}

	matches := fuzzySearch(entries, req.Query)

	return &SearchResponse{
		Entries: matches,
		Total:   len(matches),
	}, nil
}

type fuzzyMatch struct {
	entry domain.CatalogEntry
	score int
}

// fuzzySearch ranks entries by their best field: leaf name, then package path, then type
func fuzzySearch(entries []domain.CatalogEntry, query string) []domain.CatalogEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	var matches []fuzzyMatch
	for _, e := range entries {
		if score := fuzzyMatchScore(e.Handle.LeafName(), query); score > 0 {
			matches = append(matches, fuzzyMatch{entry: e, score: score + 1000})
			continue
		}
		if score := fuzzyMatchScore(e.Handle.PackagePath(), query); score > 0 {
			matches = append(matches, fuzzyMatch{entry: e, score: score + 500})
			continue
		}
		if score := fuzzyMatchScore(e.Type.String(), query); score > 0 {
			matches = append(matches, fuzzyMatch{entry: e, score: score + 200})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].entry.Handle.String() < matches[j].entry.Handle.String()
	})

	result := make([]domain.CatalogEntry, len(matches))
	for i, m := range matches {
		result[i] = m.entry
	}
	return result
}

// fuzzyMatchScore scores query against text; 0 means no match
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if text == query {
		return 10000
	}
	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Subsequence match
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}

		score += 100
		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		// Asset names break words on '_' and paths on '/'
		if textIdx == 0 || isNameBoundary(textRunes[textIdx-1]) {
			score += 200
		}
		if textIdx == 0 {
			score += 300
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	if queryIdx != len(queryRunes) {
		return 0
	}

	// Penalty for gaps between matches
	if lastMatchIdx >= 0 {
		score -= (lastMatchIdx + 1 - len(queryRunes)) * 10
	}

	return score
}

func isNameBoundary(r rune) bool {
	switch r {
	case '_', '/', '-', '.', ' ':
		return true
	}
	return false
}
