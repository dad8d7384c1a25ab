package services

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// GrepService searches the text of asset documents
type GrepService struct {
	source     ports.ContentSource
	locator    ports.DocumentLocator
	maxWorkers int
}

// NewGrepService creates a new grep service
func NewGrepService(source ports.ContentSource, locator ports.DocumentLocator, maxWorkers int) *GrepService {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &GrepService{
		source:     source,
		locator:    locator,
		maxWorkers: maxWorkers,
	}
}

// GrepRequest describes a search
type GrepRequest struct {
	// Query is matched case-insensitively unless CaseSensitive is set.
	// An empty query returns every non-empty line (for fuzzy finding).
	Query         string
	CaseSensitive bool
	// MaxResults caps the result count; 0 means unlimited
	MaxResults int
}

// GrepMatch represents a single line match
type GrepMatch struct {
	Asset   domain.AssetHandle
	File    string
	LineNum int
	Content string
}

// Execute scans all asset documents and returns matches ordered by asset and line
func (s *GrepService) Execute(ctx context.Context, req GrepRequest) ([]GrepMatch, error) {
	// 1. Collect documents
	handles, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset documents: %w", err)
	}

	query := req.Query
	if !req.CaseSensitive {
		query = strings.ToLower(query)
	}

	// 2. Worker Pool
	jobs := make(chan domain.AssetHandle, len(handles))
	results := make(chan []GrepMatch, len(handles))
	var wg sync.WaitGroup

	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				path, err := s.locator.FilePath(h)
				if err != nil {
					continue
				}
				if matches := scanDocument(h, path, query, req.CaseSensitive); len(matches) > 0 {
					results <- matches
				}
			}
		}()
	}

	for _, h := range handles {
		jobs <- h
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// 3. Collect results
	var all []GrepMatch
	for fileMatches := range results {
		all = append(all, fileMatches...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Asset != all[j].Asset {
			return all[i].Asset.String() < all[j].Asset.String()
		}
		return all[i].LineNum < all[j].LineNum
	})

	if req.MaxResults > 0 && len(all) > req.MaxResults {
		all = all[:req.MaxResults]
	}
	return all, nil
}

// maxDocumentLine bounds one document line; inline reference arrays can run long
const maxDocumentLine = 16 << 20

func scanDocument(h domain.AssetHandle, path, query string, caseSensitive bool) []GrepMatch {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var matches []GrepMatch
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDocumentLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()

		if strings.TrimSpace(text) == "" {
			continue
		}

		hay := text
		if !caseSensitive {
			hay = strings.ToLower(text)
		}
		if query == "" || strings.Contains(hay, query) {
			matches = append(matches, GrepMatch{
				Asset:   h,
				File:    path,
				LineNum: lineNum,
				Content: text,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("stopped scanning asset document", "asset", h.String(), "line", lineNum+1, "error", err)
	}

	return matches
}
