// Package search answers identifier and keyword queries across the live
// task store and every archive snapshot, with pagination.
package search

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/docket/internal/store"
	"github.com/randalmurphal/docket/internal/task"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 5

// parseWorkers bounds how many archive documents are parsed at once.
const parseWorkers = 4

// Pagination describes the slice returned by a query.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalResults int  `json:"totalResults"`
	HasMore      bool `json:"hasMore"`
}

// Page is one page of query results.
type Page struct {
	Tasks      []task.Task `json:"tasks"`
	Pagination Pagination  `json:"pagination"`
}

// Service runs queries against a store and its archives.
type Service struct {
	store  *store.Store
	finder CandidateFinder
}

// Option configures a Service.
type Option func(*Service)

// WithFinder replaces the archive candidate finder.
func WithFinder(f CandidateFinder) Option {
	return func(s *Service) {
		s.finder = f
	}
}

// New creates a search service over the given store. Archive lookups are
// accelerated with the platform text-search utility unless a different
// finder is supplied.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, finder: NewGrepFinder()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query searches live and archived tasks. With isID set the query must
// equal a task identifier verbatim; otherwise it is split into keyword
// tokens that must all match. Results are deduplicated by identifier
// with live tasks taking priority, ordered by completion recency, and
// paginated with the page clamped into the valid range.
func (s *Service) Query(ctx context.Context, query string, isID bool, page, pageSize int) (Page, error) {
	live, err := s.store.Load()
	if err != nil {
		return Page{}, err
	}

	tokens := strings.Fields(query)

	matched := []task.Task{}
	seen := make(map[string]bool)
	for _, t := range live {
		if matches(t, query, isID, tokens) {
			matched = append(matched, t)
			seen[t.ID] = true
		}
	}

	for _, t := range s.archiveMatches(ctx, query, isID, tokens) {
		if !seen[t.ID] {
			matched = append(matched, t)
			seen[t.ID] = true
		}
	}

	sortResults(matched)
	return paginate(matched, page, pageSize), nil
}

// archiveMatches collects matching tasks from the archive snapshots.
// All failures here are soft: a broken accelerator or an unreadable
// archive document costs results, never the whole query.
func (s *Service) archiveMatches(ctx context.Context, query string, isID bool, tokens []string) []task.Task {
	candidates, err := s.candidateFiles(ctx, query, isID, tokens)
	if err != nil {
		slog.Warn("archive search accelerator failed", "error", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	// Newest archives first, so deduplication keeps the freshest copy.
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	perFile := make([][]task.Task, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, path := range candidates {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			tasks, err := s.store.LoadArchive(path)
			if err != nil {
				slog.Warn("skipping unreadable archive", "path", path, "error", err)
				return nil
			}
			var hits []task.Task
			for _, t := range tasks {
				if matches(t, query, isID, tokens) {
					hits = append(hits, t)
				}
			}
			perFile[i] = hits
			return nil
		})
	}
	g.Wait()

	var out []task.Task
	for _, hits := range perFile {
		out = append(out, hits...)
	}
	return out
}

// candidateFiles picks which archive documents to parse. An empty
// keyword query matches every task, so every archive is a candidate.
// With no archives at all there is nothing to narrow and the finder is
// never invoked.
func (s *Service) candidateFiles(ctx context.Context, query string, isID bool, tokens []string) ([]string, error) {
	all, err := s.store.Archives()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	keywords := tokens
	if isID {
		keywords = []string{query}
	}
	if len(keywords) == 0 {
		return all, nil
	}

	candidates, err := s.finder.FindCandidateFiles(ctx, s.store.MemoryPath(), keywords)
	if err != nil {
		return nil, err
	}

	// Only archive documents are parsed, whatever the finder returned.
	archives := candidates[:0]
	for _, p := range candidates {
		if ok, _ := filepath.Match("tasks_memory_*.json", filepath.Base(p)); ok {
			archives = append(archives, p)
		}
	}
	return archives, nil
}

// matches is the authoritative match test for live and archived tasks.
func matches(t task.Task, query string, isID bool, tokens []string) bool {
	if isID {
		return t.ID == query
	}
	for _, kw := range tokens {
		if !fieldContains(t, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// fieldContains reports whether any searchable field holds the lowercase
// keyword as a substring.
func fieldContains(t task.Task, kw string) bool {
	for _, field := range []string{t.Name, t.Description, t.Notes, t.ImplementationGuide, t.Summary} {
		if strings.Contains(strings.ToLower(field), kw) {
			return true
		}
	}
	return false
}

// sortResults orders completed tasks first (most recently completed at
// the top), then everything else by most recent update. The sort is
// stable so equal keys keep their live-before-archive arrival order.
func sortResults(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.CompletedAt != nil && b.CompletedAt != nil:
			return a.CompletedAt.After(*b.CompletedAt)
		case a.CompletedAt != nil:
			return true
		case b.CompletedAt != nil:
			return false
		default:
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
}

// paginate clamps the requested page into the valid range; even an empty
// result set reports one page.
func paginate(tasks []task.Task, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(tasks)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Tasks: tasks[start:end],
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalResults: total,
			HasMore:      page < totalPages,
		},
	}
}
