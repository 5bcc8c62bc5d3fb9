package cache

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Category prefixes partition the key space for scoped invalidation.
// Single-movie keys are invalidated individually by id and are never part
// of bulk category invalidation.
const (
	PrefixAllMovies = "movies:all:"
	PrefixSearch    = "movies:search:"
	PrefixSorted    = "movies:sorted:"
	PrefixMovie     = "movies:id:"
)

// Defaults applied when deriving listing keys. They must match the query
// defaults used by the read path so that an explicit default and an omitted
// parameter derive the same key.
const (
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// ListParams are the listing query parameters that shape a cache key.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// normalize fills defaults so logically identical queries serialize
// identically regardless of how the caller spelled them.
func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder != "asc" {
		p.SortOrder = DefaultSortOrder
	}
	return p
}

// ListKey derives a deterministic cache key for a listing query. The
// serialization uses a fixed field order, so equal parameter sets always
// produce equal keys. String values are query-escaped so a delimiter
// character inside one parameter cannot read as part of another; without
// that, distinct queries could collide on one key and a cached response
// for one would be served for the other.
func ListKey(p ListParams) string {
	p = p.normalize()

	prefix := PrefixAllMovies
	switch {
	case p.Search != "":
		prefix = PrefixSearch
	case p.SortBy != DefaultSortBy || p.SortOrder != DefaultSortOrder:
		prefix = PrefixSorted
	}

	return fmt.Sprintf("%spage=%d&limit=%d&search=%s&sortBy=%s&sortOrder=%s",
		prefix, p.Page, p.Limit,
		url.QueryEscape(p.Search), url.QueryEscape(p.SortBy), p.SortOrder)
}

// MovieKey derives the cache key for a single movie.
func MovieKey(id uuid.UUID) string {
	return PrefixMovie + id.String()
}

// ListCategories returns the prefixes cleared by bulk invalidation after a
// write. PrefixMovie is deliberately excluded.
func ListCategories() []string {
	return []string{PrefixAllMovies, PrefixSearch, PrefixSorted}
}
