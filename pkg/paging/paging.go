// Package paging implements the keyset (cursor) protocol every list
// endpoint shares. Repos fetch limit+1 rows ordered by (sortField, id)
// past the cursor row; Page trims the overflow row and derives
// hasNext/nextCursor from it.
package paging

import (
	"movingmatch/pkg/apperr"

	"github.com/spf13/cast"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Params struct {
	Cursor *int64
	Limit  int
}

// Pagination is the trailer attached to every list response.
type Pagination struct {
	HasNext    bool   `json:"hasNext"`
	NextCursor *int64 `json:"nextCursor"`
}

// ParseParams validates raw query values. An empty limit falls back to
// DefaultLimit; anything outside [1, MaxLimit] is a validation error,
// as is a non-numeric cursor.
func ParseParams(rawCursor, rawLimit string) (Params, error) {
	p := Params{Limit: DefaultLimit}

	if rawLimit != "" {
		n, err := cast.ToIntE(rawLimit)
		if err != nil || n < 1 || n > MaxLimit {
			return Params{}, apperr.Validation("limit must be an integer in [1,100]")
		}
		p.Limit = n
	}
	if rawCursor != "" {
		id, err := cast.ToInt64E(rawCursor)
		if err != nil {
			return Params{}, apperr.Validation("cursor must be a row id")
		}
		p.Cursor = &id
	}
	return p, nil
}

// Page truncates rows fetched with limit+1 and computes the trailer.
// idOf extracts the cursor key of a row. Following NextCursor until
// HasNext is false walks the relation exactly once, duplicate-free,
// against the (sortField, id) snapshot each fetch observed.
func Page[T any](rows []T, limit int, idOf func(T) int64) ([]T, Pagination) {
	if len(rows) <= limit {
		return rows, Pagination{HasNext: false, NextCursor: nil}
	}
	rows = rows[:limit]
	last := idOf(rows[len(rows)-1])
	return rows, Pagination{HasNext: true, NextCursor: &last}
}
