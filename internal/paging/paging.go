// Package paging implements cursor pagination with a probe row.
//
// A page request for N items fetches N+1 rows in a fixed total order
// (created_at DESC, id DESC). When the extra row comes back it is dropped from
// the page and its id becomes the cursor of the next page, so the cursor row
// is always the first row of the page it names.
package paging

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/util"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Request is a single page request. An empty Cursor means the start of the order.
type Request struct {
	Cursor   string
	PageSize int
}

// Page is one page of results. NextCursor is nil on the last page.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}

// DecodeCursor validates a cursor taken from a request. Cursors are entity
// primary keys, so anything that is not a UUID is rejected.
func DecodeCursor(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errors.ValidationError("cursor", "cursor is not a valid id")
	}
	return id.String(), nil
}

// EncodeCursor turns a row id into a response cursor
func EncodeCursor(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// NewRequest builds a validated request. A non-positive limit selects the
// default page size; limits above MaxPageSize are clamped.
func NewRequest(cursor string, limit int) (Request, error) {
	decoded, err := DecodeCursor(cursor)
	if err != nil {
		return Request{}, err
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return Request{Cursor: decoded, PageSize: limit}, nil
}

// ParseRequest reads the cursor and limit query parameters
func ParseRequest(c *gin.Context) (Request, error) {
	limit := util.ParseInt(c.Query("limit"), DefaultPageSize)
	return NewRequest(c.Query("cursor"), limit)
}

// Map converts the items of a page, keeping the cursor
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := Page[U]{
		Items:      make([]U, len(p.Items)),
		NextCursor: p.NextCursor,
	}
	for i, item := range p.Items {
		out.Items[i] = f(item)
	}
	return out
}
