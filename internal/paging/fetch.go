package paging

import (
	"context"
	"fmt"

	"github.com/zfogg/trellis/internal/errors"
	"gorm.io/gorm"
)

// Direction is the sort direction of a keyset
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// Keyset describes the total order of a paginated table: rows sort by
// TimeColumn, ties broken by IDColumn, both in Direction.
type Keyset struct {
	Table      string
	TimeColumn string
	IDColumn   string
	Direction  Direction
}

// ByCreatedAt is the default keyset for table
func ByCreatedAt(table string) Keyset {
	return Keyset{Table: table, TimeColumn: "created_at", IDColumn: "id", Direction: Descending}
}

func (k Keyset) column(name string) string {
	return k.Table + "." + name
}

// OrderBy returns the ORDER BY clause of the keyset
func (k Keyset) OrderBy() string {
	dir := "DESC"
	if k.Direction == Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, %s %s", k.column(k.TimeColumn), dir, k.column(k.IDColumn), dir)
}

// predicate selects the cursor row and every row after it. The cursor row's
// sort key is read with a subquery so no timestamps are bound as parameters.
func (k Keyset) predicate() string {
	cmp, tieCmp := "<", "<="
	if k.Direction == Ascending {
		cmp, tieCmp = ">", ">="
	}
	sub := fmt.Sprintf("(SELECT cur.%s FROM %s cur WHERE cur.%s = ?)", k.TimeColumn, k.Table, k.IDColumn)
	return fmt.Sprintf("(%s %s %s OR (%s = %s AND %s %s ?))",
		k.column(k.TimeColumn), cmp, sub,
		k.column(k.TimeColumn), sub, k.column(k.IDColumn), tieCmp,
	)
}

// Fetch loads up to req.PageSize+1 rows of query starting at req.Cursor.
// query carries the caller's filters, joins and preloads. A cursor whose row
// no longer exists yields NOT_FOUND; any other store failure is an
// INFRASTRUCTURE_ERROR.
func Fetch[T any](ctx context.Context, query *gorm.DB, ks Keyset, req Request) ([]T, error) {
	if req.PageSize <= 0 {
		req.PageSize = DefaultPageSize
	}

	q := query.WithContext(ctx)
	if req.Cursor != "" {
		var n int64
		err := q.Session(&gorm.Session{NewDB: true}).
			Table(ks.Table).
			Where(ks.IDColumn+" = ?", req.Cursor).
			Count(&n).Error
		if err != nil {
			return nil, errors.Infrastructure("failed to resolve cursor", err)
		}
		if n == 0 {
			return nil, errors.NotFound("cursor")
		}
		q = q.Where(ks.predicate(), req.Cursor, req.Cursor, req.Cursor)
	}

	var rows []T
	if err := q.Order(ks.OrderBy()).Limit(req.PageSize + 1).Find(&rows).Error; err != nil {
		return nil, errors.Infrastructure(fmt.Sprintf("failed to load %s", ks.Table), err)
	}
	return rows, nil
}
