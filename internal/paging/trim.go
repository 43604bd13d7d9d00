package paging

// Trim turns pageSize+1 fetched rows into a page. If the probe row is present
// it is dropped and its id becomes the next cursor.
func Trim[T any](rows []T, pageSize int, idOf func(T) string) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(rows) > pageSize {
		return Page[T]{
			Items:      rows[:pageSize],
			NextCursor: EncodeCursor(idOf(rows[pageSize])),
		}
	}
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Items: rows}
}

// TrimReversed trims like Trim and then reverses the page, for lists fetched
// newest-first but displayed oldest-first. The cursor then points backward
// to older rows.
func TrimReversed[T any](rows []T, pageSize int, idOf func(T) string) Page[T] {
	page := Trim(rows, pageSize, idOf)
	items := make([]T, len(page.Items))
	for i, item := range page.Items {
		items[len(items)-1-i] = item
	}
	page.Items = items
	return page
}
