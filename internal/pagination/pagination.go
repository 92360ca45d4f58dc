// Package pagination windows ordered lists into fixed-size pages.
// Pages are 1-based. Callers own the current page number.
package pagination

// TotalPages returns ceil(n/size). A non-positive size yields 0.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Clamp bounds page to [1, max(totalPages, 1)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page returns the window of items shown on pageNumber after clamping it.
// The result aliases items; callers must copy before mutating.
func Page[T any](items []T, pageSize, pageNumber int) []T {
	if pageSize <= 0 || len(items) == 0 {
		return items[:0:0]
	}
	pageNumber = Clamp(pageNumber, TotalPages(len(items), pageSize))
	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Cursor tracks the current page over a list whose length can change.
type Cursor struct {
	page int
	size int
}

// NewCursor returns a cursor positioned on page 1.
func NewCursor(size int) Cursor {
	return Cursor{page: 1, size: size}
}

// Current returns the current page number (always >= 1).
func (c Cursor) Current() int {
	if c.page < 1 {
		return 1
	}
	return c.page
}

// Size returns the page size.
func (c Cursor) Size() int { return c.size }

// Reset moves the cursor back to page 1.
func (c *Cursor) Reset() { c.page = 1 }

// Clamp re-bounds the cursor after the underlying list changed to n items.
func (c *Cursor) Clamp(n int) {
	c.page = Clamp(c.page, TotalPages(n, c.size))
}

// GoTo moves to page when it exists for a list of n items and reports whether it moved.
func (c *Cursor) GoTo(page, n int) bool {
	if page < 1 || page > TotalPages(n, c.size) {
		return false
	}
	c.page = page
	return true
}

// Next advances one page when possible.
func (c *Cursor) Next(n int) bool {
	if c.Current() >= TotalPages(n, c.size) {
		return false
	}
	c.page = c.Current() + 1
	return true
}

// Prev goes back one page when possible.
func (c *Cursor) Prev() bool {
	if c.Current() <= 1 {
		return false
	}
	c.page = c.Current() - 1
	return true
}

// HasNext reports whether a next-page control should be shown for n items.
func (c Cursor) HasNext(n int) bool {
	return n > c.size && c.Current() < TotalPages(n, c.size)
}

// HasPrev reports whether a previous-page control should be shown for n items.
func (c Cursor) HasPrev(n int) bool {
	return n > c.size && c.Current() > 1
}

// IsFirst reports whether the cursor is on the first page.
func (c Cursor) IsFirst() bool { return c.Current() == 1 }

// IsLast reports whether the cursor is on the last page of n items.
// An empty list has no last page.
func (c Cursor) IsLast(n int) bool { return c.Current() == TotalPages(n, c.size) }

// Window returns the items visible at the cursor.
func Window[T any](c Cursor, items []T) []T {
	return Page(items, c.size, c.Current())
}
