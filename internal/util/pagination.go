package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate converts a 1-based page and a page size into an offset and a
// limit. Out of range sizes fall back to DefaultPageSize.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// ParsePage reads page and size query values, ignoring malformed input.
func ParsePage(pageStr, sizeStr string) (page, size int) {
	page, _ = strconv.Atoi(pageStr)
	size, _ = strconv.Atoi(sizeStr)
	if page < 1 {
		page = 1
	}
	return page, size
}
