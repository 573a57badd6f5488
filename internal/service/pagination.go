package service

import "math"

// pageCount returns the number of pages of size needed for total items.
func pageCount(total int64, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// pageOffset converts a 1-indexed page to a row offset. Offsets that would
// overflow saturate at math.MaxInt, which is past every table.
func pageOffset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}
