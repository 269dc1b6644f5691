package grid

// TotalPages returns max(1, ceil(n/size)). A non-positive size counts as a
// single page.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns rows[(page-1)*size : page*size] clipped to the slice.
// Pages outside the valid range produce an empty page; they are not clamped.
func Paginate(rows []Row, page, size int) []Row {
	if size <= 0 {
		if page == 1 {
			return rows
		}
		return []Row{}
	}
	if page < 1 {
		return []Row{}
	}

	start := (page - 1) * size
	if start >= len(rows) {
		return []Row{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// ClampPage limits page to [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	return max(1, min(total, page))
}
