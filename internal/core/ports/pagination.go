package ports

// PageSize is the number of records returned per listing page.
const PageSize = 10

// PageOffset returns the rows to skip for a 1-based page. Pages below 1
// start at the first row.
func PageOffset(page int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * PageSize
}
