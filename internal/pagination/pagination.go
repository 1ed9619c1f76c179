package pagination

// PageSize is the fixed amount of shops included in a single listing page.
// The repository window arithmetic and the page state calculation both rely on
// this value, so it has to stay consistent across the whole listing path.
const PageSize = 10

// State represents the derived paging metadata of a single listing page.
// It is computed fresh on every fetch and never persisted.
type State struct {
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	TotalCount      int  `json:"total_count"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// Calculate derives the paging state for a total row count and the requested
// page using the fixed page size.
// The current page is taken as-is; a page beyond the last one is legal and
// simply yields HasNextPage == false.
func Calculate(totalCount, currentPage int) State {
	return CalculateFor(totalCount, currentPage, PageSize)
}

// CalculateFor derives the paging state for an arbitrary page size
func CalculateFor(totalCount, currentPage, pageSize int) State {
	totalPages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		totalPages++
	}
	return State{
		CurrentPage:     currentPage,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1,
	}
}

// Offset returns the zero-based row offset a page starts at
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
