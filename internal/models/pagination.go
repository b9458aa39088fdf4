package models

// PaginationInfo holds the data needed to render or emit pagination
type PaginationInfo struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	ItemsPerPage int   `json:"items_per_page"`
	TotalItems   int   `json:"total_items"`
	HasPrev      bool  `json:"has_prev"`
	HasNext      bool  `json:"has_next"`
	PrevPage     int   `json:"prev_page,omitempty"`
	NextPage     int   `json:"next_page,omitempty"`
	Pages        []int `json:"pages"`
}

// CalculatePagination computes the pagination info for a listing
func CalculatePagination(currentPage, itemsPerPage, totalItems int) PaginationInfo {

	totalPages := (totalItems + itemsPerPage - 1) / itemsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	if currentPage < 1 {
		currentPage = 1
	} else if currentPage > totalPages {
		currentPage = totalPages
	}

	pagination := PaginationInfo{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		ItemsPerPage: itemsPerPage,
		TotalItems:   totalItems,
		HasPrev:      currentPage > 1,
		HasNext:      currentPage < totalPages,
	}

	if pagination.HasPrev {
		pagination.PrevPage = currentPage - 1
	}

	if pagination.HasNext {
		pagination.NextPage = currentPage + 1
	}

	// Window of up to five page numbers around the current page
	start := currentPage - 2
	if start < 1 {
		start = 1
	}
	end := start + 4
	if end > totalPages {
		end = totalPages
		if start = end - 4; start < 1 {
			start = 1
		}
	}

	for page := start; page <= end; page++ {
		pagination.Pages = append(pagination.Pages, page)
	}

	return pagination
}
