package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculatePagination(t *testing.T) {

	tests := []struct {
		name         string
		currentPage  int
		itemsPerPage int
		totalItems   int
		expected     PaginationInfo
	}{
		{
			"no items", 1, 10, 0,
			PaginationInfo{
				CurrentPage:  1,
				TotalPages:   1,
				ItemsPerPage: 10,
				Pages:        []int{1},
			},
		},
		{
			"single page", 1, 10, 7,
			PaginationInfo{
				CurrentPage:  1,
				TotalPages:   1,
				ItemsPerPage: 10,
				TotalItems:   7,
				Pages:        []int{1},
			},
		},
		{
			"first of many", 1, 10, 95,
			PaginationInfo{
				CurrentPage:  1,
				TotalPages:   10,
				ItemsPerPage: 10,
				TotalItems:   95,
				HasNext:      true,
				NextPage:     2,
				Pages:        []int{1, 2, 3, 4, 5},
			},
		},
		{
			"middle page", 5, 10, 95,
			PaginationInfo{
				CurrentPage:  5,
				TotalPages:   10,
				ItemsPerPage: 10,
				TotalItems:   95,
				HasPrev:      true,
				HasNext:      true,
				PrevPage:     4,
				NextPage:     6,
				Pages:        []int{3, 4, 5, 6, 7},
			},
		},
		{
			"last page", 10, 10, 95,
			PaginationInfo{
				CurrentPage:  10,
				TotalPages:   10,
				ItemsPerPage: 10,
				TotalItems:   95,
				HasPrev:      true,
				PrevPage:     9,
				Pages:        []int{6, 7, 8, 9, 10},
			},
		},
		{
			"page out of range", 42, 10, 25,
			PaginationInfo{
				CurrentPage:  3,
				TotalPages:   3,
				ItemsPerPage: 10,
				TotalItems:   25,
				HasPrev:      true,
				PrevPage:     2,
				Pages:        []int{1, 2, 3},
			},
		},
		{
			"page below range", -3, 10, 25,
			PaginationInfo{
				CurrentPage:  1,
				TotalPages:   3,
				ItemsPerPage: 10,
				TotalItems:   25,
				HasNext:      true,
				NextPage:     2,
				Pages:        []int{1, 2, 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePagination(tt.currentPage, tt.itemsPerPage, tt.totalItems)
			if !cmp.Equal(got, tt.expected) {
				t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(tt.expected, got))
			}
		})
	}
}
