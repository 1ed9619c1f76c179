package pagination

import "testing"

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		totalCount  int
		currentPage int
		expected    State
	}{
		{
			name:        "empty result set",
			totalCount:  0,
			currentPage: 1,
			expected:    State{CurrentPage: 1, TotalPages: 0, TotalCount: 0, HasNextPage: false, HasPreviousPage: false},
		},
		{
			name:        "first of three pages",
			totalCount:  25,
			currentPage: 1,
			expected:    State{CurrentPage: 1, TotalPages: 3, TotalCount: 25, HasNextPage: true, HasPreviousPage: false},
		},
		{
			name:        "middle page",
			totalCount:  25,
			currentPage: 2,
			expected:    State{CurrentPage: 2, TotalPages: 3, TotalCount: 25, HasNextPage: true, HasPreviousPage: true},
		},
		{
			name:        "last page",
			totalCount:  25,
			currentPage: 3,
			expected:    State{CurrentPage: 3, TotalPages: 3, TotalCount: 25, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name:        "exact page boundary",
			totalCount:  30,
			currentPage: 3,
			expected:    State{CurrentPage: 3, TotalPages: 3, TotalCount: 30, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name:        "page beyond the last one",
			totalCount:  5,
			currentPage: 7,
			expected:    State{CurrentPage: 7, TotalPages: 1, TotalCount: 5, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name:        "single partial page",
			totalCount:  3,
			currentPage: 1,
			expected:    State{CurrentPage: 1, TotalPages: 1, TotalCount: 3, HasNextPage: false, HasPreviousPage: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.totalCount, tt.currentPage)
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestCalculateProperties(t *testing.T) {
	// ceil division, next/previous flags and count pass-through have to hold
	// for every combination of inputs
	for totalCount := 0; totalCount <= 55; totalCount++ {
		for currentPage := 1; currentPage <= 8; currentPage++ {
			for _, pageSize := range []int{1, 3, 10} {
				state := CalculateFor(totalCount, currentPage, pageSize)

				expectedPages := (totalCount + pageSize - 1) / pageSize
				if state.TotalPages != expectedPages {
					t.Fatalf("CalculateFor(%d, %d, %d): expected %d total pages, got %d",
						totalCount, currentPage, pageSize, expectedPages, state.TotalPages)
				}
				if state.TotalCount != totalCount {
					t.Fatalf("CalculateFor(%d, %d, %d): total count not passed through", totalCount, currentPage, pageSize)
				}
				if state.HasNextPage != (currentPage < expectedPages) {
					t.Fatalf("CalculateFor(%d, %d, %d): wrong HasNextPage", totalCount, currentPage, pageSize)
				}
				if state.HasPreviousPage != (currentPage > 1) {
					t.Fatalf("CalculateFor(%d, %d, %d): wrong HasPreviousPage", totalCount, currentPage, pageSize)
				}
				if (state.TotalPages == 0) != (totalCount == 0) {
					t.Fatalf("CalculateFor(%d, %d, %d): TotalPages == 0 must hold exactly for an empty set", totalCount, currentPage, pageSize)
				}
			}
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, PageSize); got != 0 {
		t.Errorf("expected offset 0 for page 1, got %d", got)
	}
	if got := Offset(3, PageSize); got != 20 {
		t.Errorf("expected offset 20 for page 3, got %d", got)
	}
}
