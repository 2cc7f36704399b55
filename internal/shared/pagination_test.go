package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name                 string
		limit, offset, total int
		page, totalPages     int
	}{
		{"first page", 50, 0, 120, 1, 3},
		{"second page", 50, 50, 120, 2, 3},
		{"exact fit", 20, 40, 60, 3, 3},
		{"empty result", 50, 0, 0, 1, 0},
		{"defaulted limit", 0, 0, 45, 1, 3},
		{"negative offset clamped", 20, -5, 10, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.limit, tc.offset, tc.total)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.totalPages, p.TotalPages)
		})
	}
}
