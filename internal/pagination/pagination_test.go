package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkip(t *testing.T) {
	assert.Equal(t, 0, Skip(1, 10))
	assert.Equal(t, 10, Skip(2, 10))
	assert.Equal(t, 40, Skip(5, 10))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int
		wantPages int
	}{
		{"exact fit", 1, 10, 30, 3},
		{"partial last page", 2, 10, 25, 3},
		{"empty set", 1, 10, 0, 0},
		{"single item", 1, 10, 1, 1},
		{"zero limit", 1, 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, r.Page)
			assert.Equal(t, tt.limit, r.Limit)
			assert.Equal(t, tt.total, r.Total)
			assert.Equal(t, tt.wantPages, r.TotalPages)
		})
	}
}

func TestClamp(t *testing.T) {
	page, limit := Clamp(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = Clamp(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = Clamp(2, 25)
	assert.Equal(t, 2, page)
	assert.Equal(t, 25, limit)
}
