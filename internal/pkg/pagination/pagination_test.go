package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{"first page with more", 1, 25, 60, &PageRef{2, 25}, nil},
		{"middle page", 2, 25, 60, &PageRef{3, 25}, &PageRef{1, 25}},
		{"last page", 3, 25, 60, nil, &PageRef{2, 25}},
		{"exact boundary", 2, 25, 50, nil, &PageRef{1, 25}},
		{"single page", 1, 25, 10, nil, nil},
		{"empty set", 1, 25, 0, nil, nil},
		{"page beyond total", 9, 25, 10, nil, &PageRef{8, 25}},
		{"limit one", 2, 1, 3, &PageRef{3, 1}, &PageRef{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.page, tt.limit, tt.total)
			require.Equal(t, tt.wantNext, p.Next)
			require.Equal(t, tt.wantPrev, p.Prev)
		})
	}
}

func TestBuildNextPrevLaw(t *testing.T) {
	// next exists iff page*limit < total; prev exists iff (page-1)*limit > 0
	for page := 1; page <= 6; page++ {
		for limit := 1; limit <= 30; limit += 7 {
			for total := int64(0); total <= 120; total += 17 {
				p := Build(page, limit, total)
				wantNext := int64(page*limit) < total
				wantPrev := (page-1)*limit > 0
				require.Equal(t, wantNext, p.Next != nil, "page=%d limit=%d total=%d", page, limit, total)
				require.Equal(t, wantPrev, p.Prev != nil, "page=%d limit=%d total=%d", page, limit, total)
				if p.Next != nil {
					require.Equal(t, page+1, p.Next.Page)
					require.Equal(t, limit, p.Next.Limit)
				}
				if p.Prev != nil {
					require.Equal(t, page-1, p.Prev.Page)
					require.Equal(t, limit, p.Prev.Limit)
				}
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	a := Build(2, 25, 100)
	b := Build(2, 25, 100)
	require.Equal(t, a, b)
}

func TestOffset(t *testing.T) {
	require.Equal(t, int64(0), Offset(1, 25))
	require.Equal(t, int64(25), Offset(2, 25))
	require.Equal(t, int64(0), Offset(0, 25)) // clamped
}
