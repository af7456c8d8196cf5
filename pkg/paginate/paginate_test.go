package paginate_test

import (
	"testing"

	"github.com/gunnhildr/library-api/pkg/paginate"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		params paginate.Params
		want   paginate.Page[int]
	}{
		{
			name:   "defaults fit everything",
			params: paginate.DefaultParams(),
			want:   paginate.Page[int]{Items: []int{1, 2, 3, 4, 5}, Total: 5, Page: 1, Size: 50, Pages: 1},
		},
		{
			name:   "middle page",
			params: paginate.Params{Page: 2, Size: 2},
			want:   paginate.Page[int]{Items: []int{3, 4}, Total: 5, Page: 2, Size: 2, Pages: 3},
		},
		{
			name:   "last partial page",
			params: paginate.Params{Page: 3, Size: 2},
			want:   paginate.Page[int]{Items: []int{5}, Total: 5, Page: 3, Size: 2, Pages: 3},
		},
		{
			name:   "past the end",
			params: paginate.Params{Page: 9, Size: 2},
			want:   paginate.Page[int]{Items: []int{}, Total: 5, Page: 9, Size: 2, Pages: 3},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, paginate.Paginate(items, tt.params))
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page := paginate.Paginate([]string(nil), paginate.DefaultParams())
	require.Empty(t, page.Items)
	require.NotNil(t, page.Items)
	require.Zero(t, page.Total)
	require.Zero(t, page.Pages)
}
