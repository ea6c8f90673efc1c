package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFilterNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ListFilter
		wantPage  int
		wantLimit int
	}{
		{"合法参数原样保留", ListFilter{Page: 2, Limit: 20}, 2, 20},
		{"limit 显式传 0", ListFilter{Page: 1, Limit: 0}, 1, 10},
		{"limit 为负", ListFilter{Page: 1, Limit: -5}, 1, 10},
		{"page 为 0", ListFilter{Page: 0, Limit: 10}, 1, 10},
		{"全部非法", ListFilter{}, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestListFilterNormalizeTotalPages(t *testing.T) {
	// 归一后的 Limit 恒为正数，总页数计算不会除零
	f := ListFilter{Limit: 0}.Normalize()
	require.Positive(t, f.Limit)

	total := int64(25)
	totalPages := (total + int64(f.Limit) - 1) / int64(f.Limit)
	assert.Equal(t, int64(3), totalPages)
}
