package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Normalized(t *testing.T) {
	tests := []struct {
		in   PaginationParams
		want PaginationParams
	}{
		{in: PaginationParams{}, want: PaginationParams{Page: 1, Limit: DefaultPageSize}},
		{in: PaginationParams{Page: -3, Limit: 500}, want: PaginationParams{Page: 1, Limit: MaxPageSize}},
		{in: PaginationParams{Page: 4, Limit: 25}, want: PaginationParams{Page: 4, Limit: 25}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalized())
	}

	assert.Equal(t, 75, PaginationParams{Page: 4, Limit: 25}.Offset())
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 1, Limit: 10}, 21)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	meta = NewPaginationMeta(PaginationParams{Page: 3, Limit: 10}, 21)
	assert.False(t, meta.HasNext)

	meta = NewPaginationMeta(PaginationParams{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}
