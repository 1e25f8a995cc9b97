package entity

import "github.com/shiv90154/CarrerPath-sub002/internal/domain/model"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of a listing. Zero values mean the first
// page of DefaultPageSize rows.
type PaginationParams struct {
	Page  int
	Limit int
}

// Normalized clamps p into the accepted range.
func (p PaginationParams) Normalized() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the page. p must be normalized.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationMeta describes where a page sits in the full result.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
}

func NewPaginationMeta(p PaginationParams, total int64) PaginationMeta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PaginationMeta{
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		Total:       total,
		TotalPages:  pages,
		HasNext:     p.Page < pages,
	}
}

// PaginatedOrders is one page of orders.
type PaginatedOrders struct {
	Data       []*model.Order `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}
