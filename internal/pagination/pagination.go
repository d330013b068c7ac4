package pagination

import (
	"math"

	"gorm.io/gorm"
)

// PageRequest holds pagination parameters parsed from query strings.
// Pages are 1-indexed; limit is bounded to 1-100.
type PageRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in default values when page or limit are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 10
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse wraps a paginated list of items with metadata. Count is the
// number of items on this page; Total the number matching the query overall.
type PageResponse[T any] struct {
	Items []T   `json:"-"`
	Count int   `json:"count"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// NewPageResponse creates a PageResponse from the given items and total count.
func NewPageResponse[T any](items []T, page, limit int, total int64) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Items: items,
		Count: len(items),
		Total: total,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.Limit)
	}
}
