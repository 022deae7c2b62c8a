package pagination

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the page-number paging contract shared by the list endpoints.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20" validate:"gte=1,lte=100"`
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// Apply adds OFFSET/LIMIT to a statement.
func Apply(stmt *gorm.DB, p Pagination) *gorm.DB {
	p = p.Normalize()
	return stmt.Offset(p.Offset()).Limit(p.PageSize)
}

// TotalPages derives the page count for a result set.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
