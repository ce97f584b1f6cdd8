package dto

// PaginationQuery binds the standard page/size query parameters
type PaginationQuery struct {
	Page int `form:"page,default=1" binding:"omitempty,min=1"`
	Size int `form:"size,default=20" binding:"omitempty,min=1,max=100"`
}

// PaginationMeta describes the position of a page within a result set
type PaginationMeta struct {
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPaginationMeta computes pagination metadata for a page of a result
// set: pages = ceil(total/size), hasNext/hasPrev relative to page.
func NewPaginationMeta(page, size int, total int64) PaginationMeta {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return PaginationMeta{
		Page:    page,
		Size:    size,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// Page is a generic paginated response wrapper
type Page[T any] struct {
	Items []T            `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// NewPage builds a Page from items and pagination metadata
func NewPage[T any](items []T, meta PaginationMeta) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Meta: meta}
}
