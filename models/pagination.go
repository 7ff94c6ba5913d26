package models

// Page is the envelope for paginated list responses.
type Page[T any] struct {
	TotalItems int64 `json:"total_items"`
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	NumPages   int64 `json:"num_pages"`
}

// NewPage builds a Page, computing the page count from the total.
func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	numPages := int64(0)
	if pageSize > 0 {
		numPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		TotalItems: total,
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		NumPages:   numPages,
	}
}
