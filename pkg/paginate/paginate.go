// Package paginate slices an already materialised result set into pages.
package paginate

const (
	DefaultPage = 1
	DefaultSize = 50
	MaxSize     = 100
)

type Params struct {
	Page int `validate:"min=1"`
	Size int `validate:"min=1,max=100"`
}

func DefaultParams() Params {
	return Params{Page: DefaultPage, Size: DefaultSize}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// Paginate returns the requested page of items. A page past the end has no items.
func Paginate[T any](items []T, p Params) Page[T] {
	total := len(items)
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}

	start := min(max(p.Offset(), 0), total)
	end := min(start+p.Size, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	return Page[T]{
		Items: page,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: pages,
	}
}
