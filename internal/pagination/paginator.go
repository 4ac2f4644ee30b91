// Package pagination slices an in-memory list into fixed-size pages and derives the
// page-number window and "Showing N to M of T" range used by list views.
package pagination

import (
	"errors"
	"fmt"
)

const (
	DefaultPageSize   = 10
	DefaultWindowSize = 5
)

// PageSizeOptions are the page sizes offered to the user.
var PageSizeOptions = []int{10, 20, 50}

var ErrInvalidPageSize = errors.New("page size must be positive")

// State is a snapshot of a paginator.
type State[T any] struct {
	Items       []T
	PageSize    int
	CurrentPage int
	TotalPages  int
	Visible     []T
}

// Paginator owns a list and the paging state derived from it. All mutation goes
// through its methods, and every mutation recomputes the derived fields
// synchronously.
//
// Invariants after every operation:
//   - 1 <= CurrentPage() <= max(1, TotalPages())
//   - Visible() == items[(CurrentPage()-1)*PageSize() : CurrentPage()*PageSize()], clipped
//
// A Paginator is not safe for concurrent use.
type Paginator[T any] struct {
	items       []T
	pageSize    int
	currentPage int
	totalPages  int
	visible     []T
}

func New[T any](pageSize int) (*Paginator[T], error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w, got: %d", ErrInvalidPageSize, pageSize)
	}
	p := &Paginator[T]{
		pageSize:    pageSize,
		currentPage: 1,
	}
	p.recompute()
	return p, nil
}

// SetItems replaces the list wholesale. The current page is kept when it is still
// in range and clamped to the last page otherwise.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = make([]T, len(items))
	copy(p.items, items)
	p.recompute()
}

// SetPageSize changes the page size and returns to the first page.
func (p *Paginator[T]) SetPageSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w, got: %d", ErrInvalidPageSize, n)
	}
	p.pageSize = n
	p.currentPage = 1
	p.recompute()
	return nil
}

// CyclePageSize advances to the next entry of PageSizeOptions, wrapping around.
func (p *Paginator[T]) CyclePageSize() int {
	next := PageSizeOptions[0]
	for i, size := range PageSizeOptions {
		if size == p.pageSize && i+1 < len(PageSizeOptions) {
			next = PageSizeOptions[i+1]
			break
		}
	}
	_ = p.SetPageSize(next)
	return next
}

// GoToPage moves to page when 1 <= page <= TotalPages and reports whether it did.
// Out-of-range pages leave the state untouched.
func (p *Paginator[T]) GoToPage(page int) bool {
	if page < 1 || page > p.totalPages {
		return false
	}
	p.currentPage = page
	p.recompute()
	return true
}

func (p *Paginator[T]) NextPage() bool {
	return p.GoToPage(p.currentPage + 1)
}

func (p *Paginator[T]) PrevPage() bool {
	return p.GoToPage(p.currentPage - 1)
}

func (p *Paginator[T]) FirstPage() bool {
	return p.GoToPage(1)
}

func (p *Paginator[T]) LastPage() bool {
	return p.GoToPage(p.totalPages)
}

func (p *Paginator[T]) recompute() {
	n := len(p.items)
	p.totalPages = (n + p.pageSize - 1) / p.pageSize

	maxPage := p.totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if p.currentPage > maxPage {
		p.currentPage = maxPage
	}
	if p.currentPage < 1 {
		p.currentPage = 1
	}

	start := (p.currentPage - 1) * p.pageSize
	if start > n {
		start = n
	}
	end := start + p.pageSize
	if end > n {
		end = n
	}
	p.visible = p.items[start:end:end]
}

// PageWindow returns at most maxVisible page numbers centred on the current page.
// Near either end the window shifts so it stays full width. It is empty when
// there are no pages.
func (p *Paginator[T]) PageWindow(maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = DefaultWindowSize
	}

	if p.totalPages <= maxVisible {
		pages := make([]int, 0, p.totalPages)
		for i := 1; i <= p.totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	start := clamp(p.currentPage-maxVisible/2, 1, p.totalPages-maxVisible+1)
	pages := make([]int, 0, maxVisible)
	for i := start; i < start+maxVisible; i++ {
		pages = append(pages, i)
	}
	return pages
}

// DisplayRange returns the 1-based index of the first visible item and the
// inclusive index of the last. Both are 0 for an empty list.
func (p *Paginator[T]) DisplayRange() (int, int) {
	n := len(p.items)
	if n == 0 {
		return 0, 0
	}
	start := (p.currentPage-1)*p.pageSize + 1
	end := p.currentPage * p.pageSize
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// Visible returns a copy of the current page's items.
func (p *Paginator[T]) Visible() []T {
	out := make([]T, len(p.visible))
	copy(out, p.visible)
	return out
}

// Items returns a copy of the full list.
func (p *Paginator[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// At returns the item at index i of the current page.
func (p *Paginator[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(p.visible) {
		return zero, false
	}
	return p.visible[i], true
}

func (p *Paginator[T]) State() State[T] {
	return State[T]{
		Items:       p.Items(),
		PageSize:    p.pageSize,
		CurrentPage: p.currentPage,
		TotalPages:  p.totalPages,
		Visible:     p.Visible(),
	}
}

func (p *Paginator[T]) Len() int          { return len(p.items) }
func (p *Paginator[T]) VisibleLen() int   { return len(p.visible) }
func (p *Paginator[T]) PageSize() int     { return p.pageSize }
func (p *Paginator[T]) CurrentPage() int  { return p.currentPage }
func (p *Paginator[T]) TotalPages() int   { return p.totalPages }
func (p *Paginator[T]) HasNextPage() bool { return p.currentPage < p.totalPages }
func (p *Paginator[T]) HasPrevPage() bool { return p.currentPage > 1 }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
