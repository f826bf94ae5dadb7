package listings

import "fmt"

const (
	// PageSizeTable is the dashboard table page size.
	PageSizeTable = 6
	// PageSizeGrid is the card grid page size.
	PageSizeGrid = 12
	// MaxPageButtons bounds the page-number window.
	MaxPageButtons = 6
)

// Page describes one page of a result set. Start and End are slice bounds.
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"start_index"`
	End        int `json:"end_index"`
}

// Paginate clamps the requested page into [1, TotalPages] and computes slice bounds.
// An empty result set has zero pages and sits on page 1.
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = PageSizeTable
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}

// HasPrev reports whether the previous-page control is enabled.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether the next-page control is enabled.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// RangeText is the "showing a - b of n" caption under the table.
func (p Page) RangeText() string {
	if p.TotalItems == 0 {
		return "Hiển thị 0 - 0 trong tổng số 0 kết quả"
	}
	return fmt.Sprintf("Hiển thị %d - %d trong tổng số %d kết quả", p.Start+1, p.End, p.TotalItems)
}

// PageOfText is the compact "Trang x / y" caption.
func (p Page) PageOfText() string {
	return fmt.Sprintf("Trang %d / %d", p.Number, p.TotalPages)
}

// Window is the run of page buttons rendered around the current page.
type Window struct {
	Pages            []int `json:"pages"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`
}

// PageWindow returns at most maxButtons contiguous pages centred on current,
// clamped to [1, totalPages]. Ellipsis flags mark a window that does not reach
// the first or last page.
func PageWindow(current, totalPages, maxButtons int) Window {
	if totalPages <= 0 {
		return Window{Pages: []int{}}
	}
	if maxButtons <= 0 {
		maxButtons = MaxPageButtons
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	start := max(1, current-maxButtons/2)
	end := start + maxButtons - 1
	if end > totalPages {
		end = totalPages
		start = max(1, end-maxButtons+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return Window{
		Pages:            pages,
		LeadingEllipsis:  start > 1,
		TrailingEllipsis: end < totalPages,
	}
}

// Slice returns the items of page p. p must come from Paginate over len(items).
func Slice[T any](items []T, p Page) []T {
	if p.Start >= len(items) || p.Start >= p.End {
		return []T{}
	}
	end := min(p.End, len(items))
	out := make([]T, end-p.Start)
	copy(out, items[p.Start:end])
	return out
}
