package pagination

// PageSize is the fixed number of items requested per page.
const PageSize = 10

// FirstPage is the lowest valid page number.
const FirstPage = 1

// HasNextPage reports whether a page that returned count items implies a
// following page.
func HasNextPage(count int) bool {
	return count == PageSize
}

// Prev returns the page before page, floored at FirstPage.
func Prev(page int) int {
	if page-1 < FirstPage {
		return FirstPage
	}
	return page - 1
}

// Next returns the page after page.
func Next(page int) int {
	if page < FirstPage {
		return FirstPage
	}
	return page + 1
}

// HasPrevPage reports whether page has a predecessor.
func HasPrevPage(page int) bool {
	return page > FirstPage
}

// Valid reports whether page is an addressable page number.
func Valid(page int) bool {
	return page >= FirstPage
}
