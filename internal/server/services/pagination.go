package services

import (
	"math"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps page*limit within int for any allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

// NormalizePage replaces non-positive values with the defaults, caps limit
// at MaxLimit and page at MaxPage.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate computes the offset, page count and neighbour pages for a
// listing of total items. page and limit must already be normalized.
// pages is never below 1, so an empty listing still reports one page.
func Paginate(total, page, limit int) (offset, pages int, p models.Pagination) {
	offset = (page - 1) * limit

	pages = (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	if offset+limit < total {
		p.Next = &models.PageRef{Page: page + 1, Limit: limit}
	}
	if offset > 0 {
		p.Prev = &models.PageRef{Page: page - 1, Limit: limit}
	}
	return offset, pages, p
}
