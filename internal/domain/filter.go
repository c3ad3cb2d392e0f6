package domain

import "time"

// Pagination limits for list endpoints
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ArticleListQuery is the raw list request as received from the caller.
// Values stay as strings so malformed input can degrade to "filter not applied".
// Page and PageSize are parsed leniently by the handler, not by query binding.
type ArticleListQuery struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Author   string `form:"author"`
	Building string `form:"building"`
	Featured string `form:"featured"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Sort     string `form:"sort"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

// ArticleFilter is the resolved predicate set handed to the repository
type ArticleFilter struct {
	Status        *ArticleStatus // nil means any status
	Search        string
	Tag           string
	AuthorID      string
	BuildingID    *uint64
	Featured      *bool
	CreatedFrom   *time.Time // inclusive
	CreatedTo     *time.Time // inclusive
	CreatedBefore *time.Time // exclusive
	FeaturedFirst bool
	Offset        int
	Limit         int
}

// ArticlePage is one page of a list result
type ArticlePage struct {
	Items    []ArticleResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Next     *int              `json:"next"`
	Previous *int              `json:"previous"`
}

// PageLinks returns the next and previous page numbers, nil at either end
func PageLinks(page, pageSize int, total int64) (next, previous *int) {
	if page > 1 {
		p := page - 1
		previous = &p
	}
	if int64(page)*int64(pageSize) < total {
		n := page + 1
		next = &n
	}
	return next, previous
}

// NormalizePage clamps page and page size to the list limits
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
