package catalog

import (
	"net/url"
	"strconv"
)

// DefaultPageSize matches the storefront's catalog grid
const DefaultPageSize = 4

// AttributeColumns lists the product columns that may be filtered by
// exact match through query parameters. Anything else is dropped.
var AttributeColumns = map[string]string{
	"category": "category_id",
	"stock":    "stock",
	"ratings":  "ratings",
}

// Criteria is an immutable set of constraints for a catalog listing.
// Each With* step returns a new value, so a criteria can never leak
// state between requests.
type Criteria struct {
	Keyword  string
	MinPrice *float64
	MaxPrice *float64
	Equals   map[string]string
	Page     int
	PageSize int
}

// New returns an unconstrained criteria with the default page size.
func New() Criteria {
	return Criteria{Page: 1, PageSize: DefaultPageSize}
}

// FromParams composes search, filter and pagination constraints from
// request query parameters, in that order.
func FromParams(params url.Values, pageSize int) Criteria {
	c := New()
	if pageSize > 0 {
		c.PageSize = pageSize
	}
	return c.WithSearch(params).WithFilters(params).WithPage(params)
}

// WithSearch constrains the listing to products whose name contains the
// keyword, case-insensitively. An absent keyword matches everything.
func (c Criteria) WithSearch(params url.Values) Criteria {
	c.Equals = cloneEquals(c.Equals)
	c.Keyword = params.Get("keyword")
	return c
}

// WithFilters extracts price[gte]/price[lte] into a numeric range on
// price and applies the remaining non-reserved parameters as equality
// constraints on the whitelisted attribute columns. Malformed numeric
// bounds are ignored.
func (c Criteria) WithFilters(params url.Values) Criteria {
	c.Equals = cloneEquals(c.Equals)

	if v := params.Get("price[gte]"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinPrice = &f
		}
	}
	if v := params.Get("price[lte]"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxPrice = &f
		}
	}

	for key := range params {
		switch key {
		case "keyword", "page", "price[gte]", "price[lte]":
			continue
		}
		if _, ok := AttributeColumns[key]; !ok {
			continue
		}
		if v := params.Get(key); v != "" {
			if c.Equals == nil {
				c.Equals = make(map[string]string)
			}
			c.Equals[key] = v
		}
	}

	return c
}

// WithPage applies the 1-based page parameter. Missing or malformed
// values fall back to page 1.
func (c Criteria) WithPage(params url.Values) Criteria {
	c.Equals = cloneEquals(c.Equals)
	c.Page = 1
	if v := params.Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Page = p
		}
	}
	return c
}

// Offset returns the number of matches to skip for the current page.
func (c Criteria) Offset() int {
	return c.PageSize * (c.Page - 1)
}

// Limit returns the maximum number of matches for the current page.
func (c Criteria) Limit() int {
	return c.PageSize
}

func cloneEquals(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
