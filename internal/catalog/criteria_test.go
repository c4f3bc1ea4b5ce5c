package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	c := New()

	assert.Equal(t, 1, c.Page)
	assert.Equal(t, DefaultPageSize, c.PageSize)
	assert.Empty(t, c.Keyword)
	assert.Nil(t, c.MinPrice)
	assert.Nil(t, c.MaxPrice)
	assert.Empty(t, c.Equals)
}

func TestFromParams_Empty(t *testing.T) {
	c := FromParams(url.Values{}, 4)

	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 4, c.PageSize)
	assert.Equal(t, 0, c.Offset())
	assert.Equal(t, 4, c.Limit())
}

func TestFromParams_Keyword(t *testing.T) {
	params := url.Values{}
	params.Set("keyword", "apple")

	c := FromParams(params, 4)

	assert.Equal(t, "apple", c.Keyword)
}

func TestFromParams_PriceRange(t *testing.T) {
	params := url.Values{}
	params.Set("price[gte]", "1")
	params.Set("price[lte]", "200.50")

	c := FromParams(params, 4)

	if assert.NotNil(t, c.MinPrice) {
		assert.Equal(t, 1.0, *c.MinPrice)
	}
	if assert.NotNil(t, c.MaxPrice) {
		assert.Equal(t, 200.50, *c.MaxPrice)
	}
}

func TestFromParams_MalformedPriceBoundsIgnored(t *testing.T) {
	params := url.Values{}
	params.Set("price[gte]", "cheap")
	params.Set("price[lte]", "100")

	c := FromParams(params, 4)

	assert.Nil(t, c.MinPrice)
	if assert.NotNil(t, c.MaxPrice) {
		assert.Equal(t, 100.0, *c.MaxPrice)
	}
}

func TestFromParams_AttributeWhitelist(t *testing.T) {
	params := url.Values{}
	params.Set("category", "c2a8f7ee-9f3c-4f8e-9e0f-0f3c4f8e9e0f")
	params.Set("ratings", "4")
	params.Set("drop_table", "products")

	c := FromParams(params, 4)

	assert.Equal(t, "c2a8f7ee-9f3c-4f8e-9e0f-0f3c4f8e9e0f", c.Equals["category"])
	assert.Equal(t, "4", c.Equals["ratings"])
	assert.NotContains(t, c.Equals, "drop_table")
}

func TestFromParams_ReservedKeysNeverBecomeFilters(t *testing.T) {
	params := url.Values{}
	params.Set("keyword", "apple")
	params.Set("page", "2")

	c := FromParams(params, 4)

	assert.NotContains(t, c.Equals, "keyword")
	assert.NotContains(t, c.Equals, "page")
}

func TestWithPage_PageMath(t *testing.T) {
	params := url.Values{}
	params.Set("page", "3")

	c := FromParams(params, 4)

	assert.Equal(t, 3, c.Page)
	assert.Equal(t, 8, c.Offset())
	assert.Equal(t, 4, c.Limit())
}

func TestWithPage_MalformedFallsBackToFirst(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-2", ""} {
		params := url.Values{}
		if raw != "" {
			params.Set("page", raw)
		}

		c := FromParams(params, 4)

		assert.Equal(t, 1, c.Page, "page=%q", raw)
	}
}

func TestFromParams_CustomPageSize(t *testing.T) {
	params := url.Values{}
	params.Set("page", "2")

	c := FromParams(params, 10)

	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 10, c.Offset())
}

func TestCriteria_StepsDoNotMutateReceiver(t *testing.T) {
	params := url.Values{}
	params.Set("keyword", "apple")
	params.Set("category", "c2a8f7ee-9f3c-4f8e-9e0f-0f3c4f8e9e0f")

	base := New()
	withSearch := base.WithSearch(params)
	withFilters := withSearch.WithFilters(params)

	assert.Empty(t, base.Keyword)
	assert.Empty(t, base.Equals)
	assert.Equal(t, "apple", withSearch.Keyword)
	assert.Empty(t, withSearch.Equals)
	assert.Equal(t, "apple", withFilters.Keyword)
	assert.Len(t, withFilters.Equals, 1)
}
