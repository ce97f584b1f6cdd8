package dto

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	testCases := []struct {
		name    string
		page    int
		size    int
		total   int64
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{"empty result set", 1, 20, 0, 0, false, false},
		{"single partial page", 1, 20, 7, 1, false, false},
		{"exact page boundary", 1, 20, 40, 2, true, false},
		{"middle page", 2, 20, 45, 3, true, true},
		{"last page", 3, 20, 45, 3, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewPaginationMeta(tc.page, tc.size, tc.total)
			assert.Equal(t, tc.pages, meta.Pages)
			assert.Equal(t, tc.hasNext, meta.HasNext)
			assert.Equal(t, tc.hasPrev, meta.HasPrev)
		})
	}
}

func TestProperty_PaginationMetaInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("pages covers total exactly", prop.ForAll(
		func(page, size int, total int64) bool {
			meta := NewPaginationMeta(page, size, total)

			// ceil division: pages*size >= total > (pages-1)*size
			if int64(meta.Pages)*int64(size) < total {
				return false
			}
			if meta.Pages > 0 && int64(meta.Pages-1)*int64(size) >= total {
				return false
			}
			return true
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 100),
		gen.Int64Range(0, 100000),
	))

	properties.Property("hasNext and hasPrev are consistent with page position", prop.ForAll(
		func(page, size int, total int64) bool {
			meta := NewPaginationMeta(page, size, total)
			return meta.HasNext == (page < meta.Pages) && meta.HasPrev == (page > 1)
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 100),
		gen.Int64Range(0, 100000),
	))

	properties.TestingRun(t)
}

func TestNewPage_NilItems(t *testing.T) {
	page := NewPage[string](nil, NewPaginationMeta(1, 20, 0))
	assert.NotNil(t, page.Items, "nil items should serialize as an empty array")
	assert.Empty(t, page.Items)
}
