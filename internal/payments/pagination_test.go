package payments

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource serves ints 0..total-1 in fixed-size pages and counts fetches.
func pagedSource(total, pageSize int, fetches *int) pageFunc[int] {
	return func(cursor string) (Page[int], error) {
		*fetches++
		start := 0
		if cursor != "" {
			fmt.Sscanf(cursor, "%d", &start)
			start++
		}
		var page Page[int]
		for i := start; i < total && len(page.Items) < pageSize; i++ {
			page.Items = append(page.Items, i)
		}
		if n := len(page.Items); n > 0 {
			last := page.Items[n-1]
			page.NextCursor = fmt.Sprintf("%d", last)
			page.HasMore = last < total-1
		}
		return page, nil
	}
}

func TestSeqCompleteness(t *testing.T) {
	for _, pageSize := range []int{1, 3, 10, 100} {
		fetches := 0
		seq := newSeq(pagedSource(10, pageSize, &fetches))

		items, err := Collect(seq)
		require.NoError(t, err)

		want := make([]int, 10)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, items, "page size %d", pageSize)
	}
}

func TestSeqLazyFetching(t *testing.T) {
	fetches := 0
	seq := newSeq(pagedSource(9, 3, &fetches))

	assert.Equal(t, 0, fetches, "no fetch before the first Next")

	for i := 0; i < 3; i++ {
		require.True(t, seq.Next())
	}
	assert.Equal(t, 1, fetches, "first page covers the first three items")

	require.True(t, seq.Next())
	assert.Equal(t, 2, fetches, "second page fetched on demand")
}

func TestSeqEmpty(t *testing.T) {
	fetches := 0
	seq := newSeq(pagedSource(0, 5, &fetches))

	assert.False(t, seq.Next())
	assert.NoError(t, seq.Err())
	assert.Equal(t, 1, fetches)
}

func TestSeqStopsOnError(t *testing.T) {
	calls := 0
	seq := newSeq(func(cursor string) (Page[int], error) {
		calls++
		if cursor != "" {
			return Page[int]{}, fmt.Errorf("page fetch failed")
		}
		return Page[int]{Items: []int{1, 2}, HasMore: true, NextCursor: "2"}, nil
	})

	var items []int
	for seq.Next() {
		items = append(items, seq.Current())
	}

	assert.Equal(t, []int{1, 2}, items)
	assert.EqualError(t, seq.Err(), "page fetch failed")
	assert.False(t, seq.Next(), "a failed sequence stays stopped")
	assert.Equal(t, 2, calls)
}
