package crawl_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFrontier_Pop_returns_greatest_URL_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	f.Push(mustParse(t, "https://example.com/b"))
	f.Push(mustParse(t, "https://example.com/d"))
	f.Push(mustParse(t, "https://example.com/a"))
	f.Push(mustParse(t, "https://example.com/c"))

	var got []string
	for {
		u, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, u.String())
	}

	assert.Equal(t, []string{
		"https://example.com/d",
		"https://example.com/c",
		"https://example.com/b",
		"https://example.com/a",
	}, got)
}

func TestFrontier_Push_keeps_duplicates(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	f.Push(mustParse(t, "https://example.com/a"))
	f.Push(mustParse(t, "https://example.com/a"))

	assert.Equal(t, 2, f.Len())
}

func TestFrontier_Pop_on_empty_frontier(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	u, ok := f.Pop()

	assert.False(t, ok)
	assert.Nil(t, u)
	assert.Equal(t, 0, f.Len())
}

func TestQueue_Pop_returns_in_insertion_order(t *testing.T) {
	t.Parallel()

	q := crawl.NewQueue()

	q.Push(mustParse(t, "https://example.com/b"))
	q.Push(mustParse(t, "https://example.com/d"))
	q.Push(mustParse(t, "https://example.com/a"))

	u, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b", u.String())

	u, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/d", u.String())

	u, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", u.String())

	_, ok = q.Pop()
	assert.False(t, ok, "pop on empty queue should return false")
}

func TestQueue_Len_survives_compaction(t *testing.T) {
	t.Parallel()

	q := crawl.NewQueue()

	for i := 0; i < 500; i++ {
		q.Push(mustParse(t, fmt.Sprintf("https://example.com/%d", i)))
	}
	for i := 0; i < 300; i++ {
		u, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("https://example.com/%d", i), u.String())
	}

	assert.Equal(t, 200, q.Len())

	q.Push(mustParse(t, "https://example.com/last"))
	assert.Equal(t, 201, q.Len())

	for i := 300; i < 500; i++ {
		u, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), u.String())
	}
	u, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/last", u.String())
}
