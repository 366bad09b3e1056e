package crawl

import (
	"container/heap"
	"net/url"

	"github.com/fwojciec/sitecrawl"
)

// Compile-time interface verification.
var (
	_ sitecrawl.URLFrontier = (*Frontier)(nil)
	_ sitecrawl.URLFrontier = (*Queue)(nil)
)

// Frontier is a URL frontier that pops URLs in descending order of their
// string form. Traversal order is deterministic but not breadth-first.
// It is not safe for concurrent use; each crawl owns its frontier.
type Frontier struct {
	queue *urlHeap
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	h := &urlHeap{}
	heap.Init(h)
	return &Frontier{queue: h}
}

// Push adds a URL to the frontier. Duplicates are kept.
func (f *Frontier) Push(u *url.URL) {
	heap.Push(f.queue, queuedURL{url: u, key: u.String()})
}

// Pop returns the URL with the greatest string form.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (*url.URL, bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	item, _ := heap.Pop(f.queue).(queuedURL)
	return item.url, true
}

// Len returns the number of URLs in the frontier.
func (f *Frontier) Len() int {
	return f.queue.Len()
}

// queuedURL caches the string form used for ordering.
type queuedURL struct {
	url *url.URL
	key string
}

// urlHeap implements heap.Interface as a max-heap on URL strings.
type urlHeap []queuedURL

func (h urlHeap) Len() int { return len(h) }

// Less returns true if i sorts after j (max-heap).
func (h urlHeap) Less(i, j int) bool {
	return h[i].key > h[j].key
}

func (h urlHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *urlHeap) Push(x any) {
	item, _ := x.(queuedURL)
	*h = append(*h, item)
}

func (h *urlHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = queuedURL{}
	*h = old[0 : n-1]
	return x
}

// Queue is a first-in first-out URL frontier giving breadth-first traversal.
// It is not safe for concurrent use.
type Queue struct {
	items []*url.URL
	head  int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a URL to the back of the queue.
func (q *Queue) Push(u *url.URL) {
	q.items = append(q.items, u)
}

// Pop removes the URL at the front of the queue.
// The bool result is false if the queue is empty.
func (q *Queue) Pop() (*url.URL, bool) {
	if q.head == len(q.items) {
		return nil, false
	}
	u := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append([]*url.URL(nil), q.items[q.head:]...)
		q.head = 0
	}
	return u, true
}

// Len returns the number of URLs in the queue.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}
