package mock

import (
	"net/url"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sitecrawl.URLFrontier.
type URLFrontier struct {
	PushFn func(u *url.URL)
	PopFn  func() (*url.URL, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(u *url.URL) {
	f.PushFn(u)
}

func (f *URLFrontier) Pop() (*url.URL, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}
