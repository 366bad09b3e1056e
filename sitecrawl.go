// Package sitecrawl crawls a single web domain from a seed URL, fetching
// every reachable same-domain page exactly once, and exposes the URLs
// discovered so far while the crawl is still running.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, prometheus/).
package sitecrawl
