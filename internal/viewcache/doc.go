// Package viewcache holds short-lived, per-owner read views such as the dashboard
// summary.
//
// Entries expire after a TTL and the oldest entry is evicted when the cache is full.
// Writers call Invalidate with the owner's ID after every successful mutation so the
// next read rebuilds the view from storage. There is no background sweeper; expired
// entries are dropped when they are next touched or when space is needed.
package viewcache
