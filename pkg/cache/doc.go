// Package cache provides LRUCache, a generic in-process cache with a fixed
// capacity and an optional per-entry time to live.
//
//	pages := cache.NewLRUCache[string, content.Tree](256,
//	    cache.WithTTL[string, content.Tree](time.Minute),
//	)
//	pages.Put("home", tree)
//	tree, ok := pages.Get("home")
//
// Expiry is lazy: there is no background sweeper.
package cache
