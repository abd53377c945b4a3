package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/siteadmin/pkg/cache"
)

// CachedProvider memoizes successful fetches of another Provider for a
// limited time. Concurrent fetches of the same page share one upstream call.
//
// Every caller returns when its own context is done, even if the shared call
// is still running. A fetch that overlaps a Save or Invalidate of the same
// page is not cached.
type CachedProvider struct {
	next  Provider
	pages *cache.LRUCache[string, Tree]
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
	all uint64 // bumped by Invalidate("")
}

// NewCachedProvider wraps next with an LRU cache of size entries that live
// for ttl. A zero ttl caches until eviction.
func NewCachedProvider(next Provider, size int, ttl time.Duration) *CachedProvider {
	if size <= 0 {
		size = 256
	}
	return &CachedProvider{
		next:  next,
		pages: cache.NewLRUCache(size, cache.WithTTL[string, Tree](ttl)),
		gen:   make(map[string]uint64),
	}
}

func (p *CachedProvider) Fetch(ctx context.Context, pageID string) (Tree, error) {
	if t, ok := p.pages.Get(pageID); ok {
		return t, nil
	}

	ch := p.group.DoChan(pageID, func() (any, error) {
		gen := p.generation(pageID)

		// the shared call outlives a cancelled caller but keeps its deadline
		fctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, deadline)
			defer cancel()
		}

		t, err := p.next.Fetch(fctx, pageID)
		if err != nil {
			return nil, err
		}
		p.store(pageID, gen, t)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Tree), nil
	}
}

// Save writes through to the wrapped provider and drops the cached page.
func (p *CachedProvider) Save(ctx context.Context, pageID string, data Tree) error {
	w, ok := p.next.(Writer)
	if !ok {
		return ErrReadOnly
	}
	if err := w.Save(ctx, pageID, data); err != nil {
		return err
	}
	p.Invalidate(pageID)
	return nil
}

// Invalidate drops one page, or every page when pageID is empty. Fetches
// already in flight for the dropped pages are not cached.
func (p *CachedProvider) Invalidate(pageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pageID == "" {
		p.all++
		p.pages.Clear()
		return
	}
	p.gen[pageID]++
	p.pages.Remove(pageID)
	p.group.Forget(pageID)
}

func (p *CachedProvider) generation(pageID string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen[pageID] + p.all
}

// store caches t unless pageID was invalidated since gen was taken.
func (p *CachedProvider) store(pageID string, gen uint64, t Tree) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen[pageID]+p.all != gen {
		return
	}
	p.pages.Put(pageID, t)
}

// IsWritable reports whether Save can succeed.
func IsWritable(p Provider) bool {
	if c, ok := p.(*CachedProvider); ok {
		return IsWritable(c.next)
	}
	_, ok := p.(Writer)
	return ok
}

// IsNotFound reports whether err means the page has no remote content.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}
