package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/dotcommander/errshape/pkg/errshape"
)

type lruCache struct {
	mu                 sync.Mutex
	maxEntriesPerScope int
	// scopeLists maps scope -> LRU list of *Entry (front = most recent)
	scopeLists map[string]*list.List
	// elements maps entryKey -> *list.Element for O(1) lookup
	elements map[string]*list.Element
}

// NewLRU returns a Cache backed by a per-scope LRU eviction policy.
// maxEntriesPerScope is the maximum number of entries retained per scope;
// values below 1 are treated as 1.
func NewLRU(maxEntriesPerScope int) Cache {
	if maxEntriesPerScope < 1 {
		maxEntriesPerScope = 1
	}
	return &lruCache{
		maxEntriesPerScope: maxEntriesPerScope,
		scopeLists:         make(map[string]*list.List),
		elements:           make(map[string]*list.Element),
	}
}

func entryKey(scope, key string) string {
	return scope + "\x00" + key
}

func (c *lruCache) Set(scope, key string, value errshape.ParsedError, opts ...Option) {
	o := &setOptions{}
	for _, opt := range opts {
		opt(o)
	}

	now := time.Now()
	var expiresAt *time.Time
	if o.ttl > 0 {
		t := now.Add(o.ttl)
		expiresAt = &t
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ek := entryKey(scope, key)

	if elem, ok := c.elements[ek]; ok {
		e := elem.Value.(*Entry)
		e.Value = value
		e.ExpiresAt = expiresAt
		e.UpdatedAt = now
		c.scopeLists[scope].MoveToFront(elem)
		return
	}

	entry := &Entry{
		Key:       key,
		Scope:     scope,
		Value:     value,
		ExpiresAt: expiresAt,
		UpdatedAt: now,
		CreatedAt: now,
	}

	l, ok := c.scopeLists[scope]
	if !ok {
		l = list.New()
		c.scopeLists[scope] = l
	}

	// Evict from back when at capacity.
	if l.Len() >= c.maxEntriesPerScope {
		if back := l.Back(); back != nil {
			evicted := l.Remove(back).(*Entry)
			delete(c.elements, entryKey(evicted.Scope, evicted.Key))
		}
	}

	c.elements[ek] = l.PushFront(entry)
}

func (c *lruCache) Get(scope, key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ek := entryKey(scope, key)
	elem, ok := c.elements[ek]
	if !ok {
		return Entry{}, false
	}

	e := elem.Value.(*Entry)

	// Lazy TTL eviction.
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		c.removeLocked(scope, ek, elem)
		return Entry{}, false
	}

	e.Hits++
	c.scopeLists[scope].MoveToFront(elem)
	return *e, true
}

func (c *lruCache) Delete(scope, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ek := entryKey(scope, key)
	elem, ok := c.elements[ek]
	if !ok {
		return false
	}
	c.removeLocked(scope, ek, elem)
	return true
}

func (c *lruCache) removeLocked(scope, ek string, elem *list.Element) {
	l := c.scopeLists[scope]
	l.Remove(elem)
	delete(c.elements, ek)
	if l.Len() == 0 {
		delete(c.scopeLists, scope)
	}
}

func (c *lruCache) List(scope string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.scopeLists[scope]
	if !ok {
		return nil
	}

	now := time.Now()
	var result []Entry
	var toRemove []*list.Element

	for elem := l.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*Entry)
		if e.ExpiresAt != nil && now.After(*e.ExpiresAt) {
			toRemove = append(toRemove, elem)
			continue
		}
		result = append(result, *e)
	}

	// Clean up expired entries found during iteration.
	for _, elem := range toRemove {
		e := elem.Value.(*Entry)
		l.Remove(elem)
		delete(c.elements, entryKey(e.Scope, e.Key))
	}
	if l.Len() == 0 {
		delete(c.scopeLists, scope)
	}

	return result
}

func (c *lruCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.scopeLists {
		total += l.Len()
	}
	return total
}
