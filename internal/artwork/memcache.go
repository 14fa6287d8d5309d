package artwork

import "container/list"

// MemCache is a byte-bounded LRU over rendered cover images. It fronts the
// disk cache so redrawing a visible album never touches the filesystem.
type MemCache struct {
	maxBytes int
	curBytes int
	order    *list.List
	entries  map[string]*list.Element
}

type memEntry struct {
	key  string
	data []byte
}

// NewMemCache creates a cache bounded to maxBytes of image data.
func NewMemCache(maxBytes int) *MemCache {
	return &MemCache{
		maxBytes: maxBytes,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the cached image for a key, nil when absent.
func (c *MemCache) Get(key string) []byte {
	el, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*memEntry).data
}

// Put stores an image, evicting least recently used entries to stay within
// the byte bound. An empty slice is a valid value and marks a known failure.
func (c *MemCache) Put(key string, data []byte) {
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memEntry)
		c.curBytes += len(data) - len(entry.data)
		entry.data = data
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&memEntry{key: key, data: data})
		c.entries[key] = el
		c.curBytes += len(data)
	}

	for c.curBytes > c.maxBytes && c.order.Len() > 1 {
		oldest := c.order.Back()
		c.evict(oldest)
	}
}

// Contains reports whether a key is cached, without touching recency.
func (c *MemCache) Contains(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Remove drops a key from the cache.
func (c *MemCache) Remove(key string) {
	if el, ok := c.entries[key]; ok {
		c.evict(el)
	}
}

// Clear drops every entry.
func (c *MemCache) Clear() {
	c.order.Init()
	c.entries = make(map[string]*list.Element)
	c.curBytes = 0
}

// Len returns the number of cached entries.
func (c *MemCache) Len() int {
	return c.order.Len()
}

func (c *MemCache) evict(el *list.Element) {
	entry := el.Value.(*memEntry)
	c.order.Remove(el)
	delete(c.entries, entry.key)
	c.curBytes -= len(entry.data)
}
