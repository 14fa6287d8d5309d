package artwork

import (
	"context"
	"log/slog"
	"sync"
)

// Result is delivered on the results channel when an async load finishes.
// Tokens echoes every requester that was coalesced into the load.
type Result struct {
	Key    string
	Tokens []int32
	Data   []byte
	// Placeholder marks a failed search; Data holds the no-cover tile.
	Placeholder bool
}

// Options configures a Coordinator.
type Options struct {
	// Size is the bounding box of rendered covers, in pixels.
	Size int
	// MemBytes bounds the in-memory cache.
	MemBytes int
	// Workers is the number of concurrent loads.
	Workers int
}

// DefaultOptions returns sensible coordinator settings.
func DefaultOptions() Options {
	return Options{Size: 160, MemBytes: 32 << 20, Workers: 2}
}

type pendingLoad struct {
	locations []string
	tokens    []int32
}

// Coordinator answers cover lookups from a two-tier cache and loads misses
// in the background. Lookups for the same key while a load is in flight are
// coalesced into it; every requester's token comes back on the one Result.
type Coordinator struct {
	opts        Options
	disk        *DiskCache
	placeholder []byte

	// loadCover is swapped out in tests.
	loadCover func(locations []string, size int) ([]byte, error)

	mu      sync.Mutex
	mem     *MemCache
	pending map[string]*pendingLoad

	queue   chan string
	results chan Result

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoordinator creates a coordinator over a shared disk cache handle. The
// coordinator owns the handle and releases it on Close.
func NewCoordinator(disk *DiskCache, opts Options) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		opts:        opts,
		disk:        disk,
		placeholder: Placeholder(opts.Size),
		loadCover:   LoadCover,
		mem:         NewMemCache(opts.MemBytes),
		pending:     make(map[string]*pendingLoad),
		queue:       make(chan string, 256),
		results:     make(chan Result, 64),
		cancel:      cancel,
	}
	for i := 0; i < max(1, opts.Workers); i++ {
		c.wg.Add(1)
		go c.worker(ctx)
	}
	return c
}

// Results delivers finished loads. The channel is closed by Close.
func (c *Coordinator) Results() <-chan Result {
	return c.results
}

// Image answers a cover lookup. A memory or disk hit returns the image
// immediately. On a full miss the load is scheduled (or joined, if already
// in flight) and nil is returned; the caller shows a placeholder until the
// Result arrives.
func (c *Coordinator) Image(key string, locations []string, token int32) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data := c.mem.Get(key); data != nil {
		// An empty slice means the search already failed once.
		if len(data) == 0 {
			return c.placeholder
		}
		return data
	}

	if p, ok := c.pending[key]; ok {
		p.tokens = append(p.tokens, token)
		return nil
	}

	// Disk hits are read synchronously so a cached cover never flashes
	// the placeholder.
	if data := c.disk.Get(key); data != nil {
		c.mem.Put(key, data)
		return data
	}

	c.pending[key] = &pendingLoad{locations: locations, tokens: []int32{token}}

	select {
	case c.queue <- key:
	default:
		// Queue full; drop the request rather than block the UI loop.
		delete(c.pending, key)
		slog.Warn("artwork queue full, dropping request", "key", key)
	}
	return nil
}

// Forget drops a key from every tier and abandons any in-flight load for
// it. Called when the album leaves the tree or its songs were retagged.
func (c *Coordinator) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem.Remove(key)
	delete(c.pending, key)
	c.disk.Remove(key)
}

// ClearMemory drops the in-memory tier, keeping disk entries.
func (c *Coordinator) ClearMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem.Clear()
}

// Placeholder returns the shared no-cover tile.
func (c *Coordinator) Placeholder() []byte {
	return c.placeholder
}

// Close stops the workers, closes the results channel and releases the
// disk cache handle.
func (c *Coordinator) Close() {
	c.cancel()
	close(c.queue)
	c.wg.Wait()
	close(c.results)
	c.disk.Release()
}

func (c *Coordinator) worker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-c.queue:
			if !ok {
				return
			}
			c.load(ctx, key)
		}
	}
}

func (c *Coordinator) load(ctx context.Context, key string) {
	c.mu.Lock()
	p, ok := c.pending[key]
	c.mu.Unlock()
	if !ok {
		// Forgotten while queued.
		return
	}

	data := c.disk.Get(key)
	fromDisk := data != nil
	if !fromDisk {
		var err error
		data, err = c.loadCover(p.locations, c.opts.Size)
		if err != nil {
			slog.Debug("no cover art", "key", key, "err", err)
			data = nil
		}
	}

	c.mu.Lock()
	p, ok = c.pending[key]
	if !ok {
		// Forgotten while loading; discard the result.
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)

	result := Result{Key: key, Tokens: p.tokens}
	if data == nil {
		// Cache the failure so the search never repeats; an empty
		// slice in the memory tier marks it.
		c.mem.Put(key, []byte{})
		result.Data = c.placeholder
		result.Placeholder = true
	} else {
		c.mem.Put(key, data)
		result.Data = data
	}
	c.mu.Unlock()

	if data != nil && !fromDisk {
		if err := c.disk.Put(key, data); err != nil {
			slog.Warn("writing cover to disk cache", "key", key, "err", err)
		}
	}

	select {
	case c.results <- result:
	case <-ctx.Done():
	}
}
