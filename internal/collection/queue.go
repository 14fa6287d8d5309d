package collection

import (
	"log/slog"
	"time"
)

// UpdateType classifies a batch of pending song events.
type UpdateType int

const (
	// UpdateAdd inserts songs into the tree.
	UpdateAdd UpdateType = iota
	// UpdateRemove deletes songs and prunes emptied containers.
	UpdateRemove
	// UpdateChange reconciles a changed song whose kind of change is
	// unknown: it becomes a remove+add when the song moves containers,
	// a metadata update otherwise.
	UpdateChange
	// UpdateMetadata replaces metadata on existing song nodes in place.
	UpdateMetadata
)

const (
	// UpdateBatchSize bounds how many songs one drain step may touch, so
	// a mass import cannot monopolize the UI loop.
	UpdateBatchSize = 400
	// DrainInterval is the cadence at which pending batches are applied.
	DrainInterval = 20 * time.Millisecond
	// ResetDebounce collapses bursts of reset requests into one rebuild.
	ResetDebounce = 300 * time.Millisecond
)

type pendingUpdate struct {
	typ   UpdateType
	songs []Song
}

// scheduleUpdate splits songs into bounded batches, preserving order.
func (m *Model) scheduleUpdate(typ UpdateType, songs []Song) {
	for i := 0; i < len(songs); i += UpdateBatchSize {
		end := min(i+UpdateBatchSize, len(songs))
		m.updates = append(m.updates, pendingUpdate{typ: typ, songs: songs[i:end:end]})
	}
}

// HasPendingUpdates reports whether any batch is still queued.
func (m *Model) HasPendingUpdates() bool {
	return len(m.updates) > 0
}

// DrainOne applies the oldest pending batch and reports whether more
// remain. Batches are applied strictly in enqueue order.
func (m *Model) DrainOne() bool {
	if len(m.updates) == 0 {
		return false
	}
	u := m.updates[0]
	m.updates = m.updates[1:]

	switch u.typ {
	case UpdateAdd:
		m.addSongs(u.songs)
	case UpdateRemove:
		m.removeSongs(u.songs)
	case UpdateChange:
		m.reAddOrUpdate(u.songs)
	case UpdateMetadata:
		m.updateSongs(u.songs)
	}
	return len(m.updates) > 0
}

// ScheduleReset requests a full rebuild. Requests arriving while one is
// already scheduled are absorbed into it.
func (m *Model) ScheduleReset(now time.Time) {
	if !m.resetPending {
		m.resetPending = true
		m.resetDue = now.Add(ResetDebounce)
	}
}

// ResetPending reports whether a rebuild is scheduled but not yet started.
func (m *Model) ResetPending() bool {
	return m.resetPending
}

// ReloadRequest instructs the caller to run the bulk song fetch off the
// mutation thread and hand the result back via ApplyReload.
type ReloadRequest struct {
	Generation uint64
	Filter     FilterOptions
}

// TickReset fires the debounced reset once its quiet interval has passed.
// When it fires, the tree is cleared down to a loading indicator and a
// non-nil ReloadRequest is returned for the caller to execute.
func (m *Model) TickReset(now time.Time) *ReloadRequest {
	if !m.resetPending || now.Before(m.resetDue) {
		return nil
	}
	m.resetPending = false
	m.generation++
	m.beginReset()
	return &ReloadRequest{Generation: m.generation, Filter: m.opts.Filter}
}

// ApplyReload feeds a completed bulk fetch back into the model. The songs
// replay through the same incremental add path as live updates. Results
// from a superseded generation are discarded.
func (m *Model) ApplyReload(gen uint64, songs []Song) {
	if gen != m.generation {
		slog.Debug("discarding stale reload result", "generation", gen, "current", m.generation)
		return
	}
	m.clear()
	m.scheduleUpdate(UpdateAdd, songs)
}

// Generation identifies the current tree incarnation. It increments on
// every reset so stale async results can be recognized.
func (m *Model) Generation() uint64 {
	return m.generation
}
