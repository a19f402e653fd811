// Package history keeps the most recent cleaned documents in memory,
// newest first, bounded to a small fixed number of entries.
package history

import "time"

// DefaultLimit is the number of entries kept before the oldest is evicted.
const DefaultLimit = 3

// TimestampLayout formats Entry.Timestamp.
const TimestampLayout = "Jan 2, 15:04:05"

// Entry is one cleaned document produced by a successful run.
type Entry struct {
	ID        int64  `json:"id"` // creation time in unix milliseconds
	Cleaned   string `json:"cleaned"`
	Copied    bool   `json:"-"`
	Timestamp string `json:"timestamp"`
}

// History is a bounded newest-first list. It is not safe for concurrent use.
type History struct {
	limit   int
	entries []Entry
}

// New returns an empty history holding at most limit entries. A limit < 1
// falls back to DefaultLimit.
func New(limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Add records cleaned as the newest entry and evicts anything beyond the
// limit. IDs are unique and increasing even when two entries share a
// millisecond.
func (h *History) Add(cleaned string, now time.Time) Entry {
	id := now.UnixMilli()
	if len(h.entries) > 0 && id <= h.entries[0].ID {
		id = h.entries[0].ID + 1
	}
	e := Entry{
		ID:        id,
		Cleaned:   cleaned,
		Timestamp: now.Format(TimestampLayout),
	}
	h.entries = append([]Entry{e}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return e
}

// Entries returns a copy of the entries, newest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Limit() int { return h.limit }

// Get returns the entry with the given ID.
func (h *History) Get(id int64) (Entry, bool) {
	if i := h.index(id); i >= 0 {
		return h.entries[i], true
	}
	return Entry{}, false
}

// MarkCopied sets the transient copied flag. It reports false when the entry
// has already been evicted.
func (h *History) MarkCopied(id int64) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	h.entries[i].Copied = true
	return true
}

// ResetCopied clears the copied flag. Evicted entries are ignored.
func (h *History) ResetCopied(id int64) {
	if i := h.index(id); i >= 0 {
		h.entries[i].Copied = false
	}
}

// Clear drops every entry.
func (h *History) Clear() { h.entries = nil }

func (h *History) index(id int64) int {
	for i := range h.entries {
		if h.entries[i].ID == id {
			return i
		}
	}
	return -1
}
