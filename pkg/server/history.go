package server

import "github.com/NicolasHaas/linechat/pkg/model"

// HistoryBook holds per-user message history rings. Rings are keyed by
// display name rather than by live session, so logging out and back in
// under the same name continues the same ring. Entry IDs come from a
// process-wide strictly increasing sequence and are never reused.
//
// Owned by the server event loop; not safe for concurrent use.
type HistoryBook struct {
	capacity int
	seq      uint64
	rings    map[string][]model.HistoryEntry
}

// NewHistoryBook creates a history book with the given ring capacity.
func NewHistoryBook(capacity int) *HistoryBook {
	return &HistoryBook{
		capacity: capacity,
		rings:    make(map[string][]model.HistoryEntry),
	}
}

// Append records a message for a user, assigning the next sequence ID
// and evicting the oldest entry once the ring is full.
func (h *HistoryBook) Append(name, text string) model.HistoryEntry {
	h.seq++
	entry := model.HistoryEntry{ID: h.seq, Text: text}

	ring := append(h.rings[name], entry)
	if len(ring) > h.capacity {
		ring = ring[1:]
	}
	h.rings[name] = ring
	return entry
}

// Edit rewrites the text of an entry in place. The entry keeps its ID
// and position in the ring. Returns false if the ID is not present in
// the user's ring (including entries already evicted).
func (h *HistoryBook) Edit(name string, id uint64, text string) bool {
	ring := h.rings[name]
	for i := range ring {
		if ring[i].ID == id {
			ring[i].Text = text
			return true
		}
	}
	return false
}

// Entries returns a copy of a user's ring, oldest first.
func (h *HistoryBook) Entries(name string) []model.HistoryEntry {
	ring := h.rings[name]
	out := make([]model.HistoryEntry, len(ring))
	copy(out, ring)
	return out
}
