package status

import "sync"

// ViewerTracker keeps the deduplicated, first-seen-ordered viewer set of
// every content unit. Recording is idempotent.
type ViewerTracker struct {
	mu    sync.Mutex
	seen  map[string]map[string]struct{}
	order map[string][]string
}

// NewViewerTracker creates an empty ViewerTracker
func NewViewerTracker() *ViewerTracker {
	return &ViewerTracker{
		seen:  make(map[string]map[string]struct{}),
		order: make(map[string][]string),
	}
}

// RecordView adds viewerID to the unit's viewer set if absent. Repeat calls
// for the same pair leave the set unchanged.
func (t *ViewerTracker) RecordView(contentID, viewerID string) {
	if contentID == "" || viewerID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.seen[contentID]
	if !ok {
		set = make(map[string]struct{})
		t.seen[contentID] = set
	}
	if _, dup := set[viewerID]; dup {
		return
	}
	set[viewerID] = struct{}{}
	t.order[contentID] = append(t.order[contentID], viewerID)
}

// ViewersOf returns the unit's viewers in first-seen order. The slice is a
// copy; callers may keep it.
func (t *ViewerTracker) ViewersOf(contentID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	viewers := t.order[contentID]
	out := make([]string, len(viewers))
	copy(out, viewers)
	return out
}

// Forget drops all bookkeeping for a deleted or expired unit
func (t *ViewerTracker) Forget(contentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, contentID)
	delete(t.order, contentID)
}
