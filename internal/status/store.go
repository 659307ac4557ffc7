package status

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/status-engine/internal/models"
	"github.com/google/uuid"
)

// StoryStore owns every Story and ContentUnit lifetime. Content units are
// indexed by id inside each story and stories by owner id, so mutations never
// scan. All mutations run under one mutex; no partial append is observable.
type StoryStore struct {
	mu      sync.Mutex
	stories map[string]*storyRecord
	ownerOf map[string]string // content id -> owner id
	tracker *ViewerTracker
	privacy *PrivacyManager
	ttl     time.Duration
}

type storyRecord struct {
	ownerID string
	order   []string // content ids, insertion order = chronological
	items   map[string]*models.ContentUnit
	mutedBy map[string]bool // viewer-local listing suppression
	replies []models.Reply
}

// NewStoryStore creates an empty store wired to the given collaborators.
// The content TTL is the fixed 24 hour default.
func NewStoryStore(privacy *PrivacyManager, tracker *ViewerTracker) *StoryStore {
	return &StoryStore{
		stories: make(map[string]*storyRecord),
		ownerOf: make(map[string]string),
		tracker: tracker,
		privacy: privacy,
		ttl:     DefaultTTL,
	}
}

// Tracker exposes the viewer bookkeeping this store records into
func (s *StoryStore) Tracker() *ViewerTracker { return s.tracker }

// Privacy exposes the audience resolver this store filters with
func (s *StoryStore) Privacy() *PrivacyManager { return s.privacy }

// TTL returns the content time-to-live the store filters by
func (s *StoryStore) TTL() time.Duration { return s.ttl }

// AppendContent creates the owner's story if absent and appends one new
// content unit stamped with now. Empty payloads and zero timestamps are
// rejected before any state changes.
func (s *StoryStore) AppendContent(ownerID string, payload models.ContentPayload, now time.Time) (models.ContentUnit, error) {
	if ownerID == "" {
		return models.ContentUnit{}, fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	if now.IsZero() {
		return models.ContentUnit{}, fmt.Errorf("%w: content requires a valid timestamp", ErrValidation)
	}
	if err := validatePayload(payload); err != nil {
		return models.ContentUnit{}, err
	}

	unit := models.ContentUnit{
		ID:        uuid.NewString(),
		Payload:   payload,
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.stories[ownerID]
	if !ok {
		record = newStoryRecord(ownerID)
		s.stories[ownerID] = record
	}
	record.items[unit.ID] = &unit
	record.order = append(record.order, unit.ID)
	s.ownerOf[unit.ID] = ownerID
	return unit, nil
}

// DeleteContent removes one unit. Only the story's owner may delete; when the
// last unit goes, the story itself is removed along with its replies.
func (s *StoryStore) DeleteContent(contentID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ownerID, ok := s.ownerOf[contentID]
	if !ok {
		return fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	if requesterID != ownerID {
		return fmt.Errorf("%w: only the owner may delete content", ErrUnauthorized)
	}
	s.removeUnitLocked(s.stories[ownerID], contentID)
	return nil
}

// ListVisible returns every story the viewer may see right now: expired units
// filtered out, audience policy applied, muted stories suppressed, and
// stories left with no units dropped. The viewer's own story, when non-empty,
// always comes first; the rest are ordered newest first.
func (s *StoryStore) ListVisible(viewerID string, now time.Time) []models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()

	var own *models.Story
	others := make([]models.Story, 0, len(s.stories))
	for ownerID, record := range s.stories {
		if ownerID != viewerID {
			if record.mutedBy[viewerID] || !s.privacy.Allows(ownerID, viewerID) {
				continue
			}
		}
		story, ok := s.snapshotLocked(record, viewerID, now)
		if !ok {
			continue
		}
		if ownerID == viewerID {
			own = &story
			continue
		}
		others = append(others, story)
	}

	sort.SliceStable(others, func(i, j int) bool {
		return newestItem(others[i]).After(newestItem(others[j]))
	})

	if own == nil {
		return others
	}
	return append([]models.Story{*own}, others...)
}

// GetStory fetches one owner's story on demand. Muting does not apply here;
// expiry and audience policy still do. A story the viewer may not see is
// reported as absent rather than forbidden.
func (s *StoryStore) GetStory(ownerID, viewerID string, now time.Time) (models.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.stories[ownerID]
	if !ok {
		return models.Story{}, fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	if viewerID != ownerID && !s.privacy.Allows(ownerID, viewerID) {
		return models.Story{}, fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	story, live := s.snapshotLocked(record, viewerID, now)
	if !live {
		return models.Story{}, fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	return story, nil
}

// SetMuted flips the viewer-local suppression flag on an owner's story. It
// affects default listings only, never expiration or on-demand fetches.
func (s *StoryStore) SetMuted(ownerID, viewerID string, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.stories[ownerID]
	if !ok {
		return fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	if muted {
		record.mutedBy[viewerID] = true
	} else {
		delete(record.mutedBy, viewerID)
	}
	return nil
}

// RecordView marks a unit viewed by viewerID, delegating deduplication to the
// ViewerTracker. Unknown content ids are rejected.
func (s *StoryStore) RecordView(contentID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownerOf[contentID]; !ok {
		return fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	s.tracker.RecordView(contentID, viewerID)
	return nil
}

// OwnerOf resolves which owner a content unit belongs to
func (s *StoryStore) OwnerOf(contentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ownerID, ok := s.ownerOf[contentID]
	if !ok {
		return "", fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	return ownerID, nil
}

// PruneExpired drops every unit past its TTL and every story left empty,
// returning how many units went. A zero now prunes nothing: when the clock is
// unavailable the sweep over-keeps rather than over-hides.
func (s *StoryStore) PruneExpired(now time.Time) int {
	if now.IsZero() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for _, record := range s.stories {
		for _, contentID := range append([]string(nil), record.order...) {
			unit := record.items[contentID]
			if IsExpired(unit.CreatedAt, now, s.ttl) {
				s.removeUnitLocked(record, contentID)
				pruned++
			}
		}
	}
	return pruned
}

// Hydrate seeds the store from persisted stories, dropping units already
// expired at load time. Viewer sets and audience policies ride along.
func (s *StoryStore) Hydrate(stories []models.Story, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, story := range stories {
		if story.OwnerID == "" {
			continue
		}
		record := newStoryRecord(story.OwnerID)
		for _, item := range story.Items {
			if item.ID == "" || item.CreatedAt.IsZero() {
				continue
			}
			if !now.IsZero() && IsExpired(item.CreatedAt, now, s.ttl) {
				continue
			}
			unit := item
			unit.Viewers = nil
			record.items[unit.ID] = &unit
			record.order = append(record.order, unit.ID)
			s.ownerOf[unit.ID] = story.OwnerID
			for _, viewerID := range item.Viewers {
				s.tracker.RecordView(item.ID, viewerID)
			}
		}
		if len(record.order) == 0 {
			continue
		}
		for _, reply := range story.Replies {
			if _, ok := record.items[reply.ContentID]; ok {
				record.replies = append(record.replies, reply)
			}
		}
		s.stories[story.OwnerID] = record
		if story.Audience.Mode != "" {
			s.privacy.SetPolicy(story.OwnerID, story.Audience)
		}
	}
}

func newStoryRecord(ownerID string) *storyRecord {
	return &storyRecord{
		ownerID: ownerID,
		items:   make(map[string]*models.ContentUnit),
		mutedBy: make(map[string]bool),
	}
}

// removeUnitLocked unlinks one unit and, when the story empties, the story
// itself. Replies targeting the removed unit go with it.
func (s *StoryStore) removeUnitLocked(record *storyRecord, contentID string) {
	delete(record.items, contentID)
	delete(s.ownerOf, contentID)
	for i, id := range record.order {
		if id == contentID {
			record.order = append(record.order[:i], record.order[i+1:]...)
			break
		}
	}
	kept := record.replies[:0]
	for _, reply := range record.replies {
		if reply.ContentID != contentID {
			kept = append(kept, reply)
		}
	}
	record.replies = kept
	s.tracker.Forget(contentID)
	if len(record.order) == 0 {
		delete(s.stories, record.ownerID)
	}
}

// snapshotLocked copies the record with expired units filtered out. Viewer
// sets and replies are included only on the owner's own snapshot.
func (s *StoryStore) snapshotLocked(record *storyRecord, viewerID string, now time.Time) (models.Story, bool) {
	items := make([]models.ContentUnit, 0, len(record.order))
	for _, contentID := range record.order {
		unit := record.items[contentID]
		if IsExpired(unit.CreatedAt, now, s.ttl) {
			continue
		}
		copied := *unit
		if viewerID == record.ownerID {
			copied.Viewers = s.tracker.ViewersOf(contentID)
		}
		items = append(items, copied)
	}
	if len(items) == 0 {
		return models.Story{}, false
	}
	story := models.Story{
		OwnerID:  record.ownerID,
		Items:    items,
		Audience: s.privacy.PolicyFor(record.ownerID),
		Muted:    record.mutedBy[viewerID],
	}
	if viewerID == record.ownerID {
		story.Replies = append([]models.Reply(nil), record.replies...)
	}
	return story, true
}

func validatePayload(payload models.ContentPayload) error {
	switch payload.Type {
	case models.PayloadText:
		if payload.Text == nil || strings.TrimSpace(payload.Text.Body) == "" {
			return fmt.Errorf("%w: text content requires a body", ErrValidation)
		}
	case models.PayloadImage:
		if payload.Image == nil || strings.TrimSpace(payload.Image.URL) == "" {
			return fmt.Errorf("%w: image content requires a url", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown payload type %q", ErrValidation, payload.Type)
	}
	return nil
}

func newestItem(story models.Story) time.Time {
	newest := time.Time{}
	for _, item := range story.Items {
		if item.CreatedAt.After(newest) {
			newest = item.CreatedAt
		}
	}
	return newest
}
