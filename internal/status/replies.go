package status

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anonto42/status-engine/internal/models"
	"github.com/google/uuid"
)

// ReplyChannel appends and lists replies to a story's content units. Replies
// are private to the story's owner and append-only.
type ReplyChannel struct {
	store *StoryStore
}

// NewReplyChannel creates a ReplyChannel backed by the given store
func NewReplyChannel(store *StoryStore) *ReplyChannel {
	return &ReplyChannel{store: store}
}

// AddReply records authorID's reply to one content unit. The unit must belong
// to ownerID's story and must not have expired; expired content takes no
// replies.
func (c *ReplyChannel) AddReply(ownerID, contentID, authorID, text string, now time.Time) (models.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return models.Reply{}, fmt.Errorf("%w: reply text is required", ErrValidation)
	}
	if now.IsZero() {
		return models.Reply{}, fmt.Errorf("%w: reply requires a valid timestamp", ErrValidation)
	}

	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.stories[ownerID]
	if !ok {
		return models.Reply{}, fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	unit, ok := record.items[contentID]
	if !ok {
		return models.Reply{}, fmt.Errorf("%w: content %s in story of %s", ErrNotFound, contentID, ownerID)
	}
	if IsExpired(unit.CreatedAt, now, s.ttl) {
		return models.Reply{}, fmt.Errorf("%w: content %s has expired", ErrNotFound, contentID)
	}

	reply := models.Reply{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		ContentID: contentID,
		Text:      text,
		CreatedAt: now,
	}
	record.replies = append(record.replies, reply)
	return reply, nil
}

// RepliesFor lists every reply on the owner's story, ordered by creation
// time. Only the owner may read them.
func (c *ReplyChannel) RepliesFor(ownerID, requesterID string) ([]models.Reply, error) {
	if requesterID != ownerID {
		return nil, fmt.Errorf("%w: replies are visible to the story owner only", ErrUnauthorized)
	}

	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.stories[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: story of %s", ErrNotFound, ownerID)
	}
	replies := append([]models.Reply(nil), record.replies...)
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}
