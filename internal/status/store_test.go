package status

import (
	"testing"
	"time"

	"github.com/anonto42/status-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore() *StoryStore {
	return NewStoryStore(NewPrivacyManager(), NewViewerTracker())
}

func textPayload(body string) models.ContentPayload {
	return models.ContentPayload{Type: models.PayloadText, Text: &models.TextPayload{Body: body}}
}

func imagePayload(url string) models.ContentPayload {
	return models.ContentPayload{Type: models.PayloadImage, Image: &models.ImagePayload{URL: url}}
}

func TestAppendContentCreatesStory(t *testing.T) {
	store := newTestStore()

	unit, err := store.AppendContent("alice", textPayload("hello"), baseTime)
	require.NoError(t, err)
	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, baseTime, unit.CreatedAt)

	stories := store.ListVisible("alice", baseTime.Add(time.Minute))
	require.Len(t, stories, 1)
	assert.Equal(t, "alice", stories[0].OwnerID)
	require.Len(t, stories[0].Items, 1)
	assert.Equal(t, unit.ID, stories[0].Items[0].ID)
}

func TestAppendContentValidation(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name    string
		ownerID string
		payload models.ContentPayload
		now     time.Time
	}{
		{"empty owner", "", textPayload("hi"), baseTime},
		{"zero timestamp", "alice", textPayload("hi"), time.Time{}},
		{"empty text body", "alice", textPayload("   "), baseTime},
		{"text without variant", "alice", models.ContentPayload{Type: models.PayloadText}, baseTime},
		{"image without url", "alice", imagePayload(""), baseTime},
		{"unknown type", "alice", models.ContentPayload{Type: "audio"}, baseTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AppendContent(tt.ownerID, tt.payload, tt.now)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// nothing was admitted
	assert.Empty(t, store.ListVisible("alice", baseTime))
}

func TestDeleteContentAuthorization(t *testing.T) {
	store := newTestStore()
	unit, err := store.AppendContent("alice", textPayload("hello"), baseTime)
	require.NoError(t, err)

	err = store.DeleteContent(unit.ID, "mallory")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = store.DeleteContent("nope", "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.DeleteContent(unit.ID, "alice"))
}

func TestDeletingOnlyUnitRemovesStory(t *testing.T) {
	store := newTestStore()
	unit, err := store.AppendContent("alice", textPayload("only one"), baseTime)
	require.NoError(t, err)

	require.NoError(t, store.DeleteContent(unit.ID, "alice"))

	assert.Empty(t, store.ListVisible("alice", baseTime.Add(time.Minute)))
	assert.Empty(t, store.ListVisible("bob", baseTime.Add(time.Minute)))
	_, err = store.GetStory("alice", "alice", baseTime.Add(time.Minute))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListVisibleFiltersExpired(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("old"), baseTime)
	require.NoError(t, err)
	fresh, err := store.AppendContent("alice", textPayload("fresh"), baseTime.Add(12*time.Hour))
	require.NoError(t, err)

	// first unit is exactly at TTL, second has 12h left
	stories := store.ListVisible("bob", baseTime.Add(DefaultTTL))
	require.Len(t, stories, 1)
	require.Len(t, stories[0].Items, 1)
	assert.Equal(t, fresh.ID, stories[0].Items[0].ID)

	// both expired: the story disappears entirely
	assert.Empty(t, store.ListVisible("bob", baseTime.Add(2*DefaultTTL)))
}

func TestListVisibleOwnStoryFirst(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("bob", textPayload("bob's"), baseTime.Add(time.Hour))
	require.NoError(t, err)
	_, err = store.AppendContent("carol", textPayload("carol's"), baseTime.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = store.AppendContent("alice", textPayload("mine"), baseTime)
	require.NoError(t, err)

	stories := store.ListVisible("alice", baseTime.Add(3*time.Hour))
	require.Len(t, stories, 3)
	assert.Equal(t, "alice", stories[0].OwnerID)
	// the rest newest first
	assert.Equal(t, "carol", stories[1].OwnerID)
	assert.Equal(t, "bob", stories[2].OwnerID)
}

func TestListVisibleAppliesAudiencePolicy(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("secret-ish"), baseTime)
	require.NoError(t, err)
	store.Privacy().SetPolicy("alice", models.AudiencePolicy{
		Mode:    models.AudienceContactsExcept,
		UserIDs: []string{"v2"},
	})

	now := baseTime.Add(time.Minute)
	assert.Empty(t, store.ListVisible("v2", now))
	assert.Len(t, store.ListVisible("v3", now), 1)
	// the owner is never filtered out
	assert.Len(t, store.ListVisible("alice", now), 1)
}

func TestMutedStoryIsSuppressedFromListingOnly(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("hello"), baseTime)
	require.NoError(t, err)
	now := baseTime.Add(time.Minute)

	require.NoError(t, store.SetMuted("alice", "bob", true))

	assert.Empty(t, store.ListVisible("bob", now))
	// on-demand fetch ignores the mute flag
	story, err := store.GetStory("alice", "bob", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", story.OwnerID)
	// other viewers are unaffected
	assert.Len(t, store.ListVisible("carol", now), 1)

	require.NoError(t, store.SetMuted("alice", "bob", false))
	assert.Len(t, store.ListVisible("bob", now), 1)
}

func TestViewersVisibleOnlyToOwner(t *testing.T) {
	store := newTestStore()
	unit, err := store.AppendContent("alice", textPayload("hello"), baseTime)
	require.NoError(t, err)
	require.NoError(t, store.RecordView(unit.ID, "bob"))
	now := baseTime.Add(time.Minute)

	own := store.ListVisible("alice", now)
	require.Len(t, own, 1)
	assert.Equal(t, []string{"bob"}, own[0].Items[0].Viewers)

	their, err := store.GetStory("alice", "bob", now)
	require.NoError(t, err)
	assert.Empty(t, their.Items[0].Viewers)
}

func TestRecordViewUnknownContent(t *testing.T) {
	store := newTestStore()
	assert.ErrorIs(t, store.RecordView("missing", "bob"), ErrNotFound)
}

func TestGetStoryRespectsAudiencePolicy(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("hello"), baseTime)
	require.NoError(t, err)
	store.Privacy().SetPolicy("alice", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith, UserIDs: []string{"bob"}})
	now := baseTime.Add(time.Minute)

	_, err = store.GetStory("alice", "carol", now)
	assert.ErrorIs(t, err, ErrNotFound)

	story, err := store.GetStory("alice", "bob", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", story.OwnerID)
}

func TestPruneExpired(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("old"), baseTime)
	require.NoError(t, err)
	_, err = store.AppendContent("alice", textPayload("fresh"), baseTime.Add(12*time.Hour))
	require.NoError(t, err)
	_, err = store.AppendContent("bob", textPayload("also old"), baseTime)
	require.NoError(t, err)

	pruned := store.PruneExpired(baseTime.Add(DefaultTTL))
	assert.Equal(t, 2, pruned)

	now := baseTime.Add(DefaultTTL)
	assert.Len(t, store.ListVisible("carol", now), 1)
	_, err = store.GetStory("bob", "bob", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPruneExpiredFailsClosedOnZeroClock(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendContent("alice", textPayload("old"), baseTime)
	require.NoError(t, err)

	assert.Equal(t, 0, store.PruneExpired(time.Time{}))
	assert.Len(t, store.ListVisible("alice", baseTime.Add(time.Minute)), 1)
}

func TestHydrate(t *testing.T) {
	store := newTestStore()
	now := baseTime.Add(12 * time.Hour)

	store.Hydrate([]models.Story{
		{
			OwnerID: "alice",
			Items: []models.ContentUnit{
				{ID: "a1", Payload: textPayload("kept"), CreatedAt: baseTime, Viewers: []string{"bob", "carol"}},
				{ID: "a0", Payload: textPayload("expired"), CreatedAt: baseTime.Add(-2 * DefaultTTL)},
			},
			Audience: models.AudiencePolicy{Mode: models.AudienceContactsExcept, UserIDs: []string{"v2"}},
			Replies:  []models.Reply{{ID: "r1", AuthorID: "bob", ContentID: "a1", Text: "nice", CreatedAt: baseTime}},
		},
		{
			OwnerID: "stale",
			Items: []models.ContentUnit{
				{ID: "s1", Payload: textPayload("gone"), CreatedAt: baseTime.Add(-2 * DefaultTTL)},
			},
		},
	}, now)

	stories := store.ListVisible("alice", now)
	require.Len(t, stories, 1)
	require.Len(t, stories[0].Items, 1)
	assert.Equal(t, "a1", stories[0].Items[0].ID)
	assert.Equal(t, []string{"bob", "carol"}, stories[0].Items[0].Viewers)
	require.Len(t, stories[0].Replies, 1)

	// policy rode along
	assert.Empty(t, store.ListVisible("v2", now))

	// fully expired story was not hydrated at all
	_, err := store.GetStory("stale", "stale", now)
	assert.ErrorIs(t, err, ErrNotFound)
}
