package repositories

import (
	"context"
	"time"

	"github.com/anonto42/status-engine/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoryRepository mirrors the engine's story state into MongoDB so the store
// can be rehydrated after a restart. The in-memory engine stays authoritative.
type StoryRepository interface {
	SaveStory(ctx context.Context, story models.Story) error
	RemoveContent(ctx context.Context, ownerID, contentID string) error
	RemoveStory(ctx context.Context, ownerID string) error
	LoadActive(ctx context.Context) ([]models.Story, error)
	DeleteExpired(ctx context.Context) error
}

// storyDocument is the persisted shape; expires_at is denormalized from the
// newest unit so the active filter stays a single range query
type storyDocument struct {
	OwnerID   string                `bson:"owner_id"`
	Items     []models.ContentUnit  `bson:"items"`
	Audience  models.AudiencePolicy `bson:"audience"`
	Replies   []models.Reply        `bson:"replies,omitempty"`
	ExpiresAt time.Time             `bson:"expires_at"`
	UpdatedAt time.Time             `bson:"updated_at"`
}

type storyRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewStoryRepository creates a mongo-backed story mirror
func NewStoryRepository(db *mongo.Database, ttl time.Duration) StoryRepository {
	return &storyRepository{
		collection: db.Collection("stories"),
		ttl:        ttl,
	}
}

func (r *storyRepository) SaveStory(ctx context.Context, story models.Story) error {
	doc := storyDocument{
		OwnerID:   story.OwnerID,
		Items:     story.Items,
		Audience:  story.Audience,
		Replies:   story.Replies,
		ExpiresAt: newestCreatedAt(story.Items).Add(r.ttl),
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"owner_id": story.OwnerID}, doc, opts)
	return err
}

func (r *storyRepository) RemoveContent(ctx context.Context, ownerID, contentID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"owner_id": ownerID},
		bson.M{"$pull": bson.M{"items": bson.M{"id": contentID}}},
	)
	return err
}

func (r *storyRepository) RemoveStory(ctx context.Context, ownerID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID})
	return err
}

func (r *storyRepository) LoadActive(ctx context.Context) ([]models.Story, error) {
	filter := bson.M{"expires_at": bson.M{"$gt": time.Now()}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []storyDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	stories := make([]models.Story, 0, len(docs))
	for _, doc := range docs {
		stories = append(stories, models.Story{
			OwnerID:  doc.OwnerID,
			Items:    doc.Items,
			Audience: doc.Audience,
			Replies:  doc.Replies,
		})
	}
	return stories, nil
}

func (r *storyRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	return err
}

func newestCreatedAt(items []models.ContentUnit) time.Time {
	newest := time.Time{}
	for _, item := range items {
		if item.CreatedAt.After(newest) {
			newest = item.CreatedAt
		}
	}
	return newest
}
