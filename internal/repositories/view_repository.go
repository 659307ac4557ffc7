package repositories

import (
	"errors"

	"github.com/anonto42/status-engine/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewRepository mirrors recorded views and accepted replies into PostgreSQL
type ViewRepository interface {
	MarkSeen(view *models.ContentView) error
	SeenBy(contentID string) ([]models.ContentView, error)
	AddReply(record *models.ReplyRecord) error
	RepliesByOwner(ownerID string) ([]models.ReplyRecord, error)
}

// PostgresViewRepository implements ViewRepository for PostgreSQL
type PostgresViewRepository struct {
	db *gorm.DB
}

// NewPostgresViewRepository creates a new PostgresViewRepository
func NewPostgresViewRepository(db *gorm.DB) *PostgresViewRepository {
	return &PostgresViewRepository{db: db}
}

// MarkSeen inserts one view row; repeats for the same (content, viewer) pair
// are swallowed by the unique index to match the engine's idempotency
func (r *PostgresViewRepository) MarkSeen(view *models.ContentView) error {
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(view).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// SeenBy retrieves the mirrored view rows for one content unit
func (r *PostgresViewRepository) SeenBy(contentID string) ([]models.ContentView, error) {
	var views []models.ContentView
	if err := r.db.Where("content_id = ?", contentID).Order("id asc").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// AddReply inserts one reply row
func (r *PostgresViewRepository) AddReply(record *models.ReplyRecord) error {
	return r.db.Create(record).Error
}

// RepliesByOwner retrieves the mirrored replies for one story owner
func (r *PostgresViewRepository) RepliesByOwner(ownerID string) ([]models.ReplyRecord, error) {
	var records []models.ReplyRecord
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
