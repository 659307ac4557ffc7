package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User carries identity only; everything the engine needs about a caller is
// its id, supplied by the auth middleware
type User struct {
	gorm.Model `json:"-"`
	UserID     string `json:"user_id" gorm:"uniqueIndex"`
	Handle     string `json:"handle"`
}

// ContentView mirrors one recorded view into PostgreSQL; the unique index
// keeps the mirror idempotent like the in-memory viewer set
type ContentView struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ContentID string `json:"content_id" gorm:"index;uniqueIndex:idx_content_viewer"`
	ViewerID  string `json:"viewer_id" gorm:"index;uniqueIndex:idx_content_viewer"`
	SeenAt    int64  `json:"seen_at" gorm:"autoCreateTime"`
}

// ReplyRecord mirrors an accepted reply into PostgreSQL
type ReplyRecord struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ReplyID   string `json:"reply_id" gorm:"uniqueIndex"`
	OwnerID   string `json:"owner_id" gorm:"index"`
	ContentID string `json:"content_id" gorm:"index"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
