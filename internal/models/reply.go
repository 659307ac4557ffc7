package models

import "time"

// Reply is a private response to one content unit, visible only to the
// story's owner
type Reply struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	ContentID string    `json:"content_id" bson:"content_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AddReplyRequest defines the request body for replying to a content unit
type AddReplyRequest struct {
	OwnerID string `json:"owner_id" validate:"required"`
	Text    string `json:"text" validate:"required,min=1,max=2000"`
}
