package models

import (
	"time"
)

// PayloadType discriminates the two kinds of ephemeral content
type PayloadType string

const (
	PayloadText  PayloadType = "text"
	PayloadImage PayloadType = "image"
)

// Story is a per-owner container of ephemeral content units
type Story struct {
	OwnerID  string         `json:"owner_id" bson:"owner_id"`
	Items    []ContentUnit  `json:"items" bson:"items"`
	Audience AudiencePolicy `json:"audience" bson:"audience"`
	Muted    bool           `json:"muted" bson:"muted"`
	Replies  []Reply        `json:"replies,omitempty" bson:"replies,omitempty"`
}

// ContentUnit is a single ephemeral post with its own expiration clock
type ContentUnit struct {
	ID        string         `json:"id" bson:"id"`
	Payload   ContentPayload `json:"payload" bson:"payload"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	// Viewers is deduplicated and kept in first-seen order for display
	Viewers []string `json:"viewers,omitempty" bson:"viewers,omitempty"`
}

// ContentPayload is a tagged variant: exactly one of Text or Image is set,
// matching Type
type ContentPayload struct {
	Type  PayloadType   `json:"type" bson:"type"`
	Text  *TextPayload  `json:"text,omitempty" bson:"text,omitempty"`
	Image *ImagePayload `json:"image,omitempty" bson:"image,omitempty"`
}

// TextPayload is a styled text post
type TextPayload struct {
	Body       string `json:"body" bson:"body"`
	Background string `json:"background,omitempty" bson:"background,omitempty"`
	Foreground string `json:"foreground,omitempty" bson:"foreground,omitempty"`
	Font       string `json:"font,omitempty" bson:"font,omitempty"`
}

// ImagePayload is a media post referenced by URL
type ImagePayload struct {
	URL     string `json:"url" bson:"url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
}

// CreateContentRequest defines the request body for posting to a story
type CreateContentRequest struct {
	Type       PayloadType `json:"type" validate:"required,oneof=text image"`
	Body       string      `json:"body,omitempty"`
	Background string      `json:"background,omitempty"`
	Foreground string      `json:"foreground,omitempty"`
	Font       string      `json:"font,omitempty"`
	MediaURL   string      `json:"media_url,omitempty"`
	Caption    string      `json:"caption,omitempty"`
}

// Payload converts the request into the tagged payload variant
func (r CreateContentRequest) Payload() ContentPayload {
	switch r.Type {
	case PayloadImage:
		return ContentPayload{
			Type:  PayloadImage,
			Image: &ImagePayload{URL: r.MediaURL, Caption: r.Caption},
		}
	default:
		return ContentPayload{
			Type: PayloadText,
			Text: &TextPayload{
				Body:       r.Body,
				Background: r.Background,
				Foreground: r.Foreground,
				Font:       r.Font,
			},
		}
	}
}

// MuteRequest defines the request body for muting an owner's story
type MuteRequest struct {
	Muted bool `json:"muted"`
}

// OpenPlaybackRequest defines the request body for opening a viewing session
type OpenPlaybackRequest struct {
	StartStory   int `json:"start_story" validate:"min=0"`
	StartContent int `json:"start_content" validate:"min=0"`
}
