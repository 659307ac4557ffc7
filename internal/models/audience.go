package models

// AudienceMode selects how an owner's story audience is resolved
type AudienceMode string

const (
	// AudienceEveryone makes the story visible to any viewer
	AudienceEveryone AudienceMode = "everyone"
	// AudienceContactsExcept hides the story from the listed user ids
	AudienceContactsExcept AudienceMode = "contacts_except"
	// AudienceOnlyShareWith shows the story only to the listed user ids
	AudienceOnlyShareWith AudienceMode = "only_share_with"
)

// AudiencePolicy is a tagged variant; UserIDs is only meaningful for the
// contacts_except and only_share_with modes
type AudiencePolicy struct {
	Mode    AudienceMode `json:"mode" bson:"mode"`
	UserIDs []string     `json:"user_ids,omitempty" bson:"user_ids,omitempty"`
}

// DefaultAudience is applied to owners who never set a policy
func DefaultAudience() AudiencePolicy {
	return AudiencePolicy{Mode: AudienceEveryone}
}

// SetAudienceRequest defines the request body for replacing an owner's policy
type SetAudienceRequest struct {
	Mode    AudienceMode `json:"mode" validate:"required,oneof=everyone contacts_except only_share_with"`
	UserIDs []string     `json:"user_ids,omitempty"`
}
