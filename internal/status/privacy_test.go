package status

import (
	"testing"

	"github.com/anonto42/status-engine/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	tests := []struct {
		name     string
		viewerID string
		policy   models.AudiencePolicy
		want     bool
	}{
		{"everyone allows any viewer", "v1", models.AudiencePolicy{Mode: models.AudienceEveryone}, true},
		{"contacts_except blocks listed viewer", "v2", models.AudiencePolicy{Mode: models.AudienceContactsExcept, UserIDs: []string{"v2"}}, false},
		{"contacts_except allows unlisted viewer", "v3", models.AudiencePolicy{Mode: models.AudienceContactsExcept, UserIDs: []string{"v2"}}, true},
		{"only_share_with allows listed viewer", "v2", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith, UserIDs: []string{"v2"}}, true},
		{"only_share_with blocks unlisted viewer", "v3", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith, UserIDs: []string{"v2"}}, false},
		{"empty only_share_with blocks everyone else", "v1", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView("owner", tt.viewerID, tt.policy))
		})
	}
}

func TestOwnerAlwaysSeesOwnStory(t *testing.T) {
	policies := []models.AudiencePolicy{
		{Mode: models.AudienceEveryone},
		{Mode: models.AudienceContactsExcept, UserIDs: []string{"owner"}},
		{Mode: models.AudienceOnlyShareWith},
		{Mode: models.AudienceOnlyShareWith, UserIDs: []string{"v1"}},
	}
	for _, policy := range policies {
		assert.True(t, CanView("owner", "owner", policy), "policy %+v", policy)
	}
}

func TestPrivacyManagerDefaultsToEveryone(t *testing.T) {
	manager := NewPrivacyManager()

	assert.True(t, manager.Allows("owner", "anyone"))
	assert.Equal(t, models.DefaultAudience(), manager.PolicyFor("owner"))
}

func TestSetPolicyReplaces(t *testing.T) {
	manager := NewPrivacyManager()

	manager.SetPolicy("owner", models.AudiencePolicy{Mode: models.AudienceContactsExcept, UserIDs: []string{"v2"}})
	assert.False(t, manager.Allows("owner", "v2"))
	assert.True(t, manager.Allows("owner", "v3"))

	manager.SetPolicy("owner", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith, UserIDs: []string{"v2"}})
	assert.True(t, manager.Allows("owner", "v2"))
	assert.False(t, manager.Allows("owner", "v3"))
}

func TestSetPolicyCopiesUserIDs(t *testing.T) {
	manager := NewPrivacyManager()
	ids := []string{"v2"}
	manager.SetPolicy("owner", models.AudiencePolicy{Mode: models.AudienceOnlyShareWith, UserIDs: ids})

	ids[0] = "v9"

	assert.True(t, manager.Allows("owner", "v2"))
}
