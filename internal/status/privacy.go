package status

import (
	"sync"

	"github.com/anonto42/status-engine/internal/models"
)

// PrivacyManager resolves whether a viewer may see an owner's story. Owners
// without an explicit policy default to everyone.
type PrivacyManager struct {
	mu       sync.Mutex
	policies map[string]models.AudiencePolicy
}

// NewPrivacyManager creates a PrivacyManager with no explicit policies
func NewPrivacyManager() *PrivacyManager {
	return &PrivacyManager{policies: make(map[string]models.AudiencePolicy)}
}

// SetPolicy replaces the owner's current policy. Listings produced before the
// change are not re-filtered; only new listings see the new policy.
func (m *PrivacyManager) SetPolicy(ownerID string, policy models.AudiencePolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// copy so later mutation of the caller's slice cannot change the policy
	policy.UserIDs = append([]string(nil), policy.UserIDs...)
	m.policies[ownerID] = policy
}

// PolicyFor returns the owner's current policy
func (m *PrivacyManager) PolicyFor(ownerID string) models.AudiencePolicy {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.policies[ownerID]; ok {
		return p
	}
	return models.DefaultAudience()
}

// Allows reports whether viewerID may see ownerID's story under the owner's
// current policy
func (m *PrivacyManager) Allows(ownerID, viewerID string) bool {
	return CanView(ownerID, viewerID, m.PolicyFor(ownerID))
}

// CanView evaluates a policy for one (owner, viewer) pair. The owner can
// always see their own story regardless of policy.
func CanView(ownerID, viewerID string, policy models.AudiencePolicy) bool {
	if viewerID == ownerID {
		return true
	}
	switch policy.Mode {
	case models.AudienceContactsExcept:
		return !containsID(policy.UserIDs, viewerID)
	case models.AudienceOnlyShareWith:
		return containsID(policy.UserIDs, viewerID)
	default:
		return true
	}
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
