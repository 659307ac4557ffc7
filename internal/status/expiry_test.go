package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpiredBoundary(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsExpired(createdAt, createdAt, DefaultTTL))
	assert.False(t, IsExpired(createdAt, createdAt.Add(DefaultTTL-time.Second), DefaultTTL))
	// exactly at TTL counts as expired
	assert.True(t, IsExpired(createdAt, createdAt.Add(DefaultTTL), DefaultTTL))
	assert.True(t, IsExpired(createdAt, createdAt.Add(DefaultTTL+time.Hour), DefaultTTL))
}

func TestRemaining(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh content has full lifetime", func(t *testing.T) {
		left := Remaining(createdAt, createdAt, DefaultTTL)
		assert.Equal(t, 100, left.Percent)
		assert.Equal(t, 24, left.Hours)
	})

	t.Run("almost expired content still has percent above zero", func(t *testing.T) {
		left := Remaining(createdAt, createdAt.Add(23*time.Hour+59*time.Minute), DefaultTTL)
		assert.Equal(t, 1, left.Percent)
		assert.Equal(t, 0, left.Hours)
		assert.Equal(t, 1, left.Minutes)
		assert.Equal(t, 0, left.Seconds)
	})

	t.Run("expired content is all zero", func(t *testing.T) {
		left := Remaining(createdAt, createdAt.Add(DefaultTTL), DefaultTTL)
		assert.Equal(t, TimeLeft{}, left)
	})

	t.Run("halfway", func(t *testing.T) {
		left := Remaining(createdAt, createdAt.Add(12*time.Hour), DefaultTTL)
		assert.Equal(t, 50, left.Percent)
		assert.Equal(t, 12, left.Hours)
		assert.Equal(t, 0, left.Minutes)
		assert.Equal(t, 0, left.Seconds)
	})
}
