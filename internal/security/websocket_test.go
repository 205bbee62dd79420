package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the token budget", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow(), "message %d should be allowed", i+1)
		}
		assert.False(t, rl.Allow())
		assert.False(t, rl.Allow())
	})

	t.Run("window expiry resets the budget", func(t *testing.T) {
		rl := NewRateLimiter(1, 10*time.Millisecond)

		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())

		time.Sleep(20 * time.Millisecond)
		assert.True(t, rl.Allow())
	})
}

func TestOriginValidator(t *testing.T) {
	ov := NewOriginValidator([]string{"example.com", "*.example.com"})

	opts := ov.GetAcceptOptions()
	assert.Equal(t, []string{"example.com", "*.example.com"}, opts.OriginPatterns)
}
