package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketDrains(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	tb.tokens = 0
	tb.lastRefill = time.Now().Add(-3 * time.Second)

	assert.True(t, tb.Allow())
}

func TestTokenBucketCapsAtCapacity(t *testing.T) {
	tb := NewTokenBucket(2, 10)
	tb.lastRefill = time.Now().Add(-time.Minute)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}
