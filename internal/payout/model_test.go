package payout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusQueued, StatusPending, true},
		{StatusQueued, StatusProcessing, true},
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusProcessed, true},
		{StatusProcessing, StatusReversed, true},
		{StatusProcessed, StatusReversed, true},
		{StatusProcessed, StatusPending, false},
		{StatusProcessed, StatusProcessing, false},
		{StatusReversed, StatusProcessed, false},
		{StatusRejected, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusFailed, StatusProcessing, true},
		{StatusFailed, StatusQueued, true},
		{StatusFailed, StatusPending, true},
		{StatusFailed, StatusProcessed, false},
		{StatusQueued, StatusQueued, true},
		{StatusProcessed, StatusProcessed, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusProcessed))
	assert.True(t, IsTerminal(StatusReversed))
	assert.True(t, IsTerminal(StatusRejected))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusQueued))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusProcessing))
	assert.False(t, IsTerminal(StatusFailed))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(StatusFailed))
	assert.False(t, Retryable(StatusQueued))
	assert.False(t, Retryable(StatusProcessed))
	assert.False(t, Retryable(StatusRejected))
}
