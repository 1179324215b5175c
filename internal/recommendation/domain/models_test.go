package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusIgnored},
		{StatusInProgress, StatusImplemented},
	}
	for _, pair := range allowed {
		assert.True(t, pair[0].CanTransition(pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]Status{
		{StatusPending, StatusImplemented},
		{StatusPending, StatusPending},
		{StatusInProgress, StatusIgnored},
		{StatusImplemented, StatusPending},
		{StatusIgnored, StatusInProgress},
	}
	for _, pair := range denied {
		assert.False(t, pair[0].CanTransition(pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestPriorityOrder(t *testing.T) {
	assert.True(t, PriorityCritical.Before(PriorityHigh))
	assert.True(t, PriorityHigh.Before(PriorityMedium))
	assert.True(t, PriorityMedium.Before(PriorityLow))
	assert.False(t, PriorityLow.Before(PriorityLow))
}
