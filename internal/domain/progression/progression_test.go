package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financial-frontier/backend/internal/domain/topic"
)

func TestComposeInitial_FirstTopicUnlocked(t *testing.T) {
	ranked := []string{"credit", "debt", "investing", "budgeting", "saving"}

	entries := ComposeInitial(ranked)
	require.Len(t, entries, 5)

	assert.Equal(t, "credit", entries[0].TopicID)
	assert.Equal(t, "Credit Canyon", entries[0].TopicTitle)
	assert.True(t, entries[0].IsUnlocked)

	for i := 1; i < len(entries); i++ {
		assert.Equal(t, ranked[i], entries[i].TopicID)
		assert.False(t, entries[i].IsUnlocked, "entry %d must start locked", i)
	}
}

func TestComposeInitial_ExactlyOneUnlocked(t *testing.T) {
	// The single-unlock invariant must hold for every ranking length.
	rankings := [][]string{
		{"saving"},
		{"debt", "credit"},
		topic.DefaultOrder(),
	}

	for _, ranked := range rankings {
		entries := ComposeInitial(ranked)

		unlocked := 0
		for _, e := range entries {
			if e.IsUnlocked {
				unlocked++
			}
		}
		assert.Equal(t, 1, unlocked)
		assert.True(t, entries[0].IsUnlocked)
	}
}

func TestComposeInitial_WaypointsStartEmpty(t *testing.T) {
	entries := ComposeInitial(topic.DefaultOrder())

	for _, e := range entries {
		require.NotNil(t, e.Waypoints)
		assert.Empty(t, e.Waypoints)
	}
}

func TestComposeInitial_UnknownTopicKeepsRawTitle(t *testing.T) {
	entries := ComposeInitial([]string{"mystery"})

	require.Len(t, entries, 1)
	assert.Equal(t, "mystery", entries[0].TopicTitle)
}
