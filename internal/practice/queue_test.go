package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBuildSeedFirst(t *testing.T) {
	ready := []string{"A", "B", "C"}
	for i := 0; i < 100; i++ {
		q := NewSongQueue(ready, "B")
		require.Equal(t, 3, q.Len())
		assert.Equal(t, "B", q.IDs()[0])
		assert.ElementsMatch(t, ready, q.IDs())
		assert.Equal(t, 0, q.Position())
	}
}

func TestQueueBuildSeedNotReady(t *testing.T) {
	q := NewSongQueue([]string{"A", "B"}, "Z")
	assert.Equal(t, 2, q.Len())
	assert.ElementsMatch(t, []string{"A", "B"}, q.IDs())
}

func TestQueueBuildEmpty(t *testing.T) {
	q := NewSongQueue(nil, "A")
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, "", q.Current())
	assert.False(t, q.Advance())
}

func TestQueueAdvance(t *testing.T) {
	q := NewSongQueue([]string{"A", "B", "C"}, "A")
	assert.Equal(t, "A", q.Current())
	assert.True(t, q.Advance())
	assert.True(t, q.Advance())
	assert.False(t, q.Advance(), "越過尾端要回 false")
	assert.Equal(t, 2, q.Position())
}

func TestReshuffleAvoidsRepeat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		q := NewSongQueue([]string{"A", "B", "C"}, "")
		q.ReshuffleAvoidingRepeat("B")
		require.NotEqual(t, "B", q.IDs()[0], "trial %d", i)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, q.IDs())
		assert.Equal(t, 0, q.Position())
	}
}

func TestReshuffleSingleSong(t *testing.T) {
	q := NewSongQueue([]string{"A"}, "A")
	q.ReshuffleAvoidingRepeat("A")
	assert.Equal(t, []string{"A"}, q.IDs())
	assert.Equal(t, "A", q.Current())
}
