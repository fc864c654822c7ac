package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedTrySend(t *testing.T) {
	ch := NewBuffered[int](2)

	assert.True(t, ch.TrySend(1))
	assert.True(t, ch.TrySend(2))
	// full buffer drops instead of blocking
	assert.False(t, ch.TrySend(3))
	assert.Equal(t, 2, ch.Len())

	assert.Equal(t, 1, <-ch.Receive())
	assert.True(t, ch.TrySend(4))
}

func TestBufferedCloseDrains(t *testing.T) {
	ch := New[string](4)
	ch.TrySend("a")
	ch.TrySend("b")
	ch.Close()

	var got []string
	for v := range ch.Receive() {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
