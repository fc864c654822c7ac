package channel

// Buffered is a buffered channel implementation. Sends never block the
// caller: the capture tick must not stall on a slow telemetry consumer.
type Buffered[T any] struct {
	ch chan T
}

// NewBuffered creates a buffered channel with the given capacity.
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// TrySend delivers v if buffer space is available and reports whether the
// value was accepted.
func (b *Buffered[T]) TrySend(v T) bool {
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// Receive returns the receive side of the channel.
func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of buffered items.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

// Close closes the channel. No TrySend may follow.
func (b *Buffered[T]) Close() {
	close(b.ch)
}
