package pool

import "sync"

// SlicePool implements a pool of slices for efficient memory reuse
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates a pool whose new slices have the given capacity
func NewSlicePool[T any](capacity int) *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]T, 0, capacity)
				return &buffer
			},
		},
	}
}

// Get retrieves an empty slice from the pool or creates a new one if none are available
func (p *SlicePool[T]) Get() *[]T {
	return p.pool.Get().(*[]T)
}

// Put returns a slice to the pool for reuse
func (p *SlicePool[T]) Put(buffer *[]T) {
	// Reset length but keep capacity
	*buffer = (*buffer)[:0]
	p.pool.Put(buffer)
}

// BufferPool is a pool of byte slices
type BufferPool = SlicePool[byte]

// NewBufferPool creates a new buffer pool with buffers of the specified size
func NewBufferPool(size int) *BufferPool {
	return NewSlicePool[byte](size)
}
