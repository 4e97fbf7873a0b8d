package blockpool

import "sync"

// SafePool is a mutex-protected wrapper around Pool for concurrent access.
// The block flags and counters are the only state it guards.
type SafePool struct {
	mu sync.Mutex
	p  *Pool
}

// NewSafe creates a new thread-safe pool from cfg.
func NewSafe(cfg Config) (*SafePool, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &SafePool{p: p}, nil
}

// Allocate thread-safely allocates a block.
func (s *SafePool) Allocate(size int) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Allocate(size)
}

// Release thread-safely releases the block owning h.
func (s *SafePool) Release(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Release(h)
}

// Bytes thread-safely returns the data region of the block owning h.
func (s *SafePool) Bytes(h Handle) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Bytes(h)
}

// AllocBytes thread-safely allocates a block and returns its first size bytes.
func (s *SafePool) AllocBytes(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.AllocBytes(size)
}

// ReleaseBytes thread-safely releases the block that b points into.
func (s *SafePool) ReleaseBytes(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.ReleaseBytes(b)
}

// HandleOf thread-safely maps a slice obtained from the pool back to its handle.
func (s *SafePool) HandleOf(b []byte) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.HandleOf(b)
}

// Reset thread-safely force-releases every block.
func (s *SafePool) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Reset()
}

// Close thread-safely tears the pool down.
func (s *SafePool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Close()
}

// NewGuarded thread-safely creates a guarded buffer. Its Free and
// CheckIntegrity take the same lock.
func (s *SafePool) NewGuarded(size int) (*Guarded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := NewGuarded(s.p, size)
	if err != nil {
		return nil, err
	}
	g.mu = &s.mu
	return g, nil
}

// Generic allocation functions for SafePool

// SafeAlloc thread-safely places a zeroed T inside a block.
func SafeAlloc[T any](s *SafePool) (*T, Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc[T](s.p)
}

// SafeAllocSlice thread-safely places n zeroed elements of T inside a block.
func SafeAllocSlice[T any](s *SafePool, n int) ([]T, Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSlice[T](s.p, n)
}
