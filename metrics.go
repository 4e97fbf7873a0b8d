package blockpool

// Stats is a snapshot of pool usage.
type Stats struct {
	Current     int     // Blocks currently allocated
	Peak        int     // Highest Current observed over the pool's lifetime
	Capacity    int     // Total number of blocks
	BlockSize   int     // Bytes per block
	Utilization float64 // Current / Capacity (0.0-1.0)
}

// Stats returns the pool counters. It has no side effects.
func (p *Pool) Stats() Stats {
	return Stats{
		Current:     p.allocated,
		Peak:        p.peak,
		Capacity:    p.cfg.NumBlocks,
		BlockSize:   p.cfg.BlockSize,
		Utilization: p.Utilization(),
	}
}

// InUse returns the number of blocks currently allocated.
func (p *Pool) InUse() int {
	return p.allocated
}

// Peak returns the highest number of blocks ever allocated at once.
func (p *Pool) Peak() int {
	return p.peak
}

// Capacity returns the total number of blocks.
func (p *Pool) Capacity() int {
	return p.cfg.NumBlocks
}

// Utilization returns the ratio of allocated blocks to capacity (0.0 to 1.0).
func (p *Pool) Utilization() float64 {
	if p.cfg.NumBlocks == 0 {
		return 0
	}
	return float64(p.allocated) / float64(p.cfg.NumBlocks)
}

// Thread-safe metrics for SafePool

// Stats thread-safely returns the pool counters.
func (s *SafePool) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Stats()
}

// InUse thread-safely returns the number of blocks currently allocated.
func (s *SafePool) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.InUse()
}

// Peak thread-safely returns the peak usage.
func (s *SafePool) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Peak()
}

// Capacity returns the total number of blocks. It never changes.
func (s *SafePool) Capacity() int {
	return s.p.Capacity()
}
