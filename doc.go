// Package blockpool implements a fixed-capacity block allocator and a small
// set of memory-safety primitives built for code that must not touch a
// dynamic heap on its hot path.
//
// # Overview
//
// A Pool owns a fixed number of fixed-size blocks carved from a single byte
// arena. Blocks are handed out first-fit, lowest index first, and are always
// zero-filled on allocation and on release, so no owner ever reads a previous
// owner's data. On top of the pool the package provides:
//
//   - Guarded buffers: a payload flanked by sentinel markers, checked on free
//   - Bounded string operations on caller-supplied, zero-terminated buffers
//   - Constant-time comparison and non-elidable clearing of secret bytes
//
// # Basic Usage
//
//	p, err := blockpool.New(blockpool.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	h, err := p.Allocate(32)
//	if err != nil {
//	    return err // ErrInvalidSize or ErrExhausted
//	}
//	buf := p.Bytes(h)
//	copy(buf, "Hello, Pool!")
//
//	if err := p.Release(h); err != nil {
//	    return err // ErrInvalidPointer or ErrDoubleFree
//	}
//
// # Guarded Buffers
//
//	g, err := blockpool.NewGuarded(p, 16)
//	...
//	copy(g.Bytes(), "Test data")
//	if err := g.Free(); errors.Is(err, blockpool.ErrCorrupted) {
//	    // The block was withheld from the pool. Escalate.
//	}
//
// A corrupted block is never returned to the pool. Config.OnCorruption selects
// between logging and leaking the block (CorruptionLeak) and panicking
// (CorruptionPanic).
//
// # Thread Safety
//
// Pool is not thread-safe. For concurrent access, use SafePool:
//
//	s, err := blockpool.NewSafe(cfg)
//	...
//	h, err := s.Allocate(64)
//
// The string and secure operations keep no state and are safe to call
// concurrently on disjoint memory.
//
// # Locked Memory
//
// With Config.Locked the arena is mapped outside the Go heap, locked into RAM
// and excluded from core dumps (Linux only). Close zeroes and unmaps it.
//
// # Statistics
//
//	st := p.Stats()
//	fmt.Printf("%d/%d blocks used (peak: %d)\n", st.Current, st.Capacity, st.Peak)
//
// Peak is a lifetime high-water mark and is not cleared by Reset.
package blockpool
