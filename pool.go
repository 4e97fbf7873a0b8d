package blockpool

import (
	"bytes"
	"fmt"
	"log/slog"
	"unsafe"
)

// Handle identifies an allocation by its byte offset in the pool arena.
// Any offset inside a block's data range refers to that block.
type Handle int

// Pool is a fixed-capacity block allocator. Not goroutine-safe by default.
// Use SafePool for concurrent access.
type Pool struct {
	cfg   Config
	log   *slog.Logger
	arena []byte // NumBlocks consecutive blocks of BlockSize bytes
	inUse []bool
	seq   []uint64 // per-block allocation count, names one ownership of a block

	allocated int
	peak      int

	// generation changes on Reset and Close so that guarded records
	// created before can be told apart from live ones.
	generation uint64

	unmap  func([]byte) error
	closed bool
}

// New creates a pool from cfg. Zero fields in cfg take their defaults.
func New(cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	size := cfg.BlockSize * cfg.NumBlocks
	p := &Pool{
		cfg:   cfg,
		log:   cfg.Logger,
		inUse: make([]bool, cfg.NumBlocks),
		seq:   make([]uint64, cfg.NumBlocks),
	}
	if cfg.Locked {
		arena, unmap, err := lockedArena(size)
		if err != nil {
			return nil, err
		}
		p.arena, p.unmap = arena, unmap
	} else {
		p.arena = make([]byte, size)
	}
	return p, nil
}

// Allocate returns the lowest-indexed free block. The block is zero-filled.
// size must be in [1, BlockSize].
func (p *Pool) Allocate(size int) (Handle, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if size <= 0 || size > p.cfg.BlockSize {
		return 0, fmt.Errorf("%w: %d (block size %d)", ErrInvalidSize, size, p.cfg.BlockSize)
	}

	if i, ok := p.firstFree(); ok {
		p.inUse[i] = true
		p.seq[i]++
		p.allocated++
		if p.allocated > p.peak {
			p.peak = p.allocated
		}
		Clear(p.block(i))
		return Handle(i * p.cfg.BlockSize), nil
	}

	p.log.Debug("block pool exhausted", "capacity", p.cfg.NumBlocks, "size", size)
	return 0, ErrExhausted
}

// Release returns the block owning h to the pool after zero-filling it.
// A release of a free block fails with ErrDoubleFree and changes nothing.
func (p *Pool) Release(h Handle) error {
	if p.closed {
		return ErrClosed
	}
	i, ok := p.index(h)
	if !ok {
		return fmt.Errorf("%w: handle %d", ErrInvalidPointer, h)
	}
	if !p.inUse[i] {
		p.log.Debug("double free rejected", "block", i)
		return fmt.Errorf("%w: block %d", ErrDoubleFree, i)
	}

	Clear(p.block(i))
	p.inUse[i] = false
	p.allocated--
	return nil
}

// Bytes returns the data region of the block owning h, from h to the end
// of the block. Panics if h does not refer to an allocated block.
func (p *Pool) Bytes(h Handle) []byte {
	i, ok := p.index(h)
	if !ok || !p.inUse[i] {
		panic(fmt.Sprintf("blockpool: access through invalid handle %d", h))
	}
	end := (i + 1) * p.cfg.BlockSize
	return p.arena[int(h):end:end]
}

// AllocBytes allocates a block and returns its first size bytes. The slice
// capacity ends at the block boundary.
func (p *Pool) AllocBytes(size int) ([]byte, error) {
	h, err := p.Allocate(size)
	if err != nil {
		return nil, err
	}
	return p.Bytes(h)[:size], nil
}

// ReleaseBytes releases the block that b points into.
func (p *Pool) ReleaseBytes(b []byte) error {
	h, err := p.HandleOf(b)
	if err != nil {
		return err
	}
	return p.Release(h)
}

// HandleOf maps a slice obtained from the pool back to its handle.
// Returns ErrInvalidPointer for memory the pool does not own.
func (p *Pool) HandleOf(b []byte) (Handle, error) {
	if len(b) == 0 || len(p.arena) == 0 {
		return 0, ErrInvalidPointer
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena)))
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if addr < base || addr >= base+uintptr(len(p.arena)) {
		return 0, ErrInvalidPointer
	}
	return Handle(addr - base), nil
}

// Reset force-releases and zero-fills every block. Peak usage is kept: it is
// the high-water mark over the pool's whole lifetime.
// Handles obtained before Reset must not be used afterwards.
func (p *Pool) Reset() {
	if p.closed {
		panic("blockpool: use after Close()")
	}
	p.reset()
}

func (p *Pool) reset() {
	Clear(p.arena)
	for i := range p.inUse {
		p.inUse[i] = false
	}
	p.allocated = 0
	p.generation++
}

// Close zero-fills the arena and releases its memory. Any subsequent
// Allocate or Release fails with ErrClosed. Close is idempotent.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.reset()
	p.closed = true

	var err error
	if p.unmap != nil {
		err = p.unmap(p.arena)
	}
	p.arena = nil
	return err
}

// Config returns a copy of the effective configuration of the pool.
func (p *Pool) Config() Config {
	cfg := p.cfg
	cfg.Marker = bytes.Clone(p.cfg.Marker)
	return cfg
}

// firstFree returns the lowest-indexed free block.
func (p *Pool) firstFree() (int, bool) {
	for i, used := range p.inUse {
		if !used {
			return i, true
		}
	}
	return 0, false
}

// index returns the block number that h falls into.
func (p *Pool) index(h Handle) (int, bool) {
	if h < 0 || int(h) >= len(p.arena) {
		return 0, false
	}
	return int(h) / p.cfg.BlockSize, true
}

// block returns the full data region of block i.
func (p *Pool) block(i int) []byte {
	start := i * p.cfg.BlockSize
	return p.arena[start : start+p.cfg.BlockSize]
}
