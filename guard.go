package blockpool

import (
	"bytes"
	"fmt"
	"sync"
)

type guardState int

const (
	guardCreated guardState = iota
	guardFreed
	guardCorrupted
)

// Guarded is a payload flanked by two sentinel markers inside one pool block:
//
//	[start marker][payload of size bytes][end marker]
//
// All positions are offsets into the pool arena. Writes that reach either
// marker are detected by CheckIntegrity and make Free refuse to reclaim the block.
type Guarded struct {
	pool  *Pool
	mu    sync.Locker // set when created through a SafePool
	gen   uint64      // pool generation at creation
	seq   uint64      // block allocation sequence at creation
	state guardState

	block       Handle
	startMarker int
	payload     int
	size        int
	endMarker   int
}

// NewGuarded allocates a block able to hold size bytes plus both markers and
// writes the sentinel on either side of the payload. Pool errors are returned
// unchanged.
func NewGuarded(p *Pool, size int) (*Guarded, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	w := len(p.cfg.Marker)
	h, err := p.Allocate(size + 2*w)
	if err != nil {
		return nil, err
	}

	g := &Guarded{
		pool:        p,
		gen:         p.generation,
		seq:         p.seq[int(h)/p.cfg.BlockSize],
		block:       h,
		startMarker: int(h),
		payload:     int(h) + w,
		size:        size,
		endMarker:   int(h) + w + size,
	}
	copy(p.arena[g.startMarker:g.payload], p.cfg.Marker)
	copy(p.arena[g.endMarker:g.endMarker+w], p.cfg.Marker)
	return g, nil
}

// Bytes returns the payload. Its length is the requested size; its capacity
// runs to the end of the block, so reslicing past the length reaches the
// end marker.
func (g *Guarded) Bytes() []byte {
	if g.mu != nil {
		g.mu.Lock()
		defer g.mu.Unlock()
	}
	if g.state == guardFreed || g.stale() {
		panic("blockpool: access to freed guarded buffer")
	}
	return g.pool.Bytes(Handle(g.payload))[:g.size]
}

// Len returns the payload size.
func (g *Guarded) Len() int {
	if g == nil {
		return 0
	}
	return g.size
}

// CheckIntegrity reports whether both markers still hold the sentinel.
// A nil, freed or stale buffer is never intact.
func (g *Guarded) CheckIntegrity() bool {
	if g == nil {
		return false
	}
	if g.mu != nil {
		g.mu.Lock()
		defer g.mu.Unlock()
	}
	return g.intact()
}

func (g *Guarded) intact() bool {
	if g.size <= 0 || g.state == guardFreed || g.stale() {
		return false
	}
	marker := g.pool.cfg.Marker
	w := len(marker)
	arena := g.pool.arena
	return bytes.Equal(arena[g.startMarker:g.startMarker+w], marker) &&
		bytes.Equal(arena[g.endMarker:g.endMarker+w], marker)
}

// Free verifies both markers and releases the block. If either marker is
// damaged the block is never returned to the pool: with CorruptionLeak Free
// logs and returns ErrCorrupted, with CorruptionPanic it panics.
// Freeing a nil buffer is a no-op.
func (g *Guarded) Free() error {
	if g == nil {
		return nil
	}
	if g.mu != nil {
		g.mu.Lock()
		defer g.mu.Unlock()
	}

	switch {
	case g.state == guardFreed:
		return fmt.Errorf("%w: guarded buffer at %d", ErrDoubleFree, g.payload)
	case g.state == guardCorrupted:
		return fmt.Errorf("%w: guarded buffer at %d", ErrCorrupted, g.payload)
	case g.pool.closed:
		return ErrClosed
	case g.gen != g.pool.generation:
		return fmt.Errorf("%w: guarded buffer at %d outlived a pool reset", ErrInvalidPointer, g.payload)
	case g.stale():
		return fmt.Errorf("%w: block of guarded buffer at %d was released and reallocated", ErrInvalidPointer, g.payload)
	}

	if !g.intact() {
		g.state = guardCorrupted
		g.reportCorruption()
		return fmt.Errorf("%w: guarded buffer at %d (size %d)", ErrCorrupted, g.payload, g.size)
	}

	if err := g.pool.Release(g.block); err != nil {
		return err
	}
	g.state = guardFreed
	return nil
}

// stale reports whether the block no longer belongs to this record: the pool
// was reset or closed, or the block was released behind the record's back.
func (g *Guarded) stale() bool {
	p := g.pool
	if p.closed || g.gen != p.generation {
		return true
	}
	i := int(g.block) / p.cfg.BlockSize
	return !p.inUse[i] || p.seq[i] != g.seq
}

func (g *Guarded) reportCorruption() {
	marker := g.pool.cfg.Marker
	w := len(marker)
	arena := g.pool.arena
	startOK := bytes.Equal(arena[g.startMarker:g.startMarker+w], marker)
	endOK := bytes.Equal(arena[g.endMarker:g.endMarker+w], marker)

	g.pool.log.Error("guard corruption detected, block withheld from pool",
		"block", int(g.block)/g.pool.cfg.BlockSize,
		"size", g.size,
		"start_marker_intact", startOK,
		"end_marker_intact", endOK,
		"policy", g.pool.cfg.OnCorruption.String())

	if g.pool.cfg.OnCorruption == CorruptionPanic {
		panic(fmt.Sprintf("blockpool: guard corruption at block %d (start intact: %t, end intact: %t)",
			int(g.block)/g.pool.cfg.BlockSize, startOK, endOK))
	}
}
