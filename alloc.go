package blockpool

import (
	"fmt"
	"unsafe"
)

// Alloc places a zeroed T at the start of a free block and returns a pointer
// to it together with the block's handle. T must fit in one block and must not
// contain Go pointers: the garbage collector does not scan pool memory.
func Alloc[T any](p *Pool) (*T, Handle, error) {
	var zero T
	b, h, err := typedBlock(p, int(unsafe.Sizeof(zero)), unsafe.Alignof(zero))
	if err != nil {
		return nil, 0, err
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), h, nil
}

// AllocSlice places n zeroed elements of T in a single block.
// Returns ErrInvalidSize if n <= 0 or the elements do not fit.
func AllocSlice[T any](p *Pool, n int) ([]T, Handle, error) {
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize > 0 && n > p.cfg.BlockSize/elemSize {
		return nil, 0, fmt.Errorf("%w: %d x %d bytes (block size %d)", ErrInvalidSize, n, elemSize, p.cfg.BlockSize)
	}
	b, h, err := typedBlock(p, elemSize*n, unsafe.Alignof(zero))
	if err != nil {
		return nil, 0, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), h, nil
}

// typedBlock allocates a block for a value of the given size and alignment.
// Zero-size types still occupy one block so that every value has a handle.
// Alignment is checked on the block Allocate would pick, before allocating.
func typedBlock(p *Pool, size int, align uintptr) ([]byte, Handle, error) {
	if size == 0 {
		size = 1
	}
	if i, ok := p.firstFree(); ok && !p.closed {
		addr := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena))) + uintptr(i*p.cfg.BlockSize)
		if addr%align != 0 {
			return nil, 0, fmt.Errorf("%w: block %d is not %d-byte aligned", ErrInvalidSize, i, align)
		}
	}
	h, err := p.Allocate(size)
	if err != nil {
		return nil, 0, err
	}
	return p.Bytes(h), h, nil
}
