package blockpool

import "errors"

var (
	// ErrInvalidSize indicates a zero size or a size larger than one block.
	ErrInvalidSize = errors.New("blockpool: invalid allocation size")

	// ErrExhausted indicates that every block in the pool is in use.
	ErrExhausted = errors.New("blockpool: pool exhausted")

	// ErrInvalidPointer indicates a handle or slice outside any block the pool manages.
	ErrInvalidPointer = errors.New("blockpool: pointer not owned by pool")

	// ErrDoubleFree indicates a release of a block that is already free.
	ErrDoubleFree = errors.New("blockpool: double free")

	// ErrCorrupted indicates a guard marker mismatch. The block is not reclaimed.
	ErrCorrupted = errors.New("blockpool: guard marker corrupted")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("blockpool: pool closed")

	// ErrInvalidConfig indicates a config that cannot describe a usable pool.
	ErrInvalidConfig = errors.New("blockpool: invalid config")

	// ErrLockedUnsupported is returned for Config.Locked on platforms without mlock support.
	ErrLockedUnsupported = errors.New("blockpool: locked arena not supported on this platform")

	// ErrInvalidArgs is the error form of StatusInvalidArgs.
	ErrInvalidArgs = errors.New("blockpool: invalid string arguments")

	// ErrTruncated is the error form of StatusTruncated.
	ErrTruncated = errors.New("blockpool: string truncated")

	// ErrFormat is the error form of StatusFormatError.
	ErrFormat = errors.New("blockpool: format error")
)
