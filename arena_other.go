//go:build !linux

package blockpool

func lockedArena(int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrLockedUnsupported
}
