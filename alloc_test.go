package blockpool

import (
	"errors"
	"testing"
	"unsafe"
)

type testStruct struct {
	a int64
	b int32
	c int16
	d int8
}

func TestAlloc(t *testing.T) {
	p := newTestPool(t, 64, 4)

	// Test basic allocation
	ptr, h, err := Alloc[int](p)
	if err != nil {
		t.Fatalf("Alloc[int] error: %v", err)
	}
	if *ptr != 0 {
		t.Errorf("Alloc[int] value = %d, want 0 (zeroed)", *ptr)
	}

	// Test struct allocation
	s, _, err := Alloc[testStruct](p)
	if err != nil {
		t.Fatalf("Alloc[testStruct] error: %v", err)
	}
	if s.a != 0 || s.b != 0 || s.c != 0 || s.d != 0 {
		t.Errorf("Alloc[testStruct] not properly zeroed: %+v", *s)
	}

	// Verify we can write to allocated memory
	*ptr = 42
	s.a = 100
	if *ptr != 42 || s.a != 100 {
		t.Error("Could not write to allocated memory")
	}

	// The value lives in the block its handle names
	if uintptr(unsafe.Pointer(ptr)) != uintptr(unsafe.Pointer(&p.Bytes(h)[0])) {
		t.Error("Alloc[int] pointer does not match its block")
	}
	if p.InUse() != 2 {
		t.Errorf("InUse = %d, want 2", p.InUse())
	}
}

func TestAlloc_TooLarge(t *testing.T) {
	p := newTestPool(t, 16, 2)

	_, _, err := Alloc[[32]byte](p)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Alloc[[32]byte] error = %v, want ErrInvalidSize", err)
	}
	if p.InUse() != 0 {
		t.Errorf("InUse after failed Alloc = %d, want 0", p.InUse())
	}
}

func TestAlloc_ZeroSizeType(t *testing.T) {
	p := newTestPool(t, 16, 2)

	ptr, h, err := Alloc[struct{}](p)
	if err != nil || ptr == nil {
		t.Fatalf("Alloc[struct{}] = %v, %v", ptr, err)
	}
	if err := p.Release(h); err != nil {
		t.Errorf("Release: %v", err)
	}
}

func TestAllocSlice(t *testing.T) {
	p := newTestPool(t, 64, 2)

	tests := []struct {
		name    string
		n       int
		wantErr error
	}{
		{"fits", 4, nil},
		{"exact block", 16, nil},
		{"zero", 0, ErrInvalidSize},
		{"negative", -3, ErrInvalidSize},
		{"too many", 17, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h, err := AllocSlice[int32](p, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AllocSlice[int32](%d) error = %v, want %v", tt.n, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(s) != tt.n {
				t.Errorf("len = %d, want %d", len(s), tt.n)
			}
			for i, v := range s {
				if v != 0 {
					t.Errorf("s[%d] = %d, want 0", i, v)
				}
			}
			if err := p.Release(h); err != nil {
				t.Errorf("Release: %v", err)
			}
		})
	}
}

func TestAlloc_Misaligned(t *testing.T) {
	// 12-byte blocks put block 1 on a 4-byte boundary.
	if unsafe.Alignof(int64(0)) < 8 {
		t.Skip("int64 is 4-byte aligned on this platform")
	}
	p := newTestPool(t, 12, 2)

	if _, _, err := Alloc[int32](p); err != nil {
		t.Fatalf("first Alloc[int32]: %v", err)
	}
	_, _, err := Alloc[int64](p)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Alloc[int64] on 12-byte block error = %v, want ErrInvalidSize", err)
	}
	if p.InUse() != 1 {
		t.Errorf("misaligned block was allocated: InUse = %d, want 1", p.InUse())
	}
	if p.Peak() != 1 {
		t.Errorf("failed Alloc moved peak: Peak = %d, want 1", p.Peak())
	}
}
