package blockpool

import (
	"errors"
	"fmt"
	"sync"
)

// Example demonstrates basic pool usage
func Example() {
	// Create a pool with the default 32 x 64-byte geometry
	p, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	defer p.Close() // Always clean up

	st := p.Stats()
	fmt.Printf("Initial stats: %d/%d blocks used (peak: %d)\n", st.Current, st.Capacity, st.Peak)

	// Allocate a few blocks
	h1, _ := p.Allocate(32)
	h2, _ := p.Allocate(16)
	h3, _ := p.Allocate(64)

	st = p.Stats()
	fmt.Printf("After allocation: %d/%d blocks used (peak: %d)\n", st.Current, st.Capacity, st.Peak)

	Copy(p.Bytes(h1), "Hello, Pool!")
	fmt.Printf("Written to h1: %s\n", Terminated(p.Bytes(h1)))

	p.Release(h2)
	st = p.Stats()
	fmt.Printf("After freeing h2: %d/%d blocks used (peak: %d)\n", st.Current, st.Capacity, st.Peak)

	p.Release(h1)
	p.Release(h3)
	st = p.Stats()
	fmt.Printf("After freeing all: %d/%d blocks used (peak: %d)\n", st.Current, st.Capacity, st.Peak)

	// Output:
	// Initial stats: 0/32 blocks used (peak: 0)
	// After allocation: 3/32 blocks used (peak: 3)
	// Written to h1: Hello, Pool!
	// After freeing h2: 2/32 blocks used (peak: 3)
	// After freeing all: 0/32 blocks used (peak: 3)
}

// ExampleGuarded demonstrates overflow detection at free time
func ExampleGuarded() {
	p, _ := New(DefaultConfig())
	defer p.Close()

	g, _ := NewGuarded(p, 16)
	Copy(g.Bytes(), "Test data")
	fmt.Printf("Buffer integrity: %t\n", g.CheckIntegrity())

	// Simulate an overflow by one byte
	b := g.Bytes()
	b[:len(b)+1][len(b)] = 'X'
	fmt.Printf("Buffer integrity after overflow: %t\n", g.CheckIntegrity())

	err := g.Free()
	fmt.Printf("Corrupted: %t, blocks still in use: %d\n", errors.Is(err, ErrCorrupted), p.InUse())

	// Output:
	// Buffer integrity: true
	// Buffer integrity after overflow: false
	// Corrupted: true, blocks still in use: 1
}

// ExampleCopy demonstrates bounded string operations
func ExampleCopy() {
	buf := make([]byte, 32)

	status := Copy(buf, "Hello, World!")
	fmt.Printf("copy: %v, %q\n", status, Terminated(buf))

	status = Concat(buf, " Extra text!")
	fmt.Printf("concat: %v, %q\n", status, Terminated(buf))

	status = Copy(buf[:8], "This is a very long string")
	fmt.Printf("copy: %v, %q\n", status, Terminated(buf))

	status = Format(buf, "Number: %d, Float: %.2f", 42, 3.14)
	fmt.Printf("format: %v, %q\n", status, Terminated(buf))

	// Output:
	// copy: ok, "Hello, World!"
	// concat: ok, "Hello, World! Extra text!"
	// copy: truncated, "This is"
	// format: ok, "Number: 42, Float: 3.14"
}

// ExampleEqual demonstrates secret handling
func ExampleEqual() {
	secret := []byte("secret_password")
	compare := []byte("secret_password")
	different := []byte("different_pass!")

	fmt.Printf("same: %t\n", Equal(secret, compare))
	fmt.Printf("different: %t\n", Equal(secret, different))

	Clear(secret)
	fmt.Printf("after clear: %q\n", Terminated(secret))

	// Output:
	// same: true
	// different: false
	// after clear: ""
}

// ExampleSafePool demonstrates thread-safe pool usage
func ExampleSafePool() {
	s, _ := NewSafe(Config{BlockSize: 64, NumBlocks: 8})
	defer s.Close()

	var wg sync.WaitGroup
	const numWorkers = 3

	// Launch concurrent workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			b, err := s.AllocBytes(32)
			if err != nil {
				return
			}
			Format(b, "worker %d", id)
		}(i)
	}

	wg.Wait()
	fmt.Printf("Blocks in use: %d\n", s.InUse())

	// Output:
	// Blocks in use: 3
}
