package blockpool

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBlockSize is the data capacity of one block in bytes.
	DefaultBlockSize = 64

	// DefaultNumBlocks is the number of blocks in a pool.
	DefaultNumBlocks = 32

	// DefaultMarkerValue is the sentinel written around guarded payloads.
	DefaultMarkerValue uint32 = 0xDEADBEEF

	// DefaultMarkerWidth is the width of DefaultMarkerValue in bytes.
	DefaultMarkerWidth = 4
)

// CorruptionPolicy selects what Guarded.Free does when a marker is damaged.
// No policy returns a corrupted block to the pool.
type CorruptionPolicy int

const (
	// CorruptionLeak logs the corruption, withholds the block and returns ErrCorrupted.
	CorruptionLeak CorruptionPolicy = iota
	// CorruptionPanic logs the corruption and panics.
	CorruptionPanic
)

func (p CorruptionPolicy) String() string {
	switch p {
	case CorruptionLeak:
		return "leak"
	case CorruptionPanic:
		return "panic"
	}
	return fmt.Sprintf("CorruptionPolicy(%d)", int(p))
}

// UnmarshalText accepts "leak" or "panic".
func (p *CorruptionPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "leak":
		*p = CorruptionLeak
	case "panic":
		*p = CorruptionPanic
	default:
		return fmt.Errorf("%w: unknown corruption policy %q", ErrInvalidConfig, text)
	}
	return nil
}

// UnmarshalYAML accepts "leak" or "panic".
func (p *CorruptionPolicy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

// MarshalYAML writes the policy name.
func (p CorruptionPolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// MarshalText writes the policy name.
func (p CorruptionPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Sentinel is the byte pattern of a guard marker. Its length is the marker width.
type Sentinel []byte

// DefaultSentinel returns DefaultMarkerValue in little-endian byte order.
func DefaultSentinel() Sentinel {
	s := make(Sentinel, DefaultMarkerWidth)
	binary.LittleEndian.PutUint32(s, DefaultMarkerValue)
	return s
}

// UnmarshalText decodes a hex string such as "efbeadde" or "0xefbeadde".
func (s *Sentinel) UnmarshalText(text []byte) error {
	digits := strings.TrimPrefix(strings.TrimSpace(string(text)), "0x")
	b, err := hex.DecodeString(digits)
	if err != nil {
		return fmt.Errorf("%w: marker %q: %v", ErrInvalidConfig, text, err)
	}
	*s = b
	return nil
}

// UnmarshalYAML decodes a hex string marker.
func (s *Sentinel) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(text))
}

// MarshalText writes the marker as a hex string.
func (s Sentinel) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(s)), nil
}

// MarshalYAML writes the marker as a hex string.
func (s Sentinel) MarshalYAML() (any, error) {
	return hex.EncodeToString(s), nil
}

// Config holds the fixed parameters of a pool. Zero fields take defaults;
// negative sizes are invalid.
type Config struct {
	BlockSize    int              `yaml:"block_size" json:"block_size"`
	NumBlocks    int              `yaml:"num_blocks" json:"num_blocks"`
	Marker       Sentinel         `yaml:"marker" json:"marker"`
	OnCorruption CorruptionPolicy `yaml:"on_corruption" json:"on_corruption"`

	// Locked places the arena in mlock'd memory outside the Go heap.
	Locked bool `yaml:"locked" json:"locked"`

	// Logger receives allocator diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration of the classic 32 x 64-byte pool.
func DefaultConfig() Config {
	return Config{
		BlockSize: DefaultBlockSize,
		NumBlocks: DefaultNumBlocks,
		Marker:    DefaultSentinel(),
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.NumBlocks == 0 {
		c.NumBlocks = DefaultNumBlocks
	}
	if len(c.Marker) == 0 {
		c.Marker = DefaultSentinel()
	} else {
		c.Marker = bytes.Clone(c.Marker)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Validate reports whether c, after defaults, describes a usable pool.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.BlockSize < 0 || c.NumBlocks < 0 {
		return fmt.Errorf("%w: negative geometry (block size %d, blocks %d)",
			ErrInvalidConfig, c.BlockSize, c.NumBlocks)
	}
	if c.OnCorruption != CorruptionLeak && c.OnCorruption != CorruptionPanic {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.OnCorruption)
	}
	if 2*len(c.Marker) >= c.BlockSize {
		return fmt.Errorf("%w: guard overhead %d leaves no payload in %d-byte blocks",
			ErrInvalidConfig, 2*len(c.Marker), c.BlockSize)
	}
	if c.NumBlocks > maxInt/c.BlockSize {
		return fmt.Errorf("%w: %d blocks of %d bytes overflows the arena size",
			ErrInvalidConfig, c.NumBlocks, c.BlockSize)
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

// Geometry describes the layout derived from a Config.
type Geometry struct {
	BlockSize         int    `json:"block_size"`
	NumBlocks         int    `json:"num_blocks"`
	ArenaBytes        int    `json:"arena_bytes"`
	Marker            string `json:"marker"`
	MarkerWidth       int    `json:"marker_width"`
	GuardOverhead     int    `json:"guard_overhead"`
	MaxGuardedPayload int    `json:"max_guarded_payload"`
	OnCorruption      string `json:"on_corruption"`
	Locked            bool   `json:"locked"`
}

// Geometry returns the layout of a pool built from c.
func (c Config) Geometry() Geometry {
	c = c.withDefaults()
	w := len(c.Marker)
	return Geometry{
		BlockSize:         c.BlockSize,
		NumBlocks:         c.NumBlocks,
		ArenaBytes:        c.BlockSize * c.NumBlocks,
		Marker:            hex.EncodeToString(c.Marker),
		MarkerWidth:       w,
		GuardOverhead:     2 * w,
		MaxGuardedPayload: c.BlockSize - 2*w,
		OnCorruption:      c.OnCorruption.String(),
		Locked:            c.Locked,
	}
}

// ParseConfig decodes a config document. format is "yaml", "json" or "jsonc";
// JSON documents may carry comments and trailing commas.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parsing pool config: %w", err)
		}
	case "json", "jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parsing pool config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown config format %q", ErrInvalidConfig, format)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a config file, choosing the format from its extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
