package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/blockpool"
)

func TestRun_Defaults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(nil, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "blocks:              32 x 64 bytes")
	assert.Contains(t, out, "marker:              efbeadde (4 bytes)")
	assert.Contains(t, out, "max guarded payload: 56 bytes")
}

func TestRun_JSONFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block_size: 32\nnum_blocks: 4\non_corruption: panic\n"), 0o600))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--config", path, "--json", "--probe", "-v"}, &stdout, &stderr))

	var geometry blockpool.Geometry
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &geometry))
	assert.Equal(t, 128, geometry.ArenaBytes)
	assert.Equal(t, 24, geometry.MaxGuardedPayload)
	assert.Equal(t, "panic", geometry.OnCorruption)

	assert.Contains(t, stderr.String(), "pool probe passed")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"block_size": 8 /* too small */}`), 0o600))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", path}, &stdout, &stderr)
	require.ErrorIs(t, err, blockpool.ErrInvalidConfig)
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"--no-such-flag"}, &stdout, &stderr))
}
