package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load CHIP8 file", func(t *testing.T) {
		data := []byte{0x12, 0x34, 0x56, 0x78}
		tmpFile := createTempFile(t, data)

		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}

		rom, err := loader.Load(opts)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(data, rom))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: "/nonexistent/file.ch8"},
		}

		_, err := loader.Load(opts)
		assert.Error(t, err)
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}

		_, err := loader.Load(opts)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})
}

func TestLoadFromBytes(t *testing.T) {
	t.Run("load data without padding", func(t *testing.T) {
		data := []byte{0x00, 0xE0, 0xA2, 0x2A, 0x60, 0x0C}
		loader := New()

		rom, err := loader.LoadFromBytes(data)
		assert.NoError(t, err)
		assert.Len(t, rom, len(data))
		assert.Equal(t, byte(0xA2), rom[2])
		assert.Equal(t, byte(0x0C), rom[5])
	})

	t.Run("load data larger than a bank", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x12, 0x00}, 0x1200)
		loader := New()

		rom, err := loader.LoadFromBytes(data)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(data, rom))
	})

	t.Run("result does not alias input", func(t *testing.T) {
		data := []byte{0x12, 0x00}
		loader := New()

		rom, err := loader.LoadFromBytes(data)
		assert.NoError(t, err)
		data[0] = 0xFF
		assert.Equal(t, byte(0x12), rom[0])
	})

	t.Run("error on empty data", func(t *testing.T) {
		loader := New()

		_, err := loader.LoadFromBytes([]byte{})
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
