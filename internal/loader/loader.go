// Package loader handles ROM file loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

// ErrEmptyROM is returned for ROM files without any content.
var ErrEmptyROM = errors.New("empty ROM")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the raw program image of the input file.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	rom, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", opts.Input, err)
	}
	return rom, nil
}

// LoadFromBytes returns a copy of the program image contained in the given
// data. CHIP-8 images have no header, the data is the raw program.
func (l *Loader) LoadFromBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyROM
	}
	return bytes.Clone(data), nil
}
