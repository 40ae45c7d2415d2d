// Package bus provides the CHIP-8 memory bus: the 4KB address space,
// the call stack of return addresses and the input latch.
package bus

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Font sprites (16 glyphs, 5 bytes each)
//	0x050-0x1FF: Reserved interpreter area
//	0x200-0xFFF: User program space (3584 bytes)
const (
	// MemorySize is the size of the CHIP-8 address space in bytes.
	MemorySize = 0x1000

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = MemorySize - 1

	// FontStart is the address of the first font glyph.
	FontStart = 0x000

	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits between ProgramStart and MaxAddress.
	MaxROMSize = MemorySize - ProgramStart

	// DefaultStackLimit is the call depth of the common CHIP-8 interpreters.
	DefaultStackLimit = 16
)

var (
	// ErrAddressOutOfRange is returned for accesses outside of 0x000-0xFFF.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrStackUnderflow is returned when popping from an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrStackOverflow is returned when the call depth exceeds the stack limit.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrInvalidKey is returned when latching a key code outside of 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key")
	// ErrROMTooLarge is returned when a ROM does not fit into program memory.
	ErrROMTooLarge = errors.New("rom too large")
)

// Bus owns the memory and the call stack of a CHIP-8 machine.
type Bus struct {
	memory   [MemorySize]byte
	pristine [MemorySize]byte // memory image after loading, used by Reset

	stack      []uint16
	stackLimit int

	key atomic.Uint32
}

// Option configures a Bus.
type Option func(*Bus)

// WithStackLimit sets the maximum call depth. Values below 1 are ignored.
func WithStackLimit(limit int) Option {
	return func(b *Bus) {
		if limit > 0 {
			b.stackLimit = limit
		}
	}
}

// New returns a new bus with the font loaded at FontStart and the ROM
// loaded at ProgramStart.
func New(rom, font []byte, opts ...Option) (*Bus, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	if len(font) > ProgramStart-FontStart {
		return nil, fmt.Errorf("font of %d bytes overlaps program memory: %w", len(font), ErrAddressOutOfRange)
	}

	b := &Bus{
		stackLimit: DefaultStackLimit,
	}
	for _, opt := range opts {
		opt(b)
	}

	copy(b.pristine[FontStart:], font)
	copy(b.pristine[ProgramStart:], rom)
	b.Reset()
	return b, nil
}

// Reset restores the memory image that was loaded at construction,
// empties the call stack and releases the input latch.
func (b *Bus) Reset() {
	b.memory = b.pristine
	b.stack = make([]uint16, 0, b.stackLimit)
	b.key.Store(uint32(NoKey))
}

// Read returns the byte at the given address.
func (b *Bus) Read(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("reading address $%04X: %w", address, ErrAddressOutOfRange)
	}
	return b.memory[address], nil
}

// ReadRange returns a copy of n bytes starting at the given address.
// If any byte of the range is outside of memory nothing is read.
func (b *Bus) ReadRange(address uint16, n int) ([]byte, error) {
	end := int(address) + n
	if n < 0 || end > MemorySize {
		return nil, fmt.Errorf("reading %d bytes at $%04X: %w", n, address, ErrAddressOutOfRange)
	}
	data := make([]byte, n)
	copy(data, b.memory[address:end])
	return data, nil
}

// Write sets the byte at the given address.
func (b *Bus) Write(address uint16, value byte) error {
	if address > MaxAddress {
		return fmt.Errorf("writing address $%04X: %w", address, ErrAddressOutOfRange)
	}
	b.memory[address] = value
	return nil
}

// Push pushes a return address on the call stack.
func (b *Bus) Push(address uint16) error {
	if len(b.stack) >= b.stackLimit {
		return fmt.Errorf("pushing $%04X at depth %d: %w", address, len(b.stack), ErrStackOverflow)
	}
	b.stack = append(b.stack, address)
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (b *Bus) Pop() (uint16, error) {
	if len(b.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	last := len(b.stack) - 1
	address := b.stack[last]
	b.stack = b.stack[:last]
	return address, nil
}

// StackDepth returns the number of pending return addresses.
func (b *Bus) StackDepth() int {
	return len(b.stack)
}

// StackLimit returns the configured maximum call depth.
func (b *Bus) StackLimit() int {
	return b.stackLimit
}
