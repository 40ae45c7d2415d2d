// Package display provides the CHIP-8 monochrome framebuffer.
package display

import (
	"strings"
	"sync"
)

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a copy of the framebuffer, indexed as [y][x].
type Frame [Height][Width]bool

// Display is the 64x32 framebuffer. It is only mutated by Clear and
// DrawSprite. Readers like renderers may access it concurrently between
// instruction steps.
type Display struct {
	mu      sync.RWMutex
	pixels  Frame
	version uint64
}

// New returns a new cleared display.
func New() *Display {
	return &Display{}
}

// Clear unsets all pixels.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pixels = Frame{}
	d.version++
}

// DrawSprite XORs the sprite onto the display with its top left corner at
// x, y. Each sprite byte is one row of 8 pixels, most significant bit left.
// Pixels that cross an edge wrap around to the opposite side. The result
// reports whether any set pixel was unset by the draw.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	collision := false
	for row, data := range sprite {
		py := (int(y) + row) % Height
		for col := range 8 {
			if data&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % Width
			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}
	d.version++
	return collision
}

// Pixel returns whether the pixel at x, y is set. Coordinates wrap around.
func (d *Display) Pixel(x, y int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.pixels[wrap(y, Height)][wrap(x, Width)]
}

// Frame returns a copy of the current framebuffer.
func (d *Display) Frame() Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.pixels
}

// Version returns a counter that changes with every mutation of the display.
func (d *Display) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.version
}

// String renders the framebuffer as text, '#' for set and '.' for unset pixels.
func (d *Display) String() string {
	frame := d.Frame()

	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for _, row := range frame {
		for _, set := range row {
			if set {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
