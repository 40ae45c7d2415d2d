package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrogolib/log"
)

// DefaultHoldTime is the time a key stays pressed after its last input byte.
// Terminals report no key releases, key repeat keeps a held key latched.
const DefaultHoldTime = 150 * time.Millisecond

// Input bytes that end the emulation.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// keyMapping maps the QWERTY keyboard layout to the CHIP-8 hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keyMapping = map[byte]bus.Key{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyLatch receives the pressed key.
type KeyLatch interface {
	SetKey(key bus.Key) error
}

// Keypad translates terminal input into key presses of the CHIP-8 keypad.
type Keypad struct {
	logger *log.Logger
	latch  KeyLatch
	input  io.Reader
	hold   time.Duration
}

// NewKeypad returns a keypad that reads from the input and latches keys
// for the given hold time.
func NewKeypad(logger *log.Logger, latch KeyLatch, input io.Reader, hold time.Duration) *Keypad {
	return &Keypad{
		logger: logger,
		latch:  latch,
		input:  input,
		hold:   hold,
	}
}

// Run processes input until the context is cancelled or the user requests
// to quit with Escape or Ctrl+C. A latched key is released on return.
func (k *Keypad) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	input := make(chan byte)
	go k.read(input, done)

	release := time.NewTimer(k.hold)
	release.Stop()
	pressed := bus.NoKey

	setKey := func(key bus.Key) error {
		if key == pressed {
			return nil
		}
		pressed = key
		if err := k.latch.SetKey(key); err != nil {
			return fmt.Errorf("setting key: %w", err)
		}
		return nil
	}
	defer func() {
		release.Stop()
		_ = setKey(bus.NoKey)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-release.C:
			if err := setKey(bus.NoKey); err != nil {
				return err
			}

		case b, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if b == keyCtrlC || b == keyEscape {
				return ErrQuit
			}

			key, ok := mapKey(b)
			if !ok {
				continue
			}
			k.logger.Debug("Key pressed", log.Stringer("key", key))
			if err := setKey(key); err != nil {
				return err
			}
			release.Reset(k.hold)
		}
	}
}

// read forwards input bytes until the input fails or done is closed.
func (k *Keypad) read(input chan<- byte, done <-chan struct{}) {
	defer close(input)

	buf := make([]byte, 1)
	for {
		n, err := k.input.Read(buf)
		if n > 0 {
			select {
			case input <- buf[0]:
			case <-done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				k.logger.Error("Reading keypad input failed", log.Err(err))
			}
			return
		}
	}
}

// mapKey returns the CHIP-8 key of an input byte.
func mapKey(b byte) (bus.Key, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keyMapping[b]
	return key, ok
}
