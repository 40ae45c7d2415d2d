package bus

import "fmt"

// Key is a CHIP-8 keypad code in the range 0x0-0xF.
type Key uint8

// NoKey is the latch value when no key is pressed.
const NoKey Key = 0xFF

// KeyCount is the number of keys on the CHIP-8 hex keypad.
const KeyCount = 16

// Valid returns whether the key is a keypad code.
func (k Key) Valid() bool {
	return k < KeyCount
}

// String returns the hex digit of the key or "none".
func (k Key) String() string {
	if !k.Valid() {
		return "none"
	}
	return fmt.Sprintf("%X", uint8(k))
}

// CurrentKey returns the latched key or NoKey.
// It is safe to call from any goroutine.
func (b *Bus) CurrentKey() Key {
	return Key(b.key.Load())
}

// SetKey latches a key code, NoKey releases the latch.
// It is safe to call from any goroutine between steps.
func (b *Bus) SetKey(key Key) error {
	if key != NoKey && !key.Valid() {
		return fmt.Errorf("latching key $%02X: %w", uint8(key), ErrInvalidKey)
	}
	b.key.Store(uint32(key))
	return nil
}
