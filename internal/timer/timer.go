// Package timer provides the CHIP-8 delay and sound countdown timers.
package timer

import "sync/atomic"

// Frequency is the rate in Hz at which a host is expected to call Tick.
const Frequency = 60

// Timer is an 8-bit counter that is decremented toward zero by an external
// clock. Instructions only read or set it. All methods are safe for
// concurrent use so a host can tick it from its own goroutine.
type Timer struct {
	value atomic.Uint32
}

// Get returns the current counter value.
func (t *Timer) Get() uint8 {
	return uint8(t.value.Load())
}

// Set sets the counter value.
func (t *Timer) Set(value uint8) {
	t.value.Store(uint32(value))
}

// Tick decrements the counter, it stays at zero once it reached it.
func (t *Timer) Tick() {
	for {
		current := t.value.Load()
		if current == 0 {
			return
		}
		if t.value.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// Active returns whether the counter is above zero. For the sound timer
// this means the buzzer is on.
func (t *Timer) Active() bool {
	return t.value.Load() > 0
}
