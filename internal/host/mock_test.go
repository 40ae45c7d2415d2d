package host

import (
	"errors"
	"sync"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/display"
)

var errMockStep = errors.New("mock step failure")

// mockMachine counts the calls of the host.
type mockMachine struct {
	display *display.Display
	failAt  int    // step that fails, 0 for none
	onStep  func() // called for every step if set

	steps  int
	ticks  int
	resets int
}

func newMockMachine() *mockMachine {
	return &mockMachine{
		display: display.New(),
	}
}

func (m *mockMachine) Step() (cpu.Result, error) {
	m.steps++
	if m.onStep != nil {
		m.onStep()
	}
	if m.steps == m.failAt {
		return cpu.Result{}, errMockStep
	}
	return cpu.Result{}, nil
}

func (m *mockMachine) Tick() {
	m.ticks++
}

func (m *mockMachine) Reset() {
	m.resets++
}

func (m *mockMachine) Display() *display.Display {
	return m.display
}

type mockRenderer struct {
	frames []display.Frame
}

func (m *mockRenderer) Render(frame display.Frame) error {
	m.frames = append(m.frames, frame)
	return nil
}

// mockLatch records all latched keys and optionally forwards them.
type mockLatch struct {
	mu     sync.Mutex
	keys   []bus.Key
	notify chan bus.Key
}

func (m *mockLatch) SetKey(key bus.Key) error {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()

	if m.notify != nil {
		m.notify <- key
	}
	return nil
}

func (m *mockLatch) latched() []bus.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bus.Key(nil), m.keys...)
}
