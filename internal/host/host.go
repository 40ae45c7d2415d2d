// Package host drives a CHIP-8 machine in real time: it executes
// instructions at the configured speed, ticks the timers at 60 Hz, renders
// the display and feeds keypad input into the bus.
package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// ErrQuit is returned when the user requested to quit the emulation.
var ErrQuit = errors.New("quit requested")

// Machine is the emulated system driven by the host.
type Machine interface {
	Step() (cpu.Result, error)
	Tick()
	Reset()
	Display() *display.Display
}

// Renderer outputs a frame of the display.
type Renderer interface {
	Render(frame display.Frame) error
}

// Options controls the emulation loop.
type Options struct {
	Speed        int  // instructions per second
	Steps        int  // instructions to execute before stopping, 0 for no limit
	ResetOnError bool // reset the machine instead of stopping on step errors
}

// Host runs a machine.
type Host struct {
	logger   *log.Logger
	machine  Machine
	renderer Renderer
	opts     Options

	stepsPerFrame int
	executed      int
	renderedFrame uint64
}

// New returns a new host for the machine. The renderer is optional.
func New(logger *log.Logger, machine Machine, renderer Renderer, opts Options) *Host {
	return &Host{
		logger:        logger,
		machine:       machine,
		renderer:      renderer,
		opts:          opts,
		stepsPerFrame: max(1, opts.Speed/timer.Frequency),
		renderedFrame: math.MaxUint64, // forces rendering of the first frame
	}
}

// Run executes the machine paced in real time until the step limit is
// reached, a step fails or the context is cancelled.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / timer.Frequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			done, err := h.frame()
			if err != nil || done {
				return err
			}
		}
	}
}

// RunHeadless executes the machine as fast as possible. The timers are
// ticked after every frame worth of instructions so that programs observe
// the same timing as in Run.
func (h *Host) RunHeadless(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := h.frame()
		if err != nil || done {
			return err
		}
	}
}

// RunInteractive runs the machine in real time together with the keypad
// reader. It stops as soon as one of them stops.
func (h *Host) RunInteractive(ctx context.Context, keypad *Keypad) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return h.Run(ctx)
	})
	g.Go(func() error {
		return keypad.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("running machine: %w", err)
	}
	return nil
}

// Executed returns the number of executed instructions.
func (h *Host) Executed() int {
	return h.executed
}

// frame executes one frame worth of instructions, ticks the timers and
// renders the display if it changed. It returns whether the step limit
// was reached.
func (h *Host) frame() (bool, error) {
	for range h.stepsPerFrame {
		done, err := h.step()
		if err != nil || done {
			return done, err
		}
	}

	h.machine.Tick()
	if err := h.render(); err != nil {
		return false, err
	}
	return false, nil
}

func (h *Host) step() (bool, error) {
	_, err := h.machine.Step()
	h.executed++

	if err != nil {
		if !h.opts.ResetOnError {
			return false, fmt.Errorf("executing step %d: %w", h.executed, err)
		}
		h.logger.Warn("Resetting machine after error", log.Err(err))
		h.machine.Reset()
	}

	return h.opts.Steps > 0 && h.executed >= h.opts.Steps, nil
}

func (h *Host) render() error {
	if h.renderer == nil {
		return nil
	}

	d := h.machine.Display()
	version := d.Version()
	if version == h.renderedFrame {
		return nil
	}
	h.renderedFrame = version

	if err := h.renderer.Render(d.Frame()); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}
