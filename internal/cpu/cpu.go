// Package cpu implements the CHIP-8 interpreter: it fetches and decodes the
// instruction at the program counter and applies its effect to the
// registers, timers, display and bus.
package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnknownInstruction is returned for opcodes without a recognized form
// when the CPU is configured to treat them as fatal.
var ErrUnknownInstruction = errors.New("unknown instruction")

// FlagRegister is the index of VF, the carry, borrow and collision flag.
const FlagRegister = 0xF

// Registers contains the CHIP-8 register file.
type Registers struct {
	V  [16]byte // general purpose registers V0-VF
	I  uint16   // index register
	PC uint16   // program counter
}

// Trace is the diagnostic record of a single step.
type Trace struct {
	Address     uint16
	Instruction decoder.Instruction
}

// Config controls the behavior of the CPU.
type Config struct {
	// StrictUnknown makes unknown opcodes fatal instead of skipping them.
	StrictUnknown bool
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX like the original
	// COSMAC VIP interpreter, instead of shifting VX in place.
	ShiftUsesVY bool
	// Random returns the random byte used by CXNN.
	Random func() byte
	// Tracer is called for every decoded instruction if set.
	Tracer func(Trace)
}

// DefaultConfig returns the default CPU configuration.
func DefaultConfig() Config {
	return Config{
		Random: func() byte {
			return byte(rand.IntN(256))
		},
	}
}

// Result is the outcome of a single step.
type Result struct {
	Address     uint16              // address of the executed instruction
	Instruction decoder.Instruction // decoded instruction
	Waiting     bool                // wait-for-key is still waiting, the counter did not advance
	Unknown     bool                // the opcode was unknown and skipped
}

// CPU is the CHIP-8 execute engine. It exclusively owns the registers,
// timers and display and shares the bus with the host.
type CPU struct {
	logger *log.Logger
	bus    *bus.Bus
	cfg    Config

	regs    Registers
	delay   timer.Timer
	sound   timer.Timer
	display *display.Display

	waitArmed bool // wait-for-key has seen the latch without a key
}

// New returns a new CPU in power-on state that executes the program
// loaded into the given bus.
func New(logger *log.Logger, b *bus.Bus, cfg Config) *CPU {
	if cfg.Random == nil {
		cfg.Random = DefaultConfig().Random
	}

	c := &CPU{
		logger:  logger,
		bus:     b,
		cfg:     cfg,
		display: display.New(),
	}
	c.regs.PC = bus.ProgramStart
	return c
}

// Step fetches, decodes and executes one instruction. An error is returned
// for fatal conditions; in that case no state besides the program counter
// advance of the fetch was modified.
func (c *CPU) Step() (Result, error) {
	address := c.regs.PC
	ins, next, err := decoder.Decode(c.bus, address)
	if err != nil {
		return Result{Address: address}, fmt.Errorf("decoding instruction: %w", err)
	}
	c.regs.PC = next

	if c.cfg.Tracer != nil {
		c.cfg.Tracer(Trace{Address: address, Instruction: ins})
	}

	result := Result{
		Address:     address,
		Instruction: ins,
	}
	if err := c.execute(ins, &result); err != nil {
		return result, fmt.Errorf("executing '%s' at $%04X: %w", ins, address, err)
	}
	return result, nil
}

// Tick decrements the delay and sound timers. It is expected to be called
// by the host at 60 Hz, independently of Step.
func (c *CPU) Tick() {
	c.delay.Tick()
	c.sound.Tick()
}

// Reset restores the power-on state of the machine including the bus.
func (c *CPU) Reset() {
	c.bus.Reset()
	c.regs = Registers{PC: bus.ProgramStart}
	c.waitArmed = false
	c.delay.Set(0)
	c.sound.Set(0)
	c.display.Clear()
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() Registers {
	return c.regs
}

// Display returns the framebuffer.
func (c *CPU) Display() *display.Display {
	return c.display
}

// DelayTimer returns the delay timer.
func (c *CPU) DelayTimer() *timer.Timer {
	return &c.delay
}

// SoundTimer returns the sound timer.
func (c *CPU) SoundTimer() *timer.Timer {
	return &c.sound
}

// Bus returns the bus the CPU executes from.
func (c *CPU) Bus() *bus.Bus {
	return c.bus
}
