// Package pipeline orchestrates the emulation and disassembly workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow from ROM file to running machine.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the input ROM and either writes its disassembly listing or
// runs it. Headless runs print the final display to the writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler, writer io.Writer) error {
	system := p.detector.Detect(opts)
	if system != arch.CHIP8System {
		return fmt.Errorf("unsupported system '%s'", system)
	}

	rom, err := p.loader.Load(opts)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	return p.ExecuteWithROM(ctx, rom, opts, disasmOpts, writer)
}

// ExecuteWithROM runs the pipeline with a pre-loaded ROM image.
// This is useful for testing and programmatic usage where the ROM is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	disasmOpts options.Disassembler, writer io.Writer) error {

	p.printInfo(opts, rom)

	if opts.Disasm {
		dis := disasm.New(p.logger, rom, disasmOpts)
		if err := dis.Process(ctx, writer); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}
		return nil
	}

	machine, err := p.createMachine(rom, opts)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	if opts.Headless {
		return p.runHeadless(ctx, machine, opts, writer)
	}
	return p.runInteractive(ctx, machine, opts)
}

// createMachine creates the bus and CPU for the ROM.
func (p *Pipeline) createMachine(rom []byte, opts options.Program) (*cpu.CPU, error) {
	var busOpts []bus.Option
	if opts.Stack > 0 {
		busOpts = append(busOpts, bus.WithStackLimit(opts.Stack))
	}

	b, err := bus.New(rom, bus.DefaultFont, busOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating bus: %w", err)
	}

	return cpu.New(p.logger, b, config.CPUConfig(p.logger, opts)), nil
}

// runHeadless runs the machine without terminal and writes the final display.
func (p *Pipeline) runHeadless(ctx context.Context, machine *cpu.CPU, opts options.Program, writer io.Writer) error {
	h := host.New(p.logger, machine, nil, hostOptions(opts))
	runErr := h.RunHeadless(ctx)

	if _, err := io.WriteString(writer, machine.Display().String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("running headless: %w", runErr)
	}

	regs := machine.Registers()
	p.logger.Debug("Execution finished",
		log.Int("steps", h.Executed()),
		log.Hex("pc", regs.PC),
		log.Hex("index", regs.I))
	return nil
}

// runInteractive runs the machine in the terminal until it stops or the user quits.
func (p *Pipeline) runInteractive(ctx context.Context, machine *cpu.CPU, opts options.Program) error {
	terminal, err := host.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("opening terminal, use -headless for non-interactive runs: %w", err)
	}
	defer func() {
		if err := terminal.Close(); err != nil {
			p.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	renderer := host.NewTerminalRenderer(os.Stdout)
	keypad := host.NewKeypad(p.logger, machine.Bus(), os.Stdin, host.DefaultHoldTime)
	h := host.New(p.logger, machine, renderer, hostOptions(opts))

	if err := h.RunInteractive(ctx, keypad); err != nil && !errors.Is(err, host.ErrQuit) {
		return fmt.Errorf("running interactive: %w", err)
	}
	return nil
}

func hostOptions(opts options.Program) host.Options {
	return host.Options{
		Speed:        opts.Speed,
		Steps:        opts.Steps,
		ResetOnError: opts.ResetOnError,
	}
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing Chip-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
	)
}
