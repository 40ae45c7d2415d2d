// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	retrocli "github.com/retroenv/retrogolib/cli"
)

const programName = "retrochip8"

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	return parseArgs(os.Args[1:])
}

func parseArgs(arguments []string) (options.Program, options.Disassembler, error) {
	var opts options.Program
	flags := newFlagSet(&opts)
	disasmOptions := options.NewDisassembler()

	args, err := flags.Parse(arguments)
	if err != nil {
		// the flag set already printed the usage for parse errors and help requests
		if errors.Is(err, retrocli.ErrHelpRequested) {
			return opts, options.Disassembler{}, &UsageError{msg: err.Error()}
		}
		return opts, options.Disassembler{}, err
	}
	if len(args) == 0 && opts.Input == "" {
		return opts, options.Disassembler{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	if err := validateOptions(opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	// Apply inverse logic for hex comments and offsets
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets
	disasmOptions.ZeroBytes = opts.ZeroBytes

	return opts, disasmOptions, nil
}

// newFlagSet registers the tagged option fields in usage sections.
func newFlagSet(opts *options.Program) *retrocli.FlagSet {
	flags := retrocli.NewFlagSet(programName)
	flags.AddSection("Files", &opts.Parameters)
	flags.AddSection("Options", &opts.Flags)
	flags.AddSection("Disassembly output", &opts.OutputFlags)
	return flags
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *retrocli.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.flags == nil {
		return
	}
	e.flags.ShowUsage()
	fmt.Println("The ROM file can be passed as last argument instead of using -i.")
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks the option values and combinations
func validateOptions(opts options.Program) error {
	switch {
	case opts.Speed < 1:
		return fmt.Errorf("invalid speed %d: must be at least 1 instruction per second", opts.Speed)
	case opts.Steps < 0:
		return fmt.Errorf("invalid step count %d: must not be negative", opts.Steps)
	case opts.Stack < 1:
		return fmt.Errorf("invalid stack depth %d: must be at least 1", opts.Stack)
	case opts.Output != "" && !opts.Disasm:
		return fmt.Errorf("output file %s requires the -disasm option", opts.Output)
	}
	return nil
}
