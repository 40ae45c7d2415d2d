// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CPUConfig returns the CPU configuration for the program options.
// Tracing logs every decoded instruction at debug level.
func CPUConfig(logger *log.Logger, opts options.Program) cpu.Config {
	cfg := cpu.DefaultConfig()
	cfg.StrictUnknown = opts.Strict
	cfg.ShiftUsesVY = opts.ShiftVY

	if opts.Trace {
		cfg.Tracer = func(trace cpu.Trace) {
			logger.Debug("Executing instruction",
				log.Hex("address", trace.Address),
				log.Hex("opcode", trace.Instruction.Opcode),
				log.Stringer("instruction", trace.Instruction))
		}
	}
	return cfg
}
