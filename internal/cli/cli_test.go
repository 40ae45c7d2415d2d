package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Disassembler
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.ch8"},
			want: options.Disassembler{HexComments: true, OffsetComments: true},
		},
		{
			name: "nohexcomments flag",
			args: []string{"prog", "-nohexcomments", "test.ch8"},
			want: options.Disassembler{OffsetComments: true},
		},
		{
			name: "nooffsets flag",
			args: []string{"prog", "-nooffsets", "test.ch8"},
			want: options.Disassembler{HexComments: true},
		},
		{
			name: "z flag",
			args: []string{"prog", "-z", "test.ch8"},
			want: options.Disassembler{HexComments: true, OffsetComments: true, ZeroBytes: true},
		},
		{
			name: "all disasm flags",
			args: []string{"prog", "-nohexcomments", "-nooffsets", "-z", "test.ch8"},
			want: options.Disassembler{ZeroBytes: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want.HexComments, got.HexComments)
			assert.Equal(t, tt.want.OffsetComments, got.OffsetComments)
			assert.Equal(t, tt.want.ZeroBytes, got.ZeroBytes)
		})
	}
}

func TestParseFlags_Program(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-speed", "1000", "-steps", "50", "-stack", "32",
		"-strict", "-shift-vy", "-headless", "pong.ch8"}

	opts, _, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.Input)
	assert.Equal(t, 1000, opts.Speed)
	assert.Equal(t, 50, opts.Steps)
	assert.Equal(t, 32, opts.Stack)
	assert.True(t, opts.Strict)
	assert.True(t, opts.ShiftVY)
	assert.True(t, opts.Headless)
	assert.False(t, opts.Disasm)
}

func TestParseFlags_Defaults(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-i", "game.ch8"}

	opts, _, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", opts.Input)
	assert.Equal(t, options.DefaultSpeed, opts.Speed)
	assert.Equal(t, options.DefaultStack, opts.Stack)
	assert.Equal(t, 0, opts.Steps)
}

func TestParseFlags_MissingInput(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-debug"}

	_, _, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseArgs_Errors(t *testing.T) {
	_, _, err := parseArgs([]string{"-h"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	_, _, err = parseArgs([]string{"-unknown", "game.ch8"})
	assert.Error(t, err)
	assert.False(t, errors.As(err, &usageErr))

	_, _, err = parseArgs([]string{"-speed", "0", "game.ch8"})
	assert.ErrorContains(t, err, "invalid speed 0")
}

func TestParseArgs_EmptyArgumentAfterROM(t *testing.T) {
	opts, _, err := parseArgs([]string{"game.ch8", ""})
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", opts.Input)
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"game.ch8"}))
	assert.NoError(t, validateArgs([]string{"game.ch8", ""}))

	err := validateArgs([]string{"game.ch8", "-debug"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.ErrorContains(t, err, "-debug")
}

func TestValidateOptions(t *testing.T) {
	valid := options.Flags{Speed: options.DefaultSpeed, Stack: options.DefaultStack}

	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name: "defaults",
			opts: options.Program{Flags: valid},
		},
		{
			name: "zero speed",
			opts: options.Program{
				Flags: options.Flags{Speed: 0, Stack: options.DefaultStack},
			},
			expectError: true,
		},
		{
			name: "negative steps",
			opts: options.Program{
				Flags: options.Flags{Speed: options.DefaultSpeed, Steps: -1, Stack: options.DefaultStack},
			},
			expectError: true,
		},
		{
			name: "zero stack",
			opts: options.Program{
				Flags: options.Flags{Speed: options.DefaultSpeed},
			},
			expectError: true,
		},
		{
			name: "output without disasm",
			opts: options.Program{
				Parameters: options.Parameters{Output: "game.asm"},
				Flags:      valid,
			},
			expectError: true,
		},
		{
			name: "output with disasm",
			opts: options.Program{
				Parameters: options.Parameters{Output: "game.asm"},
				Flags:      options.Flags{Speed: options.DefaultSpeed, Stack: options.DefaultStack, Disasm: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
