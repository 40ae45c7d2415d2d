// Package options contains the program options.
package options

// Defaults of the emulation options, they have to match the default tags
// of the flag fields.
const (
	DefaultSpeed = 700 // instructions per second
	DefaultStack = 16  // return address stack depth
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"name of the input ROM file"`
	Output string `flag:"o" usage:"name of the output .asm file of -disasm, printed on console if no name given"`
}

// Flags contains behavior options.
type Flags struct {
	System       string `flag:"s" usage:"system of the ROM (chip8) - if not auto-detected from file extension"`
	Disasm       bool   `flag:"disasm" usage:"write a disassembly listing of the ROM instead of running it"`
	Headless     bool   `flag:"headless" usage:"run without terminal keypad and display, print the final display on exit"`
	Speed        int    `flag:"speed" usage:"number of instructions to execute per second" default:"700"`
	Steps        int    `flag:"steps" usage:"stop after executing the given number of instructions, 0 runs until interrupted"`
	Stack        int    `flag:"stack" usage:"maximum depth of the subroutine return address stack" default:"16"`
	Strict       bool   `flag:"strict" usage:"stop on unknown opcodes instead of skipping them"`
	ShiftVY      bool   `flag:"shift-vy" usage:"shift instructions shift VY into VX like the COSMAC VIP interpreter"`
	ResetOnError bool   `flag:"reset-on-error" usage:"reset the machine instead of stopping when an instruction fails"`
	Trace        bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug        bool   `flag:"debug" usage:"enable debugging options for extended logging"`
	Quiet        bool   `flag:"q" usage:"perform operations quietly"`
}

// OutputFlags contains disassembly output formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"do not output opcode bytes as hex values in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"do not output addresses in comments"`
	ZeroBytes     bool `flag:"z" usage:"output the trailing zero bytes of the ROM"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	HexComments    bool
	OffsetComments bool
	ZeroBytes      bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}
