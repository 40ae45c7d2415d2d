package decoder

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded CHIP-8 instruction. Only the operand fields that
// belong to the instruction's kind are meaningful.
type Instruction struct {
	Opcode uint16
	Kind   Kind

	X         uint8  // register index from the second nibble
	Y         uint8  // register index from the third nibble
	Address   uint16 // 12-bit address NNN
	Immediate uint8  // 8-bit immediate NN
	Nibble    uint8  // 4-bit count N
}

// mnemonics maps every kind to the retrogolib instruction definition that
// carries its assembler mnemonic.
var mnemonics = buildMnemonics()

func buildMnemonics() [kindCount]*chip8.Instruction {
	var defs [kindCount]*chip8.Instruction
	for _, ops := range chip8.Opcodes {
		for _, op := range ops {
			if kind, ok := opcodeKinds[op.Info]; ok {
				defs[kind] = op.Instruction
			}
		}
	}
	return defs
}

// definition returns the retrogolib instruction of the kind or nil.
func (i Instruction) definition() *chip8.Instruction {
	if i.Kind >= kindCount {
		return nil
	}
	return mnemonics[i.Kind]
}

// IsUnknown returns true if the opcode matched no instruction form.
func (i Instruction) IsUnknown() bool {
	return i.definition() == nil
}

// Name returns the instruction mnemonic, or an empty string for unknown opcodes.
func (i Instruction) Name() string {
	ins := i.definition()
	if ins == nil {
		return ""
	}
	return ins.Name
}

// IsJump returns true if the instruction is an unconditional jump.
func (i Instruction) IsJump() bool {
	return i.definition() == chip8.JpInst
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.definition() == chip8.CallInst
}

// IsReturn returns true if the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool {
	return i.definition() == chip8.RetInst
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	ins := i.definition()
	if ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(ins.Name)
}

// IsDataReference returns true if the instruction loads an address into I.
func (i Instruction) IsDataReference() bool {
	return i.Kind == KindLoadIndex
}

// String returns the instruction in assembler syntax, for example "se V2, $34".
// Unknown opcodes are returned as a data word.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		return fmt.Sprintf(".word $%04X", i.Opcode)
	}
	if params := i.Operands(); params != "" {
		return name + " " + params
	}
	return name
}

// Operands returns the formatted operand list of the instruction.
func (i Instruction) Operands() string {
	switch i.Kind {
	case KindJump, KindCall:
		return fmt.Sprintf("$%03X", i.Address)
	case KindJumpPlusV0:
		return fmt.Sprintf("V0, $%03X", i.Address)
	case KindLoadIndex:
		return fmt.Sprintf("I, $%03X", i.Address)

	case KindSkipEqualImmediate, KindSkipNotEqualImmediate, KindLoadImmediate,
		KindAddImmediate, KindLoadRandomMasked:
		return fmt.Sprintf("V%X, $%02X", i.X, i.Immediate)

	case KindSkipRegistersEqual, KindSkipRegistersNotEqual, KindAssign, KindOr,
		KindAnd, KindXor, KindAdd, KindSub, KindSubReverse:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)

	case KindShiftRight, KindShiftLeft, KindSkipKeyPressed, KindSkipKeyNotPressed:
		return fmt.Sprintf("V%X", i.X)

	case KindDrawSprite:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.Nibble)

	case KindGetDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case KindWaitForKey:
		return fmt.Sprintf("V%X, K", i.X)
	case KindSetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case KindSetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case KindAddToIndex:
		return fmt.Sprintf("I, V%X", i.X)
	case KindLoadFontAddress:
		return fmt.Sprintf("F, V%X", i.X)
	case KindStoreBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case KindSaveRegisters:
		return fmt.Sprintf("[I], V%X", i.X)
	case KindLoadRegisters:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return ""
}
