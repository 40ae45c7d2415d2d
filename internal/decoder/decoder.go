// Package decoder provides CHIP-8 instruction fetching and decoding.
//
// All CHIP-8 instructions are 2 bytes, stored big-endian. The top nibble
// selects the instruction group, the groups 0x0, 0x8, 0xE and 0xF are further
// distinguished by the low nibble or the low byte. Words that match no
// instruction form are decoded as KindUnknown, it is up to the executor to
// decide whether they are fatal.
package decoder

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// OpcodeSize is the size of CHIP-8 instructions in bytes.
const OpcodeSize = 2

// Reader is the memory access needed to fetch instructions.
type Reader interface {
	Read(address uint16) (byte, error)
}

// Decode fetches the instruction at pc and returns it together with the
// address of the following instruction. On a read error the returned
// counter is pc unchanged.
func Decode(r Reader, pc uint16) (Instruction, uint16, error) {
	high, err := r.Read(pc)
	if err != nil {
		return Instruction{}, pc, fmt.Errorf("fetching opcode at $%04X: %w", pc, err)
	}
	low, err := r.Read(pc + 1)
	if err != nil {
		return Instruction{}, pc, fmt.Errorf("fetching opcode at $%04X: %w", pc, err)
	}

	opcode := uint16(high)<<8 | uint16(low)
	return DecodeOpcode(opcode), pc + OpcodeSize, nil
}

// DecodeOpcode classifies a raw 16-bit instruction word.
func DecodeOpcode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode:    opcode,
		X:         extractRegisterX(opcode),
		Y:         extractRegisterY(opcode),
		Address:   opcode & 0x0FFF,
		Immediate: uint8(opcode & 0x00FF),
		Nibble:    uint8(opcode & 0x000F),
	}
	ins.Kind = classify(opcode)
	return ins
}

// opcodeKinds maps the opcode forms of the retrogolib opcode table to kinds.
var opcodeKinds = map[chip8.OpcodeInfo]Kind{
	chip8.Opcode00E0: KindClearDisplay,
	chip8.Opcode00EE: KindReturn,
	chip8.Opcode1000: KindJump,
	chip8.Opcode2000: KindCall,
	chip8.Opcode3000: KindSkipEqualImmediate,
	chip8.Opcode4000: KindSkipNotEqualImmediate,
	chip8.Opcode5000: KindSkipRegistersEqual,
	chip8.Opcode6000: KindLoadImmediate,
	chip8.Opcode7000: KindAddImmediate,
	chip8.Opcode8000: KindAssign,
	chip8.Opcode8001: KindOr,
	chip8.Opcode8002: KindAnd,
	chip8.Opcode8003: KindXor,
	chip8.Opcode8004: KindAdd,
	chip8.Opcode8005: KindSub,
	chip8.Opcode8006: KindShiftRight,
	chip8.Opcode8007: KindSubReverse,
	chip8.Opcode800E: KindShiftLeft,
	chip8.Opcode9000: KindSkipRegistersNotEqual,
	chip8.OpcodeA000: KindLoadIndex,
	chip8.OpcodeB000: KindJumpPlusV0,
	chip8.OpcodeC000: KindLoadRandomMasked,
	chip8.OpcodeD000: KindDrawSprite,
	chip8.OpcodeE09E: KindSkipKeyPressed,
	chip8.OpcodeE0A1: KindSkipKeyNotPressed,
	chip8.OpcodeF007: KindGetDelay,
	chip8.OpcodeF00A: KindWaitForKey,
	chip8.OpcodeF015: KindSetDelay,
	chip8.OpcodeF018: KindSetSound,
	chip8.OpcodeF01E: KindAddToIndex,
	chip8.OpcodeF029: KindLoadFontAddress,
	chip8.OpcodeF033: KindStoreBCD,
	chip8.OpcodeF055: KindSaveRegisters,
	chip8.OpcodeF065: KindLoadRegisters,
}

// classify finds the opcode form in the opcode table entries of the first
// nibble. 0NNN machine code routines are not part of the table and decode
// as KindUnknown.
func classify(opcode uint16) Kind {
	for _, op := range chip8.Opcodes[opcode>>12] {
		if op.Info.Mask&opcode == op.Info.Value {
			return opcodeKinds[op.Info]
		}
	}
	return KindUnknown
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}
