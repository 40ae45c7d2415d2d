package decoder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeOpcode_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		kind   Kind
	}{
		{"clear display", 0x00E0, KindClearDisplay},
		{"return", 0x00EE, KindReturn},
		{"machine code routine", 0x0123, KindUnknown},
		{"zero word", 0x0000, KindUnknown},
		{"jump", 0x1234, KindJump},
		{"call", 0x2345, KindCall},
		{"skip equal immediate", 0x3A12, KindSkipEqualImmediate},
		{"skip not equal immediate", 0x4A12, KindSkipNotEqualImmediate},
		{"skip registers equal", 0x5AB0, KindSkipRegistersEqual},
		{"skip registers equal bad nibble", 0x5AB1, KindUnknown},
		{"load immediate", 0x6A12, KindLoadImmediate},
		{"add immediate", 0x7A12, KindAddImmediate},
		{"assign", 0x8AB0, KindAssign},
		{"or", 0x8AB1, KindOr},
		{"and", 0x8AB2, KindAnd},
		{"xor", 0x8AB3, KindXor},
		{"add", 0x8AB4, KindAdd},
		{"sub", 0x8AB5, KindSub},
		{"shift right", 0x8AB6, KindShiftRight},
		{"sub reverse", 0x8AB7, KindSubReverse},
		{"shift left", 0x8ABE, KindShiftLeft},
		{"alu unknown", 0x8AB8, KindUnknown},
		{"skip registers not equal", 0x9AB0, KindSkipRegistersNotEqual},
		{"skip registers not equal bad nibble", 0x9ABF, KindUnknown},
		{"load index", 0xA123, KindLoadIndex},
		{"jump plus v0", 0xB123, KindJumpPlusV0},
		{"random", 0xCA0F, KindLoadRandomMasked},
		{"draw", 0xDAB5, KindDrawSprite},
		{"skip key pressed", 0xEA9E, KindSkipKeyPressed},
		{"skip key not pressed", 0xEAA1, KindSkipKeyNotPressed},
		{"key unknown", 0xEA00, KindUnknown},
		{"get delay", 0xFA07, KindGetDelay},
		{"wait for key", 0xFA0A, KindWaitForKey},
		{"set delay", 0xFA15, KindSetDelay},
		{"set sound", 0xFA18, KindSetSound},
		{"add to index", 0xFA1E, KindAddToIndex},
		{"font address", 0xFA29, KindLoadFontAddress},
		{"bcd", 0xFA33, KindStoreBCD},
		{"save registers", 0xFA55, KindSaveRegisters},
		{"load registers", 0xFA65, KindLoadRegisters},
		{"misc unknown", 0xFFFF, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := DecodeOpcode(tt.opcode)
			assert.Equal(t, tt.kind, ins.Kind)
			assert.Equal(t, tt.opcode, ins.Opcode)
		})
	}
}

func TestDecodeOpcode_Operands(t *testing.T) {
	ins := DecodeOpcode(0xD7A5)
	assert.Equal(t, uint8(0x7), ins.X)
	assert.Equal(t, uint8(0xA), ins.Y)
	assert.Equal(t, uint8(0x5), ins.Nibble)

	ins = DecodeOpcode(0x3CFE)
	assert.Equal(t, uint8(0xC), ins.X)
	assert.Equal(t, uint8(0xFE), ins.Immediate)

	ins = DecodeOpcode(0xAFED)
	assert.Equal(t, uint16(0xFED), ins.Address)
}

func TestDecode(t *testing.T) {
	mem := newMockMemory(0x1000)
	mem.data[0x200] = 0x12
	mem.data[0x201] = 0x34

	ins, pc, err := Decode(mem, 0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), pc)
	assert.Equal(t, uint16(0x1234), ins.Opcode)
	assert.Equal(t, KindJump, ins.Kind)
	assert.Equal(t, uint16(0x234), ins.Address)
}

func TestDecode_ReadError(t *testing.T) {
	mem := newMockMemory(0x1000)

	_, pc, err := Decode(mem, 0xFFF)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errMockOutOfRange))
	assert.Equal(t, uint16(0xFFF), pc)

	_, pc, err = Decode(mem, 0x1000)
	assert.True(t, errors.Is(err, errMockOutOfRange))
	assert.Equal(t, uint16(0x1000), pc)
}

func TestDecodeOpcode_MatchesOpcodeTable(t *testing.T) {
	for nibble, ops := range chip8.Opcodes {
		for _, op := range ops {
			ins := DecodeOpcode(op.Info.Value)
			assert.False(t, ins.IsUnknown(), fmt.Sprintf("opcode $%04X", op.Info.Value))
			assert.Equal(t, op.Instruction.Name, ins.Name())
			assert.Equal(t, uint16(nibble), ins.Opcode>>12)
		}
	}
	assert.Len(t, opcodeKinds, int(kindCount)-1)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "8XY4", KindAdd.String())
	assert.Equal(t, "FX0A", KindWaitForKey.String())
	assert.Equal(t, "????", KindUnknown.String())
	assert.Equal(t, "????", Kind(200).String())
}

func TestKind_AllPatternsDefined(t *testing.T) {
	for kind := KindUnknown; kind < kindCount; kind++ {
		assert.NotEmpty(t, kind.String())
		if kind != KindUnknown {
			assert.NotNil(t, mnemonics[kind], kind.String())
		}
	}
}
