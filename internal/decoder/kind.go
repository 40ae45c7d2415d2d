package decoder

// Kind identifies the operation of a decoded instruction.
type Kind uint8

// Instruction kinds of the base CHIP-8 instruction set.
const (
	KindUnknown Kind = iota
	KindClearDisplay
	KindReturn
	KindJump
	KindCall
	KindSkipEqualImmediate
	KindSkipNotEqualImmediate
	KindSkipRegistersEqual
	KindLoadImmediate
	KindAddImmediate
	KindAssign
	KindOr
	KindAnd
	KindXor
	KindAdd
	KindSub
	KindShiftRight
	KindSubReverse
	KindShiftLeft
	KindSkipRegistersNotEqual
	KindLoadIndex
	KindJumpPlusV0
	KindLoadRandomMasked
	KindDrawSprite
	KindSkipKeyPressed
	KindSkipKeyNotPressed
	KindGetDelay
	KindWaitForKey
	KindSetDelay
	KindSetSound
	KindAddToIndex
	KindLoadFontAddress
	KindStoreBCD
	KindSaveRegisters
	KindLoadRegisters

	kindCount
)

var kindPatterns = [kindCount]string{
	KindUnknown:               "????",
	KindClearDisplay:          "00E0",
	KindReturn:                "00EE",
	KindJump:                  "1NNN",
	KindCall:                  "2NNN",
	KindSkipEqualImmediate:    "3XNN",
	KindSkipNotEqualImmediate: "4XNN",
	KindSkipRegistersEqual:    "5XY0",
	KindLoadImmediate:         "6XNN",
	KindAddImmediate:          "7XNN",
	KindAssign:                "8XY0",
	KindOr:                    "8XY1",
	KindAnd:                   "8XY2",
	KindXor:                   "8XY3",
	KindAdd:                   "8XY4",
	KindSub:                   "8XY5",
	KindShiftRight:            "8XY6",
	KindSubReverse:            "8XY7",
	KindShiftLeft:             "8XYE",
	KindSkipRegistersNotEqual: "9XY0",
	KindLoadIndex:             "ANNN",
	KindJumpPlusV0:            "BNNN",
	KindLoadRandomMasked:      "CXNN",
	KindDrawSprite:            "DXYN",
	KindSkipKeyPressed:        "EX9E",
	KindSkipKeyNotPressed:     "EXA1",
	KindGetDelay:              "FX07",
	KindWaitForKey:            "FX0A",
	KindSetDelay:              "FX15",
	KindSetSound:              "FX18",
	KindAddToIndex:            "FX1E",
	KindLoadFontAddress:       "FX29",
	KindStoreBCD:              "FX33",
	KindSaveRegisters:         "FX55",
	KindLoadRegisters:         "FX65",
}

// String returns the opcode pattern of the kind, for example "8XY4".
func (k Kind) String() string {
	if k >= kindCount {
		return kindPatterns[KindUnknown]
	}
	return kindPatterns[k]
}
