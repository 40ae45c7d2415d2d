package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrogolib/log"
)

// execute applies the effect of a decoded instruction. The program counter
// already points to the following instruction.
func (c *CPU) execute(ins decoder.Instruction, result *Result) error {
	switch ins.Kind {
	case decoder.KindClearDisplay:
		c.display.Clear()
	case decoder.KindReturn:
		return c.ret()
	case decoder.KindJump:
		c.regs.PC = ins.Address
	case decoder.KindCall:
		return c.call(ins.Address)
	case decoder.KindJumpPlusV0:
		c.regs.PC = ins.Address + uint16(c.regs.V[0])

	case decoder.KindSkipEqualImmediate, decoder.KindSkipNotEqualImmediate,
		decoder.KindSkipRegistersEqual, decoder.KindSkipRegistersNotEqual,
		decoder.KindSkipKeyPressed, decoder.KindSkipKeyNotPressed:
		if c.skipCondition(ins) {
			c.regs.PC += decoder.OpcodeSize
		}

	case decoder.KindLoadImmediate:
		c.regs.V[ins.X] = ins.Immediate
	case decoder.KindAddImmediate:
		c.regs.V[ins.X] += ins.Immediate

	case decoder.KindAssign, decoder.KindOr, decoder.KindAnd, decoder.KindXor,
		decoder.KindAdd, decoder.KindSub, decoder.KindShiftRight,
		decoder.KindSubReverse, decoder.KindShiftLeft:
		c.alu(ins)

	case decoder.KindLoadIndex:
		c.regs.I = ins.Address
	case decoder.KindAddToIndex:
		c.regs.I += uint16(c.regs.V[ins.X])
	case decoder.KindLoadFontAddress:
		c.regs.I = bus.GlyphAddress(c.regs.V[ins.X])
	case decoder.KindLoadRandomMasked:
		c.regs.V[ins.X] = c.cfg.Random() & ins.Immediate
	case decoder.KindDrawSprite:
		return c.draw(ins)

	case decoder.KindGetDelay:
		c.regs.V[ins.X] = c.delay.Get()
	case decoder.KindSetDelay:
		c.delay.Set(c.regs.V[ins.X])
	case decoder.KindSetSound:
		c.sound.Set(c.regs.V[ins.X])
	case decoder.KindWaitForKey:
		c.waitForKey(ins, result)

	case decoder.KindStoreBCD:
		return c.storeBCD(ins)
	case decoder.KindSaveRegisters:
		return c.saveRegisters(ins)
	case decoder.KindLoadRegisters:
		return c.loadRegisters(ins)

	default:
		return c.unknown(ins, result)
	}
	return nil
}

func (c *CPU) call(address uint16) error {
	if err := c.bus.Push(c.regs.PC); err != nil {
		return fmt.Errorf("calling $%03X: %w", address, err)
	}
	c.regs.PC = address
	return nil
}

func (c *CPU) ret() error {
	address, err := c.bus.Pop()
	if err != nil {
		return fmt.Errorf("returning from subroutine: %w", err)
	}
	c.regs.PC = address
	return nil
}

// skipCondition evaluates the predicate of a conditional skip instruction.
func (c *CPU) skipCondition(ins decoder.Instruction) bool {
	vx := c.regs.V[ins.X]
	vy := c.regs.V[ins.Y]

	switch ins.Kind {
	case decoder.KindSkipEqualImmediate:
		return vx == ins.Immediate
	case decoder.KindSkipNotEqualImmediate:
		return vx != ins.Immediate
	case decoder.KindSkipRegistersEqual:
		return vx == vy
	case decoder.KindSkipRegistersNotEqual:
		return vx != vy
	case decoder.KindSkipKeyPressed:
		return c.keyPressed(vx)
	case decoder.KindSkipKeyNotPressed:
		return !c.keyPressed(vx)
	}
	return false
}

// keyPressed returns whether the key selected by the low nibble of the
// register value is latched.
func (c *CPU) keyPressed(value byte) bool {
	key := c.bus.CurrentKey()
	return key.Valid() && bus.Key(value&0x0F) == key
}

// alu executes the register-register arithmetic and logic instructions.
// The flag register is written last so that VF used as operand is
// overwritten by the flag result.
func (c *CPU) alu(ins decoder.Instruction) {
	vx := c.regs.V[ins.X]
	vy := c.regs.V[ins.Y]

	switch ins.Kind {
	case decoder.KindAssign:
		c.regs.V[ins.X] = vy
	case decoder.KindOr:
		c.regs.V[ins.X] = vx | vy
	case decoder.KindAnd:
		c.regs.V[ins.X] = vx & vy
	case decoder.KindXor:
		c.regs.V[ins.X] = vx ^ vy

	case decoder.KindAdd:
		sum := uint16(vx) + uint16(vy)
		c.regs.V[ins.X] = byte(sum)
		c.regs.V[FlagRegister] = flag(sum > 0xFF)
	case decoder.KindSub:
		c.regs.V[ins.X] = vx - vy
		c.regs.V[FlagRegister] = flag(vx >= vy)
	case decoder.KindSubReverse:
		c.regs.V[ins.X] = vy - vx
		c.regs.V[FlagRegister] = flag(vy >= vx)

	case decoder.KindShiftRight:
		src := c.shiftSource(vx, vy)
		c.regs.V[ins.X] = src >> 1
		c.regs.V[FlagRegister] = src & 0x01
	case decoder.KindShiftLeft:
		src := c.shiftSource(vx, vy)
		c.regs.V[ins.X] = src << 1
		c.regs.V[FlagRegister] = src >> 7
	}
}

func (c *CPU) shiftSource(vx, vy byte) byte {
	if c.cfg.ShiftUsesVY {
		return vy
	}
	return vx
}

// draw blits the sprite at I onto the display. The sprite bytes are read
// before the display is touched so that an out of range sprite has no effect.
func (c *CPU) draw(ins decoder.Instruction) error {
	sprite, err := c.bus.ReadRange(c.regs.I, int(ins.Nibble))
	if err != nil {
		return fmt.Errorf("reading sprite: %w", err)
	}

	collision := c.display.DrawSprite(c.regs.V[ins.X], c.regs.V[ins.Y], sprite)
	c.regs.V[FlagRegister] = flag(collision)
	return nil
}

// waitForKey completes when the key latch changes from no key to a key while
// the instruction is waiting, a key that is already held when the wait starts
// does not complete it. Until then the program counter is rewound so that the
// host re-executes the instruction with the next step.
func (c *CPU) waitForKey(ins decoder.Instruction, result *Result) {
	key := c.bus.CurrentKey()
	if !key.Valid() {
		c.waitArmed = true
	}
	if !c.waitArmed || !key.Valid() {
		c.regs.PC = result.Address
		result.Waiting = true
		return
	}
	c.waitArmed = false
	c.regs.V[ins.X] = byte(key)
}

func (c *CPU) storeBCD(ins decoder.Instruction) error {
	if err := c.checkIndexRange(3); err != nil {
		return fmt.Errorf("storing BCD: %w", err)
	}

	value := c.regs.V[ins.X]
	digits := [3]byte{value / 100, value / 10 % 10, value % 10}
	for i, digit := range digits {
		if err := c.bus.Write(c.regs.I+uint16(i), digit); err != nil {
			return fmt.Errorf("storing BCD: %w", err)
		}
	}
	return nil
}

func (c *CPU) saveRegisters(ins decoder.Instruction) error {
	count := int(ins.X) + 1
	if err := c.checkIndexRange(count); err != nil {
		return fmt.Errorf("saving registers: %w", err)
	}

	for i := range count {
		if err := c.bus.Write(c.regs.I+uint16(i), c.regs.V[i]); err != nil {
			return fmt.Errorf("saving registers: %w", err)
		}
	}
	return nil
}

func (c *CPU) loadRegisters(ins decoder.Instruction) error {
	data, err := c.bus.ReadRange(c.regs.I, int(ins.X)+1)
	if err != nil {
		return fmt.Errorf("loading registers: %w", err)
	}
	copy(c.regs.V[:], data)
	return nil
}

// checkIndexRange verifies that n bytes starting at I are addressable.
func (c *CPU) checkIndexRange(n int) error {
	if int(c.regs.I)+n > bus.MemorySize {
		return fmt.Errorf("%d bytes at $%04X: %w", n, c.regs.I, bus.ErrAddressOutOfRange)
	}
	return nil
}

func (c *CPU) unknown(ins decoder.Instruction, result *Result) error {
	if c.cfg.StrictUnknown {
		return fmt.Errorf("opcode $%04X: %w", ins.Opcode, ErrUnknownInstruction)
	}

	result.Unknown = true
	c.logger.Warn("Skipping unknown instruction",
		log.Hex("address", result.Address),
		log.Hex("opcode", ins.Opcode))
	return nil
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
