// Package disasm implements a CHIP-8 disassembler that traces the execution
// flow of a ROM and writes an assembly listing.
package disasm

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// offsetInfo contains the disassembly state of one ROM byte.
type offsetInfo struct {
	instruction  *decoder.Instruction // set for the first byte of traced code
	continuation bool                 // second byte of a traced instruction
	label        string
	comment      string
}

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	rom     []byte
	offsets []offsetInfo

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]

	branchDestinations set.Set[uint16] // set of all addresses that are jumped to
	callDestinations   set.Set[uint16] // set of all subroutine addresses
	dataReferences     set.Set[uint16] // set of all addresses loaded into I
}

// New creates a new disassembler for the given ROM image that is loaded at
// the program start address.
func New(logger *log.Logger, rom []byte, options options.Disassembler) *Disasm {
	return &Disasm{
		logger:              logger,
		options:             options,
		rom:                 rom,
		offsets:             make([]offsetInfo, len(rom)),
		offsetsToParseAdded: set.New[uint16](),
		branchDestinations:  set.New[uint16](),
		callDestinations:    set.New[uint16](),
		dataReferences:      set.New[uint16](),
	}
}

// Process disassembles the ROM and writes the listing to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) error {
	if err := dis.followExecutionFlow(ctx); err != nil {
		return err
	}
	dis.processJumpDestinations()
	dis.processDataReferences()

	if err := dis.write(w); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// followExecutionFlow traces all code reachable from the program start.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	dis.addAddressToParse(bus.ProgramStart)
	traced := 0

	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tracing execution flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]

		if dis.processOffset(address) {
			traced++
		}
	}

	dis.logger.Debug("Traced execution flow", log.Int("instructions", traced))
	return nil
}

// processOffset decodes the instruction at the address and queues its
// successors. It returns whether the address was marked as code.
func (dis *Disasm) processOffset(address uint16) bool {
	index, ok := dis.index(address)
	if !ok || index+1 >= len(dis.rom) {
		return false
	}

	info := &dis.offsets[index]
	next := &dis.offsets[index+1]
	if info.instruction != nil || info.continuation || next.instruction != nil {
		return false
	}

	opcode := uint16(dis.rom[index])<<8 | uint16(dis.rom[index+1])
	ins := decoder.DecodeOpcode(opcode)
	if ins.IsUnknown() {
		return false
	}

	info.instruction = &ins
	next.continuation = true
	dis.handleControlFlow(address, ins)
	return true
}

// handleControlFlow queues the addresses that can be executed after the
// instruction and records the referenced addresses.
func (dis *Disasm) handleControlFlow(address uint16, ins decoder.Instruction) {
	next := address + decoder.OpcodeSize

	switch {
	case ins.IsJump():
		dis.branchDestinations.Add(ins.Address)
		dis.addAddressToParse(ins.Address)

	case ins.IsCall():
		dis.callDestinations.Add(ins.Address)
		dis.addAddressToParse(ins.Address)
		dis.addAddressToParse(next)

	case ins.IsSkip():
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + decoder.OpcodeSize)

	case ins.IsDataReference():
		dis.dataReferences.Add(ins.Address)
		dis.addAddressToParse(next)

	case !ins.IsReturn():
		dis.addAddressToParse(next)
	}
}

func (dis *Disasm) addAddressToParse(address uint16) {
	if dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// index returns the ROM index of a memory address.
func (dis *Disasm) index(address uint16) (int, bool) {
	if address < bus.ProgramStart {
		return 0, false
	}
	index := int(address - bus.ProgramStart)
	return index, index < len(dis.rom)
}
