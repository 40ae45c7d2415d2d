package disasm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/bus"
	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
	startLabel  = "Start"
)

// processJumpDestinations assigns labels to all jump and call destinations.
func (dis *Disasm) processJumpDestinations() {
	if len(dis.offsets) > 0 {
		dis.offsets[0].label = startLabel
	}

	for _, address := range sortedAddresses(dis.branchDestinations, dis.callDestinations) {
		index, ok := dis.index(address)
		if !ok {
			continue
		}

		// the destination is inside the second byte of an instruction
		if dis.offsets[index].continuation {
			dis.handleJumpIntoInstruction(index)
		}

		info := &dis.offsets[index]
		if info.label != "" {
			continue
		}
		if dis.callDestinations.Contains(address) {
			info.label = fmt.Sprintf(funcNaming, address)
		} else {
			info.label = fmt.Sprintf(labelNaming, address)
		}
	}
}

// processDataReferences assigns labels to addresses loaded into the index
// register that start a line of the listing.
func (dis *Disasm) processDataReferences() {
	for _, address := range sortedAddresses(dis.dataReferences) {
		index, ok := dis.index(address)
		if !ok {
			continue
		}

		info := &dis.offsets[index]
		if info.label == "" && !info.continuation {
			info.label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// handleJumpIntoInstruction converts the instruction that contains the byte
// at the given index as its second byte into data.
func (dis *Disasm) handleJumpIntoInstruction(index int) {
	start := &dis.offsets[index-1]
	start.comment = "branch into instruction detected: " + dis.code(*start.instruction)
	start.instruction = nil
	dis.offsets[index].continuation = false
}

// code returns the assembly text of the instruction with referenced
// addresses replaced by their labels.
func (dis *Disasm) code(ins decoder.Instruction) string {
	text := ins.String()

	switch ins.Kind {
	case decoder.KindJump, decoder.KindJumpPlusV0, decoder.KindCall, decoder.KindLoadIndex:
		if label := dis.labelAt(ins.Address); label != "" {
			text = strings.Replace(text, fmt.Sprintf("$%03X", ins.Address), label, 1)
		}
	}
	return text
}

// labelAt returns the label of the given address or an empty string.
func (dis *Disasm) labelAt(address uint16) string {
	index, ok := dis.index(address)
	if !ok {
		return ""
	}
	return dis.offsets[index].label
}

func sortedAddresses(sets ...set.Set[uint16]) []uint16 {
	var addresses []uint16
	for _, s := range sets {
		for address := range s {
			addresses = append(addresses, address)
		}
	}
	slices.Sort(addresses)
	return slices.Compact(addresses)
}

// address returns the memory address of a ROM index.
func address(index int) uint16 {
	return bus.ProgramStart + uint16(index)
}
