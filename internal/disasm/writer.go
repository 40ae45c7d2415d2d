package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/bus"
)

// maxDataBytesPerLine limits the number of bytes of a .byte line.
const maxDataBytesPerLine = 8

// write outputs the listing in retroasm CHIP-8 format.
func (dis *Disasm) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Code base address: $%04X\n", bus.ProgramStart); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Program starts at $200 in CHIP-8 memory space\n\n"); err != nil {
		return fmt.Errorf("writing memory space comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, ".org $200\n\n"); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	endIndex := dis.endIndex()
	for index := 0; index < endIndex; {
		info := dis.offsets[index]
		if info.label != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", info.label); err != nil {
				return fmt.Errorf("writing label %s: %w", info.label, err)
			}
		}

		var err error
		if info.instruction != nil {
			err = dis.writeCode(w, index)
			index += 2
		} else {
			var n int
			n, err = dis.writeData(w, index, endIndex)
			index += n
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeCode writes the instruction starting at the given index.
func (dis *Disasm) writeCode(w io.Writer, index int) error {
	line := "    " + dis.code(*dis.offsets[index].instruction)
	comment := dis.comment(index, dis.rom[index:index+2])
	return writeLine(w, line, comment)
}

// writeData writes a .byte line starting at the given index and returns the
// number of bytes written. A line ends before the next label, instruction or
// commented byte.
func (dis *Disasm) writeData(w io.Writer, index, endIndex int) (int, error) {
	n := 1
	for n < maxDataBytesPerLine && index+n < endIndex {
		next := dis.offsets[index+n]
		if next.label != "" || next.instruction != nil || next.comment != "" {
			break
		}
		n++
	}

	data := dis.rom[index : index+n]
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("    .byte $%02X", data[0]))
	for _, b := range data[1:] {
		buf.WriteString(fmt.Sprintf(", $%02X", b))
	}

	comment := dis.offsets[index].comment
	if dis.options.OffsetComments {
		comment = joinComment(fmt.Sprintf("$%04X", address(index)), comment)
	}
	return n, writeLine(w, buf.String(), comment)
}

// comment returns the address and opcode bytes comment of an instruction.
func (dis *Disasm) comment(index int, data []byte) string {
	var comment string
	if dis.options.OffsetComments {
		comment = fmt.Sprintf("$%04X", address(index))
	}
	if dis.options.HexComments {
		comment = joinComment(comment, fmt.Sprintf("%02X %02X", data[0], data[1]))
	}
	return comment
}

// endIndex returns the index after the last meaningful byte of the ROM.
func (dis *Disasm) endIndex() int {
	if dis.options.ZeroBytes {
		return len(dis.rom)
	}

	for i := len(dis.rom) - 1; i >= 0; i-- {
		info := dis.offsets[i]
		if dis.rom[i] != 0 || info.continuation || info.label != "" || info.comment != "" {
			return i + 1
		}
		if info.instruction != nil {
			return i + 2
		}
	}
	return 0
}

func writeLine(w io.Writer, line, comment string) error {
	if comment == "" {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "%-32s ; %s\n", line, comment); err != nil {
		return fmt.Errorf("writing line with comment: %w", err)
	}
	return nil
}

func joinComment(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + " " + second
	}
}
