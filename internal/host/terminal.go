package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
	"golang.org/x/term"
)

// ANSI escape sequences used by the terminal output.
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Terminal size needed to render the display, every character cell
// contains two pixel rows.
const (
	terminalWidth  = display.Width
	terminalHeight = display.Height / 2
)

var (
	// ErrNoTerminal is returned when the input is not an interactive terminal.
	ErrNoTerminal = errors.New("input is not a terminal")
	// ErrTerminalTooSmall is returned when the display does not fit into the terminal.
	ErrTerminalTooSmall = errors.New("terminal too small")
)

// Terminal is an interactive terminal switched into raw mode.
type Terminal struct {
	fd    int
	state *term.State
	out   io.Writer
}

// OpenTerminal switches the input terminal into raw mode so that key
// presses are received without line buffering or echo.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	width, height, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return nil, fmt.Errorf("getting terminal size: %w", err)
	}
	if width < terminalWidth || height < terminalHeight {
		return nil, fmt.Errorf("%w: %dx%d, need at least %dx%d",
			ErrTerminalTooSmall, width, height, terminalWidth, terminalHeight)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enabling raw mode: %w", err)
	}

	t := &Terminal{
		fd:    fd,
		state: state,
		out:   out,
	}
	if _, err := io.WriteString(out, clearScreen+hideCursor); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("preparing terminal: %w", err)
	}
	return t, nil
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	_, _ = io.WriteString(t.out, showCursor+"\r\n")
	if err := term.Restore(t.fd, t.state); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// TerminalRenderer draws frames with Unicode block characters.
type TerminalRenderer struct {
	out io.Writer
}

// NewTerminalRenderer returns a renderer that writes to the given output.
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{
		out: out,
	}
}

// Render draws the frame from the top left corner of the terminal.
func (r *TerminalRenderer) Render(frame display.Frame) error {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + terminalHeight*(terminalWidth*3+2))
	sb.WriteString(cursorHome)

	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			sb.WriteString(block(frame[y][x], frame[y+1][x]))
		}
		// raw mode does not translate newlines
		sb.WriteString("\r\n")
	}

	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// block returns the character for a cell of two vertically stacked pixels.
func block(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}
