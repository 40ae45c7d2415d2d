package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestProcessFile_Disasm(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.ch8")
	output := filepath.Join(dir, "test.asm")
	assert.NoError(t, os.WriteFile(input, []byte{0x00, 0xE0, 0x12, 0x02}, 0600))

	opts := options.Program{
		Parameters: options.Parameters{Input: input, Output: output},
		Flags:      options.Flags{Disasm: true, Quiet: true},
	}

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.NoError(t, err)

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	listing := string(data)
	assert.True(t, strings.Contains(listing, ".org $200"))
	assert.True(t, strings.Contains(listing, "    cls"))
	assert.True(t, strings.Contains(listing, "jp _label_0202"))
}

func TestProcessFile_MissingInput(t *testing.T) {
	opts := options.Program{
		Parameters: options.Parameters{Input: "/nonexistent/file.ch8"},
		Flags:      options.Flags{Disasm: true, Quiet: true},
	}

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.ErrorContains(t, err, "/nonexistent/file.ch8")
}

func TestCreateWriter(t *testing.T) {
	w, err := createWriter(options.Program{})
	assert.NoError(t, err)
	assert.True(t, w == os.Stdout)

	_, err = createWriter(options.Program{
		Parameters: options.Parameters{Output: "/nonexistent/dir/out.asm"},
	})
	assert.Error(t, err)
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "1.0.0", "0123456789abcdef", "2026-10-17")
	PrintBanner(logger, options.Program{}, "dev", "", "")
	PrintBanner(logger, options.Program{Flags: options.Flags{Quiet: true}}, "dev", "", "")
}
