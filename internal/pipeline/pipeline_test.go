package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrodoc/internal/loader"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var chip8Program = []byte{
	0x00, 0xe0, // 200: cls
	0x12, 0x00, // 202: jp $200
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
}

func TestExecute_CHIP8File(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := options.Program{
		Parameters: options.Parameters{Input: createTempFile(t, "maze.ch8", chip8Program)},
		Flags:      options.Flags{Xrefs: true},
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, p.Execute(context.Background(), opts, options.NewAnalyzer(), buf))

	out := buf.String()
	assert.Contains(t, out, "start:")
	assert.Contains(t, out, "xref: $0202")
	assert.Contains(t, out, "  cls\n")
	assert.Contains(t, out, "  jp $200\n")
}

func TestExecuteWithImage_NES(t *testing.T) {
	p := New(log.NewTestLogger(t))
	img, err := loader.New().LoadFromBytes(buildNESROM(), arch.NES, 0)
	assert.NoError(t, err)

	buf := &bytes.Buffer{}
	assert.NoError(t, p.ExecuteWithImage(context.Background(), img, options.Program{}, options.NewAnalyzer(), buf))

	out := buf.String()
	assert.Contains(t, out, "reset:")
	assert.Contains(t, out, "nmi:")
	assert.False(t, strings.Contains(out, "irq:"))
	assert.Contains(t, out, "  sei\n")
	assert.Contains(t, out, "  rti\n")
	assert.Contains(t, out, ".word $C000")
	assert.Contains(t, out, "; reset vector")
	assert.Contains(t, out, "; irq vector")

	// the written register is named by its hardware name
	assert.Contains(t, out, " = $2000\n")
	assert.False(t, strings.Contains(out, "_var_2000"))
}

func TestExecuteWithImage_Entry(t *testing.T) {
	p := New(log.NewTestLogger(t))
	img, err := loader.New().LoadFromBytes(buildNESROM(), arch.NES, 0)
	assert.NoError(t, err)

	analyzerOpts := options.NewAnalyzer()
	analyzerOpts.Entry = 0xc007
	analyzerOpts.HasEntry = true

	buf := &bytes.Buffer{}
	assert.NoError(t, p.ExecuteWithImage(context.Background(), img, options.Program{}, analyzerOpts, buf))

	out := buf.String()
	assert.False(t, strings.Contains(out, "reset:"))
	assert.False(t, strings.Contains(out, "  sei\n"))
	assert.Contains(t, out, "  rti\n")
	assert.Contains(t, out, "; reset vector")
}

func TestExecuteWithImage_StoredDocument(t *testing.T) {
	p := New(log.NewTestLogger(t))
	img, err := loader.New().LoadFromBytes(chip8Program, arch.CHIP8System, 0)
	assert.NoError(t, err)

	opts := options.Program{
		Parameters: options.Parameters{Database: filepath.Join(t.TempDir(), "maze.db")},
	}

	first := &bytes.Buffer{}
	assert.NoError(t, p.ExecuteWithImage(context.Background(), img, opts, options.NewAnalyzer(), first))

	second := &bytes.Buffer{}
	assert.NoError(t, p.ExecuteWithImage(context.Background(), img, opts, options.NewAnalyzer(), second))

	assert.Contains(t, first.String(), "  jp $200\n")
	assert.Equal(t, first.String(), second.String())
}

func TestExecuteWithImage_Canceled(t *testing.T) {
	p := New(log.NewTestLogger(t))
	img, err := loader.New().LoadFromBytes(chip8Program, arch.CHIP8System, 0)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.ExecuteWithImage(ctx, img, options.Program{}, options.NewAnalyzer(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExecute_MissingFile(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := options.Program{
		Parameters: options.Parameters{Input: "/nonexistent/game.nes"},
	}

	err := p.Execute(context.Background(), opts, options.NewAnalyzer(), &bytes.Buffer{})
	assert.Error(t, err)
}

// buildNESROM creates a 16KB NROM image with a reset handler at $C000 and a
// shared NMI and IRQ handler at $C007.
func buildNESROM() []byte {
	const headerSize = 16
	data := make([]byte, headerSize+0x4000)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1

	prg := data[headerSize:]
	copy(prg, []byte{
		0x78,             // c000: sei
		0x8d, 0x00, 0x20, // c001: sta $2000
		0x4c, 0x00, 0xc0, // c004: jmp $c000
		0x40,             // c007: rti
	})
	copy(prg[0x3ffa:], []byte{
		0x07, 0xc0, // nmi
		0x00, 0xc0, // reset
		0x07, 0xc0, // irq
	})
	return data
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
