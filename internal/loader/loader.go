// Package loader handles input file loading and the mapping of the file
// content into the memory areas of a document.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch/chip8"
	archm6502 "github.com/retroenv/retrodoc/internal/arch/m6502"
	"github.com/retroenv/retrodoc/internal/consts"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrogolib/arch"
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/arch/system/nes"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

const (
	nesRAMSize     = 0x0800
	nesIOStart     = 0x2000
	nesIOSize      = 0x2020
	nesPRGBankSize = 0x4000
	nesPRGWindow   = 0x8000
)

// Image is a loaded input file together with its memory map.
type Image struct {
	System     arch.System
	Data       []byte
	Endianness stream.Endianness
	Areas      []*address.MemoryArea
	Vectors    []Vector // pointers to entry points stored in the file
	Entries    []Entry
	Registers  consts.Source // names of memory mapped hardware registers
	Mapper     byte
}

// Vector is the location of a pointer to an entry point.
type Vector struct {
	Name    string
	Address address.Address
}

// Entry is a named address that the code analysis starts at.
type Entry struct {
	Name    string
	Address address.Address
}

// Loader handles loading input files from disk.
type Loader struct{}

// New creates a new loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and maps an input file based on the system type and options.
// NES files are parsed as iNES ROMs, CHIP-8 files are read as raw programs.
func (l *Loader) Load(opts options.Program, system arch.System) (*Image, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	return l.LoadFromBytes(data, system, opts.Base)
}

// LoadFromBytes maps the given file content. A non zero base overrides the
// load address of raw programs.
func (l *Loader) LoadFromBytes(data []byte, system arch.System, base uint64) (*Image, error) {
	switch system {
	case arch.CHIP8System:
		return l.loadCHIP8(data, base)
	case arch.NES:
		return l.loadNES(data)
	default:
		return nil, fmt.Errorf("unsupported system: %s", system)
	}
}

func (l *Loader) loadNES(data []byte) (*Image, error) {
	cart, err := cartridge.LoadFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}
	if len(cart.PRG) == 0 {
		return nil, fmt.Errorf("loading cartridge: %w", errEmptyPRG)
	}

	img := &Image{
		System:     arch.NES,
		Data:       cart.PRG,
		Endianness: stream.LittleEndian,
		Registers:  consts.NESRegisters{},
		Mapper:     byte(cart.Mapper),
	}

	img.Areas = append(img.Areas, &address.MemoryArea{
		Name:            "ram",
		Size:            nesRAMSize,
		ArchitectureTag: archm6502.Tag,
		Access:          address.Read | address.Write,
	})
	img.Areas = append(img.Areas, &address.MemoryArea{
		Name:            "io",
		Start:           nesIOStart,
		Size:            nesIOSize,
		ArchitectureTag: archm6502.Tag,
		Access:          address.Read | address.Write,
	})

	// only the last 32KB are mapped for banked cartridges, the fixed bank of
	// most mappers is placed there
	size := uint64(min(len(cart.PRG), nesPRGWindow))
	fileOffset := uint64(len(cart.PRG)) - size
	start := uint64(nes.CodeBaseAddress)
	if size == nesPRGBankSize {
		img.Areas = append(img.Areas, &address.MemoryArea{
			Name:            "prg_mirror",
			Start:           start,
			Size:            size,
			FileOffset:      fileOffset,
			FileSize:        size,
			ArchitectureTag: archm6502.Tag,
			Access:          address.Read | address.Execute,
		})
		start += nesPRGBankSize
	}
	img.Areas = append(img.Areas, &address.MemoryArea{
		Name:            "prg",
		Start:           start,
		Size:            size,
		FileOffset:      fileOffset,
		FileSize:        size,
		ArchitectureTag: archm6502.Tag,
		Access:          address.Read | address.Execute,
	})

	img.Vectors = []Vector{
		{Name: "reset", Address: address.New(0, uint64(m6502.ResetAddress))},
		{Name: "nmi", Address: address.New(0, uint64(m6502.NMIAddress))},
		{Name: "irq", Address: address.New(0, uint64(m6502.IrqAddress))},
	}
	return img, nil
}

func (l *Loader) loadCHIP8(data []byte, base uint64) (*Image, error) {
	cart, err := cartridge.LoadBuffer(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	start := uint64(chip8.ProgramStart)
	if base != 0 {
		start = base
	}
	if start > chip8.MaxAddress {
		return nil, fmt.Errorf("load address $%04X: %w", start, errAddressRange)
	}

	// the buffer of the cartridge is padded to the bank size
	size := uint64(min(len(data), len(cart.PRG)))
	size = min(size, chip8.MaxAddress+1-start)
	if size == 0 {
		return nil, fmt.Errorf("loading program: %w", errEmptyPRG)
	}

	area := &address.MemoryArea{
		Name:            "program",
		Start:           start,
		Size:            size,
		FileSize:        size,
		ArchitectureTag: chip8.Tag,
		Access:          address.Read | address.Write | address.Execute,
	}
	return &Image{
		System:     arch.CHIP8System,
		Data:       cart.PRG[:size],
		Endianness: stream.BigEndian,
		Areas:      []*address.MemoryArea{area},
		Entries:    []Entry{{Name: "start", Address: area.StartAddress()}},
	}, nil
}
