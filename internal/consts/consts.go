// Package consts provides the names of memory mapped hardware registers.
package consts

import (
	"fmt"
	"slices"

	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/arch/system/nes/register"
)

// Constant is a named hardware register. Registers can have different names
// for read and write access.
type Constant struct {
	Address uint16
	Read    string
	Write   string
}

// Name returns the name of the register, the read name is preferred.
func (c Constant) Name() string {
	if c.Read != "" {
		return c.Read
	}
	return c.Write
}

// Source provides the constants of a system.
type Source interface {
	Constants() (map[uint16]Constant, error)
}

// Consts is a lookup of hardware registers by address.
type Consts struct {
	constants map[uint16]Constant
}

// New creates a new constants lookup from the source.
func New(src Source) (*Consts, error) {
	constants, err := src.Constants()
	if err != nil {
		return nil, fmt.Errorf("getting constants: %w", err)
	}
	return &Consts{
		constants: constants,
	}, nil
}

// Get returns the constant at the given address.
func (c *Consts) Get(address uint16) (Constant, bool) {
	constant, ok := c.constants[address]
	return constant, ok
}

// Addresses returns the sorted addresses of all constants.
func (c *Consts) Addresses() []uint16 {
	addresses := make([]uint16, 0, len(c.constants))
	for address := range c.constants {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)
	return addresses
}

// NESRegisters is the source of the PPU, APU and controller registers of the NES.
type NESRegisters struct{}

// Constants builds the map of all known NES registers that maps an address
// to the register names.
func (NESRegisters) Constants() (map[uint16]Constant, error) {
	m := map[uint16]Constant{}
	if err := mergeConstantsMaps(m, register.APUAddressToName); err != nil {
		return nil, fmt.Errorf("processing apu constants: %w", err)
	}
	if err := mergeConstantsMaps(m, register.ControllerAddressToName); err != nil {
		return nil, fmt.Errorf("processing controller constants: %w", err)
	}
	if err := mergeConstantsMaps(m, register.PPUAddressToName); err != nil {
		return nil, fmt.Errorf("processing ppu constants: %w", err)
	}
	return m, nil
}

func mergeConstantsMaps(destination map[uint16]Constant, source map[uint16]m6502.AccessModeConstant) error {
	for address, constantInfo := range source {
		translation := destination[address]
		translation.Address = address

		if constantInfo.Mode&m6502.ReadAccess != 0 {
			if translation.Read != "" {
				return fmt.Errorf("constant with address 0x%04X and read mode is defined twice", address)
			}
			translation.Read = constantInfo.Constant
		}

		if constantInfo.Mode&m6502.WriteAccess != 0 {
			if translation.Write != "" {
				return fmt.Errorf("constant with address 0x%04X and write mode is defined twice", address)
			}
			translation.Write = constantInfo.Constant
		}

		destination[address] = translation
	}
	return nil
}
