// Package chip8 provides the CHIP-8 instruction decoder.
//
// CHIP-8 systems have 4KB of memory:
//   - 0x000-0x1FF: interpreter area, not part of ROM files
//   - ProgramStart-MaxAddress: user program and data area
//
// All instructions are 2 bytes, stored big endian, with up to 12 bit
// addresses embedded in the opcode. Referenced addresses are memory
// addresses, the first ROM byte is mapped to ProgramStart.
package chip8
