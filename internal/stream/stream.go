// Package stream provides the raw byte access to the loaded binary.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Endianness defines the byte order of multi byte reads.
type Endianness uint8

// supported byte orders.
const (
	LittleEndian Endianness = iota
	BigEndian
)

var (
	// ErrOutOfRange indicates a read beyond the end of the stream.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrNoTerminator indicates that no NUL byte follows a string start.
	ErrNoTerminator = errors.New("string terminator not found")
	// ErrInvalidSize indicates an unsupported integer width.
	ErrInvalidSize = errors.New("invalid integer size")
)

// BinaryStream is random byte access to the loaded binary by file offset.
type BinaryStream interface {
	// Size returns the size of the stream in bytes.
	Size() uint64
	// Endianness returns the byte order used by ReadUint.
	Endianness() Endianness
	// Read reads bytes at the given file offset. It returns the amount of
	// bytes read which can be less than the buffer size at the end of the
	// stream.
	Read(offset uint64, buf []byte) (int, error)
	// ReadUint reads an unsigned integer of 1, 2, 4 or 8 bytes.
	ReadUint(offset uint64, size int) (uint64, error)
	// StringLength returns the amount of bytes before the next NUL byte.
	StringLength(offset uint64) (int, error)
}

// Memory is a binary stream backed by a byte slice.
type Memory struct {
	data   []byte
	endian Endianness
}

var _ BinaryStream = (*Memory)(nil)

// New returns a new stream for the given data.
func New(data []byte, endian Endianness) *Memory {
	return &Memory{
		data:   data,
		endian: endian,
	}
}

// Size returns the size of the stream in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Endianness returns the byte order used by ReadUint.
func (m *Memory) Endianness() Endianness {
	return m.endian
}

// Read reads bytes at the given file offset.
func (m *Memory) Read(offset uint64, buf []byte) (int, error) {
	if offset >= uint64(len(m.data)) {
		return 0, fmt.Errorf("reading %d bytes at %08x: %w", len(buf), offset, ErrOutOfRange)
	}
	return copy(buf, m.data[offset:]), nil
}

// ReadUint reads an unsigned integer of 1, 2, 4 or 8 bytes.
func (m *Memory) ReadUint(offset uint64, size int) (uint64, error) {
	switch size {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("reading integer of %d bytes: %w", size, ErrInvalidSize)
	}
	if offset+uint64(size) > uint64(len(m.data)) {
		return 0, fmt.Errorf("reading %d bytes at %08x: %w", size, offset, ErrOutOfRange)
	}

	buf := m.data[offset : offset+uint64(size)]
	var order binary.ByteOrder = binary.LittleEndian
	if m.endian == BigEndian {
		order = binary.BigEndian
	}

	switch size {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(order.Uint16(buf)), nil
	case 4:
		return uint64(order.Uint32(buf)), nil
	default:
		return order.Uint64(buf), nil
	}
}

// StringLength returns the amount of bytes before the next NUL byte.
func (m *Memory) StringLength(offset uint64) (int, error) {
	if offset >= uint64(len(m.data)) {
		return 0, fmt.Errorf("measuring string at %08x: %w", offset, ErrOutOfRange)
	}
	n := bytes.IndexByte(m.data[offset:], 0)
	if n < 0 {
		return 0, fmt.Errorf("measuring string at %08x: %w", offset, ErrNoTerminator)
	}
	return n, nil
}
