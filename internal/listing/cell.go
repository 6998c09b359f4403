package listing

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
)

const undecodableComment = "undecodable instruction"

var valueDirectives = map[uint16]string{
	1: ".byte",
	2: ".word",
	4: ".dword",
}

// writeCell writes the cell at the address and returns its length.
func (w Writer) writeCell(area *address.MemoryArea, addr address.Address, fileEnd uint64) (uint64, error) {
	comment, _ := w.doc.Comment(addr)

	c, ok := w.doc.Cell(addr)
	if !ok {
		return w.writeUndecodable(addr, fileEnd, comment)
	}

	switch c := c.(type) {
	case *cell.Instruction:
		return uint64(c.Length()), w.writeCodeLine(c.String(), comment)

	case *cell.String:
		return uint64(c.Length()), w.writeString(addr, c, comment)

	case *cell.Character:
		data, err := w.readBytes(addr, uint64(c.Length()))
		if err != nil {
			return 0, err
		}
		return uint64(c.Length()), w.writeCodeLine(fmt.Sprintf(".byte '%s'", data), comment)

	case *cell.Value:
		if c.Data().IsUnknown() {
			return w.bundleUnknownBytes(area, addr, fileEnd)
		}
		return uint64(c.Length()), w.writeValue(addr, c, comment)

	default:
		return 0, fmt.Errorf("unsupported cell type %s at %s", c.Type(), addr)
	}
}

// writeUndecodable writes the bytes of an instruction cell that can not be
// decoded as data.
func (w Writer) writeUndecodable(addr address.Address, fileEnd uint64, comment string) (uint64, error) {
	length := uint64(1)
	if next, ok := w.doc.NextAddress(addr); ok && next.Base == addr.Base && next.Offset > addr.Offset {
		length = next.Offset - addr.Offset
	}
	length = min(length, fileEnd-addr.Offset)

	data, err := w.readBytes(addr, length)
	if err != nil {
		return 0, err
	}

	if comment == "" {
		comment = undecodableComment
	} else {
		comment = undecodableComment + ": " + comment
	}
	return length, w.writeCodeLine(formatBytes(data), comment)
}

func (w Writer) writeString(addr address.Address, c *cell.String, comment string) error {
	data, err := w.readBytes(addr, uint64(c.Length()))
	if err != nil {
		return err
	}

	if c.SubType() != cell.ASCII || len(data) == 0 || data[len(data)-1] != 0 {
		return w.BundleDataWrites(data, w.commentLineWriter(addr, comment))
	}

	text := strings.ReplaceAll(string(data[:len(data)-1]), `"`, `\"`)
	return w.writeCodeLine(fmt.Sprintf(`.byte "%s", $00`, text), comment)
}

func (w Writer) writeValue(addr address.Address, c *cell.Value, comment string) error {
	directive, ok := valueDirectives[c.Length()]
	if !ok {
		data, err := w.readBytes(addr, uint64(c.Length()))
		if err != nil {
			return err
		}
		return w.BundleDataWrites(data, w.commentLineWriter(addr, comment))
	}

	fileOffset, ok := w.doc.ConvertAddressToFileOffset(addr)
	if !ok {
		return fmt.Errorf("address %s has no file offset", addr)
	}
	value, err := w.doc.Stream().ReadUint(fileOffset, int(c.Length()))
	if err != nil {
		return fmt.Errorf("reading value at %s: %w", addr, err)
	}

	line := fmt.Sprintf("%s %s", directive, formatValue(c.SubType(), int(c.Length()), value))
	return w.writeCodeLine(line, comment)
}

// bundleUnknownBytes writes all unknown bytes starting at the address up to
// the next label or typed cell and returns the amount of written bytes.
func (w Writer) bundleUnknownBytes(area *address.MemoryArea, addr address.Address, fileEnd uint64) (uint64, error) {
	length := uint64(1)
	for offset := addr.Offset + 1; offset < fileEnd; offset++ {
		next := area.MakeAddress(offset)
		if _, ok := w.doc.Label(next); ok || !w.doc.ContainsUnknown(next) {
			break
		}
		if _, ok := w.doc.Comment(next); ok {
			break
		}
		length++
	}

	data, err := w.readBytes(addr, length)
	if err != nil {
		return 0, err
	}

	comment, _ := w.doc.Comment(addr)
	if err := w.BundleDataWrites(data, w.commentLineWriter(addr, comment)); err != nil {
		return 0, err
	}
	return length, nil
}

// commentLineWriter returns a line writer that adds the comment to the first
// line and the address of the line if enabled.
func (w Writer) commentLineWriter(addr address.Address, comment string) lineWriterFunc {
	current := addr
	return func(line string, byteCount int) error {
		if w.options.OffsetComments {
			prefix := fmt.Sprintf("$%04X", current.Offset)
			if comment == "" {
				comment = prefix
			} else {
				comment = prefix + "  " + comment
			}
		}

		var err error
		if comment == "" {
			_, err = fmt.Fprintf(w.writer, "  %s\n", line)
		} else {
			_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", line, comment)
		}
		if err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		comment = ""
		current = current.Add(int64(byteCount))
		return nil
	}
}

func (w Writer) writeCodeLine(code, comment string) error {
	if comment == "" {
		if _, err := fmt.Fprintf(w.writer, "  %s\n", code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	} else {
		if _, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", code, comment); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)
		line := formatBytes(data[i : i+toWrite])

		if lineWriter != nil {
			if err := lineWriter(line, toWrite); err != nil {
				return fmt.Errorf("writing data line using custom writer: %w", err)
			}
		} else {
			if _, err := fmt.Fprintf(w.writer, "  %s\n", line); err != nil {
				return fmt.Errorf("writing data line: %w", err)
			}
		}

		i += toWrite
		remaining -= toWrite
	}
	return nil
}

func (w Writer) readBytes(addr address.Address, length uint64) ([]byte, error) {
	fileOffset, ok := w.doc.ConvertAddressToFileOffset(addr)
	if !ok {
		return nil, fmt.Errorf("address %s has no file offset", addr)
	}

	data := make([]byte, length)
	n, err := w.doc.Stream().Read(fileOffset, data)
	if err != nil {
		return nil, fmt.Errorf("reading %d bytes at %s: %w", length, addr, err)
	}
	return data[:n], nil
}

func formatBytes(data []byte) string {
	var sb strings.Builder
	sb.WriteString(".byte ")
	for i, b := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%02X", b)
	}
	return sb.String()
}

func formatValue(subType uint8, size int, value uint64) string {
	switch subType {
	case cell.ValueDecimal:
		return fmt.Sprintf("%d", value)
	case cell.ValueBinary:
		return fmt.Sprintf("%%%0*b", size*8, value)
	case cell.ValueSigned:
		shift := 64 - size*8
		return fmt.Sprintf("%d", int64(value<<shift)>>shift)
	default:
		return fmt.Sprintf("$%0*X", size*2, value)
	}
}
