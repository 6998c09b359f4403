// Package listing writes a document as assembly listing.
package listing

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/document"
	"github.com/retroenv/retrodoc/internal/label"
)

const dataBytesPerLine = 16

type lineWriterFunc func(line string, byteCount int) error

// Options of the writer.
type Options struct {
	OffsetComments  bool // prefix data line comments with the address
	CrossReferences bool // list the referencing addresses after labels
}

// Writer writes the cells, labels and comments of a document.
type Writer struct {
	doc     *document.Document
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(doc *document.Document, writer io.Writer, options Options) *Writer {
	return &Writer{
		doc:     doc,
		options: options,
		writer:  writer,
	}
}

// Write writes the header, the aliases of all labels in areas without file
// content and the content of all other memory areas.
func (w Writer) Write() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	var areas []*address.MemoryArea
	aliases := map[string]uint64{}
	w.doc.ForEachMemoryArea(func(area *address.MemoryArea) bool {
		if area.FileSize == 0 {
			w.collectAliases(area, aliases)
		} else {
			areas = append(areas, area)
		}
		return true
	})

	if err := w.outputAliasMap(aliases); err != nil {
		return err
	}

	for _, area := range areas {
		if err := w.writeArea(area); err != nil {
			return fmt.Errorf("writing memory area '%s': %w", area.Name, err)
		}
	}
	return nil
}

func (w Writer) writeHeader() error {
	if name := w.doc.OperatingSystemName(); name != "" {
		if _, err := fmt.Fprintf(w.writer, "; System: %s\n", name); err != nil {
			return fmt.Errorf("writing system name: %w", err)
		}
	}

	tags := w.doc.ArchitectureTags()
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.String())
	}
	if _, err := fmt.Fprintf(w.writer, "; Architectures: %s\n", strings.Join(names, ", ")); err != nil {
		return fmt.Errorf("writing architectures: %w", err)
	}
	return nil
}

func (w Writer) collectAliases(area *address.MemoryArea, aliases map[string]uint64) {
	w.doc.ForEachLabel(func(addr address.Address, lbl label.Label) bool {
		if area.Contains(addr) {
			aliases[lbl.DisplayName()] = addr.Offset
		}
		return true
	})
}

func (w Writer) writeArea(area *address.MemoryArea) error {
	if _, err := fmt.Fprintf(w.writer, "\n; %s $%04X-$%04X\n", area.Name, area.Start, area.EndAddress().Offset); err != nil {
		return fmt.Errorf("writing area header: %w", err)
	}

	fileEnd := area.Start + min(area.Size, area.FileSize)
	var previousLineWasCode bool

	for offset := area.Start; offset < fileEnd; {
		addr := area.MakeAddress(offset)
		hasLabel, err := w.writeLabel(addr, offset == area.Start)
		if err != nil {
			return err
		}

		isCode := w.doc.ContainsCode(addr)
		// print an empty line in case of data after code and vice versa
		if offset > area.Start && !hasLabel && isCode != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = isCode

		length, err := w.writeCell(area, addr, fileEnd)
		if err != nil {
			return err
		}
		offset += length
	}

	if reserved := area.Size - min(area.Size, area.FileSize); reserved > 0 {
		if _, err := fmt.Fprintf(w.writer, "  .res %d\n", reserved); err != nil {
			return fmt.Errorf("writing reserved bytes: %w", err)
		}
	}
	return nil
}

// writeLabel writes the label of the address and returns whether the
// address has a label.
func (w Writer) writeLabel(addr address.Address, first bool) (bool, error) {
	lbl, ok := w.doc.Label(addr)
	if !ok {
		return false, nil
	}

	if !first {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return false, fmt.Errorf("writing line: %w", err)
		}
	}

	var comment string
	if w.options.CrossReferences {
		if refs, ok := w.doc.CrossReferenceFrom(addr); ok {
			comment = "xref:"
			for _, ref := range refs {
				comment += fmt.Sprintf(" $%04X", ref.Offset)
			}
		}
	}

	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "%s:\n", lbl.DisplayName())
	} else {
		_, err = fmt.Fprintf(w.writer, "%-32s ; %s\n", lbl.DisplayName()+":", comment)
	}
	if err != nil {
		return false, fmt.Errorf("writing label: %w", err)
	}
	return true, nil
}

// outputAliasMap outputs the aliases sorted by address.
func (w Writer) outputAliasMap(aliases map[string]uint64) error {
	if len(aliases) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(aliases[a], aliases[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	for _, name := range names {
		if _, err := fmt.Fprintf(w.writer, "%s = $%04X\n", name, aliases[name]); err != nil {
			return fmt.Errorf("writing alias: %w", err)
		}
	}
	return nil
}
