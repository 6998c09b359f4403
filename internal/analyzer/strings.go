package analyzer

import (
	"context"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrogolib/log"
)

// detectStrings types runs of printable characters that are terminated by
// a NUL byte and that are not typed yet as strings.
func (a *Analyzer) detectStrings(ctx context.Context) error {
	var areas []*address.MemoryArea
	a.doc.ForEachMemoryArea(func(area *address.MemoryArea) bool {
		if area.FileSize > 0 {
			areas = append(areas, area)
		}
		return true
	})

	var found int
	for _, area := range areas {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("detecting strings: %w", err)
		}

		n, err := a.detectAreaStrings(area)
		if err != nil {
			return err
		}
		found += n
	}

	a.logger.Info("String detection finished", log.Int("strings", found))
	return nil
}

func (a *Analyzer) detectAreaStrings(area *address.MemoryArea) (int, error) {
	buf := make([]byte, min(area.Size, area.FileSize))
	n, err := a.doc.Stream().Read(area.FileOffset, buf)
	if err != nil {
		return 0, fmt.Errorf("reading memory area '%s': %w", area.Name, err)
	}
	buf = buf[:n]

	maxLength := int(a.doc.Options().MaxStringLength)
	untyped := func(i int) bool {
		return a.doc.ContainsUnknown(area.MakeAddress(area.Start + uint64(i)))
	}

	var found int
	for i := 0; i < len(buf); {
		end := i
		for end < len(buf) && isPrintable(buf[end]) && untyped(end) {
			end++
		}

		length := end - i
		if length >= a.options.MinStringBytes && length < maxLength &&
			end < len(buf) && buf[end] == 0 && untyped(end) {

			start := area.MakeAddress(area.Start + uint64(i))
			if err := a.doc.MakeString(start, cell.ASCII, uint16(maxLength), false); err != nil {
				a.logger.Debug("Creating string failed", log.Stringer("address", start), log.Err(err))
			} else {
				found++
			}
		}

		i = end + 1
	}
	return found, nil
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
