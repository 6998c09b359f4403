package document

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrogolib/log"
)

// startLabel is the name of the label that marks the start address.
const startLabel = "start"

// Label returns the label of the address.
func (d *Document) Label(addr address.Address) (label.Label, bool) {
	if d.db == nil {
		return label.Label{}, false
	}
	return d.db.Label(addr)
}

// LabelAddress returns the address of the label with the given display name.
func (d *Document) LabelAddress(name string) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	return d.db.LabelAddress(name)
}

// ForEachLabel calls fn for every label in address order until fn returns false.
func (d *Document) ForEachLabel(fn func(addr address.Address, lbl label.Label) bool) {
	if d.db == nil {
		return
	}
	d.db.ForEachLabel(fn)
}

// SetLabel binds the label to the address, replacing any existing label.
func (d *Document) SetLabel(addr address.Address, lbl label.Label) error {
	return d.AddLabel(addr, lbl, true)
}

// AddLabel binds the label to the address. If the name is used at another
// address the version of the label is incremented until the name is unique.
// Auto-generated labels are always replaced, user labels only if forced.
// A forced label with an empty name removes the label of the address.
func (d *Document) AddLabel(addr address.Address, lbl label.Label, force bool) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	if lbl.IsEmpty() {
		if !force {
			return fmt.Errorf("label at %s: %w", addr, ErrInvalidLabel)
		}
		return d.RemoveLabel(addr)
	}

	unique := lbl
	for {
		owner, ok := db.LabelAddress(unique.DisplayName())
		if !ok || owner == addr {
			break
		}
		unique = unique.IncrementVersion()
	}

	if old, ok := db.Label(addr); ok {
		if !force && !old.IsAutoGenerated() {
			return fmt.Errorf("label '%s' at %s: %w", old, addr, ErrForceRequired)
		}
		if old == unique {
			return nil
		}
		if err := db.RemoveLabel(addr); err != nil {
			return fmt.Errorf("removing label at %s: %w", addr, err)
		}
		d.bus.LabelUpdated(addr, old, true)
	}

	if err := db.AddLabel(addr, unique); err != nil {
		return fmt.Errorf("adding label at %s: %w", addr, err)
	}
	d.bus.LabelUpdated(addr, unique, false)
	d.bus.DocumentUpdated()
	return nil
}

// RemoveLabel removes the label of the address. Subscribers are notified
// even if the address had no label.
func (d *Document) RemoveLabel(addr address.Address) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	old, _ := db.Label(addr)
	if err := db.RemoveLabel(addr); err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("removing label at %s: %w", addr, err)
	}

	d.bus.LabelUpdated(addr, old, true)
	d.bus.DocumentUpdated()
	return nil
}

// RemoveLabelIfNeeded removes a label that is neither exported nor
// imported when nothing references its address anymore.
func (d *Document) RemoveLabelIfNeeded(addr address.Address) {
	if d.db == nil {
		return
	}

	lbl, ok := d.db.Label(addr)
	if !ok || lbl.Type == label.Unknown || lbl.IsExportedOrImported() {
		return
	}
	if d.db.HasCrossReferenceFrom(addr) {
		return
	}

	if err := d.RemoveLabel(addr); err != nil {
		d.logger.Error("Removing unreferenced label failed", log.Stringer("address", addr), log.Err(err))
	}
}

// StartAddress returns the address of the start label, or the first
// address if there is no such label.
func (d *Document) StartAddress() (address.Address, bool) {
	if addr, ok := d.LabelAddress(startLabel); ok {
		return addr, true
	}
	return d.FirstAddress()
}
