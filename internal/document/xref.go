package document

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
)

// AddCrossReference records that the content at from references to.
func (d *Document) AddCrossReference(to, from address.Address) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	if err := db.AddCrossReference(to, from); err != nil {
		return fmt.Errorf("adding cross-reference %s -> %s: %w", from, to, err)
	}
	return nil
}

// RemoveCrossReference removes all references that from makes.
func (d *Document) RemoveCrossReference(from address.Address) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	if err := db.RemoveCrossReference(from); err != nil {
		return fmt.Errorf("removing cross-references of %s: %w", from, err)
	}
	return nil
}

// RemoveCrossReferences removes all cross-references of the document.
func (d *Document) RemoveCrossReferences() error {
	db, err := d.database()
	if err != nil {
		return err
	}
	if err := db.RemoveCrossReferences(); err != nil {
		return fmt.Errorf("removing cross-references: %w", err)
	}
	return nil
}

// HasCrossReferenceFrom returns whether any address references to.
func (d *Document) HasCrossReferenceFrom(to address.Address) bool {
	return d.db != nil && d.db.HasCrossReferenceFrom(to)
}

// CrossReferenceFrom returns the addresses that reference to.
func (d *Document) CrossReferenceFrom(to address.Address) (address.List, bool) {
	if d.db == nil {
		return nil, false
	}
	return d.db.CrossReferenceFrom(to)
}

// HasCrossReferenceTo returns whether from references any address.
func (d *Document) HasCrossReferenceTo(from address.Address) bool {
	return d.db != nil && d.db.HasCrossReferenceTo(from)
}

// CrossReferenceTo returns the addresses that from references.
func (d *Document) CrossReferenceTo(from address.Address) (address.List, bool) {
	if d.db == nil {
		return nil, false
	}
	return d.db.CrossReferenceTo(from)
}
