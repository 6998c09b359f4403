package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
)

// AddCrossReference records that from references to.
func (d *Database) AddCrossReference(to, from address.Address) error {
	_, err := d.db.Exec(`INSERT OR IGNORE INTO xrefs (to_base, to_off, from_base, from_off)
        VALUES (?, ?, ?, ?)`, to.Base, int64(to.Offset), from.Base, int64(from.Offset))
	if err != nil {
		return fmt.Errorf("inserting cross-reference: %w", err)
	}
	return nil
}

// RemoveCrossReference removes all references that from makes.
func (d *Database) RemoveCrossReference(from address.Address) error {
	_, err := d.db.Exec("DELETE FROM xrefs WHERE from_base = ? AND from_off = ?", from.Base, int64(from.Offset))
	if err != nil {
		return fmt.Errorf("deleting cross-references: %w", err)
	}
	return nil
}

// RemoveCrossReferences removes all cross-references.
func (d *Database) RemoveCrossReferences() error {
	if _, err := d.db.Exec("DELETE FROM xrefs"); err != nil {
		return fmt.Errorf("deleting cross-references: %w", err)
	}
	return nil
}

// HasCrossReferenceFrom returns whether any address references to.
func (d *Database) HasCrossReferenceFrom(to address.Address) bool {
	_, ok := d.CrossReferenceFrom(to)
	return ok
}

// CrossReferenceFrom returns the addresses that reference to.
func (d *Database) CrossReferenceFrom(to address.Address) (address.List, bool) {
	return d.queryAddresses(`SELECT from_base, from_off FROM xrefs
        WHERE to_base = ? AND to_off = ? ORDER BY from_base, from_off`, to)
}

// HasCrossReferenceTo returns whether from references any address.
func (d *Database) HasCrossReferenceTo(from address.Address) bool {
	_, ok := d.CrossReferenceTo(from)
	return ok
}

// CrossReferenceTo returns the addresses that from references.
func (d *Database) CrossReferenceTo(from address.Address) (address.List, bool) {
	return d.queryAddresses(`SELECT to_base, to_off FROM xrefs
        WHERE from_base = ? AND from_off = ? ORDER BY to_base, to_off`, from)
}

func (d *Database) queryAddresses(query string, addr address.Address) (address.List, bool) {
	rows, err := d.db.Query(query, addr.Base, int64(addr.Offset))
	if err != nil {
		return nil, false
	}
	defer func() { _ = rows.Close() }()

	list, err := scanAddresses(rows)
	if err != nil || len(list) == 0 {
		return nil, false
	}
	return list, true
}

func scanAddresses(rows *sql.Rows) (address.List, error) {
	var list address.List
	for rows.Next() {
		var addr address.Address
		var offset int64
		if err := rows.Scan(&addr.Base, &offset); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		addr.Offset = uint64(offset)
		list = append(list, addr)
	}
	return list, rows.Err()
}
