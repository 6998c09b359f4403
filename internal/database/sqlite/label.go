package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/label"
)

func (d *Database) Label(addr address.Address) (label.Label, bool) {
	var lbl label.Label
	err := d.db.QueryRow("SELECT name, type, version FROM labels WHERE base = ? AND off = ?",
		addr.Base, int64(addr.Offset)).Scan(&lbl.Name, &lbl.Type, &lbl.Version)
	if err != nil {
		return label.Label{}, false
	}
	return lbl, true
}

// LabelAddress returns the address of the label with the given display name.
func (d *Database) LabelAddress(name string) (address.Address, bool) {
	var addr address.Address
	var offset int64
	err := d.db.QueryRow("SELECT base, off FROM labels WHERE display_name = ?", name).
		Scan(&addr.Base, &offset)
	if err != nil {
		return address.Address{}, false
	}
	addr.Offset = uint64(offset)
	return addr, true
}

// AddLabel binds the label to the address.
func (d *Database) AddLabel(addr address.Address, lbl label.Label) error {
	name := lbl.DisplayName()
	return d.WithTx(func(tx *sql.Tx) error {
		var base uint16
		var offset int64
		err := tx.QueryRow("SELECT base, off FROM labels WHERE display_name = ?", name).Scan(&base, &offset)
		switch {
		case err == nil:
			owner := address.New(base, uint64(offset))
			if owner != addr {
				return fmt.Errorf("label '%s' at %s: %w", name, owner, database.ErrDuplicateLabel)
			}
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("querying label: %w", err)
		}

		_, err = tx.Exec(`INSERT OR REPLACE INTO labels (base, off, name, type, version, display_name)
            VALUES (?, ?, ?, ?, ?, ?)`,
			addr.Base, int64(addr.Offset), lbl.Name, uint16(lbl.Type), lbl.Version, name)
		if err != nil {
			return fmt.Errorf("inserting label: %w", err)
		}
		return nil
	})
}

// RemoveLabel removes the label of the address.
func (d *Database) RemoveLabel(addr address.Address) error {
	res, err := d.db.Exec("DELETE FROM labels WHERE base = ? AND off = ?", addr.Base, int64(addr.Offset))
	if err != nil {
		return fmt.Errorf("deleting label: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("label at %s", addr))
}

type labelEntry struct {
	addr address.Address
	lbl  label.Label
}

// ForEachLabel calls fn for every label in address order. The labels are
// read before fn is called, fn can access the database.
func (d *Database) ForEachLabel(fn func(addr address.Address, lbl label.Label) bool) {
	rows, err := d.db.Query("SELECT base, off, name, type, version FROM labels ORDER BY base, off")
	if err != nil {
		return
	}

	var entries []labelEntry
	for rows.Next() {
		var e labelEntry
		var offset int64
		if err := rows.Scan(&e.addr.Base, &offset, &e.lbl.Name, &e.lbl.Type, &e.lbl.Version); err != nil {
			break
		}
		e.addr.Offset = uint64(offset)
		entries = append(entries, e)
	}
	_ = rows.Close()

	for _, e := range entries {
		if !fn(e.addr, e.lbl) {
			return
		}
	}
}
