package document

import "github.com/retroenv/retrodoc/internal/address"

// PreviousAddressInHistory moves back in the navigation history.
func (d *Document) PreviousAddressInHistory() (address.Address, error) {
	return d.history.Back()
}

// NextAddressInHistory moves forward in the navigation history.
func (d *Document) NextAddressInHistory() (address.Address, error) {
	return d.history.Forward()
}

// InsertAddressInHistory records a visited address, discarding all
// entries after the current one.
func (d *Document) InsertAddressInHistory(addr address.Address) {
	d.history.Insert(addr)
}
