// Package database defines the store that a document persists its cells,
// labels, cross-references, comments and details in.
package database

import (
	"errors"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/multicell"
	"github.com/retroenv/retrodoc/internal/tag"
)

// Errors returned by database implementations.
var (
	// ErrNotFound indicates that the address has no entry of the requested kind.
	ErrNotFound = errors.New("not found")
	// ErrNoMemoryArea indicates that an address is not inside any memory area.
	ErrNoMemoryArea = errors.New("address is not inside a memory area")
	// ErrOverlap indicates that a new memory area overlaps an existing one.
	ErrOverlap = errors.New("memory area overlaps existing area")
	// ErrCellBounds indicates that a cell does not fit into its memory area.
	ErrCellBounds = errors.New("cell exceeds memory area")
	// ErrInvalidLength indicates a cell with a length of 0.
	ErrInvalidLength = errors.New("invalid cell length")
	// ErrInstructionOverwrite indicates that a write would erase an
	// instruction and was not forced.
	ErrInstructionOverwrite = errors.New("overwriting an instruction requires force")
	// ErrDuplicateLabel indicates that the label name is already used at
	// another address.
	ErrDuplicateLabel = errors.New("label name already in use")
)

// Database is the store of a document. Implementations serialize their
// own state and are safe for concurrent use.
type Database interface {
	// AddMemoryArea registers a memory area, it fails with ErrOverlap if the
	// area overlaps an existing one.
	AddMemoryArea(area *address.MemoryArea) error
	// MemoryArea returns the memory area that contains the address.
	MemoryArea(addr address.Address) (*address.MemoryArea, bool)
	// ForEachMemoryArea calls fn for every memory area in address order
	// until fn returns false.
	ForEachMemoryArea(fn func(area *address.MemoryArea) bool)
	// ArchitectureTags returns the distinct architecture tags of all areas.
	ArchitectureTags() []tag.Tag

	// OperatingSystemName returns the name of the targeted system.
	OperatingSystemName() string
	// SetOperatingSystemName sets the name of the targeted system.
	SetOperatingSystemName(name string) error

	FirstAddress() (address.Address, bool)
	LastAddress() (address.Address, bool)
	// NumberOfAddresses returns the sum of the sizes of all memory areas.
	NumberOfAddresses() uint64
	// MoveAddress moves the address by delta positions across memory areas.
	MoveAddress(addr address.Address, delta int64) (address.Address, bool)
	// ConvertAddressToPosition returns the linear position of the address
	// over all memory areas in address order.
	ConvertAddressToPosition(addr address.Address) (uint64, bool)
	ConvertPositionToAddress(position uint64) (address.Address, bool)

	// CellData returns the cell starting at the address. Bytes of a memory
	// area that are not covered by any cell return a single byte unknown
	// value, bytes inside a cell are not found.
	CellData(addr address.Address) (cell.Data, bool)
	// SetCellData stores a cell and returns the start addresses of all other
	// cells that were fully or partially overwritten, in address order.
	SetCellData(addr address.Address, data cell.Data, force bool) (address.List, error)
	DeleteCellData(addr address.Address) error

	Label(addr address.Address) (label.Label, bool)
	// LabelAddress returns the address of the label with the given display name.
	LabelAddress(name string) (address.Address, bool)
	// AddLabel binds the label to the address, replacing a previous label of
	// the address. It fails with ErrDuplicateLabel if the display name is
	// bound to another address.
	AddLabel(addr address.Address, lbl label.Label) error
	RemoveLabel(addr address.Address) error
	// ForEachLabel calls fn for every label in address order until fn
	// returns false.
	ForEachLabel(fn func(addr address.Address, lbl label.Label) bool)

	// AddCrossReference records that from references to.
	AddCrossReference(to, from address.Address) error
	// RemoveCrossReference removes all references that from makes.
	RemoveCrossReference(from address.Address) error
	RemoveCrossReferences() error
	// HasCrossReferenceFrom returns whether any address references to.
	HasCrossReferenceFrom(to address.Address) bool
	// CrossReferenceFrom returns the addresses that reference to.
	CrossReferenceFrom(to address.Address) (address.List, bool)
	// HasCrossReferenceTo returns whether from references any address.
	HasCrossReferenceTo(from address.Address) bool
	// CrossReferenceTo returns the addresses that from references.
	CrossReferenceTo(from address.Address) (address.List, bool)

	Comment(addr address.Address) (string, bool)
	// SetComment sets the comment of the address, an empty comment removes it.
	SetComment(addr address.Address, comment string) error

	ValueDetail(id detail.ID) (detail.ValueDetail, bool)
	SetValueDetail(id detail.ID, value detail.ValueDetail) error
	FunctionDetail(id detail.ID) (detail.FunctionDetail, bool)
	SetFunctionDetail(id detail.ID, function detail.FunctionDetail) error
	StructureDetail(id detail.ID) (*detail.StructureDetail, bool)
	SetStructureDetail(id detail.ID, structure *detail.StructureDetail) error
	// RetrieveDetailID returns the detail bound to the operand index of the address.
	RetrieveDetailID(addr address.Address, index uint8) (detail.ID, bool)
	BindDetailID(addr address.Address, index uint8, id detail.ID) error
	UnbindDetailID(addr address.Address, index uint8) error

	MultiCell(addr address.Address) (multicell.MultiCell, bool)
	// AddMultiCell stores the multicell, replacing a previous one.
	AddMultiCell(addr address.Address, mc multicell.MultiCell) error

	// Flush writes pending changes to the underlying storage.
	Flush() error
	Close() error
}
