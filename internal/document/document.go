// Package document implements the semantic model of a disassembled binary:
// typed cells, labels, cross-references and structure overlays on top of a
// database, an architecture registry and the binary stream.
package document

import (
	"fmt"
	"sync"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/history"
	"github.com/retroenv/retrodoc/internal/multicell"
	"github.com/retroenv/retrodoc/internal/notify"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrogolib/log"
)

// Document orchestrates all modifications of a disassembled binary and
// notifies subscribers about them. All methods are safe for concurrent use
// once a database is attached.
type Document struct {
	logger   *log.Logger
	opts     options.Document
	registry *arch.Registry
	stream   stream.BinaryStream

	db database.Database // set once by Use

	bus     *notify.Bus
	history *history.History

	cellMu     sync.Mutex // guards cell materialization and multiCells
	multiCells map[address.Address]multicell.MultiCell
}

// New returns a new document without a database. Zero values of the
// options are replaced by defaults.
func New(logger *log.Logger, registry *arch.Registry, s stream.BinaryStream, opts options.Document) *Document {
	defaults := options.NewDocument()
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = defaults.HistoryCapacity
	}
	if opts.MaxStructureDepth <= 0 {
		opts.MaxStructureDepth = defaults.MaxStructureDepth
	}
	if opts.MaxStringLength == 0 {
		opts.MaxStringLength = defaults.MaxStringLength
	}

	return &Document{
		logger:     logger,
		opts:       opts,
		registry:   registry,
		stream:     s,
		bus:        notify.New(),
		history:    history.New(opts.HistoryCapacity),
		multiCells: map[address.Address]multicell.MultiCell{},
	}
}

// Use attaches the database that the document is stored in. It has to be
// called before the document is shared between goroutines. The database
// stays owned by the caller.
func (d *Document) Use(db database.Database) error {
	if d.db != nil {
		return ErrDatabaseAttached
	}
	d.db = db
	return nil
}

func (d *Document) database() (database.Database, error) {
	if d.db == nil {
		return nil, ErrNoDatabase
	}
	return d.db, nil
}

// Stream returns the binary stream of the document.
func (d *Document) Stream() stream.BinaryStream {
	return d.stream
}

// Options returns the options of the document.
func (d *Document) Options() options.Document {
	return d.opts
}

// Flush writes pending changes of the database to its storage.
func (d *Document) Flush() error {
	db, err := d.database()
	if err != nil {
		return err
	}
	if err := db.Flush(); err != nil {
		return fmt.Errorf("flushing database: %w", err)
	}
	return nil
}

// Close notifies all subscribers that the document is closed and
// disconnects them. The database is not closed.
func (d *Document) Close() {
	d.bus.Quit()
	d.bus.DisconnectAll()

	d.cellMu.Lock()
	d.multiCells = map[address.Address]multicell.MultiCell{}
	d.cellMu.Unlock()
}

// Subscribe registers a subscriber for the events selected by the mask.
func (d *Document) Subscribe(mask notify.Mask, subscriber notify.Subscriber) *notify.Handle {
	return d.bus.Subscribe(mask, subscriber)
}

// UpdateTask notifies subscribers about the progress of a task.
func (d *Document) UpdateTask(task string, status notify.TaskStatus) {
	d.bus.TaskUpdated(task, status)
}

// OperatingSystemName returns the name of the targeted system.
func (d *Document) OperatingSystemName() string {
	if d.db == nil {
		return ""
	}
	return d.db.OperatingSystemName()
}
