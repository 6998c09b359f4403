// Package analyzer implements the analysis passes that turn the raw bytes of
// a document into instructions, strings, labels and cross-references.
package analyzer

import (
	"context"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/document"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/notify"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// task names that are reported to the document subscribers.
const (
	TaskCode    = "code analysis"
	TaskStrings = "string detection"
)

type entryPoint struct {
	addr address.Address
	name string
}

// Analyzer follows the execution flow of the program from its entry points
// and types all reached bytes as instructions.
type Analyzer struct {
	logger   *log.Logger
	doc      *document.Document
	registry *arch.Registry
	options  options.Analyzer

	entries []entryPoint

	addressesToParse      address.List
	addressesToParseAdded set.Set[address.Address]

	callReturnsToParse      address.List
	callReturnsToParseAdded set.Set[address.Address]

	branchDestinations set.Set[address.Address] // all addresses that are branched to
	callDestinations   set.Set[address.Address]
	dataReferences     set.Set[address.Address]

	instructions int
}

// New returns a new analyzer for the document.
func New(logger *log.Logger, doc *document.Document, registry *arch.Registry, opts options.Analyzer) *Analyzer {
	return &Analyzer{
		logger:                  logger,
		doc:                     doc,
		registry:                registry,
		options:                 opts,
		addressesToParseAdded:   set.New[address.Address](),
		callReturnsToParseAdded: set.New[address.Address](),
		branchDestinations:      set.New[address.Address](),
		callDestinations:        set.New[address.Address](),
		dataReferences:          set.New[address.Address](),
	}
}

// AddEntryPoint adds an address that the code analysis starts at. A non
// empty name is bound to the address as exported label.
func (a *Analyzer) AddEntryPoint(addr address.Address, name string) {
	a.entries = append(a.entries, entryPoint{addr: addr, name: name})
}

// Run executes all enabled analysis passes.
func (a *Analyzer) Run(ctx context.Context) error {
	if err := a.runTask(ctx, TaskCode, a.analyzeCode); err != nil {
		return err
	}
	if !a.options.Strings {
		return nil
	}
	return a.runTask(ctx, TaskStrings, a.detectStrings)
}

func (a *Analyzer) runTask(ctx context.Context, task string, fn func(ctx context.Context) error) error {
	a.doc.UpdateTask(task, notify.TaskStarted)
	if err := fn(ctx); err != nil {
		a.doc.UpdateTask(task, notify.TaskFailed)
		return fmt.Errorf("%s: %w", task, err)
	}
	a.doc.UpdateTask(task, notify.TaskFinished)
	return nil
}

// analyzeCode follows the execution flow from all entry points.
func (a *Analyzer) analyzeCode(ctx context.Context) error {
	if len(a.entries) == 0 {
		entry, ok := a.defaultEntry()
		if !ok {
			return fmt.Errorf("no entry point: %w", document.ErrNotFound)
		}
		a.AddEntryPoint(entry, "")
	}

	for _, entry := range a.entries {
		if entry.name != "" {
			lbl := label.New(label.Normalize(entry.name), label.Code|label.Exported)
			if err := a.doc.AddLabel(entry.addr, lbl, false); err != nil {
				return fmt.Errorf("adding entry label '%s': %w", entry.name, err)
			}
		}
		a.addAddressToParse(entry.addr, false)
	}

	if err := a.followExecutionFlow(ctx); err != nil {
		return err
	}
	if err := a.processBranchDestinations(); err != nil {
		return err
	}
	if err := a.processDataReferences(); err != nil {
		return err
	}

	a.logger.Info("Code analysis finished",
		log.Int("instructions", a.instructions),
		log.Int("branch_destinations", len(a.branchDestinations)),
		log.Int("data_references", len(a.dataReferences)))
	return nil
}

func (a *Analyzer) defaultEntry() (address.Address, bool) {
	if a.options.HasEntry {
		return address.New(0, a.options.Entry), true
	}
	return a.doc.StartAddress()
}
