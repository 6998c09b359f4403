// Package pipeline orchestrates the load, analysis and listing stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/analyzer"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/config"
	"github.com/retroenv/retrodoc/internal/consts"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/detector"
	"github.com/retroenv/retrodoc/internal/document"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/listing"
	"github.com/retroenv/retrodoc/internal/loader"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	archsys "github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// vectorSize is the size of a stored entry point pointer in bytes.
const vectorSize = 2

// Pipeline orchestrates the complete workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline and writes the listing to the writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, analyzerOpts options.Analyzer, writer io.Writer) error {
	system := p.detector.Detect(opts)

	img, err := p.loader.Load(opts, system)
	if err != nil {
		return fmt.Errorf("loading file: %w", err)
	}

	p.printInfo(opts, img)

	return p.ExecuteWithImage(ctx, img, opts, analyzerOpts, writer)
}

// ExecuteWithImage runs the pipeline with an already loaded image.
// A database that already contains a document is listed without a new
// analysis.
func (p *Pipeline) ExecuteWithImage(ctx context.Context, img *loader.Image, opts options.Program,
	analyzerOpts options.Analyzer, writer io.Writer) error {

	registry, err := config.CreateRegistry(analyzerOpts.Unofficial)
	if err != nil {
		return err
	}

	db, err := config.OpenDatabase(opts.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	doc := document.New(p.logger, registry, stream.New(img.Data, img.Endianness), options.NewDocument())
	if err := doc.Use(db); err != nil {
		return fmt.Errorf("attaching database: %w", err)
	}
	defer doc.Close()

	if _, stored := db.FirstAddress(); stored {
		p.logger.Info("Using stored document", log.String("database", opts.Database))
	} else if err := p.analyze(ctx, doc, db, registry, img, analyzerOpts); err != nil {
		return err
	}

	listingOpts := listing.Options{
		OffsetComments:  opts.Offsets,
		CrossReferences: opts.Xrefs,
	}
	if err := listing.New(doc, writer, listingOpts).Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}

	if err := doc.Flush(); err != nil {
		return fmt.Errorf("flushing document: %w", err)
	}
	return nil
}

// analyze populates the document with the memory map of the image and runs
// the analysis passes.
func (p *Pipeline) analyze(ctx context.Context, doc *document.Document, db database.Database,
	registry *arch.Registry, img *loader.Image, opts options.Analyzer) error {

	if err := db.SetOperatingSystemName(string(img.System)); err != nil {
		return fmt.Errorf("setting operating system name: %w", err)
	}

	for _, area := range img.Areas {
		if err := doc.AddMemoryArea(area); err != nil {
			return fmt.Errorf("adding memory area: %w", err)
		}
	}

	an := analyzer.New(p.logger, doc, registry, opts)
	if !opts.HasEntry {
		for _, entry := range img.Entries {
			an.AddEntryPoint(entry.Address, entry.Name)
		}
	}
	p.addVectors(doc, an, img.Vectors, !opts.HasEntry)

	if err := an.Run(ctx); err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	if img.Registers == nil {
		return nil
	}
	return nameRegisters(doc, img.Registers)
}

// nameRegisters labels all referenced hardware registers as imported data.
func nameRegisters(doc *document.Document, src consts.Source) error {
	registers, err := consts.New(src)
	if err != nil {
		return fmt.Errorf("loading register names: %w", err)
	}

	for _, addr := range registers.Addresses() {
		register := address.New(0, uint64(addr))
		if !doc.HasCrossReferenceFrom(register) {
			continue
		}

		constant, _ := registers.Get(addr)
		lbl := label.New(constant.Name(), label.Data|label.Imported)
		if err := doc.AddLabel(register, lbl, false); err != nil {
			return fmt.Errorf("naming register %s: %w", register, err)
		}
	}
	return nil
}

// addVectors types all vectors as pointers and optionally adds their targets
// as entry points. Targets that are not backed by the file are ignored.
func (p *Pipeline) addVectors(doc *document.Document, an *analyzer.Analyzer, vectors []loader.Vector, entries bool) {
	targets := set.New[address.Address]()

	for _, vector := range vectors {
		target, err := resolveVector(doc, vector)
		if err != nil {
			p.logger.Warn("Resolving vector failed", log.String("vector", vector.Name), log.Err(err))
			continue
		}
		if _, ok := doc.ConvertAddressToFileOffset(target); !ok {
			p.logger.Warn("Vector points outside of the program",
				log.String("vector", vector.Name),
				log.Stringer("target", target))
			continue
		}

		if err := doc.AddCrossReference(target, vector.Address); err != nil {
			p.logger.Warn("Adding vector reference failed", log.String("vector", vector.Name), log.Err(err))
		}

		if !entries {
			continue
		}
		if targets.Contains(target) {
			p.logger.Debug("Vector target already added",
				log.String("vector", vector.Name),
				log.Stringer("target", target))
			continue
		}
		targets.Add(target)
		an.AddEntryPoint(target, vector.Name)
	}
}

// resolveVector reads the target of the vector and types the vector as
// pointer value.
func resolveVector(doc *document.Document, vector loader.Vector) (address.Address, error) {
	fileOffset, ok := doc.ConvertAddressToFileOffset(vector.Address)
	if !ok {
		return address.Address{}, fmt.Errorf("vector at %s: %w", vector.Address, document.ErrNotFound)
	}

	value, err := doc.Stream().ReadUint(fileOffset, vectorSize)
	if err != nil {
		return address.Address{}, fmt.Errorf("reading vector at %s: %w", vector.Address, err)
	}

	if err := doc.SetCell(vector.Address, cell.NewValue(cell.ValueHexadecimal, vectorSize), false); err != nil {
		return address.Address{}, fmt.Errorf("typing vector at %s: %w", vector.Address, err)
	}
	if err := doc.SetComment(vector.Address, vector.Name+" vector"); err != nil {
		return address.Address{}, fmt.Errorf("commenting vector at %s: %w", vector.Address, err)
	}

	return address.New(vector.Address.Base, value), nil
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program, img *loader.Image) {
	if opts.Quiet {
		return
	}

	switch img.System {
	case archsys.NES:
		p.logger.Info("Processing NES ROM",
			log.String("file", opts.Input),
			log.Uint8("mapper", img.Mapper),
		)
		if img.Mapper != 0 && img.Mapper != 3 {
			p.logger.Warn("Only the last 32KB of the PRG ROM are mapped, multi bank mapper support is still in development")
		}

	case archsys.CHIP8System:
		p.logger.Info("Processing Chip-8 ROM",
			log.String("file", opts.Input),
		)
	}
}
