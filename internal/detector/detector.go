// Package detector picks the system of an input file for the loader.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// fallbackSystem is used for files with an unknown extension.
const fallbackSystem = arch.NES

// extensionSystems maps lower case file extensions to the system whose
// memory map the loader builds for them.
var extensionSystems = map[string]arch.System{
	".nes": arch.NES,
	".ch8": arch.CHIP8System,
	".c8":  arch.CHIP8System,
	".rom": arch.CHIP8System,
}

// Detector selects the system of the document.
type Detector struct {
	logger *log.Logger
}

// New returns a detector that logs its guesses to the logger.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns the system passed on the command line. Without one the
// system is derived from the file extension of the input.
func (d *Detector) Detect(opts options.Program) arch.System {
	if system, _ := arch.SystemFromString(opts.System); system != "" {
		return system
	}

	system, known := systemOfFile(opts.Input)
	if !known {
		d.logger.Warn("Unknown file extension, assuming NES ROM",
			log.String("file", opts.Input))
		return system
	}

	d.logger.Debug("Detected system from file extension",
		log.Stringer("system", system),
		log.String("file", opts.Input))
	return system
}

func systemOfFile(filename string) (arch.System, bool) {
	system, ok := extensionSystems[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return fallbackSystem, false
	}
	return system, true
}
