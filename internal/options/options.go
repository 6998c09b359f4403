// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input    string `flag:"i" usage:"input binary file"`
	Output   string `flag:"o" usage:"output listing file (default: stdout)"`
	Database string `flag:"db" usage:"SQLite database file to store the document in (default: in memory)"`
}

// Flags contains behavior options.
type Flags struct {
	System     string `flag:"s" usage:"target system: nes, chip8 (default: auto-detect)"`
	Base       uint64 `flag:"base" usage:"load address of a raw program"`
	Entry      string `flag:"entry" usage:"logical address to start the code analysis at (default: base)"`
	Strings    bool   `flag:"strings" usage:"detect NUL terminated strings in unreferenced data"`
	Unofficial bool   `flag:"unofficial" usage:"decode unofficial 6502 opcodes"`
	Offsets    bool   `flag:"offsets" usage:"output file offsets in comments"`
	Xrefs      bool   `flag:"xrefs" usage:"output cross-references of labels"`
	Debug      bool   `flag:"debug" usage:"enable debug logging"`
	Quiet      bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the tool.
type Program struct {
	Parameters
	Flags
}

// Document defines options to control the document behavior.
type Document struct {
	HistoryCapacity   int    // maximum amount of address history entries
	MaxStructureDepth int    // maximum nesting of applied structures
	MaxStringLength   uint16 // maximum length of detected strings including the terminator
}

// NewDocument returns a new options instance with default options.
func NewDocument() Document {
	return Document{
		HistoryCapacity:   100,
		MaxStructureDepth: 32,
		MaxStringLength:   256,
	}
}

// Analyzer defines options to control the analysis passes.
type Analyzer struct {
	Entry          uint64 // logical address of the first analyzed instruction
	HasEntry       bool
	Strings        bool
	MinStringBytes int // minimum amount of printable characters of a detected string
	Unofficial     bool
}

// NewAnalyzer returns a new options instance with default options.
func NewAnalyzer() Analyzer {
	return Analyzer{
		MinStringBytes: 4,
	}
}
