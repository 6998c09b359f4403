package loader

import "errors"

var (
	errEmptyPRG     = errors.New("no program data")
	errAddressRange = errors.New("address outside of the system memory")
)
