package pdf

import "time"

const (
	// DefaultCLITimeout bounds a single pdfcpu CLI invocation
	DefaultCLITimeout = 30 * time.Second

	// ProbeTimeout bounds the `pdfcpu version` capability probe
	ProbeTimeout = 5 * time.Second

	// DefaultBinary is the pdfcpu executable looked up in PATH
	DefaultBinary = "pdfcpu"

	// MaxSpecifierPages caps a single range in a strict page specifier
	MaxSpecifierPages = 10000

	// DefaultPreviewChars is how much text Inspect keeps per page
	DefaultPreviewChars = 280
)

// Engine selection modes
const (
	EngineAuto    = "auto"
	EngineLibrary = "library"
	EngineCLI     = "cli"
)
