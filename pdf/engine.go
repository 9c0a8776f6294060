package pdf

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Engine performs the byte-level PDF work. Page numbers are 1-based.
type Engine interface {
	Name() string
	PageCount(ctx context.Context, inFile string) (int, error)
	// Collect writes the given pages, in the given order and including
	// repeats, to outFile.
	Collect(ctx context.Context, inFile, outFile string, pages []int) error
	RemovePages(ctx context.Context, inFile, outFile string, pages []int) error
	// Rotate turns pages clockwise by degrees. Nil pages means every page.
	Rotate(ctx context.Context, inFile, outFile string, degrees int, pages []int) error
	Merge(ctx context.Context, inFiles []string, outFile string) error
	Optimize(ctx context.Context, inFile, outFile string) error
	RemoveWatermarks(ctx context.Context, inFile, outFile string) error
}

// ReadinessState says whether an engine can be used
type ReadinessState int

const (
	NotReady ReadinessState = iota
	Ready
)

func (s ReadinessState) String() string {
	if s == Ready {
		return "ready"
	}
	return "not_ready"
}

// Readiness is the outcome of a capability check
type Readiness struct {
	State  ReadinessState
	Reason string
}

// IsReady reports whether the checked capability is usable
func (r Readiness) IsReady() bool {
	return r.State == Ready
}

// ProbeCLI checks that the pdfcpu binary can be executed
func ProbeCLI(ctx context.Context, binary string) Readiness {
	output, err := execCommandWithTimeout(ctx, ProbeTimeout, binary, "version")
	if err != nil {
		return Readiness{State: NotReady, Reason: fmt.Sprintf("%s not executable: %v", binary, err)}
	}
	version := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	return Readiness{State: Ready, Reason: version}
}

// SelectEngine returns the engine for mode along with the CLI readiness that
// drove the choice. In auto mode an unusable CLI falls back to the library.
func SelectEngine(ctx context.Context, mode, binary string, timeout time.Duration) (Engine, Readiness, error) {
	switch mode {
	case EngineLibrary:
		return NewLibraryEngine(), Readiness{State: NotReady, Reason: "cli not requested"}, nil
	case EngineCLI:
		readiness := ProbeCLI(ctx, binary)
		if !readiness.IsReady() {
			return nil, readiness, fmt.Errorf("pdfcpu CLI not available: %s", readiness.Reason)
		}
		return NewCLIEngine(binary, timeout), readiness, nil
	case EngineAuto, "":
		readiness := ProbeCLI(ctx, binary)
		if readiness.IsReady() {
			return NewCLIEngine(binary, timeout), readiness, nil
		}
		return NewLibraryEngine(), readiness, nil
	default:
		return nil, Readiness{State: NotReady, Reason: "unknown mode"}, fmt.Errorf("unknown engine mode %q", mode)
	}
}

// ErrInvalidRotation is returned for rotations that are not a non-zero multiple of 90
var ErrInvalidRotation = errors.New("rotation must be a non-zero multiple of 90 degrees")

func validateRotation(degrees int) error {
	if degrees == 0 || degrees%90 != 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidRotation, degrees)
	}
	return nil
}

// pageSelection renders page numbers as pdfcpu page selection strings
func pageSelection(pages []int) []string {
	if len(pages) == 0 {
		return nil
	}
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}
