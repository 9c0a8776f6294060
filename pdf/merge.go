package pdf

import (
	"context"
	"errors"
	"fmt"
)

// ErrTooFewInputs is returned when merging fewer than two documents
var ErrTooFewInputs = errors.New("merge needs at least two documents")

// Merge concatenates inFiles, in order, into outFile
func Merge(ctx context.Context, engine Engine, inFiles []string, outFile string) error {
	if len(inFiles) < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewInputs, len(inFiles))
	}
	return engine.Merge(ctx, inFiles, outFile)
}
