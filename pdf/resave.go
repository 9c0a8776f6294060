package pdf

import (
	"context"
	"fmt"
)

// Resave optimizes and compresses a PDF file
func Resave(ctx context.Context, engine Engine, inFile, outFile string) error {
	if err := engine.Optimize(ctx, inFile, outFile); err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}
	return nil
}
