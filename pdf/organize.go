package pdf

import (
	"context"
	"fmt"
)

// OrganizeResult reports what Organize wrote
type OrganizeResult struct {
	TotalPages int
	Indices    []int
	Warnings   []TokenWarning
}

// Organize writes the pages named by order, in that order and with repeats,
// from inFile to outFile. An order that selects nothing yields a
// *NoPagesSelectedError and no output file.
func Organize(ctx context.Context, engine Engine, inFile, outFile, order string) (*OrganizeResult, error) {
	totalPages, err := engine.PageCount(ctx, inFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	indices, warnings := ParsePageOrderWithWarnings(order, totalPages)
	result := &OrganizeResult{TotalPages: totalPages, Indices: indices, Warnings: warnings}
	if len(indices) == 0 {
		return result, &NoPagesSelectedError{TotalPages: totalPages}
	}

	if err := engine.Collect(ctx, inFile, outFile, PageNumbers(indices)); err != nil {
		return result, fmt.Errorf("organize failed: %w", err)
	}
	return result, nil
}
