package pdf

import (
	"context"
	"errors"
	"fmt"
)

// ErrRemoveAllPages is returned when a removal would leave an empty document
var ErrRemoveAllPages = errors.New("cannot remove every page of the document")

// RemovePages removes the pages named by the strict specifier pages
func RemovePages(ctx context.Context, engine Engine, inFile, outFile, pages string) error {
	pageNumbers, err := ParsePageSpecifier(pages)
	if err != nil {
		return err
	}

	// Validate page numbers against PDF page count before processing
	totalPages, err := engine.PageCount(ctx, inFile)
	if err != nil {
		return fmt.Errorf("failed to get page count: %w", err)
	}
	if err := ValidatePageNumbers(pageNumbers, totalPages); err != nil {
		return err
	}
	if len(pageNumbers) >= totalPages {
		return ErrRemoveAllPages
	}

	return engine.RemovePages(ctx, inFile, outFile, pageNumbers)
}
