package pdf

import (
	"context"
	"fmt"
	"strings"
)

// Rotate turns the pages named by pages clockwise by degrees.
// A blank specifier rotates the whole document.
func Rotate(ctx context.Context, engine Engine, inFile, outFile string, degrees int, pages string) error {
	if err := validateRotation(degrees); err != nil {
		return err
	}

	var pageNumbers []int
	if strings.TrimSpace(pages) != "" {
		var err error
		if pageNumbers, err = ParsePageSpecifier(pages); err != nil {
			return err
		}
		totalPages, err := engine.PageCount(ctx, inFile)
		if err != nil {
			return fmt.Errorf("failed to get page count: %w", err)
		}
		if err := ValidatePageNumbers(pageNumbers, totalPages); err != nil {
			return err
		}
	}

	return engine.Rotate(ctx, inFile, outFile, degrees, pageNumbers)
}
