package pdf

import (
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// LibraryEngine links pdfcpu in-process, so no binary has to be installed.
// pdfcpu is not context aware; ctx is only checked before each call.
type LibraryEngine struct{}

func NewLibraryEngine() *LibraryEngine {
	return &LibraryEngine{}
}

func (e *LibraryEngine) Name() string {
	return "pdfcpu-library"
}

// config returns a fresh configuration; pdfcpu mutates it per command
func (e *LibraryEngine) config() *model.Configuration {
	return model.NewDefaultConfiguration()
}

func (e *LibraryEngine) PageCount(ctx context.Context, inFile string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return api.PageCountFile(inFile)
}

func (e *LibraryEngine) Collect(ctx context.Context, inFile, outFile string, pages []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return api.CollectFile(inFile, outFile, pageSelection(pages), e.config())
}

func (e *LibraryEngine) RemovePages(ctx context.Context, inFile, outFile string, pages []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return api.RemovePagesFile(inFile, outFile, pageSelection(pages), e.config())
}

func (e *LibraryEngine) Rotate(ctx context.Context, inFile, outFile string, degrees int, pages []int) error {
	if err := validateRotation(degrees); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return api.RotateFile(inFile, outFile, degrees, pageSelection(pages), e.config())
}

func (e *LibraryEngine) Merge(ctx context.Context, inFiles []string, outFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return api.MergeCreateFile(inFiles, outFile, false, e.config())
}

func (e *LibraryEngine) Optimize(ctx context.Context, inFile, outFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return api.OptimizeFile(inFile, outFile, e.config())
}

func (e *LibraryEngine) RemoveWatermarks(ctx context.Context, inFile, outFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hasWatermarks, err := api.HasWatermarksFile(inFile, e.config())
	if err != nil {
		return err
	}
	if !hasWatermarks {
		return ErrNoWatermarks
	}
	return api.RemoveWatermarksFile(inFile, outFile, nil, e.config())
}
