package pdf

import (
	"context"
	"errors"
)

// ErrNoWatermarks means the document carries no removable watermark or stamp.
// Images embedded as regular page content cannot be removed this way.
var ErrNoWatermarks = errors.New("no removable watermarks or stamps found")

// RemoveWatermarks strips pdfcpu watermarks and stamps from inFile
func RemoveWatermarks(ctx context.Context, engine Engine, inFile, outFile string) error {
	return engine.RemoveWatermarks(ctx, inFile, outFile)
}
