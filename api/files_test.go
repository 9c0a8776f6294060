package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"pdffusion/pdf"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "__etc_passwd"},
		{"a\\b.pdf", "a_b.pdf"},
		{"bad\"name\n.pdf", "badname.pdf"},
		{"", "document.pdf"},
		{"..", "document.pdf"},
		{"café.pdf", "café.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "report_organized.pdf", downloadName("report.pdf", "organized"))
	assert.Equal(t, "Scan_rotated.pdf", downloadName("Scan.PDF", "rotated"))
	assert.Equal(t, "notes_merged.pdf", downloadName("notes", "merged"))
	assert.Equal(t, "document_resaved.pdf", downloadName("", "resaved"))
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"no pages", &pdf.NoPagesSelectedError{TotalPages: 2}, http.StatusUnprocessableEntity, CodeNoPagesSelected},
		{"bad specifier", fmt.Errorf("%w: x", pdf.ErrInvalidSpecifier), http.StatusBadRequest, CodeValidation},
		{"rotation", pdf.ErrInvalidRotation, http.StatusBadRequest, CodeValidation},
		{"watermarks", pdf.ErrNoWatermarks, http.StatusUnprocessableEntity, CodeUnprocessable},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, CodeTooLarge},
		{"timeout", fmt.Errorf("collect: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"app error", badRequest("nope"), http.StatusBadRequest, CodeBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestToAppErrorTruncatesLongMessages(t *testing.T) {
	long := make([]byte, MaxErrorDetailLength+50)
	for i := range long {
		long[i] = 'x'
	}
	appErr := toAppError(errors.New(string(long)))
	assert.Len(t, appErr.Message, MaxErrorDetailLength+3)
}

func TestHeaderWarnings(t *testing.T) {
	warnings := make([]pdf.TokenWarning, 30)
	for i := range warnings {
		warnings[i] = pdf.TokenWarning{Token: fmt.Sprint(i), Reason: pdf.ReasonOutOfRange}
	}
	warnings[0].Token = "ééééééééééééééééééééééééééééééééééééééééé"

	capped := headerWarnings(warnings)
	assert.Len(t, capped, MaxHeaderWarnings)
	assert.Equal(t, "19", capped[19].Token)
	assert.Equal(t, maxWarningTokenLength+1, len([]rune(capped[0].Token)))
	assert.Len(t, headerWarnings(warnings[:2]), 2)
}
