package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	ledongthuc "github.com/ledongthuc/pdf"
)

// PagePreview is a short text sample of one page
type PagePreview struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Words  int    `json:"words"`
}

// InspectResult describes an uploaded document before it is organized
type InspectResult struct {
	PageCount int           `json:"page_count"`
	Size      string        `json:"size"`
	Pages     []PagePreview `json:"pages"`
}

// Inspect counts the pages of data and samples up to previewChars of text
// from each. Pages whose text cannot be extracted (scans, images) get an
// empty preview instead of failing the whole document.
func Inspect(data []byte, previewChars int) (result *InspectResult, err error) {
	// ledongthuc/pdf panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := reader.NumPage()
	result = &InspectResult{
		PageCount: pageCount,
		Size:      FormatBytes(int64(len(data))),
		Pages:     make([]PagePreview, 0, pageCount),
	}

	for i := 1; i <= pageCount; i++ {
		preview := PagePreview{Number: i}
		page := reader.Page(i)
		if !page.V.IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				text = strings.Join(strings.Fields(text), " ")
				preview.Words = len(strings.Fields(text))
				preview.Text = truncateRunes(text, previewChars)
			}
		}
		result.Pages = append(result.Pages, preview)
	}

	return result, nil
}

// ValidatePDF checks the magic bytes at the start of data
func ValidatePDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
