package pdf

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrEmptySpecifier is returned by ParsePageSpecifier for a blank page specification
	ErrEmptySpecifier = errors.New("empty page specification")

	// ErrInvalidSpecifier wraps every strict parsing failure
	ErrInvalidSpecifier = errors.New("invalid page specification")

	whitespace = regexp.MustCompile(`\s`)
)

// Reasons reported in a TokenWarning
const (
	ReasonNotANumber       = "not a page number"
	ReasonDescending       = "range end is before range start"
	ReasonOutOfRange       = "outside the document's pages"
	ReasonPartlyOutOfRange = "range partly outside the document's pages"
)

// TokenWarning describes a token of a page order that contributed nothing,
// or only some of the pages it named.
type TokenWarning struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// PageRange is an inclusive range of 1-based page numbers
type PageRange struct {
	Start int
	End   int
}

// Pages expands the range in ascending order
func (r PageRange) Pages() []int {
	if r.End < r.Start {
		return nil
	}
	pages := make([]int, 0, r.End-r.Start+1)
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ParsePageOrder turns a page order such as "3,1,2,5-7" into zero-based page
// indices for a document with totalPages pages.
//
// Tokens are separated by commas and are either a page number or an inclusive
// "start-end" range. Page numbers are 1-based. Order and duplicates are kept;
// ranges expand ascending. Tokens that are not integers, descending ranges and
// pages outside 1..totalPages contribute nothing. The result is never nil.
func ParsePageOrder(spec string, totalPages int) []int {
	indices, _ := ParsePageOrderWithWarnings(spec, totalPages)
	return indices
}

// ParsePageOrderWithWarnings is ParsePageOrder that also reports every token
// that was dropped or clipped.
func ParsePageOrderWithWarnings(spec string, totalPages int) ([]int, []TokenWarning) {
	indices := []int{}
	var warnings []TokenWarning

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		startStr, endStr, isRange := strings.Cut(token, "-")
		if !isRange {
			page, err := strconv.Atoi(token)
			if err != nil {
				warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonNotANumber})
				continue
			}
			if page < 1 || page > totalPages {
				warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonOutOfRange})
				continue
			}
			indices = append(indices, page-1)
			continue
		}

		start, errStart := strconv.Atoi(strings.TrimSpace(startStr))
		end, errEnd := strconv.Atoi(strings.TrimSpace(endStr))
		if errStart != nil || errEnd != nil {
			warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonNotANumber})
			continue
		}
		if end < start {
			warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonDescending})
			continue
		}
		if start < 1 {
			warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonOutOfRange})
			continue
		}

		// Clamp before expanding so "1-1000000000" stays cheap
		last := min(end, totalPages)
		if start > last {
			warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonOutOfRange})
			continue
		}
		for page := start; page <= last; page++ {
			indices = append(indices, page-1)
		}
		if end > last {
			warnings = append(warnings, TokenWarning{Token: token, Reason: ReasonPartlyOutOfRange})
		}
	}

	return indices, warnings
}

// PageNumbers converts zero-based indices back to 1-based page numbers
func PageNumbers(indices []int) []int {
	pages := make([]int, len(indices))
	for i, idx := range indices {
		pages[i] = idx + 1
	}
	return pages
}

// NoPagesSelectedError is returned when a page order selects nothing.
// The message restates the document's real page count.
type NoPagesSelectedError struct {
	TotalPages int
}

func (e *NoPagesSelectedError) Error() string {
	return fmt.Sprintf("no valid pages selected, your document has %d pages; examples: '3,1,2' or '1-3,5-6'", e.TotalPages)
}

// ParsePageSpecifier parses a page set for operations where order and
// repetition are meaningless (remove, rotate). Unlike ParsePageOrder it is
// strict: any malformed token fails the whole specification.
// Supports formats: "1", "1,3", "1-5", "1,3-5,7". Result is sorted and deduplicated.
func ParsePageSpecifier(pages string) ([]int, error) {
	pages = whitespace.ReplaceAllString(pages, "")
	if pages == "" {
		return nil, ErrEmptySpecifier
	}

	var pageList []int
	for _, part := range strings.Split(pages, ",") {
		if part == "" {
			continue
		}

		startStr, endStr, isRange := strings.Cut(part, "-")
		if !isRange {
			pageNum, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid page number %q", ErrInvalidSpecifier, part)
			}
			pageList = append(pageList, pageNum)
			continue
		}

		start, err := strconv.Atoi(startStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start page %q", ErrInvalidSpecifier, startStr)
		}
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end page %q", ErrInvalidSpecifier, endStr)
		}
		if start > end {
			return nil, fmt.Errorf("%w: start > end (%d > %d)", ErrInvalidSpecifier, start, end)
		}
		if end-start >= MaxSpecifierPages {
			return nil, fmt.Errorf("%w: range %s spans more than %d pages", ErrInvalidSpecifier, part, MaxSpecifierPages)
		}
		pageList = append(pageList, PageRange{Start: start, End: end}.Pages()...)
	}

	if len(pageList) == 0 {
		return nil, ErrEmptySpecifier
	}

	slices.Sort(pageList)
	return slices.Compact(pageList), nil
}

// ValidatePageNumbers checks if all page numbers are valid for a given total number of pages
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, page := range pages {
		if page < 1 {
			return fmt.Errorf("%w: page numbers must be positive, got %d", ErrInvalidSpecifier, page)
		}
		if page > totalPages {
			return fmt.Errorf("%w: page %d exceeds total pages (%d)", ErrInvalidSpecifier, page, totalPages)
		}
	}
	return nil
}
