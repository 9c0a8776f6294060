package pdf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageOrder(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		totalPages int
		want       []int
	}{
		{name: "empty spec", spec: "", totalPages: 5, want: []int{}},
		{name: "only separators and spaces", spec: " , ,, ", totalPages: 5, want: []int{}},
		{name: "page zero is out of range", spec: "0", totalPages: 5, want: []int{}},
		{name: "page past the end", spec: "6", totalPages: 5, want: []int{}},
		{name: "duplicates preserved", spec: "2,2,4", totalPages: 5, want: []int{1, 1, 3}},
		{name: "arbitrary reordering", spec: "3,1,2", totalPages: 3, want: []int{2, 0, 1}},
		{name: "descending range skipped", spec: "5-3", totalPages: 10, want: []int{}},
		{name: "mixed ranges", spec: "1-3,5-7", totalPages: 10, want: []int{0, 1, 2, 4, 5, 6}},
		{name: "malformed token ignored", spec: "abc,2", totalPages: 5, want: []int{1}},
		{name: "whitespace around tokens and bounds", spec: " 3 , 1 - 2 ", totalPages: 3, want: []int{2, 0, 1}},
		{name: "range clipped to document", spec: "4-8", totalPages: 5, want: []int{3, 4}},
		{name: "range entirely past the end", spec: "7-9", totalPages: 5, want: []int{}},
		{name: "range starting at zero dropped", spec: "0-2", totalPages: 5, want: []int{}},
		{name: "single page range", spec: "2-2", totalPages: 5, want: []int{1}},
		{name: "overlapping ranges duplicate", spec: "1-3,2-4", totalPages: 5, want: []int{0, 1, 2, 1, 2, 3}},
		{name: "leading dash is a range with no start", spec: "-3", totalPages: 5, want: []int{}},
		{name: "trailing dash is a range with no end", spec: "3-", totalPages: 5, want: []int{}},
		{name: "double dash fails integer parsing", spec: "1-2-3", totalPages: 5, want: []int{}},
		{name: "decimal is not an integer", spec: "1.5,2", totalPages: 5, want: []int{1}},
		{name: "explicit plus sign", spec: "+2", totalPages: 5, want: []int{1}},
		{name: "huge range stays bounded", spec: "1-1000000000", totalPages: 3, want: []int{0, 1, 2}},
		{name: "zero page document", spec: "1,1-3", totalPages: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePageOrder(tt.spec, tt.totalPages)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageOrderIdentity(t *testing.T) {
	for n := 1; n <= 25; n++ {
		identity := fmt.Sprintf("1-%d", n)
		got := ParsePageOrder(identity, n)

		want := make([]int, n)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, got, "identity for %d pages", n)

		// Reordering the identity result again with the identity spec keeps the order
		again := ParsePageOrder(identity, len(got))
		reordered := make([]int, len(again))
		for i, idx := range again {
			reordered[i] = got[idx]
		}
		assert.Equal(t, got, reordered, "idempotence for %d pages", n)
	}
}

func TestParsePageOrderContainsEveryValidPage(t *testing.T) {
	const totalPages = 7
	for p := 1; p <= totalPages; p++ {
		got := ParsePageOrder(fmt.Sprintf("abc, %d ,99", p), totalPages)
		assert.Equal(t, []int{p - 1}, got)
	}
}

func TestParsePageOrderWithWarnings(t *testing.T) {
	indices, warnings := ParsePageOrderWithWarnings("abc,0,2,5-3,4-9,1-2-3", 5)

	assert.Equal(t, []int{1, 3, 4}, indices)
	assert.Equal(t, []TokenWarning{
		{Token: "abc", Reason: ReasonNotANumber},
		{Token: "0", Reason: ReasonOutOfRange},
		{Token: "5-3", Reason: ReasonDescending},
		{Token: "4-9", Reason: ReasonPartlyOutOfRange},
		{Token: "1-2-3", Reason: ReasonNotANumber},
	}, warnings)

	_, warnings = ParsePageOrderWithWarnings("1-3,2", 5)
	assert.Empty(t, warnings)
}

func TestPageNumbers(t *testing.T) {
	assert.Equal(t, []int{3, 1, 1}, PageNumbers([]int{2, 0, 0}))
	assert.Empty(t, PageNumbers(nil))
}

func TestNoPagesSelectedError(t *testing.T) {
	err := error(&NoPagesSelectedError{TotalPages: 12})
	assert.Equal(t, "no valid pages selected, your document has 12 pages; examples: '3,1,2' or '1-3,5-6'", err.Error())

	var target *NoPagesSelectedError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, 12, target.TotalPages)
}

func TestParsePageSpecifier(t *testing.T) {
	tests := []struct {
		name    string
		pages   string
		want    []int
		wantErr error
	}{
		{name: "single page", pages: "3", want: []int{3}},
		{name: "list", pages: "1,3", want: []int{1, 3}},
		{name: "range", pages: "1-5", want: []int{1, 2, 3, 4, 5}},
		{name: "sorted and deduplicated", pages: "7, 3-5 ,4,1", want: []int{1, 3, 4, 5, 7}},
		{name: "empty", pages: "  ", wantErr: ErrEmptySpecifier},
		{name: "only commas", pages: ",,", wantErr: ErrEmptySpecifier},
		{name: "not a number", pages: "1,x", wantErr: ErrInvalidSpecifier},
		{name: "descending range", pages: "5-3", wantErr: ErrInvalidSpecifier},
		{name: "double dash", pages: "1-2-3", wantErr: ErrInvalidSpecifier},
		{name: "range too wide", pages: "1-20000", wantErr: ErrInvalidSpecifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageSpecifier(tt.pages)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePageNumbers(t *testing.T) {
	assert.NoError(t, ValidatePageNumbers([]int{1, 2, 5}, 5))
	assert.ErrorIs(t, ValidatePageNumbers([]int{0}, 5), ErrInvalidSpecifier)
	assert.ErrorIs(t, ValidatePageNumbers([]int{6}, 5), ErrInvalidSpecifier)
}

func TestPageRangePages(t *testing.T) {
	assert.Equal(t, []int{2, 3, 4}, PageRange{Start: 2, End: 4}.Pages())
	assert.Nil(t, PageRange{Start: 4, End: 2}.Pages())
}
