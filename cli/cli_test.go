package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"kopilka/finance"
)

func TestRenderTableAlignsWideGlyphs(t *testing.T) {
	var buf strings.Builder
	renderTable(&buf, []string{"PAYMENT", "AMOUNT"}, [][]string{
		{"Rent", "45000 ₽"},
		{"Коммуналка", "8500 ₽"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	// Cyrillic titles and currency glyphs must not skew the columns.
	for _, line := range lines[2:] {
		assert.True(t, strings.HasSuffix(line, "₽"))
	}
}

func TestPadCell(t *testing.T) {
	tests := []struct {
		name  string
		cell  string
		width int
		want  string
	}{
		{"text pads right", "Rent", 6, "Rent  "},
		{"number pads left", "450", 5, "  450"},
		{"negative pads left", "-450", 5, " -450"},
		{"no padding needed", "Rent", 4, "Rent"},
		{"wider than width", "Rental", 4, "Rental"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, padCell(test.cell, test.width))
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2025-04-01")
	assert.NoError(t, err)
	assert.Equal(t, "2025-04-01", day.String())

	day, err = parseDay("")
	assert.NoError(t, err)
	assert.Equal(t, finance.Today().String(), day.String())

	_, err = parseDay("01.04.2025")
	assert.Error(t, err)
}

func TestParseSpaceFilter(t *testing.T) {
	space, filtered, err := parseSpaceFilter("personal")
	assert.NoError(t, err)
	assert.True(t, filtered)
	assert.Equal(t, finance.Personal, space)

	_, filtered, err = parseSpaceFilter("")
	assert.NoError(t, err)
	assert.False(t, filtered)

	_, _, err = parseSpaceFilter("corporate")
	assert.Error(t, err)
}
