package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{999.999, "1000.00"},
		{1234567.891, "1,234,567.89"},
		{-2500, "-2,500.00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatMoney(tc.in))
	}
}

func TestFormatOptionalMoney(t *testing.T) {
	v := 40.0
	assert.Equal(t, "40.00", FormatOptionalMoney(&v))
	assert.Contains(t, FormatOptionalMoney(nil), "--")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-04", FormatDate(&d))
	assert.Contains(t, FormatDate(nil), "--")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
	assert.Contains(t, TruncID("abc"), "abc")
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 subtask", Pluralize(1, "subtask"))
	assert.Equal(t, "0 subtasks", Pluralize(0, "subtask"))
	assert.Equal(t, "3 stages", Pluralize(3, "stage"))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s", "y"}})
	lines := splitLines(out)
	assert.Len(t, lines, 4)
	assert.Equal(t, len("long value")+colGap, indexOf(lines[2], "x"))
	assert.Equal(t, len("long value")+colGap, indexOf(lines[3], "y"))
	assert.Empty(t, RenderTable(nil, nil))
}
