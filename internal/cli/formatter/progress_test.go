package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	out := RenderProgress(50, 10)
	assert.Contains(t, out, " 50%")
	assert.Equal(t, 5, strings.Count(out, filledBlock))
	assert.Equal(t, 5, strings.Count(out, emptyBlock))
}

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, RenderProgress(150, 4), "100%")
	assert.Equal(t, 4, strings.Count(RenderProgress(150, 4), filledBlock))
	assert.Contains(t, RenderProgress(-5, 4), "  0%")
	assert.Equal(t, 2, strings.Count(RenderProgress(0, 0), emptyBlock), "minimum width")
}

func TestRenderBudgetUsage(t *testing.T) {
	out := RenderBudgetUsage(100, 8)
	assert.Contains(t, out, "100%")
	assert.Equal(t, 8, strings.Count(out, filledBlock))
}
