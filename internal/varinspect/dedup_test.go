package varinspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupTracker(t *testing.T) {
	d := NewDedupTracker()

	assert.False(t, d.Seen("1", LabelCornerRadius, "v1"))
	assert.True(t, d.Seen("1", LabelCornerRadius, "v1"))
	assert.False(t, d.Seen("1", LabelCornerRadius, "v2"), "different variable")
	assert.False(t, d.Seen("2", LabelCornerRadius, "v1"), "different node")

	// spacing labels are never suppressed
	assert.False(t, d.Seen("1", LabelPaddingTop, ""))
	assert.False(t, d.Seen("1", LabelPaddingTop, ""))
	assert.False(t, d.Seen("1", LabelGap, "v3"))
	assert.False(t, d.Seen("1", LabelGap, "v3"))

	assert.False(t, d.FontSizeBound("1"))
	d.MarkFontSizeBound("1")
	assert.True(t, d.FontSizeBound("1"))
	assert.False(t, d.FontSizeBound("2"))
}

func TestDedupTracker_FreshPerPass(t *testing.T) {
	first := NewDedupTracker()
	first.Seen("1", LabelFill, "")
	first.MarkFontSizeBound("1")

	second := NewDedupTracker()
	assert.False(t, second.Seen("1", LabelFill, ""))
	assert.False(t, second.FontSizeBound("1"))
}
