package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalWritesStyledLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalTo(&buf)
	n.Success("bought 10 LNC")
	n.Error("Something went wrong")

	out := buf.String()
	assert.Contains(t, out, "✓ bought 10 LNC")
	assert.Contains(t, out, "✗ Something went wrong")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Success("a")
	r.Error("b")
	r.Success("c")

	assert.Equal(t, []string{"a", "c"}, r.Successes())
	assert.Equal(t, []string{"b"}, r.Errors())
	assert.Len(t, r.Messages(), 3)
	assert.Equal(t, KindError, r.Messages()[1].Kind)
}

func TestRecorderEmpty(t *testing.T) {
	var r Recorder
	assert.Empty(t, r.Errors())
}
