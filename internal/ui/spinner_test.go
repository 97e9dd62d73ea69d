package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerShowsMessages(t *testing.T) {
	var out syncBuffer
	s := NewSpinnerTo(&out, "simulating")
	s.Start()
	assert.Eventually(t, func() bool { return bytes.Contains([]byte(out.String()), []byte("simulating")) },
		time.Second, 10*time.Millisecond)

	s.SetMessage("confirming")
	assert.Eventually(t, func() bool { return bytes.Contains([]byte(out.String()), []byte("confirming")) },
		time.Second, 10*time.Millisecond)

	s.StopWithMsg("done")
	s.Stop()
	assert.Contains(t, out.String(), "done\n")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := NewSpinnerTo(&out, "idle")
	assert.NotPanics(t, s.Stop)
	assert.Empty(t, out.String())
}
