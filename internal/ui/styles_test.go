package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMessagePrefixes(t *testing.T) {
	tests := []struct {
		name   string
		got    string
		prefix string
	}{
		{"success", Success("done"), "✓"},
		{"warn", Warn("careful"), "⚠"},
		{"err", Err("failed"), "✗"},
		{"info", Info("note"), "ℹ"},
		{"hint", Hint("try this"), "→"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.prefix)
		})
	}
	assert.Contains(t, Success("done"), "done")
	assert.Contains(t, Err("failed"), "failed")
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0x1234…5678", TruncateAddr("0x1234567890abcdef1234567890abcdef12345678"))
	assert.Equal(t, "0xabc", TruncateAddr("0xabc"))
}

func TestStatusBadge(t *testing.T) {
	for _, s := range []string{"upcoming", "live", "filled", "canceled", "ended"} {
		assert.Contains(t, StatusBadge(s), "● ")
	}
	assert.Contains(t, StatusBadge("live"), "LIVE")
}

func TestProgressBarWidth(t *testing.T) {
	tests := []struct {
		percent float64
		width   int
	}{
		{0, 10}, {50, 10}, {100, 10}, {150, 10}, {-20, 10}, {33.3, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.width, lipgloss.Width(ProgressBar(tt.percent, tt.width)))
	}
	assert.Empty(t, ProgressBar(50, 0))
}

func TestFormatCountdown(t *testing.T) {
	d := 2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second + 900*time.Millisecond
	assert.Equal(t, "2d 03h 04m 05s", FormatCountdown(d))
	assert.Equal(t, "0d 00h 00m 00s", FormatCountdown(-time.Minute))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "20", Amount(20))
	assert.Equal(t, "0.5", Amount(0.5))
	assert.Equal(t, "1000.1235", Amount(1000.123456))
	assert.Equal(t, "0", Amount(0))
}

func TestBanner(t *testing.T) {
	assert.Contains(t, Banner("v0.1.0"), "v0.1.0")
}
