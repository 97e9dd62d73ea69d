package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: live, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: upcoming, warning
	ColorError     = lipgloss.Color("#FF4444") // red: canceled, error
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#555555")
	ColorBorder    = lipgloss.Color("#1E3A5F")
	ColorChain     = lipgloss.Color("#9B5DE5") // purple: chain names, filled
	ColorHighlight = lipgloss.Color("#F15BB5")
	ColorInfo      = lipgloss.Color("#4CC9F0")
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the launchpad ASCII banner.
func Banner(version string) string {
	art := `
  ╦  ╔═╗╦ ╦╔╗╔╔═╗╦ ╦╔═╗╔═╗╔╦╗
  ║  ╠═╣║ ║║║║║  ╠═╣╠═╝╠═╣ ║║
  ╩═╝╩ ╩╚═╝╝╚╝╚═╝╩ ╩╩  ╩ ╩═╩╝`

	tagline := StyleMeta.Render("  Presale status and actions from the terminal  " + version)
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a follow-up suggestion.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// StatusBadge renders a presale status in its color.
func StatusBadge(status string) string {
	style := StyleMeta
	switch status {
	case "live":
		style = StyleSuccess
	case "upcoming":
		style = StyleWarning
	case "filled":
		style = StyleChain
	case "canceled":
		style = StyleError
	}
	return style.Render("● " + strings.ToUpper(status))
}

// ProgressBar draws percent (clamped to 0..100) as a bar of width cells.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(p / 100 * float64(width)))
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleMeta.Render(strings.Repeat("░", width-filled))
}

// FormatCountdown renders d as "2d 03h 04m 05s". Negative durations are zero.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	return fmt.Sprintf("%dd %02dh %02dm %02ds", days, hours, mins, d/time.Second)
}

// Amount formats a token amount with up to four decimals and no trailing zeros.
func Amount(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
