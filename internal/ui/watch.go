package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/presale"
	tea "github.com/charmbracelet/bubbletea"
)

// PresaleUpdateMsg carries a fresh reading of the watched presale.
type PresaleUpdateMsg struct {
	Snapshot presale.Snapshot
	Actions  []presale.Action
	Err      error
}

type (
	clockMsg      time.Time
	refreshDueMsg struct{}
)

// WatchModel is the Bubble Tea model for the live presale view. Fetch is
// run off the UI loop and must return a PresaleUpdateMsg.
type WatchModel struct {
	Chain       string
	ExplorerURL string
	Interval    time.Duration
	Fetch       func() tea.Msg

	snap     presale.Snapshot
	actions  []presale.Action
	loaded   bool
	fetching bool
	errMsg   string
	flash    string
	now      time.Time
	Quitting bool
}

// NewWatchModel creates the live view. interval is the time between
// successful refreshes.
func NewWatchModel(chainName, explorerURL string, interval time.Duration, fetch func() tea.Msg) WatchModel {
	return WatchModel{
		Chain:       chainName,
		ExplorerURL: explorerURL,
		Interval:    interval,
		Fetch:       fetch,
		fetching:    true,
		now:         time.Now(),
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.Fetch, clockTick())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.flash = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "r":
			if !m.fetching {
				m.fetching = true
				return m, m.Fetch
			}
		case "o":
			if m.ExplorerURL == "" {
				m.flash = "No explorer URL available"
			} else if err := openBrowser(m.ExplorerURL); err != nil {
				m.flash = "Could not open browser"
			} else {
				m.flash = "Opening in browser…"
			}
		case "c":
			if !m.loaded {
				break
			}
			addr := m.snap.Presale.SaleContractAddress.Hex()
			if err := copyToClipboard(addr); err == nil {
				m.flash = "Copied: " + TruncateAddr(addr)
			} else {
				m.flash = "Copy failed"
			}
		}

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockTick()

	case refreshDueMsg:
		if m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, m.Fetch

	case PresaleUpdateMsg:
		m.fetching = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
			m.snap = msg.Snapshot
			m.actions = msg.Actions
			m.loaded = true
		}
		return m, tea.Tick(m.Interval, func(time.Time) tea.Msg { return refreshDueMsg{} })
	}

	return m, nil
}

func (m WatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	if !m.loaded {
		sb.WriteString(StyleTitle.Render("🚀 Presale  ·  "+m.Chain) + "\n")
		if m.errMsg != "" {
			sb.WriteString(Err(m.errMsg) + "\n")
		} else {
			sb.WriteString(StyleMeta.Render("  loading…") + "\n")
		}
		return sb.String()
	}

	p := m.snap.Presale
	f := m.snap.Figures
	status := m.snap.Status(m.now)

	title := fmt.Sprintf("🚀 %s (%s)  ·  %s", p.Token.Name, p.Token.Symbol, m.Chain)
	sb.WriteString(StyleTitle.Render(title) + "\n")
	sb.WriteString("  " + StatusBadge(string(status)))
	if label, target, ok := presale.Countdown(&p, status); ok {
		sb.WriteString("   " + StyleMeta.Render(label+" ") + Val(FormatCountdown(target.Sub(m.now))))
	}
	sb.WriteString("\n\n")

	prog := presale.Progress(&p, f.TotalTokensSold)
	const barWidth = 30
	sb.WriteString("  " + padR(StyleDim.Render("SOLD"), 10) + ProgressBar(prog.HardPercent, barWidth) +
		fmt.Sprintf("  %s / %s %s", Amount(f.TotalTokensSold), Amount(p.Hardcap), p.Token.Symbol) + "\n")
	sb.WriteString("  " + padR(StyleDim.Render("WINDOW"), 10) + ProgressBar(float64(presale.TimeProgress(&p, m.now)), barWidth) +
		"  " + StyleMeta.Render(p.StartTime.Local().Format("Jan 02 15:04")+" → "+p.EndTime.Local().Format("Jan 02 15:04")) + "\n\n")

	rows := [][2]string{
		{"Softcap", fmt.Sprintf("%s %s (%.1f%%)", Amount(p.Softcap), p.Token.Symbol, prog.SoftPercent)},
		{"Raised", fmt.Sprintf("%s / %s %s", Amount(prog.Raised), Amount(prog.Target), prog.Symbol)},
		{"Contributors", fmt.Sprintf("%d", f.TotalContributors)},
	}
	if f.Contributor.Amount > 0 {
		mine := Amount(f.Contributor.Amount) + " " + p.Token.Symbol
		if f.Contributor.IsClaimed {
			mine += " (claimed)"
		}
		rows = append(rows, [2]string{"Your tokens", mine})
	}
	for _, r := range rows {
		sb.WriteString("  " + padR(StyleMeta.Render(r[0]+":"), 16) + Val(r[1]) + "\n")
	}

	if len(m.actions) > 0 {
		names := make([]string, len(m.actions))
		for i, a := range m.actions {
			names[i] = string(a)
		}
		sb.WriteString("\n  " + StyleMeta.Render("Actions: ") + StyleInfo.Render(strings.Join(names, ", ")) + "\n")
	}

	sb.WriteString("\n")
	switch {
	case m.errMsg != "":
		sb.WriteString(Err(m.errMsg))
	case m.flash != "":
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	default:
		sb.WriteString(watchControls(m.fetching))
	}
	sb.WriteString("\n")
	return sb.String()
}

func watchControls(fetching bool) string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	if fetching {
		sb.WriteString(StyleInfo.Render("↻ refreshing"))
	} else {
		sb.WriteString(StyleInfo.Render("[ r ]"))
		sb.WriteString(StyleMeta.Render(" refresh"))
	}
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ o ]"))
	sb.WriteString(StyleMeta.Render(" open in explorer"))
	sb.WriteString(sep)
	sb.WriteString(StyleWarning.Render("[ c ]"))
	sb.WriteString(StyleMeta.Render(" copy address"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ]"))
	sb.WriteString(StyleMeta.Render(" quit"))
	return sb.String()
}
