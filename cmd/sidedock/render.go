package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/1broseidon/sidedock/internal/ipc"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// table renders label/value rows. Plain output is "label: value" so it stays
// greppable when piped.
type table struct {
	styled bool
	label  lipgloss.Style
	value  lipgloss.Style
	dim    lipgloss.Style
	lines  []string
}

func newTable(styled bool) *table {
	return &table{
		styled: styled,
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(16).
			Align(lipgloss.Right).
			PaddingRight(2),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

func (t *table) row(label, value string) {
	if !t.styled {
		t.lines = append(t.lines, fmt.Sprintf("%s: %s", label, value))
		return
	}
	t.lines = append(t.lines, t.label.Render(label)+t.value.Render(value))
}

func (t *table) note(text string) {
	if !t.styled {
		t.lines = append(t.lines, "# "+text)
		return
	}
	t.lines = append(t.lines, t.dim.Render("  "+text))
}

func (t *table) blank() {
	if t.styled {
		t.lines = append(t.lines, "")
	}
}

func (t *table) String() string {
	return strings.Join(t.lines, "\n") + "\n"
}

func renderStatus(status *ipc.StatusData, styled bool) string {
	t := newTable(styled)
	t.row("daemon_running", fmt.Sprintf("%v", status.DaemonRunning))
	t.row("target_class", status.TargetClass)
	t.row("uptime", (time.Duration(status.UptimeSeconds) * time.Second).String())

	w := status.Window
	if !w.Attached {
		t.blank()
		t.note("no " + status.TargetClass + " window attached")
		return t.String()
	}

	t.blank()
	t.row("window_id", fmt.Sprintf("0x%x", w.WindowID))
	t.row("bounds", w.Bounds.String())
	t.row("screen", w.Screen.String())
	t.row("state", w.State)
	t.row("maximized", fmt.Sprintf("%v", w.Maximized))
	t.row("minimum", fmt.Sprintf("%dx%d", w.Minimum.Width, w.Minimum.Height))
	t.blank()
	t.row("mode", w.Mode)
	t.row("contained", fmt.Sprintf("%v", w.Contained))
	t.row("sidebar_open", fmt.Sprintf("%v", w.SidebarOpen))
	if w.Panel != "" {
		t.row("panel", fmt.Sprintf("%s (%dpx)", w.Panel, w.PanelWidth))
	}
	if w.Snapshot != nil {
		t.row("snapshot", w.Snapshot.String())
	}
	return t.String()
}

func renderMonitors(data *ipc.MonitorsData, styled bool) string {
	t := newTable(styled)
	for i, m := range data.Monitors {
		if i > 0 {
			t.blank()
		}
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("monitor-%d", m.ID)
		}
		if m.Host {
			name += " (host)"
		}
		t.row("monitor", name)
		t.row("bounds", m.Bounds.String())
		t.row("usable", m.Usable.String())
	}
	if len(data.Monitors) == 0 {
		t.note("no monitors reported")
	}
	return t.String()
}
