package main

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"drytone/session"
	"drytone/tone"
)

// TUI message types
type ProgressMsg struct {
	Percent int
	Label   string
}
type SessionStateMsg struct{ Running bool }
type CapabilityErrorMsg struct{ Text string }

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

// tuiSend delivers a message to the running program, if any. Safe to
// call from the session goroutine.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

var (
	modeOrder    = []session.Mode{session.Water, session.Dust, session.Vibration}
	channelOrder = []tone.Channel{tone.Both, tone.Left, tone.Right}
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	selectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	barRestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpBoldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

const barWidth = 40

type tuiModel struct {
	controller *session.Controller
	hapticsOK  bool

	modeIdx    int
	channelIdx int
	running    bool
	percent    int
	status     string

	capErr        string
	width, height int
}

func NewTUIProgram(controller *session.Controller, hapticsOK bool) *tea.Program {
	m := tuiModel{
		controller: controller,
		hapticsOK:  hapticsOK,
		status:     "Ready",
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgressMsg:
		m.percent = msg.Percent
		m.status = msg.Label

	case SessionStateMsg:
		m.running = msg.Running
		if msg.Running {
			m.capErr = ""
		}

	case CapabilityErrorMsg:
		m.capErr = msg.Text
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		// The controller is stopped by run() after the program exits.
		return m, tea.Quit

	case "m", "tab":
		if !m.running {
			m.modeIdx = (m.modeIdx + 1) % len(modeOrder)
			m.capErr = ""
		}

	case "c":
		if !m.running {
			m.channelIdx = (m.channelIdx + 1) % len(channelOrder)
		}

	case "enter", " ":
		if !m.running {
			m.capErr = ""
			c := m.controller
			mode := modeOrder[m.modeIdx]
			channel := channelOrder[m.channelIdx]
			// Start blocks briefly on setup, so run it off the event loop.
			return m, func() tea.Msg {
				c.Start(mode, channel)
				return nil
			}
		}

	case "s", "esc":
		c := m.controller
		return m, func() tea.Msg {
			c.Stop()
			return nil
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("drytone — speaker cleaner"))
	b.WriteString("\n\n")

	b.WriteString(m.selectorLine("Mode", m.modeNames(), m.modeIdx))
	b.WriteString("\n")
	b.WriteString(m.selectorLine("Channel", channelNames(), m.channelIdx))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.percent))
	b.WriteString(fmt.Sprintf(" %3d%%", m.percent))
	b.WriteString("\n")
	if m.running {
		b.WriteString(runningStyle.Render("● ") + statusStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.capErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.capErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m tuiModel) modeNames() []string {
	names := make([]string, len(modeOrder))
	for i, mode := range modeOrder {
		names[i] = mode.String()
		if mode == session.Vibration && !m.hapticsOK {
			names[i] += " (unavailable)"
		}
	}
	return names
}

func channelNames() []string {
	names := make([]string, len(channelOrder))
	for i, ch := range channelOrder {
		names[i] = ch.String()
	}
	return names
}

func (m tuiModel) selectorLine(label string, options []string, idx int) string {
	var b strings.Builder
	b.WriteString(selectorStyle.Render(fmt.Sprintf("%-8s", label+":")))
	for i, opt := range options {
		b.WriteString(" ")
		if i == idx {
			b.WriteString(selectedStyle.Render("[" + opt + "]"))
		} else if m.running {
			b.WriteString(dimStyle.Render(" " + opt + " "))
		} else {
			b.WriteString(selectorStyle.Render(" " + opt + " "))
		}
	}
	return b.String()
}

func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	filled := barWidth * percent / 100
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barRestStyle.Render(strings.Repeat("░", barWidth-filled))
}

func (m tuiModel) helpLine() string {
	if m.running {
		return helpBoldStyle.Render("s") + helpStyle.Render(" stop  ") +
			helpBoldStyle.Render("q") + helpStyle.Render(" quit")
	}
	return helpBoldStyle.Render("m") + helpStyle.Render(" mode  ") +
		helpBoldStyle.Render("c") + helpStyle.Render(" channel  ") +
		helpBoldStyle.Render("enter") + helpStyle.Render(" start  ") +
		helpBoldStyle.Render("q") + helpStyle.Render(" quit")
}
