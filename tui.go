package main

import (
	"strings"
	"sync"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voiceout/channel"
	"voiceout/log"
	"voiceout/shortcut"
	"voiceout/view"
)

// TUI message types
type ShortcutMsg struct{ Shortcut shortcut.Shortcut }
type ErrorMsg struct{ Text string } // registration failures from the background
type DisconnectedMsg struct{}

type tuiModel struct {
	conn     view.Conn
	main     *view.Main
	rec      *view.Recorder
	modeLine string
	errLine  string
	width    int
	height   int
	gone     bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	keyStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	recordStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	settingsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

var (
	tuiMu      sync.Mutex
	tuiProgram *tea.Program
)

func quitTUI() {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// tuiSend forwards msg to the running TUI, if any.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

func newTUIModel(conn view.Conn, modeLine string) tuiModel {
	return tuiModel{
		conn:     conn,
		main:     view.NewMain(),
		rec:      view.NewRecorder(),
		modeLine: modeLine,
	}
}

// runTUI shows the window until the user quits or the background goes away.
func runTUI(c *channel.Client, modeLine string) error {
	p := tea.NewProgram(newTUIModel(c, modeLine), tea.WithAltScreen())
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	unmount, err := view.Mount(c, func(s shortcut.Shortcut) {
		p.Send(ShortcutMsg{Shortcut: s})
	})
	if err != nil {
		return err
	}
	defer unmount()

	go func() {
		<-c.Done()
		p.Send(DisconnectedMsg{})
	}()

	_, err = p.Run()
	return err
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

	case ShortcutMsg:
		m.main.Shortcut = msg.Shortcut
		m.rec.Set(msg.Shortcut)

	case ErrorMsg:
		m.errLine = msg.Text

	case DisconnectedMsg:
		m.gone = true
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rec.Recording() {
		// bare esc leaves recording; every other key is a candidate
		if msg.Type == tea.KeyEsc && !msg.Alt {
			m.rec.Cancel()
			return m, nil
		}
		s, ok := m.rec.KeyDown(keyEventFromTea(msg))
		if ok {
			m.main.Shortcut = s
			m.send(s)
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		if !m.main.SettingsOpen {
			m.main.ToggleSettings()
		}
	case "esc", "b":
		if m.main.SettingsOpen {
			m.main.ToggleSettings()
		}
	case "enter":
		if m.main.SettingsOpen {
			m.errLine = ""
			m.rec.Start()
		}
	case "r":
		if m.main.SettingsOpen {
			s := m.rec.Reset()
			m.main.Shortcut = s
			m.send(s)
		}
	}
	return m, nil
}

func (m *tuiModel) send(s shortcut.Shortcut) {
	if m.conn == nil {
		return
	}
	if err := view.SendShortcut(m.conn, s); err != nil {
		log.Warnf("send shortcut: %v", err)
		m.errLine = err.Error()
	}
}

// keyEventFromTea maps a terminal key press to a KeyEvent. Terminals report
// ctrl and alt; shift only shows as an uppercase letter or a "shift+" prefix,
// and meta never arrives.
func keyEventFromTea(msg tea.KeyMsg) view.KeyEvent {
	var ev view.KeyEvent
	name := msg.String()
	for {
		switch {
		case strings.HasPrefix(name, "ctrl+") && len(name) > len("ctrl+"):
			ev.Control = true
			name = name[len("ctrl+"):]
			continue
		case strings.HasPrefix(name, "alt+") && len(name) > len("alt+"):
			ev.Alt = true
			name = name[len("alt+"):]
			continue
		case strings.HasPrefix(name, "shift+") && len(name) > len("shift+"):
			ev.Shift = true
			name = name[len("shift+"):]
			continue
		}
		break
	}

	switch name {
	case " ", "space":
		name = "space"
	case "esc":
		name = "escape"
	case "pgup":
		name = "pageup"
	case "pgdown":
		name = "pagedown"
	}

	if r := []rune(name); len(r) == 1 && unicode.IsUpper(r[0]) {
		ev.Shift = true
		name = string(unicode.ToLower(r[0]))
	}
	ev.Key = name
	return ev
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("voiceout"))
	b.WriteString("\n\n")

	label := m.main.Shortcut.Label()
	b.WriteString(textStyle.Render("Press "))
	b.WriteString(keyStyle.Render(label))
	b.WriteString(textStyle.Render(" to speak selected text"))
	b.WriteString("\n\n")

	if m.main.SettingsOpen {
		b.WriteString(m.settingsView())
		b.WriteString("\n")
	} else {
		b.WriteString(helpStyle.Render("[s] Settings  [q] Quit"))
		b.WriteString("\n")
	}

	if m.errLine != "" {
		b.WriteString("\n" + errStyle.Render(m.errLine) + "\n")
	}
	if m.gone {
		b.WriteString("\n" + errStyle.Render("background process exited") + "\n")
	}

	b.WriteString("\n")
	if m.modeLine != "" {
		b.WriteString(dimStyle.Render(m.modeLine) + "\n")
	}
	b.WriteString(helpStyle.Render("voiceout " + version))

	out := b.String()
	if m.width > 0 && m.height > 0 {
		out = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, out)
	}
	return out
}

func (m tuiModel) settingsView() string {
	var lines []string
	lines = append(lines, titleStyle.Render("Settings"), "")

	if m.rec.Recording() {
		lines = append(lines, "Shortcut: "+recordStyle.Render(m.rec.Text()))
		lines = append(lines, "", helpStyle.Render("hold a modifier and press a key  [esc] Cancel"))
	} else {
		lines = append(lines, "Shortcut: "+keyStyle.Render(m.rec.Text()))
		lines = append(lines, "", helpStyle.Render("[enter] Record  [r] Reset  [esc] Back"))
	}
	return settingsStyle.Render(strings.Join(lines, "\n"))
}
