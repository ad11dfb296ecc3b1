// Package tui is the terminal console the command interpreter talks to.
package tui

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/voxelcmd/internal/commands"
)

const (
	maxLines      = 1000
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 4 // title, prompt, help, spacing
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type keyMap struct {
	Submit   key.Binding
	Quit     key.Binding
	Prev     key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Prev, k.PageUp, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeys() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
		Next:     key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}

// postedMsg runs a function on the UI goroutine.
type postedMsg func()

// Post adapts a running program into a function that queues work onto its
// update loop. Network clients use it to deliver events.
func Post(p *tea.Program) func(func()) {
	return func(fn func()) { p.Send(postedMsg(fn)) }
}

// Console is a scrolling log with a prompt. It implements commands.Console
// and tea.Model; all of its state is owned by the update loop.
type Console struct {
	title string
	input textinput.Model
	view  viewport.Model
	help  help.Model
	keys  keyMap

	lines     []string
	listeners map[int]func(string)
	nextID    int

	history []string
	histPos int
	status  string
}

// NewConsole returns a focused console.
func NewConsole(title, prompt string) *Console {
	in := textinput.New()
	in.Prompt = promptStyle.Render(prompt)
	in.CharLimit = 256
	in.Focus()
	return &Console{
		title:     title,
		input:     in,
		view:      viewport.New(defaultWidth, defaultHeight-chromeHeight),
		help:      help.New(),
		keys:      defaultKeys(),
		listeners: map[int]func(string){},
	}
}

// Log appends a line to the scrollback.
func (c *Console) Log(text string) {
	c.lines = append(c.lines, strings.Split(text, "\n")...)
	if over := len(c.lines) - maxLines; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	c.view.SetContent(strings.Join(c.lines, "\n"))
	c.view.GotoBottom()
}

// SetStatus shows text beside the title, e.g. the connection state.
func (c *Console) SetStatus(text string) { c.status = text }

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.cancel) }

// OnInput registers fn for every submitted line.
func (c *Console) OnInput(fn func(line string)) commands.Subscription {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return &subscription{cancel: func() { delete(c.listeners, id) }}
}

// Lines returns the scrollback.
func (c *Console) Lines() []string { return append([]string(nil), c.lines...) }

func (c *Console) Init() tea.Cmd { return textinput.Blink }

func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case postedMsg:
		m()
		return c, nil
	case tea.WindowSizeMsg:
		c.view.Width = m.Width
		c.view.Height = max(1, m.Height-chromeHeight)
		c.input.Width = max(1, m.Width-lipgloss.Width(c.input.Prompt)-1)
		c.help.Width = m.Width
		c.view.GotoBottom()
		return c, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(m, c.keys.Quit):
			return c, tea.Quit
		case key.Matches(m, c.keys.Submit):
			line := c.input.Value()
			c.input.Reset()
			c.submit(line)
			return c, nil
		case key.Matches(m, c.keys.Prev):
			c.recall(-1)
			return c, nil
		case key.Matches(m, c.keys.Next):
			c.recall(1)
			return c, nil
		case key.Matches(m, c.keys.PageUp, c.keys.PageDown):
			var cmd tea.Cmd
			c.view, cmd = c.view.Update(m)
			return c, cmd
		}
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Console) submit(line string) {
	if line == "" {
		return
	}
	if n := len(c.history); n == 0 || c.history[n-1] != line {
		c.history = append(c.history, line)
	}
	c.histPos = len(c.history)

	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := c.listeners[id]; ok {
			fn(line)
		}
	}
}

func (c *Console) recall(delta int) {
	if len(c.history) == 0 {
		return
	}
	c.histPos = max(0, min(len(c.history), c.histPos+delta))
	if c.histPos == len(c.history) {
		c.input.SetValue("")
		return
	}
	c.input.SetValue(c.history[c.histPos])
	c.input.CursorEnd()
}

func (c *Console) View() string {
	header := titleStyle.Render(c.title)
	if c.status != "" {
		header += "  " + statusStyle.Render(c.status)
	}
	return strings.Join([]string{
		header,
		c.view.View(),
		c.input.View(),
		c.help.View(c.keys),
	}, "\n")
}
