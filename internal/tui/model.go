// Package tui is the interactive Bubble Tea view over a listclient.State.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/stringlist/internal/listclient"
	"github.com/idilsaglam/stringlist/internal/model"
)

// Model is the Bubble Tea model for the string list.
type Model struct {
	ctx    context.Context
	client *listclient.Client
	state  listclient.State

	ti      textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	cursor int // selected row in state.Entries
	width  int
}

// NewModel returns a Model whose initial list request is already marked
// pending; Init sends it.
func NewModel(ctx context.Context, client *listclient.Client) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter some text..."
	ti.CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle

	return Model{
		ctx:     ctx,
		client:  client,
		state:   listclient.State{}.BeginRefresh(),
		ti:      ti,
		spinner: s,
		help:    h,
		keys:    defaultKeys(),
	}
}

// State returns the current list state.
func (m Model) State() listclient.State { return m.state }

// Init issues the one list request made on start.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg { return c.Refresh(ctx) }
}

func (m Model) submitCmd(text string) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg { return c.Submit(ctx, text) }
}

func (m Model) removeCmd(id model.ID) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg { return c.Remove(ctx, id) }
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case listclient.RefreshResult:
		m.state = msg.Apply(m.state)
		return m, m.sync()

	case listclient.SubmitResult:
		m.state = msg.Apply(m.state)
		return m, m.sync()

	case listclient.RemoveResult:
		m.state = msg.Apply(m.state)
		return m, m.sync()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			if m.state.SubmitDisabled() {
				return m, nil
			}
			next, text, ok := m.state.BeginSubmit(m.state.Input)
			m.state = next
			cmd := m.sync()
			if !ok {
				return m, cmd
			}
			return m, tea.Batch(cmd, m.submitCmd(text))

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.state.Entries)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if m.cursor < 0 || m.cursor >= len(m.state.Entries) {
				return m, nil
			}
			return m, m.removeCmd(m.state.Entries[m.cursor].ID)

		case key.Matches(msg, m.keys.Refresh):
			if m.state.Loading {
				return m, nil
			}
			m.state = m.state.BeginRefresh()
			return m, tea.Batch(m.sync(), m.refreshCmd())
		}

		if m.state.InputDisabled() {
			return m, nil
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		m.state = m.state.SetInput(m.ti.Value())
		return m, cmd
	}

	return m, nil
}

// sync pushes state into the widgets: the input mirrors state.Input and is
// only focused while editable; the cursor stays on a valid row.
func (m *Model) sync() tea.Cmd {
	if m.ti.Value() != m.state.Input {
		m.ti.SetValue(m.state.Input)
	}
	if m.cursor >= len(m.state.Entries) {
		m.cursor = len(m.state.Entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.state.InputDisabled() {
		m.ti.Blur()
		return nil
	}
	if !m.ti.Focused() {
		return m.ti.Focus()
	}
	return nil
}

// View renders the form, the error line and the list.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("String List App"))
	b.WriteString("\n\n")

	button := buttonStyle
	if m.state.SubmitDisabled() {
		button = disabledButtonStyle
	}
	input := m.ti.View()
	if m.state.InputDisabled() {
		input = mutedStyle.Render(input)
	}
	fmt.Fprintf(&b, "%s  %s\n", input, button.Render("[ "+m.state.SubmitLabel()+" ]"))

	if m.state.Err != "" {
		b.WriteString("\n" + errorStyle.Render(m.state.Err) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Entered Strings:") + "\n")
	switch m.state.Body() {
	case listclient.BodyLoading:
		b.WriteString(m.spinner.View() + " " + loadingStyle.Render("Loading...") + "\n")
	case listclient.BodyEmpty:
		b.WriteString(mutedStyle.Render("No strings entered yet.") + "\n")
	default:
		for i, e := range m.state.Entries {
			prefix := "  "
			if i == m.cursor {
				prefix = selectedStyle.Render(">") + " "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, e.Text, deleteStyle.Render(deleteSymbol))
		}
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return panelStyle.Render(b.String())
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, client *listclient.Client, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(ctx, client), opts...).Run()
	return err
}
