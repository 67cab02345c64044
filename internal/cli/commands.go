package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/stringlist/internal/listclient"
	"github.com/idilsaglam/stringlist/internal/model"
	"github.com/idilsaglam/stringlist/internal/tui"
	"github.com/idilsaglam/stringlist/internal/ui"
)

// UICmd opens the interactive list.
type UICmd struct{}

// Run starts the TUI, or prints the list when stdout is not a terminal.
func (c *UICmd) Run(app *App) error {
	if !ui.IsTerminal(app.stdout) {
		return (&LsCmd{}).Run(app)
	}

	// The alt screen owns the terminal, so diagnostics go to a file or nowhere.
	log.SetOutput(io.Discard)
	if app.cfg.Log.File != "" {
		f, err := tea.LogToFile(app.cfg.Log.File, "stringlist")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	}
	app.logger = log.Default()

	return tui.Run(app.ctx, app.client())
}

// LsCmd prints the list once.
type LsCmd struct{}

// Run fetches the collection and prints it in a panel.
func (c *LsCmd) Run(app *App) error {
	st := listclient.State{}.BeginRefresh()
	st = app.client().Refresh(app.ctx).Apply(st)
	if st.Err != "" {
		return errors.New(st.Err)
	}
	ui.Panel(app.stdout, listLines(st))
	return nil
}

// AddCmd submits one entry.
type AddCmd struct {
	Text []string `arg:"" optional:"" help:"Text to add."`
}

// Run validates and submits the text.
func (c *AddCmd) Run(app *App) error {
	st := listclient.State{Input: strings.Join(c.Text, " ")}
	st, text, ok := st.BeginSubmit(st.Input)
	if !ok {
		return usageError(st.Err)
	}
	res := app.client().Submit(app.ctx, text)
	st = res.Apply(st)
	if st.Err != "" {
		return errors.New(st.Err)
	}
	ui.OK(app.stdout, fmt.Sprintf("added %q %s", res.Entry.Text, ui.Dim("#"+res.Entry.ID.String())))
	return nil
}

// RmCmd deletes one entry by id.
type RmCmd struct {
	ID string `arg:"" help:"Id of the entry, as shown by ls."`
}

// Run deletes the entry.
func (c *RmCmd) Run(app *App) error {
	id := model.ID(strings.TrimSpace(c.ID))
	if id == "" {
		return usageError("rm: empty id")
	}
	st := app.client().Remove(app.ctx, id).Apply(listclient.State{})
	if st.Err != "" {
		return errors.New(st.Err)
	}
	ui.OK(app.stdout, "removed "+ui.Dim("#"+id.String()))
	return nil
}

// -------------- rendering helpers --------------

func listLines(st listclient.State) []string {
	t := ui.Current()
	lines := []string{
		ui.C(t.Title, "String List App"),
		"",
		ui.C(t.Accent, "Entered Strings:"),
	}
	switch st.Body() {
	case listclient.BodyLoading:
		lines = append(lines, ui.Loading())
	case listclient.BodyEmpty:
		lines = append(lines, ui.C(t.Muted, "No strings entered yet."))
	default:
		for i, e := range st.Entries {
			text := e.Text
			if len([]rune(text)) > 80 {
				text = string([]rune(text)[:77]) + "..."
			}
			lines = append(lines, fmt.Sprintf("%s %s %s  %s",
				ui.Dim(fmt.Sprintf("%2d.", i+1)), ui.C(t.Muted, t.Bullet), text,
				ui.C(t.Muted, "#"+e.ID.String())))
		}
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `stringlist add \"Buy milk\"`"))
	return lines
}
