package tui

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/idilsaglam/stringlist/internal/api"
	"github.com/idilsaglam/stringlist/internal/apitest"
	"github.com/idilsaglam/stringlist/internal/listclient"
	"github.com/idilsaglam/stringlist/internal/model"
)

func newTestModel(t *testing.T, seed ...model.Entry) (Model, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(seed...)
	t.Cleanup(srv.Close)
	c := listclient.New(api.New(srv.URL), listclient.WithLogger(nil))
	return NewModel(context.Background(), c), srv
}

// update feeds msg to m and returns the resulting Model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds every result message back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
	case listclient.RefreshResult, listclient.SubmitResult, listclient.RemoveResult:
		m, _ = update(t, m, msg)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewModel_StartsLoading(t *testing.T) {
	m, srv := newTestModel(t)

	if !m.State().Loading {
		t.Error("new model should be loading")
	}
	if m.ti.Focused() {
		t.Error("input should be disabled while loading")
	}
	if !strings.Contains(m.View(), "Loading...") {
		t.Errorf("View() should show loading indicator:\n%s", m.View())
	}
	if srv.Requests(apitest.OpList) != 0 {
		t.Error("no request should be made before Init's command runs")
	}
}

func TestModel_Init_FetchesOnce(t *testing.T) {
	m, srv := newTestModel(t)
	m = run(t, m, m.Init())

	if got := srv.Requests(apitest.OpList); got != 1 {
		t.Errorf("list requests = %d, want 1", got)
	}
	if m.State().Loading {
		t.Error("Loading should be false after the first refresh")
	}
	view := m.View()
	if !strings.Contains(view, "No strings entered yet.") {
		t.Errorf("View() should show empty state:\n%s", view)
	}
	if strings.Contains(view, "Loading...") {
		t.Errorf("View() should not show loading indicator:\n%s", view)
	}
	if !m.ti.Focused() {
		t.Error("input should be focused once loading finishes")
	}
}

func TestModel_SubmitAppendsAndClearsInput(t *testing.T) {
	m, srv := newTestModel(t)
	srv.SetIDFunc(func() model.ID { return "1" })
	m = run(t, m, m.Init())

	m = typeText(t, m, "hello")
	if m.State().Input != "hello" {
		t.Fatalf("Input = %q, want %q", m.State().Input, "hello")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.State().Loading {
		t.Error("Loading should be true while submit is pending")
	}
	if !strings.Contains(m.View(), "Adding...") {
		t.Error("submit control should read Adding... while pending")
	}
	m = run(t, m, cmd)

	st := m.State()
	if len(st.Entries) != 1 || st.Entries[0] != (model.Entry{ID: "1", Text: "hello"}) {
		t.Errorf("Entries = %+v, want one row hello", st.Entries)
	}
	if st.Input != "" || m.ti.Value() != "" {
		t.Errorf("input = %q / %q, want cleared", st.Input, m.ti.Value())
	}
	if !strings.Contains(m.View(), "hello") {
		t.Errorf("View() should list hello:\n%s", m.View())
	}
}

func TestModel_EnterIgnoredWhenInputBlank(t *testing.T) {
	m, srv := newTestModel(t)
	m = run(t, m, m.Init())
	m = typeText(t, m, "   ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)

	if srv.Requests(apitest.OpCreate) != 0 {
		t.Error("blank input must not reach the server")
	}
	if m.State().Loading {
		t.Error("blank submit must not set Loading")
	}
}

func TestModel_SubmitServerErrorKeepsInput(t *testing.T) {
	m, srv := newTestModel(t)
	m = run(t, m, m.Init())
	srv.Fail(apitest.OpCreate, http.StatusInternalServerError)

	m = typeText(t, m, "x")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)

	if m.State().Err != listclient.MsgAddFailed {
		t.Errorf("Err = %q, want %q", m.State().Err, listclient.MsgAddFailed)
	}
	if m.ti.Value() != "x" {
		t.Errorf("input = %q, want %q", m.ti.Value(), "x")
	}
	if !strings.Contains(m.View(), listclient.MsgAddFailed) {
		t.Error("View() should show the error")
	}
}

func TestModel_KeysIgnoredWhileLoading(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "abc")
	if m.State().Input != "" {
		t.Errorf("Input = %q, want keystrokes dropped while loading", m.State().Input)
	}
}

func TestModel_DeleteSelectedRow(t *testing.T) {
	m, srv := newTestModel(t,
		model.Entry{ID: "1", Text: "one"},
		model.Entry{ID: "2", Text: "two"},
		model.Entry{ID: "3", Text: "three"},
	)
	m = run(t, m, m.Init())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.State().Loading {
		t.Error("delete must not set Loading")
	}
	m = run(t, m, cmd)

	var ids []model.ID
	for _, e := range m.State().Entries {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
	if len(srv.Entries()) != 2 {
		t.Errorf("server still holds %d entries, want 2", len(srv.Entries()))
	}
}

func TestModel_DeleteLastRowMovesCursor(t *testing.T) {
	m, _ := newTestModel(t,
		model.Entry{ID: "1", Text: "one"},
		model.Entry{ID: "2", Text: "two"},
	)
	m = run(t, m, m.Init())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	m = run(t, m, cmd)

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestModel_DeleteOnEmptyListIsNoop(t *testing.T) {
	m, srv := newTestModel(t)
	m = run(t, m, m.Init())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if cmd != nil {
		t.Error("delete with no rows should not issue a request")
	}
	if srv.Requests(apitest.OpDelete) != 0 {
		t.Error("unexpected delete request")
	}
}

func TestModel_RefreshFailureKeepsRows(t *testing.T) {
	m, srv := newTestModel(t, model.Entry{ID: "1", Text: "one"})
	m = run(t, m, m.Init())
	srv.Fail(apitest.OpList, http.StatusInternalServerError)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.State().Loading {
		t.Error("reload should set Loading")
	}
	if strings.Contains(m.View(), "Loading...") {
		t.Error("loading indicator should not replace a non-empty list")
	}
	m = run(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, listclient.MsgLoadFailed) || !strings.Contains(view, "one") {
		t.Errorf("View() should show error and stale row:\n%s", view)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := update(t, m, tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("%v should quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v cmd should return tea.QuitMsg", k)
		}
	}
}

// TestModel_Teatest_AddAndDelete drives the program end to end via teatest.
func TestModel_Teatest_AddAndDelete(t *testing.T) {
	m, srv := newTestModel(t, model.Entry{ID: "1", Text: "first"})
	srv.SetIDFunc(func() model.ID { return "2" })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("first"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("second")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return len(srv.Entries()) == 2
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlX})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return len(srv.Entries()) == 1
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	st := final.State()
	if len(st.Entries) != 1 || st.Entries[0].Text != "second" {
		t.Errorf("final entries = %+v, want only \"second\"", st.Entries)
	}
	if st.Input != "" || st.Err != "" {
		t.Errorf("final state = %+v, want clean input and no error", st)
	}
}
