package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEvaluate(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		src  string
		want string
	}{
		{"price * 2", "42"},
		{"uppercase(name)", "ADA"},
		{"items.id", "[1,2]"},
		{"meta.owner", `{"email":"ada@example.com"}`},
		{"set(data, 'price', 1)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := m.evaluate(tt.src)
			if err != nil {
				t.Fatalf("evaluate(%q) error = %v", tt.src, err)
			}

			if got != tt.want {
				t.Errorf("evaluate(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}

	if got, _ := m.evaluate("price"); got != "21" {
		t.Errorf("set outside action mode changed price to %q", got)
	}

	if _, err := m.evaluate("1 +"); err == nil {
		t.Error("evaluate(\"1 +\") error = nil, want a compile error")
	}
}

func TestActionCommand(t *testing.T) {
	m := testModel(t)

	m, _ = m.executeCommand("action")
	if !m.action {
		t.Fatal("action command did not enable action mode")
	}

	if _, err := m.evaluate("set(data, 'price', 5)"); err != nil {
		t.Fatalf("evaluate() error = %v", err)
	}

	if got, _ := m.evaluate("price"); got != "5" {
		t.Errorf("price = %q, want %q", got, "5")
	}

	m, _ = m.executeCommand("a")
	if m.action {
		t.Error("second action command did not disable action mode")
	}
}

func TestExecuteCommand(t *testing.T) {
	m := testModel(t)

	if _, cmd := m.executeCommand("bogus"); cmd == nil {
		t.Error("unknown command returned no output")
	}

	m, _ = m.executeCommand("quit")
	if !m.quitting {
		t.Error("quit command did not quit")
	}

	if view := testModel(t).dataView(); !strings.Contains(view, "price: 21") {
		t.Errorf("dataView() = %q, want YAML of the data document", view)
	}

	if list := testModel(t).funcsView([]string{"upperc"}); !strings.Contains(list, "upper") {
		t.Errorf("funcsView() = %q, want it to list uppercase", list)
	}
}

func TestHistoryStep(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{{"a", modeEval}, {"help", modeCtrl}, {"b", modeEval}} {
		if _, err := m.history.Write(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		dir      int
		sameMode bool
		want     string
		mode     inputMode
	}{
		{-1, false, "b", modeEval},
		{-1, false, "help", modeCtrl},
		{-1, true, "help", modeCtrl},
		{1, false, "b", modeEval},
		{-1, true, "a", modeEval},
		{1, true, "b", modeEval},
		{1, false, "", modeEval},
	}

	for i, s := range steps {
		m = m.historyStep(s.dir, s.sameMode)

		if got := m.input.Value(); got != s.want || m.mode != s.mode {
			t.Fatalf("step %d: input = %q mode = %d, want %q mode %d", i, got, m.mode, s.want, s.mode)
		}
	}
}

func TestEnterRecordsHistory(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("price")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if m.history.Len() != 1 || m.input.Value() != "" {
		t.Errorf("after Enter history len = %d input = %q, want 1 and empty", m.history.Len(), m.input.Value())
	}
}

func TestEscTogglesMode(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("pri")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc mode = %d input = %q, want ctrl and empty", m.mode, m.input.Value())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)

	if m.mode != modeEval || m.input.Value() != "pri" {
		t.Errorf("after second Esc mode = %d input = %q, want eval and %q", m.mode, m.input.Value(), "pri")
	}
}
