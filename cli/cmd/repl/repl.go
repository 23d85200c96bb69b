package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/value"
)

// editDataMsg is sent when the data document was edited successfully.
type editDataMsg struct{ data value.Value }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-decode error.
type editErrorMsg struct{ err error }

const (
	evalPrompt   = "➜ "
	actionPrompt = "⚡"
	ctrlPrompt   = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  data     Print the data document
  funcs    List callable names
  action   Toggle action mode (set, add, delete, clear)
  edit     Edit the data document in $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it against the data document
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	actionPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	engine       *eval.Engine
	logger       log.Logger
	history      *History
	data         value.Value
	input        textinput.Model
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	preTabText   string        // input text before tab-cycling began
	saved        [2]savedInput // per-mode input while the other mode is active
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	width        int // terminal width for ellipsization
	mode         inputMode
	action       bool
	tabActive    bool
	quitting     bool
}

// savedInput is the input line of a mode that is not currently shown.
type savedInput struct {
	text   string
	cursor int
}

// Option configures a REPL session.
type Option func(*model)

// WithActionMode starts the session with action mode on, so expressions may
// mutate the data document.
func WithActionMode(on bool) Option {
	return func(m *model) { m.action = on }
}

// Run starts the REPL over data. Expressions are evaluated by engine, and
// history is kept in cacheDir.
func Run(
	ctx context.Context,
	engine *eval.Engine,
	data value.Value,
	cacheDir string,
	logger log.Logger,
	opts ...Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if engine == nil {
		return ErrNoEngine
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.String("data_kind", data.Kind().String()),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, engine, data, history, logger)
	for _, opt := range opts {
		opt(&m)
	}

	m.input.Prompt = m.prompt().Render(m.promptText())

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	engine *eval.Engine,
	data value.Value,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		engine:     engine,
		data:       data,
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDataMsg:
		m.data = msg.data
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.String("data_kind", m.data.Kind().String()),
		)

		return m, tea.Println(resultStyle.Render("✔ data updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		switch {
		case m.mode == modeCtrl:
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")

		case m.action:
			return hintStyle.Render("Type an action or press Esc for commands")

		default:
			return hintStyle.Render("Type an expression or press Esc for commands")
		}
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sig, ok := lookupSignature(call.name); ok {
				return renderSignatureHint(sig, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key edits or moves the cursor; recompute matches without
	// auto-confirming.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous candidate and writes it over
// the current word. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	case dir > 0:
		m.tabActive = true
		m.preTabText, m.preTabCursor = m.input.Value(), m.input.Position()
		m.suggIdx = 0

	default:
		m.tabActive = true
		m.preTabText, m.preTabCursor = m.input.Value(), m.input.Position()
		m.suggIdx = n - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// With autoConfirm, a sole candidate that equals the typed word is accepted.
// Deletions and cursor movement pass false so editing never completes
// unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedInput{}
	m.input.SetValue("")

	_, _ = m.history.Write(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
		slog.Bool("action", m.action),
	)

	echo := tea.Println(m.prompt().Render(m.promptText()) + inputStyle.Render(input))

	out, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// evaluate runs src against the data document and formats the result the
// way the eval command does by default.
func (m model) evaluate(src string) (string, error) {
	ctx := m.ctxFunc()

	run := m.engine.Eval
	if m.action {
		run = m.engine.EvalAction
	}

	result, err := run(ctx, src, m.data)
	if err != nil {
		return "", err
	}

	out := eval.OutputNative
	if result.List() != nil || result.Map() != nil {
		out = eval.OutputJSON
	}

	var buf bytes.Buffer
	if err := eval.Write(ctx, &buf, result, out, 0); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "d", "data":
		return m, tea.Sequence(echo, tea.Println(m.dataView()))

	case "f", "funcs":
		return m, tea.Sequence(echo, tea.Println(m.funcsView(parts[1:])))

	case "a", "action":
		m.action = !m.action
		m.saved[modeEval].text, m.saved[modeEval].cursor = "", 0

		state := "off"
		if m.action {
			state = "on"
		}

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("action mode "+state)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) dataView() string {
	var buf bytes.Buffer
	if err := eval.Write(m.ctxFunc(), &buf, m.data, eval.OutputYAML, 2); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return buf.String()
}

// funcsView lists callable names, fuzzy filtered by the first argument.
func (m model) funcsView(args []string) string {
	names := m.engine.Names()

	matches := allMatches(names)
	if len(args) > 0 {
		matches = fuzzy.Find(args[0], names)
	}

	var b strings.Builder

	for _, match := range matches {
		b.WriteString("  ")
		b.WriteString(renderCandidate(match, false))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) edit() tea.Cmd {
	cmd := &editDataCommand{
		data:    m.data,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.edited == nil:
			return editCancelledMsg{}

		default:
			return editDataMsg{data: *cmd.edited}
		}
	})
}

// historyStep moves dir entries through the history. An entry from the
// other mode switches modes unless sameMode restricts the walk to entries of
// the current mode. Walking past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

func (m model) prompt() lipgloss.Style {
	switch {
	case m.mode == modeCtrl:
		return ctrlPromptStyle

	case m.action:
		return actionPromptStyle

	default:
		return promptStyle
	}
}

func (m model) promptText() string {
	switch {
	case m.mode == modeCtrl:
		return ctrlPrompt

	case m.action:
		return actionPrompt + " "

	default:
		return evalPrompt
	}
}

// switchToMode switches to mode, keeping each mode's partial input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{text: m.input.Value(), cursor: m.input.Position()}

	m.mode = mode
	m.input.Prompt = m.prompt().Render(m.promptText())
	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)

	refreshMatches(&m, false)

	return m
}
