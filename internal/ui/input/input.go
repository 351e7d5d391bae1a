// Package input implements the single-line editor used to name new
// branches and stashes.
package input

import (
	"strings"

	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Validator reports whether text is acceptable. It may block; it always
// runs inside a tea.Cmd.
type Validator func(text string) bool

// ValidatedMsg carries the result of a validation run back to the input.
type ValidatedMsg struct {
	Owner action.ListID
	Seq   int
	Valid bool
}

// Validity is the input's current verdict on its text.
type Validity int

const (
	Unknown Validity = iota
	Pending
	Valid
	Invalid
)

// Input wraps a textinput with validation state.
type Input struct {
	owner    action.ListID
	field    textinput.Model
	validity Validity
	seq      int
}

// New returns a focused, empty input.
func New(owner action.ListID) *Input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &Input{owner: owner, field: ti}
}

// Text returns the trimmed text, reporting false when it is empty.
func (in *Input) Text() (string, bool) {
	text := strings.TrimSpace(in.field.Value())
	return text, text != ""
}

// Value returns the untrimmed buffer.
func (in *Input) Value() string { return in.field.Value() }

func (in *Input) Validity() Validity { return in.validity }

// Reset clears the buffer and any verdict.
func (in *Input) Reset() {
	in.field.SetValue("")
	in.field.CursorStart()
	in.validity = Unknown
	in.seq++
}

// SetWidth bounds the visible width of the field.
func (in *Input) SetWidth(width int) {
	if width > 0 {
		in.field.Width = width
	}
}

// HandleKey applies a key press. Escape returns cancel. Enter returns the
// result of submit when the current text has been validated. Any edit
// schedules validate and returns its command.
func (in *Input) HandleKey(msg tea.KeyMsg, validate Validator, submit func(string) action.Action) (action.Action, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		in.Reset()
		return action.EndInputMode{}, nil
	case tea.KeyEnter:
		text, ok := in.Text()
		if !ok || in.validity != Valid {
			return nil, nil
		}
		in.Reset()
		return submit(text), nil
	}
	if msg.String() == "ctrl+u" {
		in.field.SetValue("")
		in.field.CursorStart()
		return nil, in.schedule(validate)
	}
	before := in.field.Value()
	var cmd tea.Cmd
	in.field, cmd = in.field.Update(msg)
	if in.field.Value() == before {
		return nil, cmd
	}
	return nil, tea.Batch(cmd, in.schedule(validate))
}

func (in *Input) schedule(validate Validator) tea.Cmd {
	in.seq++
	text, ok := in.Text()
	if !ok {
		in.validity = Unknown
		return nil
	}
	if validate == nil {
		in.validity = Valid
		return nil
	}
	in.validity = Pending
	seq, owner := in.seq, in.owner
	return func() tea.Msg {
		return ValidatedMsg{Owner: owner, Seq: seq, Valid: validate(text)}
	}
}

// Apply records a validation result. Results for superseded text are
// dropped.
func (in *Input) Apply(msg ValidatedMsg) bool {
	if msg.Owner != in.owner || msg.Seq != in.seq {
		return false
	}
	if msg.Valid {
		in.validity = Valid
	} else {
		in.validity = Invalid
	}
	return true
}

// View renders prompt and field, colouring the text by validity.
func (in *Input) View(prompt string, styles *theme.Styles) string {
	field := in.field
	switch in.validity {
	case Valid:
		field.TextStyle = *styles.Valid
	case Invalid:
		field.TextStyle = *styles.Invalid
	}
	field.Cursor.Style = *styles.Cursor
	if prompt == "" {
		return field.View()
	}
	return styles.Prompt.Render(prompt) + " " + field.View()
}
