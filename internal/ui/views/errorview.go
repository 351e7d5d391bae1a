package views

import (
	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ErrorView shows one error message in a scrollable box.
type ErrorView struct {
	styles  *theme.Styles
	message string
	vp      viewport.Model
	width   int
	height  int
}

func NewErrorView(styles *theme.Styles) *ErrorView {
	if styles == nil {
		styles = theme.Default()
	}
	return &ErrorView{styles: styles, vp: viewport.New(0, 0)}
}

// SetMessage replaces the message and scrolls to the top.
func (v *ErrorView) SetMessage(message string) {
	v.message = message
	v.reflow()
	v.vp.GotoTop()
}

func (v *ErrorView) Message() string { return v.message }

// Offset returns the first visible line.
func (v *ErrorView) Offset() int { return v.vp.YOffset }

// SetSize sets the outer size of the box including border and title.
func (v *ErrorView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.reflow()
}

// Size used before the first resize.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

func (v *ErrorView) innerSize() (int, int) {
	width, height := v.width, v.height
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}
	frameW, frameH := v.styles.ErrorBox.GetFrameSize()
	w := width - frameW
	h := height - frameH - 1 // title row
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (v *ErrorView) reflow() {
	w, h := v.innerSize()
	offset := v.vp.YOffset
	v.vp.Width, v.vp.Height = w, h
	v.vp.SetContent(ansi.Wrap(v.message, w, " -/"))
	v.vp.SetYOffset(offset)
}

// HandleKey scrolls on up/w and down/s. Any other key dismisses the view.
func (v *ErrorView) HandleKey(msg tea.KeyMsg) action.Action {
	switch msg.String() {
	case "up", "w", "W":
		v.vp.SetYOffset(v.vp.YOffset - 1)
		return action.Render{}
	case "down", "s", "S":
		v.vp.SetYOffset(v.vp.YOffset + 1)
		return action.Render{}
	}
	v.message = ""
	v.vp.SetContent("")
	v.vp.GotoTop()
	return action.ExitError{}
}

func (v *ErrorView) View() string {
	w, _ := v.innerSize()
	title := v.styles.ErrorTitle.Render("Error")
	box := v.styles.ErrorBox.Width(w + v.styles.ErrorBox.GetHorizontalPadding()).Render(v.vp.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, box)
}
