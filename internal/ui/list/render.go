package list

import (
	"fmt"
	"strings"

	"github.com/atomicstack/git-branch-control/internal/ui/input"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const indicator = "▌"

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text is already styled
}

// chromeRows counts the rows used by everything except the items.
func (e *Engine[T]) chromeRows() int {
	rows := 1 + len(e.footerLines()) // title, footer
	if e.mode == ModeInput {
		rows++
		if _, ok := e.cfg.Presenter.(CreationPreviewer[T]); ok {
			rows++
		}
	}
	if e.mode == ModeFilter || e.state.Filter() != "" {
		rows++
	}
	return rows
}

// View renders the list into a width x height block.
func (e *Engine[T]) View() string {
	styles := e.deps.Styles
	snap := e.state.Snapshot()
	lines := make([]styledLine, 0, e.height)

	titleStyle := styles.Title
	if snap.Loading.Active() {
		titleStyle = styles.Loading
	}
	lines = append(lines, styledLine{text: e.cfg.Presenter.Title(snap, e.deps.Now()), style: titleStyle})

	maxRows := e.visibleRows()
	if e.height <= 0 {
		maxRows = len(snap.Visible)
	}
	e.viewport.Follow(snap.Position(), len(snap.Visible), maxRows)
	start, end := e.viewport.Window(len(snap.Visible), maxRows)
	rows := 0
	if len(snap.Visible) == 0 {
		msg := "(no entries)"
		if strings.TrimSpace(snap.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", snap.Filter)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Empty})
		rows++
	}
	for _, idx := range snap.Visible[start:end] {
		row := e.cfg.Presenter.Row(snap.Items[idx])
		lines = append(lines, styledLine{text: e.renderRow(row, idx == snap.Selected && e.mode != ModeInput), raw: true})
		rows++
	}
	for ; rows < maxRows && e.height > 0; rows++ {
		lines = append(lines, styledLine{})
	}

	if e.mode == ModeInput {
		if previewer, ok := e.cfg.Presenter.(CreationPreviewer[T]); ok {
			text, _ := e.input.Text()
			var preview string
			if text != "" {
				w := previewer.Preview(text, e.input.Validity() == input.Valid)
				preview = e.renderRow(e.cfg.Presenter.Row(w), true)
			}
			lines = append(lines, styledLine{text: preview, raw: true})
		}
		lines = append(lines, styledLine{text: e.input.View(e.cfg.Input.Prompt(), styles), raw: true})
	}
	if e.mode == ModeFilter || snap.Filter != "" {
		lines = append(lines, styledLine{text: e.filterLine(), raw: true})
	}

	for _, footer := range e.footerLines() {
		lines = append(lines, styledLine{text: footer, style: styles.Footer})
	}

	return renderLines(applyWidth(lines, e.width))
}

// footerLines joins the instructions with " | ", wrapping between
// instructions so none is cut off when the footer is wider than the list.
// The footer never takes more than height-2 rows.
func (e *Engine[T]) footerLines() []string {
	snap := e.state.Snapshot()
	var selected *state.Wrapper[T]
	if w, ok := snap.SelectedItem(); ok {
		selected = &w
	}
	lines := wrapInstructions(e.cfg.Actions.Instructions(selected, snap.HasStaged()), e.width)
	if limit := e.height - 2; e.height > 0 && len(lines) > limit {
		lines = lines[:max(limit, 1)]
	}
	return lines
}

func wrapInstructions(parts []string, width int) []string {
	const sep = " | "
	if width <= 0 {
		return []string{strings.Join(parts, sep)}
	}
	var lines []string
	cur := ""
	for _, part := range parts {
		switch {
		case cur == "":
			cur = part
		case lipgloss.Width(cur+sep+part) <= width:
			cur += sep + part
		default:
			lines = append(lines, cur)
			cur = part
		}
	}
	return append(lines, cur)
}

func (e *Engine[T]) renderRow(row Row, selected bool) string {
	styles := e.deps.Styles
	indicatorStyle, textStyle := styles.ItemIndicator, styles.Item
	if selected {
		indicatorStyle, textStyle = styles.SelectedItemIndicator, styles.SelectedItem
	}
	nameStyle := textStyle
	switch {
	case row.Creation && row.Valid:
		nameStyle = styles.Valid
	case row.Creation:
		nameStyle = styles.Invalid
	case row.Staged:
		nameStyle = styles.Staged
	}
	var b strings.Builder
	b.WriteString(indicatorStyle.Render(indicator))
	b.WriteString(textStyle.Render(" " + row.Prefix))
	b.WriteString(nameStyle.Render(row.Text))
	if row.Annotation != "" {
		b.WriteString(styles.Annotation.Render(row.Annotation))
	}
	return b.String()
}

func (e *Engine[T]) filterLine() string {
	styles := e.deps.Styles
	prompt := styles.FilterPrompt.Render("/ ")
	if e.mode == ModeFilter {
		field := e.filter
		field.TextStyle = *styles.Filter
		field.PlaceholderStyle = *styles.FilterPlaceholder
		field.Cursor.Style = *styles.Cursor
		return prompt + field.View()
	}
	return prompt + styles.Filter.Render(e.state.Filter())
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if lipgloss.Width(text) > width {
			text = truncate.StringWithTail(text, uint(width), "…")
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil || line.text == "" {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}
