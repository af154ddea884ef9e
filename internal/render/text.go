package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

//nolint:gochecknoglobals // Terminal styles.
var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true)
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	signalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	levelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// arrowWidth is the column width reserved on each side of the system lines.
const arrowWidth = 8

// Text renders d for a terminal. Time runs upwards: the signal is the top row
// and the initial population the bottom one.
func Text(d *diagram.Diagram, formula string) string {
	states := d.States()
	rows := make([]string, 0, len(d.Interactions)+2)

	for i := len(d.Interactions) - 1; i >= 0; i-- {
		rows = append(rows, textRow(d.Interactions[i], states[i]))
	}

	start := d.Start
	rows = append(rows,
		textLine("", "", start),
		strings.Repeat(" ", arrowWidth)+"   ρ"+diagram.LevelGreek(start.Ket)+diagram.LevelGreek(start.Bra),
	)

	header := headerStyle.Render(textHeader(d))
	parts := []string{header, strings.Join(rows, "\n")}

	if formula != "" {
		parts = append(parts, "", formula)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// textHeader summarises the diagram in one line.
func textHeader(d *diagram.Diagram) string {
	parts := []string{d.Signature()}

	if kind := d.Kind(); kind != diagram.Unclassified {
		parts = append(parts, string(kind))
	}

	if pathway := d.Pathway(); pathway != diagram.NoPathway {
		parts = append(parts, string(pathway))
	}

	return strings.Join(parts, "  ")
}

// textRow draws one interaction together with the state it leads to.
func textRow(in diagram.Interaction, after diagram.State) string {
	style := fieldStyle
	if in.IsSignal() {
		style = signalStyle
	}

	var arrow string

	switch {
	case in.Side == diagram.Ket && in.Direction() == diagram.In:
		arrow = in.Label() + " ──▶"
	case in.Side == diagram.Ket:
		arrow = in.Label() + " ◀──"
	case in.Direction() == diagram.In:
		arrow = "◀── " + in.Label()
	default:
		arrow = "──▶ " + in.Label()
	}

	if in.Side == diagram.Ket {
		return textLine(style.Render(padLeft(arrow, arrowWidth)), "", after)
	}

	return textLine("", style.Render(arrow), after)
}

// textLine draws the two system lines with the ket and bra levels between them.
func textLine(left, right string, s diagram.State) string {
	if left == "" {
		left = strings.Repeat(" ", arrowWidth)
	}

	levels := levelStyle.Render(fmt.Sprintf("%-3s %3s", diagram.LevelGreek(s.Ket), diagram.LevelGreek(s.Bra)))

	return strings.TrimRight(left+" │ "+levels+" │ "+right, " ")
}

// padLeft right-aligns s in a column of width cells.
func padLeft(s string, width int) string {
	n := width - lipgloss.Width(s)
	if n <= 0 {
		return s
	}

	return strings.Repeat(" ", n) + s
}
