package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7785")
)

// styles holds the shell's text styles. They are bound to the output writer's
// renderer, so plain writers (pipes, buffers) receive unstyled text.
type styles struct {
	title  lipgloss.Style
	item   lipgloss.Style
	prompt lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(accent),
		item:   r.NewStyle(),
		prompt: r.NewStyle().Foreground(muted),
		ok:     r.NewStyle().Foreground(accent),
		err:    r.NewStyle().Foreground(destructive),
	}
}
