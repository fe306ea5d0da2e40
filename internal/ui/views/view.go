package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Pane is one rendered view of the result window
type Pane struct {
	Title   string
	Body    string
	Focused bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Source        string
	Iteration     int
	Iterations    int
	QueryDef      string
	Loading       bool
	FilterQuery   string
	FilterInput   string // rendered text input, empty when not filtering
	Panes         []Pane // hits, msa, tree, detail
	StatusMessage string
	StatusIsError bool
	Selected      int
	Published     uint64
	Failed        uint64
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render produces the complete window
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	if state.FilterInput != "" {
		content.WriteString(state.FilterInput)
		content.WriteString("\n")
	}

	switch {
	case state.Loading && state.Iterations == 0:
		content.WriteString(r.styles.Dim.Render("Reading report..."))
	case state.Iterations == 0:
		content.WriteString(r.styles.Dim.Render("No report loaded."))
	default:
		content.WriteString(r.renderPanes(state))
	}
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state))
	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(state.HelpView)
	}

	return lipgloss.NewStyle().MaxHeight(state.Height).Render(content.String())
}

// PaneSize returns the inner size of each of the four panes for a window
// of the given size. extraLines is the number of lines taken by the filter
// input and the help footer.
func PaneSize(width, height, extraLines int) (int, int) {
	// title, status, and two rows of bordered panes
	w := width/2 - 4
	h := (height-2-extraLines)/2 - 3
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("blastview")
	if state.Source != "" {
		logo += r.styles.Dim.Render("  " + state.Source)
	}
	if state.QueryDef != "" {
		logo += r.styles.Dim.Render(" · " + state.QueryDef)
	}

	right := []string{}
	if state.Loading {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		right = append(right, r.styles.Dim.Render(spinner[frame]+" Loading"))
	}
	if state.Iterations > 0 {
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("iteration %d/%d", state.Iteration+1, state.Iterations)))
	}
	if state.FilterQuery != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.FilterQuery)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderPanes(state ViewState) string {
	boxes := make([]string, len(state.Panes))
	for i, p := range state.Panes {
		style := r.styles.Pane
		if p.Focused {
			style = r.styles.PaneFocused
		}
		boxes[i] = style.Render(r.styles.PaneTitle.Render(p.Title) + "\n" + p.Body)
	}

	var rows []string
	for i := 0; i < len(boxes); i += 2 {
		if i+1 < len(boxes) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i], boxes[i+1]))
		} else {
			rows = append(rows, boxes[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.StatusMessage != "" {
		if state.StatusIsError {
			return r.styles.StatusError.Render(state.StatusMessage)
		}
		return r.styles.Status.Render(state.StatusMessage)
	}
	status := fmt.Sprintf("%d selected • %d published", state.Selected, state.Published)
	if state.Failed > 0 {
		status += fmt.Sprintf(" • %d listener failures", state.Failed)
	}
	return r.styles.Status.Render(status + " • ? for help")
}

// RenderHelpContent renders the long help shown in the pager
func (r *Renderer) RenderHelpContent() string {
	sectionStyle := r.styles.PaneTitle.MarginTop(1)
	keyStyle := r.styles.Label
	descStyle := r.styles.Value

	var help strings.Builder
	line := func(k, desc string) {
		help.WriteString("  " + keyStyle.Render(fmt.Sprintf("%-16s", k)) + descStyle.Render(desc) + "\n")
	}

	help.WriteString(r.styles.Title.MarginBottom(1).Render("blastview Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Views"))
	help.WriteString("\n")
	line("Tab/Shift+Tab", "Focus next/previous view")
	line("[ / ]", "Previous/next iteration")
	line("Enter", "Show the full alignment of the HSP in the detail view")

	help.WriteString(sectionStyle.Render("Selection"))
	help.WriteString("\n")
	line("↑/↓, j/k", "Move and select")
	line("Shift+↑/↓, K/J", "Extend selection")
	line("Space", "Toggle selection")
	line("Esc", "Clear selection")
	line("←/→", "Collapse/expand (tree), scroll columns (MSA)")
	line("n/p", "Next/previous HSP of the hit (detail)")
	help.WriteString(r.styles.Dim.Italic(true).Render("  Selecting in any view selects the same HSPs in the others."))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Filter"))
	help.WriteString("\n")
	line("/", "Filter hits by accession or description")
	line("ctrl+l", "Clear filter")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	line("?", "Toggle key help")
	line("H", "Open this help in the pager")
	line("q", "Quit")

	return help.String()
}
