package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/order"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <page>",
	Short: "Interactively reorder the sections of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _, err := openSite()
		if err != nil {
			return err
		}
		defer content.Close()

		slug := blocksite.SlugFromPath(args[0])
		m := order.NewManager(backend.Orderable(content.Store), backend.SectionsOf(slug), order.WithLogger(logger()))
		if err := m.Load(cmd.Context()); err != nil {
			return err
		}
		if len(m.Entries()) == 0 {
			return fmt.Errorf("page %q has no sections", slug)
		}
		_, err = tea.NewProgram(newReorderModel(cmd.Context(), m)).Run()
		return err
	},
}

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtext lipgloss.Color = "#a6adc8"
	colorOverlay lipgloss.Color = "#7f849c"
	colorFocus   lipgloss.Color = "#b4befe"
	colorPeach   lipgloss.Color = "#fab387"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarning lipgloss.Color = "#f9e2af"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	itemStyle    = lipgloss.NewStyle().Foreground(colorText)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	grabbedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
	helpStyle    = lipgloss.NewStyle().Foreground(colorOverlay)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	stateStyles  = map[order.State]lipgloss.Style{
		order.Clean:  lipgloss.NewStyle().Foreground(colorSuccess),
		order.Dirty:  lipgloss.NewStyle().Foreground(colorWarning),
		order.Saving: lipgloss.NewStyle().Foreground(colorSubtext),
	}
)

// commitDoneMsg carries the outcome of a commit started by the model.
type commitDoneMsg struct {
	err error
}

type reorderModel struct {
	ctx     context.Context
	m       *order.Manager
	cursor  int
	grabbed bool
	status  string
}

func newReorderModel(ctx context.Context, m *order.Manager) reorderModel {
	return reorderModel{ctx: ctx, m: m}
}

func (r reorderModel) Init() tea.Cmd {
	return nil
}

func (r reorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commitDoneMsg:
		if msg.err == nil {
			r.status = "saved"
		} else {
			r.status = ""
		}
		return r, nil
	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r reorderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(r.m.Entries())
	switch msg.String() {
	case "ctrl+c", "q":
		return r, tea.Quit
	case "up", "k":
		r.step(-1)
	case "down", "j":
		r.step(1)
	case "K", "shift+up":
		r.move(-1)
	case "J", "shift+down":
		r.move(1)
	case " ", "enter":
		r.grabbed = !r.grabbed
	case "home", "g":
		r.cursor = 0
	case "end", "G":
		r.cursor = max(n-1, 0)
	case "s":
		if r.m.State() != order.Dirty {
			return r, nil
		}
		r.status = "saving..."
		r.grabbed = false
		return r, r.commit()
	case "r":
		r.m.DismissError()
		if err := r.m.Reset(); err != nil {
			r.status = err.Error()
			return r, nil
		}
		r.grabbed = false
		r.status = "reset"
	case "x", "esc":
		r.m.DismissError()
		r.status = ""
	}
	return r, nil
}

// step moves the cursor, carrying the entry along when it is grabbed.
func (r *reorderModel) step(delta int) {
	if r.grabbed {
		r.move(delta)
		return
	}
	r.cursor = clamp(r.cursor+delta, len(r.m.Entries()))
}

func (r *reorderModel) move(delta int) {
	to := clamp(r.cursor+delta, len(r.m.Entries()))
	if to == r.cursor {
		return
	}
	if err := r.m.Move(r.cursor, to); err != nil {
		r.status = err.Error()
		return
	}
	r.cursor = to
	r.status = ""
}

func (r reorderModel) commit() tea.Cmd {
	ctx, m := r.ctx, r.m
	return func() tea.Msg {
		return commitDoneMsg{err: m.Commit(ctx)}
	}
}

func clamp(i, n int) int {
	return min(max(i, 0), max(n-1, 0))
}

func (r reorderModel) View() string {
	var b strings.Builder
	state := r.m.State()

	fmt.Fprintf(&b, "%s  %s\n\n", titleStyle.Render(r.m.Collection()), stateStyles[state].Render(state.String()))
	for i, e := range r.m.Entries() {
		line := fmt.Sprintf("%2d. %s", i+1, e.Label)
		switch {
		case i == r.cursor && r.grabbed:
			b.WriteString(grabbedStyle.Render("» " + line))
		case i == r.cursor:
			b.WriteString(cursorStyle.Render("> " + line))
		default:
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteByte('\n')
	}

	if err := r.m.Err(); err != nil {
		fmt.Fprintf(&b, "\n%s\n", errorStyle.Render("save failed: "+err.Error()+" (x dismiss, r reset)"))
	} else if r.status != "" {
		fmt.Fprintf(&b, "\n%s\n", helpStyle.Render(r.status))
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓ move cursor  space grab  J/K move item  s save  r reset  q quit") + "\n")
	return b.String()
}
