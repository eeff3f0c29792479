// Package render draws the task views for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/task"
	"github.com/harrisonrobin/taskflow/pkg/theme"
)

// NoticeKind selects the styling of a transient message.
type NoticeKind int

const (
	Primary NoticeKind = iota
	Danger
)

type styles struct {
	text    lipgloss.Style
	done    lipgloss.Style
	muted   lipgloss.Style
	id      lipgloss.Style
	active  lipgloss.Style
	near    lipgloss.Style
	expired lipgloss.Style
	header  lipgloss.Style
	primary lipgloss.Style
	danger  lipgloss.Style
}

// Renderer writes views in the colors of one theme.
type Renderer struct {
	w  io.Writer
	st styles
}

func New(w io.Writer, name theme.Name) *Renderer {
	p := name.Palette()
	return &Renderer{
		w: w,
		st: styles{
			text:    lipgloss.NewStyle().Foreground(p.Foreground),
			done:    lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
			muted:   lipgloss.NewStyle().Foreground(p.Muted),
			id:      lipgloss.NewStyle().Foreground(p.Muted).Faint(true),
			active:  lipgloss.NewStyle().Foreground(p.Accent),
			near:    lipgloss.NewStyle().Foreground(p.Warning),
			expired: lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
			header:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
			primary: lipgloss.NewStyle().Foreground(p.Success),
			danger:  lipgloss.NewStyle().Foreground(p.Danger),
		},
	}
}

// Countdown formats a remaining time for display, "" when there is none.
func Countdown(rem *task.Remaining) string {
	switch {
	case rem == nil:
		return ""
	case rem.Expired:
		return "Expired"
	default:
		return fmt.Sprintf("%dd %dh", rem.Days, rem.Hours)
	}
}

// Active renders the active list in display order.
func (r *Renderer) Active(tasks []*task.Task, now time.Time) {
	fmt.Fprintln(r.w, r.st.header.Render("Tasks"))
	if len(tasks) == 0 {
		fmt.Fprintln(r.w, r.st.muted.Render("  Your list is empty. Add a task to get organized."))
		return
	}
	for _, t := range manager.DisplayOrder(tasks) {
		box := "[ ]"
		desc := r.st.text.Render(t.Description)
		if t.Completed {
			box = "[x]"
			desc = r.st.done.Render(t.Description)
		}

		var info []string
		if t.Deadline != nil {
			info = append(info, r.st.muted.Render(t.Deadline.String()))
		}
		if rem := t.TimeRemaining(now); rem != nil {
			style := r.st.active
			switch {
			case rem.Expired:
				style = r.st.expired
			case rem.Days == 0:
				style = r.st.near
			}
			info = append(info, style.Render(Countdown(rem)))
		}

		line := fmt.Sprintf("  %s %s %s", box, desc, r.st.id.Render(t.ID))
		if len(info) > 0 {
			line += "  " + strings.Join(info, " ")
		}
		fmt.Fprintln(r.w, line)
	}
}

// Trash renders soft-deleted tasks. Nothing is written when there are none.
func (r *Renderer) Trash(tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintln(r.w, r.st.header.Render("Trash"))
	for _, t := range manager.DisplayOrder(tasks) {
		fmt.Fprintf(r.w, "  %s %s\n", r.st.muted.Render(t.Description), r.st.id.Render(t.ID))
	}
}

func (r *Renderer) Stats(s manager.Stats) {
	fmt.Fprintln(r.w, r.st.muted.Render(fmt.Sprintf(
		"total %d · pending %d · completed %d · trash %d",
		s.Total, s.Pending, s.Completed, s.Deleted)))
}

// Notice prints a one-line message.
func (r *Renderer) Notice(kind NoticeKind, msg string) {
	style := r.st.primary
	if kind == Danger {
		style = r.st.danger
	}
	fmt.Fprintln(r.w, style.Render(msg))
}

// All renders the active list, the trash and the stats line.
func (r *Renderer) All(m *manager.Manager, now time.Time) {
	r.Active(m.GetActiveTasks(), now)
	r.Trash(m.GetDeletedTasks())
	r.Stats(m.Stats())
}
