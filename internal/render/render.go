// Package render draws schedules, benchmarks and stored records for the
// terminal.
package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	lateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	onTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// Options controls how output is drawn
type Options struct {
	// Plain drops colors and uses whitespace instead of box borders
	Plain bool

	// Timeline adds a Gantt chart under schedule tables
	Timeline bool

	// TimelineWidth is the number of columns the chart spans
	TimelineWidth int
}

// DefaultOptions returns styled output with a 60 column timeline
func DefaultOptions() Options {
	return Options{Timeline: true, TimelineWidth: 60}
}

// Renderer turns domain values into terminal text
type Renderer struct {
	opts Options
}

// New creates a renderer
func New(opts Options) *Renderer {
	if opts.TimelineWidth <= 0 {
		opts.TimelineWidth = DefaultOptions().TimelineWidth
	}
	return &Renderer{opts: opts}
}

// paint applies a style unless output is plain
func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.opts.Plain {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) title(s string) string {
	return r.paint(titleStyle, s)
}

// table builds a bordered table with the shared header and cell styles.
// Numeric columns are right aligned.
func (r *Renderer) table(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				if !r.opts.Plain {
					style = style.Inherit(headerStyle)
				}
				return style
			}
			if right[col] {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	if r.opts.Plain {
		t = t.Border(lipgloss.HiddenBorder())
	} else {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(borderStyle)
	}
	return t.String()
}

// num formats a figure with at most two decimals and no trailing zeros
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

func pct(v float64) string {
	return num(v) + "%"
}
