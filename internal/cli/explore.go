package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/legend"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// A terminal cell stands for a cellWidth × cellHeight pixel box; the chart
// is laid out in pixels and then sampled onto the cell grid.
const (
	cellWidth  = 7.0
	cellHeight = 16.0

	// footerRows is reserved below the chart for status and help.
	footerRows = 3
)

// exploreCommand creates the explore command: an interactive terminal chart.
func (c *CLI) exploreCommand() *cobra.Command {
	var lf layoutFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore [data file]",
		Short: "Explore a tornado chart interactively in the terminal",
		Long: `Explore a tornado chart interactively in the terminal.

Click a bar (or move with ↑/↓ and press enter) to highlight it; with two
series the mirrored bar of the same category stays highlighted too. Click
the background or press esc to clear the selection. The chart is laid out
again whenever the terminal is resized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			lf.apply(&opts)
			return c.runExplore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SettingsFile, "settings", "", "chart settings file (TOML)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "worksheet to read (xlsx, default: first)")
	cmd.Flags().StringVar(&lf.series, "series", "", "value columns to chart (comma-separated, default: all)")
	cmd.Flags().IntVar(&lf.selected, "select", -1, "column index to highlight initially")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options) error {
	dv, err := pipeline.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	s, err := pipeline.ResolveSettings(opts)
	if err != nil {
		return err
	}

	m := newExploreModel(dv, &s, tornado.WithLogger(c.Logger))
	m.initial = opts.Selected

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// =============================================================================
// exploreModel - bubbletea model around a tornado.Visual
// =============================================================================

type exploreModel struct {
	visual   *tornado.Visual
	data     *dataview.DataView
	settings *settings.Settings
	frame    tornado.Frame

	width, height int
	cursor        int

	// initial is clicked once the first layout exists.
	initial *int
}

func newExploreModel(dv *dataview.DataView, s *settings.Settings, opts ...tornado.Option) *exploreModel {
	opts = append([]tornado.Option{tornado.WithMeasurer(text.Approx{})}, opts...)
	return &exploreModel{visual: tornado.New(opts...), data: dv, settings: s}
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k", "left", "h":
			m.move(-1)
		case "down", "j", "right", "l", "tab":
			m.move(1)
		case "enter", " ":
			m.frame = m.visual.Click(m.cursor)
		case "esc", "backspace":
			m.frame = m.visual.ClickBackground()
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *exploreModel) resize(w, h int) {
	m.width, m.height = w, h
	m.frame = m.visual.Update(m.data, m.settings, m.viewport())
	if m.initial != nil {
		m.frame = m.visual.Click(*m.initial)
		m.initial = nil
	}
	if n := len(m.frame.Layout.Columns); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *exploreModel) viewport() layout.Viewport {
	return layout.Viewport{
		Width:  float64(max(1, m.width)) * cellWidth,
		Height: float64(max(1, m.height-footerRows)) * cellHeight,
	}
}

// move steps the cursor through the columns, wrapping at both ends.
func (m *exploreModel) move(d int) {
	n := len(m.frame.Layout.Columns)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+d)%n + n) % n
}

// click maps a terminal cell to a bar; anything else is a background click.
func (m *exploreModel) click(x, y int) {
	l := m.frame.Layout
	for i, c := range l.Columns {
		row, c0, c1 := barCells(l.Context, c)
		if y == row && x >= c0 && x < c1 {
			m.cursor = i
			m.frame = m.visual.Click(i)
			return
		}
	}
	m.frame = m.visual.ClickBackground()
}

func (m *exploreModel) View() string {
	if m.width == 0 {
		return "loading…"
	}
	rows := max(1, m.height-footerRows)
	g := newGrid(m.width, rows)
	drawLayout(g, m.frame.Layout, m.cursor)

	var b strings.Builder
	b.WriteString(g.String())
	b.WriteString("\n\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ select  esc clear  click bars  q quit"))
	return b.String()
}

// status describes the selection and the tooltip of the bar under the
// cursor, cut to the terminal width.
func (m *exploreModel) status() string {
	cols := m.frame.Layout.Columns
	if len(cols) == 0 {
		return StyleWarning.Render("no chartable data")
	}
	sel, selStyle := "nothing selected", StyleDim
	if i, ok := m.visual.Selection().Index(); ok {
		sel, selStyle = fmt.Sprintf("selected #%d", i), StyleHighlight
	}
	var parts []string
	for _, it := range cols[m.cursor].Tooltip {
		parts = append(parts, it.DisplayName+": "+it.Value)
	}
	room := float64(m.width - runewidth.StringWidth(sel) - 3)
	tip := text.CellMeasurer{}.Truncate(strings.Join(parts, " · "), text.Font{}, max(room, 0))
	return selStyle.Render(sel) + StyleDim.Render(" · ") + StyleValue.Render(tip)
}

// =============================================================================
// Cell grid
// =============================================================================

type cell struct {
	r     string
	style lipgloss.Style
	set   bool
}

type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		g.cells[y] = make([]cell, w)
	}
	return g
}

func (g *grid) put(x, y int, s string, style lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = cell{r: s, style: style, set: true}
}

// text writes s from (x, y), truncated to the grid edge. Wide runes take
// two cells.
func (g *grid) text(x, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= g.h || x >= g.w {
		return
	}
	s = text.CellMeasurer{}.Truncate(s, text.Font{}, float64(g.w-max(x, 0)))
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > g.w {
			return
		}
		g.put(x, y, string(r), style)
		for i := 1; i < w; i++ {
			g.cells[y][x+i] = cell{set: true}
		}
		x += w
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteString("\n")
		}
		for _, c := range row {
			switch {
			case !c.set:
				b.WriteString(" ")
			case c.r != "":
				b.WriteString(c.style.Render(c.r))
			}
		}
	}
	return b.String()
}

func toCell(v, size float64) int { return int(math.Floor(v / size)) }

// barCells returns the grid row of a bar and its [c0, c1) cell span.
func barCells(ctx layout.Context, c layout.Column) (row, c0, c1 int) {
	left := ctx.Sections.Left + c.Left()
	row = toCell(ctx.Top+c.Y+c.DY+c.Height/2, cellHeight)
	c0 = int(math.Round(left / cellWidth))
	c1 = int(math.Round((left + c.Width) / cellWidth))
	if c1 <= c0 && c.Width > 0 {
		c1 = c0 + 1
	}
	return row, c0, c1
}

func drawLayout(g *grid, l layout.Layout, cursor int) {
	if l.Empty() {
		return
	}
	ctx := l.Context

	for _, it := range l.Legend.Items {
		row := toCell(it.Y+legend.IconSize/2, cellHeight)
		g.put(toCell(it.X, cellWidth), row, "■", lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)))
		g.text(toCell(it.TextX, cellWidth), row, it.Text, StyleDim)
	}

	if a := l.Axis; a != nil {
		x := toCell(ctx.Sections.Left+a.X1, cellWidth)
		for y := toCell(ctx.Top+a.Y1, cellHeight); y <= toCell(ctx.Top+a.Y2-1, cellHeight); y++ {
			g.put(x, y, "│", StyleDim)
		}
	}

	rowOf := make(map[int]int, ctx.CategoryCount)
	for i, c := range l.Columns {
		row, c0, c1 := barCells(ctx, c)
		rowOf[c.Category] = row
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Fill))
		block := "█"
		if c.Opacity < 1 {
			block = "░"
		}
		if i == cursor {
			block = "▓"
		}
		for x := c0; x < c1; x++ {
			g.put(x, row, block, style)
		}
		if l.LabelsVisible && c.Label.Visible {
			lb := c.Label
			ls := lipgloss.NewStyle()
			if lb.Inside {
				ls = ls.Foreground(lipgloss.Color(lb.Fill)).Background(lipgloss.Color(c.Fill))
			}
			g.text(toCell(ctx.Sections.Left+lb.X+lb.DX, cellWidth), row, lb.Text, ls)
		}
	}

	for _, ct := range l.Categories {
		row, ok := rowOf[ct.Index]
		if !ok {
			row = toCell(ctx.Top+ct.Y-ct.Height/2, cellHeight)
		}
		g.text(toCell(ct.X, cellWidth), row, ct.Text, lipgloss.NewStyle().Foreground(lipgloss.Color(ct.Fill)))
	}
}
