package charts

import (
	"fmt"
	"io"
	"strings"

	"spendwise/internal/money"
	"spendwise/internal/utilization"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

// Label widths used when drawing.
const (
	BarLabelWidth = 20
	PieLabelWidth = 25
)

var paletteColors = map[string]lipgloss.Color{
	"red":     lipgloss.Color("#ef4444"),
	"green":   lipgloss.Color("#22c55e"),
	"blue":    lipgloss.Color("#3b82f6"),
	"yellow":  lipgloss.Color("#f59e0b"),
	"magenta": lipgloss.Color("#d946ef"),
	"cyan":    lipgloss.Color("#06b6d4"),
}

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorMuted  = lipgloss.Color("#9CA3AF")
	colorTitle  = lipgloss.Color("#87CEEB")
	colorHeader = lipgloss.Color("#d946ef")
)

// Canvas styles chart output for one writer. Color is only emitted when the
// writer is a terminal that supports it.
type Canvas struct {
	r      *lipgloss.Renderer
	symbol string
}

// NewCanvas returns a Canvas that formats amounts with symbol.
func NewCanvas(w io.Writer, symbol string) *Canvas {
	if symbol == "" {
		symbol = money.DefaultSymbol
	}
	return &Canvas{r: lipgloss.NewRenderer(w), symbol: symbol}
}

// Money formats an amount with the canvas currency symbol.
func (c *Canvas) Money(d decimal.Decimal) string {
	return money.FormatWith(c.symbol, d)
}

// Style returns a fresh style bound to the canvas renderer.
func (c *Canvas) Style() lipgloss.Style {
	return c.r.NewStyle()
}

// Title renders a bold section title.
func (c *Canvas) Title(s string) string {
	return c.r.NewStyle().Bold(true).Underline(true).Foreground(colorTitle).Render(s)
}

// Muted renders secondary text.
func (c *Canvas) Muted(s string) string {
	return c.r.NewStyle().Foreground(colorMuted).Render(s)
}

// Panel draws a rounded border around content.
func (c *Canvas) Panel(title, content string) string {
	body := content
	if title != "" {
		body = c.Title(title) + "\n" + content
	}
	return c.r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorTitle).Padding(0, 1).Render(body)
}

// LevelColor renders s in the color of a utilization level.
func (c *Canvas) LevelColor(level utilization.Level, s string) string {
	return c.r.NewStyle().Foreground(levelColor(level)).Render(s)
}

// Change renders a signed percentage change, red when rising.
func (c *Canvas) Change(pct float64) string {
	if pct > 0 {
		return c.r.NewStyle().Foreground(colorRed).Render(fmt.Sprintf("+%.1f%%", pct))
	}
	return c.r.NewStyle().Foreground(colorGreen).Render(fmt.Sprintf("%.1f%%", pct))
}

// Table returns a bordered table with styled headers.
func (c *Canvas) Table(headers ...string) *table.Table {
	header := c.r.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cell := c.r.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.r.NewStyle().Foreground(colorMuted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...)
}

// BarChart draws bars as a label, bar, amount and share column.
func (c *Canvas) BarChart(title string, bars []Bar) string {
	if len(bars) == 0 {
		return c.Muted("No data")
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(c.Title(title))
		b.WriteByte('\n')
	}
	for _, bar := range bars {
		label := padRight(ansi.Truncate(bar.Label, BarLabelWidth, ""), BarLabelWidth)
		body := c.r.NewStyle().Foreground(tierColor(bar.Tier)).Render(bar.Glyphs())
		fmt.Fprintf(&b, "%s %s %s %s\n",
			label,
			body,
			c.Money(bar.Value),
			c.Muted(fmt.Sprintf("%.1f%%", bar.Percentage)),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PieChart draws the legend of a pie chart.
func (c *Canvas) PieChart(title string, slices []Slice) string {
	if len(slices) == 0 {
		return c.Panel(title, c.Muted("No data"))
	}
	lines := make([]string, 0, len(slices))
	for _, s := range slices {
		swatch := c.r.NewStyle().Background(paletteColors[s.Color]).Render("  ")
		label := padRight(ansi.Truncate(s.Label, PieLabelWidth, ""), PieLabelWidth)
		lines = append(lines, fmt.Sprintf("%s %s %5.1f%%  %s", swatch, label, s.Percentage, c.Money(s.Value)))
	}
	return c.Panel(title, strings.Join(lines, "\n"))
}

// Sparkline draws the glyph line with min, max and average underneath.
func (c *Canvas) Sparkline(title string, s Spark) string {
	if s.Glyphs == "" {
		return c.Panel(title, c.Muted("No data"))
	}
	stats := fmt.Sprintf("Min: %s | Max: %s | Avg: %s", c.Money(s.Min), c.Money(s.Max), c.Money(s.Avg))
	line := c.r.NewStyle().Foreground(colorGreen).Render(s.Glyphs)
	return c.Panel(title, line+"\n"+c.Muted(stats))
}

// ProgressBar draws a filled track followed by the percentage.
func (c *Canvas) ProgressBar(p Progress) string {
	filled := c.r.NewStyle().Foreground(levelColor(p.Level)).Render(strings.Repeat(fullBlock, p.Filled))
	empty := c.Muted(strings.Repeat("░", p.Width-p.Filled))
	return fmt.Sprintf("%s%s %.0f%%", filled, empty, p.Percentage)
}

func tierColor(t Tier) lipgloss.Color {
	switch t {
	case TierHigh:
		return colorRed
	case TierMid:
		return colorYellow
	default:
		return colorGreen
	}
}

func levelColor(l utilization.Level) lipgloss.Color {
	switch l {
	case utilization.Over:
		return colorRed
	case utilization.Warning:
		return colorYellow
	default:
		return colorGreen
	}
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
