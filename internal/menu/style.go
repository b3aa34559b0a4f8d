package menu

import "github.com/charmbracelet/lipgloss"

var (
	Green  = lipgloss.Color("#00C832")
	Red    = lipgloss.Color("#FF5F5F")
	Yellow = lipgloss.Color("#FFD700")
	Cyan   = lipgloss.Color("#00D4AA")
	Gray   = lipgloss.Color("#aaaaaa")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(Green)

	FailStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	PromptStyle = lipgloss.NewStyle().
			Foreground(Gray)
)

// painter renders single-line strings, or passes them through untouched
// when color is off.
type painter struct {
	color bool
}

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p painter) title(s string) string  { return p.paint(TitleStyle, s) }
func (p painter) ok(s string) string     { return p.paint(OKStyle, s) }
func (p painter) fail(s string) string   { return p.paint(FailStyle, s) }
func (p painter) info(s string) string   { return p.paint(InfoStyle, s) }
func (p painter) prompt(s string) string { return p.paint(PromptStyle, s) }
