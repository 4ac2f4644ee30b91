package utils

import "github.com/charmbracelet/lipgloss"

// ColourScheme is the Catppuccin Mocha palette subset the views draw with.
type ColourScheme struct {
	Red      lipgloss.Color
	Peach    lipgloss.Color
	Yellow   lipgloss.Color
	Green    lipgloss.Color
	Teal     lipgloss.Color
	Blue     lipgloss.Color
	Mauve    lipgloss.Color
	Lavender lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Overlay0 lipgloss.Color
	Surface1 lipgloss.Color
	Surface0 lipgloss.Color
	Base     lipgloss.Color
}

var Colours = ColourScheme{
	Red:      "#f38ba8",
	Peach:    "#fab387",
	Yellow:   "#f9e2af",
	Green:    "#a6e3a1",
	Teal:     "#94e2d5",
	Blue:     "#89b4fa",
	Mauve:    "#cba6f7",
	Lavender: "#b4befe",
	Text:     "#cdd6f4",
	Subtext0: "#a6adc8",
	Overlay0: "#6c7086",
	Surface1: "#45475a",
	Surface0: "#313244",
	Base:     "#1e1e2e",
}

// Styles shared by every view.
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Colours.Mauve).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Colours.Subtext0)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Colours.Lavender).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Colours.Overlay0)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Colours.Red).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Colours.Green).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Colours.Yellow)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Colours.Base).
			Background(Colours.Mauve).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Colours.Blue).
			Bold(true)

	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Colours.Mauve).
				Padding(0, 1)

	BlurredBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Colours.Surface1).
				Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Colours.Peach).
			Padding(1, 3)

	AvatarStyle = lipgloss.NewStyle().
			Foreground(Colours.Base).
			Background(Colours.Teal).
			Bold(true).
			Padding(0, 1)

	PageStyle = lipgloss.NewStyle().
			Foreground(Colours.Subtext0).
			Padding(0, 1)

	CurrentPageStyle = lipgloss.NewStyle().
				Foreground(Colours.Base).
				Background(Colours.Blue).
				Bold(true).
				Padding(0, 1)
)
