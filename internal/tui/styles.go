package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ncplore/ncplore/internal/colormap"
)

// neutralFill is the canvas color behind and around the heatmap raster.
var neutralFill = colormap.RGB{R: 0x28, G: 0x28, B: 0x28}

// Gruvbox-ish theme shared by every view.
var (
	colorBg0    = lipgloss.Color(neutralFill.Hex())
	colorGray   = lipgloss.Color("#928374")
	colorYellow = lipgloss.Color("#fabd2f")
	colorGreen  = lipgloss.Color("#b8bb26")
	colorAqua   = lipgloss.Color("#8ec07c")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorBg0).
			Background(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	unitStyle = lipgloss.NewStyle().
			Foreground(colorAqua)

	activeDimStyle = lipgloss.NewStyle().
			Foreground(colorBg0).
			Background(colorAqua)

	headerCellStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	crosshairStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)
)
