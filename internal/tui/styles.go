package tui

import "github.com/charmbracelet/lipgloss"

// Terminal theme colors (ANSI 0-15)
// These adapt to the user's terminal color scheme
var (
	colorBlack   = lipgloss.Color("0")
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorWhite   = lipgloss.Color("7")

	colorBrightBlack = lipgloss.Color("8")

	// Semantic aliases
	primaryColor   = colorYellow
	successColor   = colorGreen
	dangerColor    = colorRed
	highlightColor = colorMagenta
	fgColor        = colorWhite

	// Header bar
	headerStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(colorBlack).
			Bold(true).
			Padding(0, 1)

	// Status bar (no background - uses terminal default)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	// Item list styles - selection uses bright black background
	selectionBg = colorBrightBlack

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Background(selectionBg).
				Bold(true)

	itemOnScreenStyle = lipgloss.NewStyle().
				Foreground(successColor)

	itemAttachedStyle = lipgloss.NewStyle().
				Foreground(colorCyan)

	// Host record styles
	eventStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	// Viewport cells, indexed by cell kind
	cellStyles = [...]lipgloss.Style{
		cellEmpty:   lipgloss.NewStyle(),
		cellItem:    lipgloss.NewStyle().Foreground(successColor),
		cellPending: lipgloss.NewStyle().Foreground(colorBrightBlack),
		cellPinned:  lipgloss.NewStyle().Foreground(highlightColor).Bold(true),
		cellCursor:  lipgloss.NewStyle().Foreground(primaryColor).Bold(true),
	}

	// Modal/dialog styles
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	// Error/success messages
	errorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorBrightBlack)

	// Help key style
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(fgColor)
)
