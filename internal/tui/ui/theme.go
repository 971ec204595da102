package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/parley/internal/prefs"
)

// Theme holds color constants for the TUI. Accent-derived colors follow
// the user's accent preference.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	MutedColor        tcell.Color
	AccentColor       tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	SelfColor         tcell.Color
	PeerColor         tcell.Color
	FailedColor       tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color

	// Spacing is the number of blank lines between messages.
	Spacing int
}

// DefaultTheme returns the dark theme with the default accent.
func DefaultTheme() *Theme {
	return NewTheme(prefs.Defaults())
}

// NewTheme derives a theme from display preferences. An unparsable accent
// color falls back to the default accent.
func NewTheme(p prefs.Preferences) *Theme {
	accent := tcell.GetColor(p.AccentColor)
	if accent == tcell.ColorDefault {
		accent = tcell.GetColor(prefs.DefaultAccentColor)
	}

	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorWhiteSmoke,
		MutedColor:        tcell.ColorGray,
		AccentColor:       accent,
		BorderColor:       accent,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     accent,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     accent,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorGray,
		MenuKeyColor:      accent,
		TitleColor:        tcell.ColorWhite,
		CounterColor:      tcell.ColorPapayaWhip,
		SelfColor:         accent,
		PeerColor:         tcell.ColorLightGray,
		FailedColor:       tcell.ColorOrangeRed,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: accent,
		Spacing:           spacing(p.FontScale),
	}
}

// A terminal cannot change its font size; the scale widens message spacing.
func spacing(fs prefs.FontScale) int {
	switch fs {
	case prefs.Small:
		return 0
	case prefs.Large:
		return 2
	default:
		return 1
	}
}
