package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/parley/internal/prefs"
)

func TestNewThemeUsesAccent(t *testing.T) {
	th := NewTheme(prefs.Preferences{AccentColor: "#10b981", FontScale: prefs.Large})

	want := tcell.NewHexColor(0x10b981)
	if th.AccentColor != want || th.BorderColor != want || th.SelfColor != want {
		t.Errorf("accent colors = %v/%v/%v, want %v", th.AccentColor, th.BorderColor, th.SelfColor, want)
	}
	if th.Spacing != 2 {
		t.Errorf("Spacing = %d, want 2", th.Spacing)
	}
}

func TestNewThemeBadAccentFallsBack(t *testing.T) {
	th := NewTheme(prefs.Preferences{AccentColor: "not-a-color", FontScale: prefs.Small})

	if th.AccentColor != tcell.NewHexColor(0x3b82f6) {
		t.Errorf("AccentColor = %v, want default blue", th.AccentColor)
	}
	if th.Spacing != 0 {
		t.Errorf("Spacing = %d, want 0", th.Spacing)
	}
}

func TestSpacingDefaultsToMedium(t *testing.T) {
	if got := spacing("huge"); got != 1 {
		t.Errorf("spacing(huge) = %d, want 1", got)
	}
}

func TestColorName(t *testing.T) {
	if got := ColorName(tcell.NewHexColor(0x3b82f6)); got != "#3b82f6" {
		t.Errorf("ColorName() = %q", got)
	}
}
