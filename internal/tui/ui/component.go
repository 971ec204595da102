package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu.
type MenuHint struct {
	Key         string
	Description string
}

// Component is a full-screen page of the TUI.
type Component interface {
	tview.Primitive
	// Name is the page name and its breadcrumb label.
	Name() string
	Hints() []MenuHint
	// ApplyTheme re-colors the component after a preference change.
	ApplyTheme(*Theme)
}
