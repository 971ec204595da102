package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPromptComplete(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	p.SetCommands([]string{"color", "font", "help", "logout", "quit"})

	tests := []struct {
		name string
		mode PromptMode
		text string
		want []string
	}{
		{name: "prefix", mode: PromptCommand, text: "lo", want: []string{"logout"}},
		{name: "several", mode: PromptCommand, text: "", want: nil},
		{name: "exact", mode: PromptCommand, text: "font", want: nil},
		{name: "argument", mode: PromptCommand, text: "color #", want: nil},
		{name: "filter mode", mode: PromptFilter, text: "lo", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Activate(tt.mode, "")
			if diff := cmp.Diff(tt.want, p.complete(tt.text)); diff != "" {
				t.Errorf("complete(%q) (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestPromptActivatePrefills(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	p.Activate(PromptFilter, "bob")
	if p.GetText() != "bob" || p.Mode() != PromptFilter {
		t.Errorf("text=%q mode=%v", p.GetText(), p.Mode())
	}
	p.Activate(PromptCommand, "")
	if p.GetText() != "" || p.GetLabel() != ":" {
		t.Errorf("text=%q label=%q", p.GetText(), p.GetLabel())
	}
}
