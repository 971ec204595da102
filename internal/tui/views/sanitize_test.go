package views

import "testing"

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "plain text", "plain text"},
		{"skin tone", "\U0001F44D\U0001F3FB", "\U0001F44D"},
		{"variation selector", "\u2764\uFE0F", "\u2764"},
		{"zwj", "\U0001F468\u200D\U0001F469", "\U0001F468\U0001F469"},
		{"ansi color", "\x1b[31mred\x1b[0m text", "red text"},
		{"controls", "a\rb\x07c\x7f", "abc"},
		{"tab and newline", "a\tb\nc", "a b\nc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  bob \n smith ", "bob smith"},
		{"line one\n\nline two\t!", "line one line two !"},
		{"\x1b[1mcarol\x1b[0m \U0001F44B\uFE0F", "carol \U0001F44B"},
	}
	for _, tt := range tests {
		if got := singleLine(tt.in); got != tt.want {
			t.Errorf("singleLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
