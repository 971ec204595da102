package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"quit", Command{Name: "quit"}},
		{"  Color   #10b981 ", Command{Name: "color", Args: "#10b981"}},
		{"font large", Command{Name: "font", Args: "large"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input   string
		want    Command
		wantErr bool
	}{
		{"q", Command{Name: CmdQuit}, false},
		{"h", Command{Name: CmdHelp}, false},
		{"prefs", Command{Name: CmdPrefs}, false},
		{"logout", Command{Name: CmdLogout}, false},
		{"colour #fff", Command{Name: CmdColor, Args: "#fff"}, false},
		{"font Large", Command{Name: CmdFont, Args: "large"}, false},
		{"insert 👍", Command{Name: CmdInsert, Args: "👍"}, false},
		{"color", Command{}, true},
		{"insert", Command{}, true},
		{"font huge", Command{}, true},
		{"search foo", Command{}, true},
		{"", Command{}, true},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.input).Canonical()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
