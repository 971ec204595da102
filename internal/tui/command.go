package tui

import (
	"fmt"
	"strings"

	"github.com/matheus3301/parley/internal/prefs"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Command names, with aliases.
const (
	CmdPrefs  = "prefs"
	CmdColor  = "color"
	CmdFont   = "font"
	CmdInsert = "insert"
	CmdLogout = "logout"
	CmdHelp   = "help"
	CmdQuit   = "quit"
)

var aliases = map[string]string{
	"h":      CmdHelp,
	"q":      CmdQuit,
	"q!":     CmdQuit,
	"exit":   CmdQuit,
	"colour": CmdColor,
}

// Canonical resolves aliases and validates arguments.
func (c Command) Canonical() (Command, error) {
	if full, ok := aliases[c.Name]; ok {
		c.Name = full
	}
	switch c.Name {
	case CmdPrefs, CmdLogout, CmdHelp, CmdQuit:
		return c, nil
	case CmdColor:
		if c.Args == "" {
			return c, fmt.Errorf("usage: :color <hex>")
		}
		return c, nil
	case CmdInsert:
		if c.Args == "" {
			return c, fmt.Errorf("usage: :insert <text>")
		}
		return c, nil
	case CmdFont:
		if _, err := prefs.ParseFontScale(strings.ToLower(c.Args)); err != nil {
			return c, fmt.Errorf("usage: :font small|medium|large")
		}
		c.Args = strings.ToLower(c.Args)
		return c, nil
	case "":
		return c, fmt.Errorf("empty command")
	}
	return c, fmt.Errorf("unknown command %q", c.Name)
}
