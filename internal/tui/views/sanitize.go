package views

import (
	"regexp"
	"strings"
)

// ansiSeq matches CSI escape sequences a service reply might carry.
var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// sanitizeForTerminal prepares service text for a tview cell. Escape
// sequences and control characters are removed, tabs become spaces, and
// emoji modifiers that tcell draws as separate cells (skin tones, ZWJ,
// variation selectors) are dropped. Newlines are kept.
func sanitizeForTerminal(s string) string {
	s = ansiSeq.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		case isEmojiModifier(r):
			return -1
		}
		return r
	}, s)
}

// singleLine sanitizes s and folds all whitespace runs, newlines included,
// into single spaces. Used for names and list previews.
func singleLine(s string) string {
	return strings.Join(strings.Fields(sanitizeForTerminal(s)), " ")
}

func isEmojiModifier(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return true
	}
	return false
}
