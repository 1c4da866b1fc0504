package native

import "strings"

// Modifiers is the accumulated modifier bit-mask of a shortcut or key event.
type Modifiers uint8

const (
	ModCommand Modifiers = 1 << iota
	ModShift
	ModOption
	ModControl
)

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Shortcut is a parsed keyboard shortcut: a modifier mask plus a key token.
type Shortcut struct {
	Mods Modifiers
	Key  string
}

// IsZero reports whether the shortcut is empty.
func (s Shortcut) IsZero() bool {
	return s.Mods == 0 && s.Key == ""
}

// modifierTokens maps recognized modifier spellings to their bits.
var modifierTokens = map[string]Modifiers{
	"cmd":     ModCommand,
	"command": ModCommand,
	"shift":   ModShift,
	"opt":     ModOption,
	"option":  ModOption,
	"alt":     ModOption,
	"ctrl":    ModControl,
	"control": ModControl,
}

// ParseShortcut parses the "mod+mod+key" grammar: tokens joined by "+",
// recognized modifier tokens accumulate into the mask, and any non-modifier
// token is taken as the key. When more than one key token appears the last
// one wins. Parsing never fails: malformed input degrades to whatever was
// recognized, with a log line instead of an error, so one bad declaration
// cannot block the menu it came from.
func ParseShortcut(s string) Shortcut {
	var out Shortcut
	if s == "" {
		return out
	}
	for _, tok := range strings.Split(s, "+") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			log.Warningf("shortcut %q: empty token ignored", s)
			continue
		}
		if mod, ok := modifierTokens[tok]; ok {
			out.Mods |= mod
			continue
		}
		if out.Key != "" {
			log.Debugf("shortcut %q: key %q overrides %q", s, tok, out.Key)
		}
		out.Key = tok
	}
	if out.Key == "" && out.Mods == 0 {
		log.Warningf("shortcut %q: nothing recognized", s)
	}
	return out
}
