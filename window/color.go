package window

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA window background color.
type Color struct {
	R, G, B, A uint8
}

// DefaultBackground is used whenever a declared color cannot be parsed.
var DefaultBackground = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var namedColors = map[string]Color{
	"black": {0x00, 0x00, 0x00, 0xff},
	"white": {0xff, 0xff, 0xff, 0xff},
	"red":   {0xff, 0x00, 0x00, 0xff},
	"green": {0x00, 0xff, 0x00, 0xff},
	"blue":  {0x00, 0x00, 0xff, 0xff},
	"gray":  {0x80, 0x80, 0x80, 0xff},
	"grey":  {0x80, 0x80, 0x80, 0xff},
	"clear": {0x00, 0x00, 0x00, 0x00},
}

// ParseColor parses "#RGB", "#RRGGBB", "#RRGGBBAA" (leading '#' optional)
// or a small set of named colors. A malformed string degrades to
// DefaultBackground with a warning; configuration never aborts startup
// over a color.
func ParseColor(s string) Color {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return DefaultBackground
	}
	if c, ok := namedColors[in]; ok {
		return c
	}

	hex := strings.TrimPrefix(in, "#")
	c, err := parseHex(hex)
	if err != nil {
		log.Warningf("unparseable color %q: %v", s, err)
		return DefaultBackground
	}
	return c
}

func parseHex(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return Color{}, err
		}
		// Each nibble doubles: #abc -> #aabbcc.
		r := uint8(v >> 8 & 0xf)
		g := uint8(v >> 4 & 0xf)
		b := uint8(v & 0xf)
		return Color{r*16 + r, g*16 + g, b*16 + b, 0xff}, nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, err
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, err
		}
		return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("want 3, 6 or 8 hex digits, got %d", len(hex))
	}
}

// String renders the color as "#rrggbbaa".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
