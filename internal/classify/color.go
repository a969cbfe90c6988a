package classify

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	// DefaultEndColor is the last color of the numeric gradient.
	DefaultEndColor = RGB{255, 0, 0}
	// DefaultSingleColor is used when every record shares one color.
	DefaultSingleColor = RGB{255, 0, 0}
)

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex accepts #rrggbb or #rgb, with or without the leading '#'.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// Gradient returns the color of group i out of k on a white to end ramp.
// Channels step by floor division so the ramp matches integer arithmetic on
// negative deltas.
func Gradient(i, k int, end RGB) RGB {
	if k <= 1 {
		return White
	}
	step := func(to uint8) uint8 {
		return uint8(255 + floorDiv(i*(int(to)-255), k-1))
	}
	return RGB{step(end.R), step(end.G), step(end.B)}
}

// Hue returns the i-th of n evenly spaced hues at saturation 0.7 and full
// value. Channels are truncated, not rounded.
func Hue(i, n int) RGB {
	if n < 1 {
		n = 1
	}
	c := colorful.Hsv(360*float64(i)/float64(n), 0.7, 1.0)
	return RGB{channel(c.R), channel(c.G), channel(c.B)}
}

func channel(f float64) uint8 {
	v := int(f * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
