// Package rgb is the 24-bit color model used by every LED engine. All scaling is linear in the
// 0-255 domain and truncates, there is no gamma correction.
package rgb

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 0x00RRGGBB value
type Color uint32

const (
	Off   Color = 0x000000
	White Color = 0xFFFFFF

	K2SOBlue      Color = 0x0064FF // 0,100,255
	AlertRed      Color = 0xFF0000
	ScanningGreen Color = 0x00FF64 // 0,255,100
	IdleAmber     Color = 0xFF9600 // 255,150,0
	IceBlue       Color = 0x96C8FF // 150,200,255
)

// Pack builds a Color from its channels
func Pack(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Unpack splits c into its channels
func Unpack(c Color) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// R, G and B return a single channel
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// Scale multiplies every channel by f, truncating. f is clamped to [0,1]
func Scale(c Color, f float32) Color {
	f = clamp01(f)
	r, g, b := Unpack(c)
	return Pack(
		uint8(float32(r)*f),
		uint8(float32(g)*f),
		uint8(float32(b)*f),
	)
}

// Lerp interpolates each channel from a to b. t is clamped to [0,1]
func Lerp(a, b Color, t float32) Color {
	t = clamp01(t)
	ar, ag, ab := Unpack(a)
	br, bg, bb := Unpack(b)
	return Pack(
		lerpChannel(ar, br, t),
		lerpChannel(ag, bg, t),
		lerpChannel(ab, bb, t),
	)
}

func lerpChannel(a, b uint8, t float32) uint8 {
	if t >= 1 {
		return b
	}
	return uint8(float32(a) + (float32(b)-float32(a))*t)
}

// Smoothstep eases t with t²(3-2t)
func Smoothstep(t float32) float32 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RGBA converts c for pixel drivers and renderers
func (c Color) RGBA() color.RGBA {
	r, g, b := Unpack(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (c Color) String() string {
	s := strconv.FormatUint(uint64(c&0xFFFFFF), 16)
	for len(s) < 6 {
		s = "0" + s
	}
	return "#" + s
}

// ErrInvalidColor is returned when a color string cannot be parsed
var ErrInvalidColor = errors.New("invalid color")

// ParseHex reads "#rrggbb", "rrggbb" or the short "#rgb" form
func ParseHex(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Off, errors.Join(ErrInvalidColor, err)
	}
	r, g, b := c.RGB255()
	return Pack(r, g, b), nil
}

// Named colors accepted by the console and the remote color cycle
var Named = map[string]Color{
	"off":    Off,
	"black":  Off,
	"white":  White,
	"red":    AlertRed,
	"green":  Pack(0, 255, 0),
	"blue":   Pack(0, 0, 255),
	"k2so":   K2SOBlue,
	"ice":    IceBlue,
	"amber":  IdleAmber,
	"scan":   ScanningGreen,
	"yellow": Pack(255, 255, 0),
	"purple": Pack(128, 0, 128),
	"cyan":   Pack(0, 255, 255),
	"orange": Pack(255, 165, 0),
}

// Parse accepts a name from Named or a hex value
func Parse(s string) (Color, error) {
	if c, ok := Named[s]; ok {
		return c, nil
	}
	return ParseHex(s)
}

// MarshalText writes the "#rrggbb" form used in config files
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything Parse does
func (c *Color) UnmarshalText(b []byte) error {
	v, err := Parse(strings.ToLower(strings.TrimSpace(string(b))))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
