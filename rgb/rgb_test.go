package rgb

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleColors = []Color{Off, White, K2SOBlue, AlertRed, ScanningGreen, IdleAmber, IceBlue, Pack(1, 2, 3), Pack(254, 127, 33)}

func TestPackUnpack(t *testing.T) {
	c := Pack(0x12, 0x34, 0x56)
	assert.Equal(t, Color(0x123456), c)

	r, g, b := Unpack(c)
	assert.Equal(t, []uint8{0x12, 0x34, 0x56}, []uint8{r, g, b})
	assert.Equal(t, uint8(0x12), c.R())
	assert.Equal(t, uint8(0x34), c.G())
	assert.Equal(t, uint8(0x56), c.B())
}

func TestScaleIdentityAndZero(t *testing.T) {
	for _, c := range sampleColors {
		assert.Equal(t, c, Scale(c, 1), c.String())
		assert.Equal(t, Off, Scale(c, 0), c.String())
	}
}

func TestScaleTruncates(t *testing.T) {
	assert.Equal(t, Pack(127, 0, 0), Scale(Pack(255, 0, 0), 0.5))
	assert.Equal(t, Pack(0, 30, 76), Scale(K2SOBlue, 0.3))
}

func TestScaleMonotonic(t *testing.T) {
	for _, c := range sampleColors {
		var prev Color
		for i := 0; i <= 100; i++ {
			got := Scale(c, float32(i)/100)
			pr, pg, pb := Unpack(prev)
			r, g, b := Unpack(got)
			assert.GreaterOrEqual(t, r, pr)
			assert.GreaterOrEqual(t, g, pg)
			assert.GreaterOrEqual(t, b, pb)
			prev = got
		}
	}
}

func TestScaleClamps(t *testing.T) {
	assert.Equal(t, White, Scale(White, 3))
	assert.Equal(t, Off, Scale(White, -1))
}

func TestLerp(t *testing.T) {
	for _, a := range sampleColors {
		for _, b := range sampleColors {
			assert.Equal(t, a, Lerp(a, b, 0))
			assert.Equal(t, b, Lerp(a, b, 1))
			for _, tt := range []float32{0.1, 0.25, 0.5, 0.9} {
				step := Lerp(a, b, tt)
				assert.Equal(t, step, Lerp(step, step, tt), "fading to the shown color holds the frame")
				assert.Equal(t, step, Lerp(step, b, 0))
				assert.Equal(t, b, Lerp(step, b, 1), "a finished fade lands on the target")
				assertBetween(t, a, b, step)
			}
		}
	}

	assert.Equal(t, Pack(127, 127, 127), Lerp(Off, White, 0.5))
	assert.Equal(t, Pack(127, 127, 127), Lerp(White, Off, 0.5))
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), Smoothstep(0))
	assert.Equal(t, float32(1), Smoothstep(1))
	assert.InDelta(t, 0.5, Smoothstep(0.5), 1e-6)
	assert.InDelta(t, 0.104, Smoothstep(0.2), 1e-6)
	assert.Equal(t, float32(1), Smoothstep(2))
}

func TestRGBA(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0, G: 100, B: 255, A: 255}, K2SOBlue.RGBA())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Color
		err      bool
	}{
		{"#0064ff", K2SOBlue, false},
		{"0064FF", K2SOBlue, false},
		{"#fff", White, false},
		{"ice", IceBlue, false},
		{"red", AlertRed, false},
		{"nope", Off, true},
		{"#12345", Off, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "#0064ff", K2SOBlue.String())
	assert.Equal(t, "#000000", Off.String())
}

func TestText(t *testing.T) {
	b, err := IdleAmber.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#ff9600", string(b))

	var c Color
	require.NoError(t, c.UnmarshalText([]byte(" ICE ")))
	assert.Equal(t, IceBlue, c)
	require.NoError(t, c.UnmarshalText(b))
	assert.Equal(t, IdleAmber, c)
	assert.ErrorIs(t, c.UnmarshalText([]byte("mauve")), ErrInvalidColor)
}

// assertBetween checks every channel of c lies between the same channels of a and b
func assertBetween(t *testing.T, a, b, c Color) {
	t.Helper()
	ar, ag, ab := Unpack(a)
	br, bg, bb := Unpack(b)
	cr, cg, cb := Unpack(c)
	for i, ch := range [][3]uint8{{ar, br, cr}, {ag, bg, cg}, {ab, bb, cb}} {
		lo, hi := min(ch[0], ch[1]), max(ch[0], ch[1])
		assert.True(t, ch[2] >= lo && ch[2] <= hi, "channel %d of %06x outside %06x..%06x", i, c, a, b)
	}
}
