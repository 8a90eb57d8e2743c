// Package led is the pixel output boundary. Engines paint into a Strip and call Show once per
// frame; what Show does (a WS2812 bus write, a terminal repaint, nothing at all) is up to the
// implementation.
package led

import (
	"github.com/calvinmclean/k2so/rgb"
)

// Strip is a chain of addressable pixels owned by exactly one engine
type Strip interface {
	Len() int
	SetPixel(i int, c rgb.Color)
	Pixel(i int) rgb.Color
	Fill(c rgb.Color)
	Clear()
	SetBrightness(b uint8)
	Show() error
}

// Writer pushes a finished frame to hardware
type Writer interface {
	WriteColors(frame []rgb.Color) error
}

// WriterFunc adapts a function into a Writer
type WriterFunc func([]rgb.Color) error

func (f WriterFunc) WriteColors(frame []rgb.Color) error {
	return f(frame)
}

// Buffer keeps the pixel values in memory and applies the global brightness only when the frame
// is shown, the same way the NeoPixel library treats setBrightness
type Buffer struct {
	pixels     []rgb.Color
	frame      []rgb.Color
	brightness uint8
	out        Writer

	// Shows counts frames pushed to the writer
	Shows int
}

var _ Strip = &Buffer{}

// NewBuffer creates a strip of n pixels at full brightness. out may be nil
func NewBuffer(n int, out Writer) *Buffer {
	return &Buffer{
		pixels:     make([]rgb.Color, n),
		frame:      make([]rgb.Color, n),
		brightness: 255,
		out:        out,
	}
}

func (b *Buffer) Len() int {
	return len(b.pixels)
}

// SetPixel ignores indexes outside the strip
func (b *Buffer) SetPixel(i int, c rgb.Color) {
	if i < 0 || i >= len(b.pixels) {
		return
	}
	b.pixels[i] = c
}

func (b *Buffer) Pixel(i int) rgb.Color {
	if i < 0 || i >= len(b.pixels) {
		return rgb.Off
	}
	return b.pixels[i]
}

func (b *Buffer) Fill(c rgb.Color) {
	for i := range b.pixels {
		b.pixels[i] = c
	}
}

func (b *Buffer) Clear() {
	b.Fill(rgb.Off)
}

func (b *Buffer) SetBrightness(v uint8) {
	b.brightness = v
}

func (b *Buffer) Brightness() uint8 {
	return b.brightness
}

// Frame returns what was last shown, brightness applied
func (b *Buffer) Frame() []rgb.Color {
	return b.frame
}

// dim scales with the NeoPixel integer formula, so 255 is lossless
func dim(c rgb.Color, brightness uint8) rgb.Color {
	scale := uint16(brightness) + 1
	r, g, b := rgb.Unpack(c)
	return rgb.Pack(
		uint8(uint16(r)*scale>>8),
		uint8(uint16(g)*scale>>8),
		uint8(uint16(b)*scale>>8),
	)
}

// Show applies the brightness and hands the frame to the writer
func (b *Buffer) Show() error {
	for i, c := range b.pixels {
		b.frame[i] = dim(c, b.brightness)
	}
	b.Shows++

	if b.out == nil {
		return nil
	}
	return b.out.WriteColors(b.frame)
}
