package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/gdamore/tcell/v2"
)

const (
	eyeRadiusX = 6
	eyeRadiusY = 3
	eyeTop     = 2
	leftEyeX   = 10
	rightEyeX  = 30

	help = "0-9 * # arrows enter: remote  p: personality  s: sleep  w: wake  ':' console  q: quit"
)

var (
	styleText = tcell.StyleDefault
	styleDim  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleHead = tcell.StyleDefault.Bold(true)
)

type point struct{ x, y int }

// eyeLayout places the pixels of one eye relative to its center. Ring eyes have the center pixel
// first and the ring clockwise from the top, linear eyes are a row
func eyeLayout(hw k2so.EyeHardware) []point {
	n := hw.Pixels()
	points := make([]point, n)
	if hw != k2so.EyeHardware13 {
		for i := range points {
			points[i] = point{x: 2*i - n + 1}
		}
		return points
	}

	ring := n - 1
	for i := 1; i < n; i++ {
		a := 2*math.Pi*float64(i-1)/float64(ring) - math.Pi/2
		points[i] = point{
			x: int(math.Round(math.Cos(a) * eyeRadiusX)),
			y: int(math.Round(math.Sin(a) * eyeRadiusY)),
		}
	}
	return points
}

func pixelStyle(c rgb.Color) (rune, tcell.Style) {
	if c == rgb.Off {
		return '○', styleDim
	}
	r, g, b := rgb.Unpack(c)
	return '●', tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawEye(screen tcell.Screen, cx, cy int, hw k2so.EyeHardware, pixels []rgb.Color) {
	for i, p := range eyeLayout(hw) {
		if i >= len(pixels) {
			return
		}
		r, style := pixelStyle(pixels[i])
		screen.SetContent(cx+p.x, cy+p.y, r, nil, style)
	}
}

// bar is a servo position between 0 and 180 degrees
func bar(deg, width int) string {
	pos := deg * (width - 1) / 180
	return "[" + strings.Repeat("-", pos) + "|" + strings.Repeat("-", width-1-pos) + "]"
}

func draw(screen tcell.Screen, f frame) {
	screen.Clear()
	width, height := screen.Size()
	st := f.status

	awake := "asleep"
	if st.Awake {
		awake = "awake"
	}
	drawText(screen, 0, 0, styleHead, fmt.Sprintf("K-2SO  %s  %s  %s  up %ds", strings.ToLower(st.Personality.String()), awake, st.Operating, st.Uptime))

	cy := eyeTop + eyeRadiusY
	drawEye(screen, leftEyeX, cy, f.hardware, f.eyes[0])
	drawEye(screen, rightEyeX, cy, f.hardware, f.eyes[1])
	drawText(screen, 42, eyeTop, styleText, fmt.Sprintf("eyes: %s", st.EyeMode))
	drawText(screen, 42, eyeTop+1, styleText, fmt.Sprintf("brightness: %d", st.Brightness))
	drawText(screen, 42, eyeTop+2, styleText, fmt.Sprintf("volume: %d", st.Volume))
	drawText(screen, 42, eyeTop+3, styleText, fmt.Sprintf("ir: %d  moves: %d  sounds: %d", st.IRCommands, st.ServoMovements, st.SoundsPlayed))

	y := eyeTop + 2*eyeRadiusY + 2
	drawText(screen, 0, y, styleText, "detail ")
	for i, c := range f.detail {
		r, style := pixelStyle(c)
		screen.SetContent(7+2*i, y, r, nil, style)
	}
	y++
	r, style := pixelStyle(f.pixel)
	drawText(screen, 0, y, styleText, "status ")
	screen.SetContent(7, y, r, nil, style)
	drawText(screen, 9, y, styleText, st.StatusLED)

	y += 2
	for id := motion.EyePan; id < motion.NumAxes; id++ {
		drawText(screen, 0, y, styleText, fmt.Sprintf("%-8s %3d %s", id, st.Servos[id], bar(st.Servos[id], 37)))
		y++
	}

	y++
	rows := height - y - 1
	log := f.log
	if rows > 0 && len(log) > rows {
		log = log[len(log)-rows:]
	}
	for _, line := range log {
		if y >= height-1 {
			break
		}
		drawText(screen, 0, y, styleDim, line)
		y++
	}

	if f.typing {
		drawText(screen, 0, height-1, styleText, ":"+f.prompt)
		screen.ShowCursor(1+len([]rune(f.prompt)), height-1)
	} else {
		screen.HideCursor()
		if len(help) > width {
			drawText(screen, 0, height-1, styleDim, help[:width])
		} else {
			drawText(screen, 0, height-1, styleDim, help)
		}
	}

	screen.Show()
}
