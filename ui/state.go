package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/motion"
)

// statusView shows the last status report
type statusView struct {
	eye     *canvas.Rectangle
	mode    *widget.Label
	eyes    *widget.Label
	servos  *widget.Label
	counter *widget.Label
}

func newStatusView() *statusView {
	eye := canvas.NewRectangle(color.Black)
	eye.SetMinSize(fyne.NewSize(32, 32))
	eye.CornerRadius = 16

	return &statusView{
		eye:     eye,
		mode:    widget.NewLabel("-"),
		eyes:    widget.NewLabel("-"),
		servos:  widget.NewLabel("-"),
		counter: widget.NewLabel("-"),
	}
}

func (v *statusView) container() fyne.CanvasObject {
	return container.NewHBox(
		v.eye,
		container.NewVBox(v.mode, v.eyes, v.servos, v.counter),
	)
}

// set must be called on the UI goroutine
func (v *statusView) set(s droid.Status) {
	v.eye.FillColor = s.EyeColor.RGBA()
	v.eye.Refresh()

	awake := "asleep"
	if s.Awake {
		awake = "awake"
	}
	v.mode.SetText(fmt.Sprintf("%s, %s (%s)", strings.ToLower(s.Personality.String()), awake, s.Operating))
	v.eyes.SetText(fmt.Sprintf("eyes %s at %d, status %s", s.EyeMode, s.Brightness, s.StatusLED))

	var servos []string
	for id := motion.EyePan; id < motion.NumAxes; id++ {
		servos = append(servos, fmt.Sprintf("%s %d", id, s.Servos[id]))
	}
	v.servos.SetText(strings.Join(servos, "  "))
	v.counter.SetText(fmt.Sprintf("IR %d, moves %d, sounds %d", s.IRCommands, s.ServoMovements, s.SoundsPlayed))
}
