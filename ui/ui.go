// Package ui is the desktop control panel. It asks for the serial port first, then shows the
// droid controls and keeps the status fresh while the window is open.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/motion"
)

const (
	AppID = "com.calvinmclean.k2so"

	// maxLogLines is how much console output the log panel keeps
	maxLogLines = 200
)

// Droid is the console connection the window drives
type Droid interface {
	Send(ctx context.Context, line string) ([]string, error)
	Status(ctx context.Context) (droid.Status, error)
}

// unsolicited is implemented by connections that print more than replies
type unsolicited interface {
	SetUnsolicited(io.Writer)
}

// ConnectFunc opens the droid described by cfg
type ConnectFunc func(cfg controller.Config) (Droid, io.Closer, error)

// Run shows the configuration window and then the droid window until ctx is done or the
// windows are closed
func Run(ctx context.Context, connect ConnectFunc) {
	application := app.NewWithID(AppID)

	var closer io.Closer
	cfg := &controller.Config{}
	cw := NewConfigWindow(application)
	cw.OnSubmit = func() error {
		d, c, err := connect(*cfg)
		if err != nil {
			return fmt.Errorf("error connecting to droid: %w", err)
		}
		closer = c
		NewDroidUI(d).Show(ctx, application)
		return nil
	}
	cw.Show(cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(application.Quit)
	}()

	application.Run()
	if closer != nil {
		closer.Close()
	}
}

// DroidUI is the main window. It is also an io.Writer for console output
type DroidUI struct {
	droid Droid

	mtx     sync.Mutex
	pending []string
	lines   []string
}

func NewDroidUI(d Droid) *DroidUI {
	ui := &DroidUI{droid: d}
	if u, ok := d.(unsolicited); ok {
		u.SetUnsolicited(ui)
	}
	return ui
}

// Write queues console output for the log panel
func (ui *DroidUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	defer ui.mtx.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		ui.pending = append(ui.pending, line)
	}
	return len(p), nil
}

// logf adds a line of our own to the log panel
func (ui *DroidUI) logf(format string, args ...any) {
	fmt.Fprintf(ui, format+"\n", args...)
}

// send runs a console line in the background so the UI never waits on the serial port
func (ui *DroidUI) send(ctx context.Context, line string) {
	go func() {
		reply, err := ui.droid.Send(ctx, line)
		if err != nil {
			ui.logf("%s: %v", line, err)
			return
		}
		for _, l := range reply {
			ui.logf("%s", l)
		}
	}()
}

func (ui *DroidUI) Show(ctx context.Context, application fyne.App) {
	window := application.NewWindow("K-2SO")

	status := newStatusView()
	p := newPoller(ui.droid, status.set, func(err error) {
		ui.logf("status: %v", err)
	})
	p.Go(ctx)

	personality := widget.NewRadioGroup([]string{"scanning", "alert", "idle"}, func(s string) {
		if s != "" {
			ui.send(ctx, "mode "+s)
		}
	})
	personality.Horizontal = true

	var animations []string
	for _, m := range eyes.Modes() {
		animations = append(animations, m.String())
	}
	animation := widget.NewSelect(animations, func(s string) {
		ui.send(ctx, "eye "+s)
	})
	animation.PlaceHolder = "Eye animation"

	color := widget.NewEntry()
	color.SetPlaceHolder("red or #ff8800")
	color.OnSubmitted = func(s string) {
		color.SetText("")
		ui.send(ctx, fmt.Sprintf("color %q", s))
	}

	brightness := createSlider("Brightness", 0, 255, 150, func(v int) {
		ui.send(ctx, fmt.Sprintf("bright %d", v))
	})
	volume := createSlider("Volume", 0, audio.MaxVolume, audio.DefaultVolume, func(v int) {
		ui.send(ctx, fmt.Sprintf("volume %d", v))
	})

	servos := container.NewVBox()
	for id := motion.EyePan; id < motion.NumAxes; id++ {
		servos.Add(createSlider(id.String(), 0, 180, 90, func(v int) {
			ui.send(ctx, fmt.Sprintf("servo %s %d", id, v))
		}))
	}

	buttons := container.NewHBox(
		widget.NewButton("Wake", func() { ui.send(ctx, "wake") }),
		widget.NewButton("Sleep", func() { ui.send(ctx, "sleep") }),
		widget.NewButton("Center", func() { ui.send(ctx, "center") }),
		widget.NewButton("Stop eyes", func() { ui.send(ctx, "eye stop") }),
		widget.NewButton("Sound", func() { ui.send(ctx, fmt.Sprintf("sound random %d", audio.FolderVoice)) }),
		layout.NewSpacer(),
		widget.NewButton("Save", func() { ui.send(ctx, "save") }),
	)

	content := container.NewVBox(
		container.NewHBox(status.container(), layout.NewSpacer(), container.NewPadded(p.uptime)),
		personality,
		container.NewGridWithColumns(2, animation, color),
		brightness,
		volume,
		widget.NewAccordion(
			widget.NewAccordionItem("Servos", servos),
			widget.NewAccordionItem("Console", ui.createLog(ctx)),
		),
		buttons,
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(480, 400))
	window.Show()
}

func (ui *DroidUI) createLog(ctx context.Context) fyne.CanvasObject {
	logContent := widget.NewLabel("")
	logScroll := container.NewVScroll(logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 120))

	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			ui.mtx.Lock()
			if len(ui.pending) == 0 {
				ui.mtx.Unlock()
				continue
			}
			ui.lines = append(ui.lines, ui.pending...)
			ui.pending = ui.pending[:0]
			if len(ui.lines) > maxLogLines {
				ui.lines = ui.lines[len(ui.lines)-maxLogLines:]
			}
			text := strings.Join(ui.lines, "\n")
			ui.mtx.Unlock()

			fyne.Do(func() {
				logContent.SetText(text)
				logScroll.ScrollToBottom()
			})
		}
	}()

	return logScroll
}

func createSlider(labelText string, lo, hi, initial int, onSet func(int)) *fyne.Container {
	valueLabel := widget.NewLabel(fmt.Sprintf("%d", initial))

	slider := widget.NewSlider(float64(lo), float64(hi))
	slider.Step = 1
	slider.SetValue(float64(initial))
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f", value))
	}
	slider.OnChangeEnded = func(value float64) {
		onSet(int(value))
	}

	return container.NewVBox(
		container.NewGridWithColumns(2, widget.NewLabel(labelText), valueLabel),
		slider,
	)
}
