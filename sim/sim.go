// Package sim runs the droid in a terminal. The eyes, detail strip and status pixel are drawn
// with tcell, the keyboard stands in for the IR remote and a synthesizer stands in for the
// DFPlayer. The droid is the same code the firmware runs, updated from a wall clock.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/rgb"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FramePeriod is how often the superloop runs and the screen is drawn
	FramePeriod = 20 * time.Millisecond

	maxLogLines = 100
)

// keyButtons maps keys without a rune to remote buttons
var keyButtons = map[tcell.Key]string{
	tcell.KeyUp:    "UP",
	tcell.KeyDown:  "DOWN",
	tcell.KeyLeft:  "LEFT",
	tcell.KeyRight: "RIGHT",
	tcell.KeyEnter: "OK",
}

// Sim is a droid with in-memory strips and a terminal front end
type Sim struct {
	link    *controller.Loopback
	console *controller.Controller
	player  *Player

	left, right, detail, status *led.Buffer

	mtx    sync.Mutex
	log    []string
	input  []rune
	typing bool
}

// New builds and starts a droid. player may be nil for a silent droid
func New(cfg config.Config, player *Player, log k2so.Logger, r *rand.Rand, clk clock.Source) (*Sim, error) {
	s := &Sim{
		left:   led.NewBuffer(int(k2so.EyeHardware13), nil),
		right:  led.NewBuffer(int(k2so.EyeHardware13), nil),
		detail: led.NewBuffer(8, nil),
		status: led.NewBuffer(1, nil),
		player: player,
	}

	if log == nil {
		log = newLogger(s)
	}

	hw := droid.Hardware{
		LeftEye:  s.left,
		RightEye: s.right,
		Detail:   s.detail,
		Status:   s.status,
	}
	if player != nil {
		hw.Player = player
	}

	d, err := droid.New(cfg, hw, log, r)
	if err != nil {
		return nil, fmt.Errorf("error creating droid: %w", err)
	}

	s.link = controller.NewLoopback(d, clk)
	s.console = controller.NewConn(s.link, nil)
	s.console.SetUnsolicited(s)

	s.link.Do(func(d *droid.Droid, now clock.Millis) {
		d.SetStore(&config.MemoryStore{})
		d.Start(now)
	})
	return s, nil
}

// Console is the connection the panel and the console prompt use
func (s *Sim) Console() *controller.Controller {
	return s.console
}

// Write adds console output to the log area
func (s *Sim) Write(p []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		s.log = append(s.log, line)
	}
	if len(s.log) > maxLogLines {
		s.log = s.log[len(s.log)-maxLogLines:]
	}
	return len(p), nil
}

func (s *Sim) logf(format string, args ...any) {
	fmt.Fprintf(s, format+"\n", args...)
}

// Update runs the superloop once without a screen
func (s *Sim) Update() {
	s.link.Update()
}

// RunHeadless runs the superloop without drawing until ctx is done
func (s *Sim) RunHeadless(ctx context.Context) {
	s.link.Run(ctx)
}

// SetStore replaces the in-memory config store
func (s *Sim) SetStore(store config.Store) {
	s.link.Do(func(d *droid.Droid, _ clock.Millis) {
		d.SetStore(store)
	})
}

// newLogger writes droid logs into the log area since stderr belongs to the screen
func newLogger(w io.Writer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.InfoLevel)
	return zap.New(core).Sugar()
}

// Run draws the droid until ctx is done or the user quits
func (s *Sim) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("error creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("error initializing screen: %w", err)
	}
	defer screen.Fini()

	ticker := time.NewTicker(FramePeriod)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			if key, ok := ev.(*tcell.EventKey); ok && !s.handleKey(ctx, key) {
				return nil
			}
		case <-ticker.C:
			s.Update()
			draw(screen, s.snapshot())
		}
	}
}

// handleKey returns false when the user asked to quit
func (s *Sim) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	s.mtx.Lock()
	typing := s.typing
	s.mtx.Unlock()
	if typing {
		s.handleInput(ctx, ev)
		return true
	}

	if name, ok := keyButtons[ev.Key()]; ok {
		s.press(name)
		return true
	}
	if ev.Key() == tcell.KeyEscape {
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch r := ev.Rune(); {
	case r >= '0' && r <= '9', r == '*', r == '#':
		s.press(string(r))
	case r == ':':
		s.mtx.Lock()
		s.typing = true
		s.input = s.input[:0]
		s.mtx.Unlock()
	case r == 'p':
		s.link.Do(func(d *droid.Droid, now clock.Millis) {
			_ = d.SetPersonality(d.Personality().Next(), now)
		})
	case r == 's':
		s.link.Do(func(d *droid.Droid, now clock.Millis) { d.Sleep(now) })
	case r == 'w':
		s.link.Do(func(d *droid.Droid, now clock.Millis) { d.Touch(now) })
	case r == 'q':
		return false
	}
	return true
}

// handleInput edits the console line typed after ':'
func (s *Sim) handleInput(ctx context.Context, ev *tcell.EventKey) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape:
		s.typing = false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
		}
	case tcell.KeyEnter:
		line := string(s.input)
		s.typing = false
		s.input = s.input[:0]
		go s.send(ctx, line)
	case tcell.KeyRune:
		s.input = append(s.input, ev.Rune())
	}
}

func (s *Sim) send(ctx context.Context, line string) {
	s.logf("> %s", line)
	reply, err := s.console.Send(ctx, line)
	for _, l := range reply {
		s.logf("%s", l)
	}
	if err != nil {
		s.logf("%v", err)
	}
}

// press sends the code learned for a remote button
func (s *Sim) press(name string) {
	s.link.Do(func(d *droid.Droid, now clock.Millis) {
		for _, b := range d.Buttons() {
			if b.Name == name && b.Configured {
				d.HandleIR(b.Code, now)
				return
			}
		}
		s.logf("button %s is not learned", name)
	})
}

// Close stops the console and the speaker
func (s *Sim) Close() error {
	err := s.console.Close()
	if s.player != nil {
		s.player.Close()
	}
	return err
}

// frame is everything draw needs, copied under the droid lock
type frame struct {
	status   droid.Status
	hardware k2so.EyeHardware
	eyes     [2][]rgb.Color
	detail   []rgb.Color
	pixel    rgb.Color
	log      []string
	prompt   string
	typing   bool
}

func (s *Sim) snapshot() frame {
	var f frame
	s.link.Do(func(d *droid.Droid, now clock.Millis) {
		f.status = d.Status(now)
		f.hardware = d.Eyes().Hardware()
		f.eyes[0] = shown(s.left, f.hardware.Pixels())
		f.eyes[1] = shown(s.right, f.hardware.Pixels())
		f.detail = shown(s.detail, s.detail.Len())
		f.pixel = shown(s.status, 1)[0]
	})

	s.mtx.Lock()
	f.log = append([]string(nil), s.log...)
	f.prompt = string(s.input)
	f.typing = s.typing
	s.mtx.Unlock()
	return f
}

// shown copies the first n pixels of the last frame pushed by Show
func shown(b *led.Buffer, n int) []rgb.Color {
	out := make([]rgb.Color, n)
	copy(out, b.Frame())
	return out
}
