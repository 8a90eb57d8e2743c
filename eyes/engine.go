// Package eyes animates the two eye LED strips. Exactly one animation runs at a time; each mode
// is its own type holding its own timers and cursor, so switching modes always starts from a
// fresh value and nothing leaks from the previous mode.
package eyes

import (
	"math/rand"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/rgb"
)

const (
	left  = 0
	right = 1

	ringSize = 12
)

// Config holds the initial eye settings
type Config struct {
	Hardware   k2so.EyeHardware
	Brightness uint8
	Color      rgb.Color
}

// DefaultConfig matches a freshly flashed droid
func DefaultConfig() Config {
	return Config{
		Hardware:   k2so.EyeHardware13,
		Brightness: 150,
		Color:      rgb.White,
	}
}

// State is a read-only snapshot for status reporting
type State struct {
	Mode       Mode
	Hardware   k2so.EyeHardware
	Brightness uint8
	Base       [2]rgb.Color
	Shown      [2]rgb.Color
}

// tick is what an animation did on an update call
type tick uint8

const (
	tickIdle tick = iota
	tickPainted
	tickDone
)

type animation interface {
	start(f *frame, now clock.Millis)
	update(f *frame, now clock.Millis) tick
}

// frame is the state every animation paints through
type frame struct {
	strips [2]led.Strip
	active int
	base   [2]rgb.Color
	shown  [2]rgb.Color
	rand   *rand.Rand
	log    k2so.Logger
}

// fill paints every active pixel of each eye with its own color
func (f *frame) fill(l, r rgb.Color) {
	for eye, c := range [2]rgb.Color{l, r} {
		f.strips[eye].Clear()
		for i := 0; i < f.active; i++ {
			f.strips[eye].SetPixel(i, c)
		}
	}
	f.show()
}

func (f *frame) clear() {
	f.strips[left].Clear()
	f.strips[right].Clear()
}

// set paints one pixel of one eye, ignoring pixels outside the active topology
func (f *frame) set(eye, i int, c rgb.Color) {
	if i < 0 || i >= f.active {
		return
	}
	f.strips[eye].SetPixel(i, c)
}

// setBoth paints the same pixel on both eyes with each eye's base color scaled by intensity
func (f *frame) setBoth(i int, intensity float32) {
	f.set(left, i, rgb.Scale(f.base[left], intensity))
	f.set(right, i, rgb.Scale(f.base[right], intensity))
}

// show pushes both strips and records pixel 0 as the displayed color of patterned frames
func (f *frame) show() {
	f.shown = [2]rgb.Color{f.strips[left].Pixel(0), f.strips[right].Pixel(0)}
	for _, s := range f.strips {
		err := s.Show()
		if err != nil {
			f.log.Warn("error writing eye pixels:", err.Error())
		}
	}
}

// Engine drives both eyes
type Engine struct {
	frame

	hardware   k2so.EyeHardware
	brightness uint8
	mode       Mode
	current    animation
}

// New creates an Engine painting into the left and right strips. Both strips must hold at least
// cfg.Hardware.Pixels() pixels; the engine never addresses past the active count
func New(cfg Config, leftStrip, rightStrip led.Strip, log k2so.Logger, r *rand.Rand) *Engine {
	if log == nil {
		log = k2so.NopLogger{}
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	if !cfg.Hardware.Valid() {
		cfg.Hardware = k2so.EyeHardware13
	}

	e := &Engine{
		frame: frame{
			strips: [2]led.Strip{leftStrip, rightStrip},
			base:   [2]rgb.Color{cfg.Color, cfg.Color},
			rand:   r,
			log:    log,
		},
		mode: ModeSolid,
	}
	e.setHardware(cfg.Hardware)
	e.brightness = cfg.Brightness
	for _, s := range e.strips {
		s.SetBrightness(cfg.Brightness)
	}

	return e
}

// Mode returns the active mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// Animating is true while a timed animation is running
func (e *Engine) Animating() bool {
	return e.current != nil
}

// State returns a snapshot of the engine
func (e *Engine) State() State {
	return State{
		Mode:       e.mode,
		Hardware:   e.hardware,
		Brightness: e.brightness,
		Base:       e.base,
		Shown:      e.shown,
	}
}

// SetColor shows a steady color on both eyes
func (e *Engine) SetColor(c rgb.Color) {
	e.SetColors(c, c)
}

// SetColors stops any animation and shows a steady color per eye in a single frame. Nothing is
// written when the eyes are already showing exactly these colors in solid mode
func (e *Engine) SetColors(l, r rgb.Color) {
	if e.mode == ModeSolid && e.current == nil && e.shown == [2]rgb.Color{l, r} && e.base == e.shown {
		return
	}

	e.current = nil
	e.mode = ModeSolid
	e.base = [2]rgb.Color{l, r}
	e.solid()
}

// SetBaseColor changes the identity color that animations work around without changing the mode
func (e *Engine) SetBaseColor(c rgb.Color) {
	e.base = [2]rgb.Color{c, c}
}

// SetBrightness changes the global eye brightness and repaints at once
func (e *Engine) SetBrightness(b uint8) {
	e.brightness = b
	for _, s := range e.strips {
		s.SetBrightness(b)
	}
	e.show()
}

// SetMode abandons the running animation and starts m. Invalid modes fall back to solid and ring
// modes on 7-LED eyes stop all animation; both are logged rather than returned
func (e *Engine) SetMode(m Mode, now clock.Millis) {
	if !m.Valid() {
		e.log.Warn("unknown eye mode", int(m), "using solid")
		m = ModeSolid
	}

	if m.RequiresRing() && e.hardware != k2so.EyeHardware13 {
		e.log.Warn("eye mode", m.String(), "requires 13-LED eyes, have", e.hardware.String())
		e.StopAll()
		return
	}

	if m == ModeSolid {
		e.current = nil
		e.mode = ModeSolid
		e.solid()
		return
	}

	a := newAnimation(m)
	e.mode = m
	e.current = a
	a.start(&e.frame, now)
	e.log.Info("starting eye animation", m.String())
}

// SetModeColor sets the base color and starts m in one call
func (e *Engine) SetModeColor(m Mode, c rgb.Color, now clock.Millis) {
	e.SetBaseColor(c)
	e.SetMode(m, now)
}

// FadeTo fades from whatever is displayed to the given colors, then holds them
func (e *Engine) FadeTo(l, r rgb.Color, now clock.Millis) {
	e.start(ModeFadeColor, &fade{to: [2]rgb.Color{l, r}}, now)
}

// FadeOff fades both eyes to black
func (e *Engine) FadeOff(now clock.Millis) {
	e.start(ModeFadeOff, &fade{}, now)
}

func (e *Engine) start(m Mode, a animation, now clock.Millis) {
	e.mode = m
	e.current = a
	a.start(&e.frame, now)
	e.log.Info("starting eye animation", m.String())
}

// StopAll abandons any animation and holds the base color steady
func (e *Engine) StopAll() {
	e.current = nil
	e.mode = ModeSolid
	e.solid()
	e.log.Info("all eye animations stopped")
}

// SetHardware switches between 7 and 13 LED eyes. A running ring-only mode is stopped when
// switching to 7-LED eyes, any other mode restarts on the new topology
func (e *Engine) SetHardware(v k2so.EyeHardware, now clock.Millis) {
	if !v.Valid() {
		e.log.Warn("invalid eye hardware", int(v))
		return
	}

	e.setHardware(v)
	e.log.Info("eye hardware set to", v.String())

	switch e.current.(type) {
	case nil:
		e.solid()
	case *fade:
		// fades repaint every active pixel on their next frame
	default:
		e.SetMode(e.mode, now)
	}
}

func (e *Engine) setHardware(v k2so.EyeHardware) {
	e.hardware = v
	e.active = v.Pixels()
	for _, s := range e.strips {
		if s.Len() < e.active {
			e.active = s.Len()
		}
	}
	e.clear()
}

// Hardware returns the configured topology
func (e *Engine) Hardware() k2so.EyeHardware {
	return e.hardware
}

// Update advances the running animation. It returns true when pixels were repainted
func (e *Engine) Update(now clock.Millis) bool {
	if e.current == nil {
		return false
	}

	switch e.current.update(&e.frame, now) {
	case tickPainted:
		return true
	case tickDone:
		done := e.current
		e.current = nil
		e.mode = ModeSolid
		if f, ok := done.(*fade); ok {
			e.base = f.to
		}
		e.solid()
		e.log.Info("eye fade complete")
		return true
	}
	return false
}

func (e *Engine) solid() {
	e.fill(e.base[left], e.base[right])
}

func newAnimation(m Mode) animation {
	switch m {
	case ModeFadeOff:
		return &fade{}
	case ModeFadeColor:
		return &fade{toBase: true}
	case ModeFlicker:
		return &flicker{}
	case ModePulse:
		return &pulse{}
	case ModeScanner:
		return &scanner{forward: true}
	case ModeIris:
		return &iris{}
	case ModeTargeting:
		return &targeting{}
	case ModeRingScanner:
		return &ringScanner{forward: true}
	case ModeSpiral:
		return &spiral{}
	case ModeFocus:
		return &focus{}
	case ModeRadar:
		return &radar{}
	case ModeHeartbeat:
		return &heartbeat{}
	case ModeAlarm:
		return &alarm{}
	}
	return nil
}
