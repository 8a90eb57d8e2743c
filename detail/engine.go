// Package detail drives the small secondary LED strip on the droid's head
package detail

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/rgb"
)

const (
	MaxLEDs = 8

	BlinkOn  clock.Millis = 500
	BlinkOff clock.Millis = 500

	FadePeriod  clock.Millis = 1500
	ChaseStep   clock.Millis = 100
	PulsePeriod clock.Millis = 2000
	PulseFloor               = 0.2

	// FrameTime paces the continuous fade and pulse patterns
	FrameTime clock.Millis = 20

	RandomMin clock.Millis = 400
	RandomMax clock.Millis = 1000
)

var (
	ErrCountOutOfRange = errors.New("detail LED count out of range")
	ErrInvalidPattern  = errors.New("invalid detail pattern")
)

// Pattern is the animation on the detail strip
type Pattern int

const (
	PatternBlink Pattern = iota
	PatternFade
	PatternChase
	PatternPulse
	PatternRandom
)

func (p Pattern) String() string {
	switch p {
	case PatternBlink:
		return "blink"
	case PatternFade:
		return "fade"
	case PatternChase:
		return "chase"
	case PatternPulse:
		return "pulse"
	case PatternRandom:
		return "random"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the five patterns
func (p Pattern) Valid() bool {
	return p >= PatternBlink && p <= PatternRandom
}

// ParsePattern reads a pattern name or its index
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p := PatternBlink; p <= PatternRandom; p++ {
		if p.String() == s || strconv.Itoa(int(p)) == s {
			return p, nil
		}
	}
	return PatternBlink, ErrInvalidPattern
}

// MarshalText writes the pattern name
func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrInvalidPattern
	}
	return []byte(p.String()), nil
}

// UnmarshalText accepts anything ParsePattern does
func (p *Pattern) UnmarshalText(b []byte) error {
	v, err := ParsePattern(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Config holds the startup settings of the strip
type Config struct {
	Count      int
	Brightness uint8
	Color      rgb.Color
	Pattern    Pattern
	Enabled    bool
	AutoColor  bool
	// ModeColors is the color per personality used when AutoColor is on
	ModeColors [3]rgb.Color
}

// DefaultConfig is five red pixels flickering randomly
func DefaultConfig() Config {
	return Config{
		Count:      5,
		Brightness: 150,
		Color:      rgb.AlertRed,
		Pattern:    PatternRandom,
		Enabled:    true,
		ModeColors: [3]rgb.Color{rgb.AlertRed, rgb.AlertRed, rgb.AlertRed},
	}
}

// State is a snapshot for status reporting
type State struct {
	Count      int
	Brightness uint8
	Color      rgb.Color
	Pattern    Pattern
	Enabled    bool
	AutoColor  bool
}

// Engine animates the detail strip
type Engine struct {
	strip led.Strip
	log   k2so.Logger
	rand  *rand.Rand

	count      int
	brightness uint8
	color      rgb.Color
	pattern    Pattern
	enabled    bool
	autoColor  bool
	modeColors [3]rgb.Color

	started    clock.Millis
	lastUpdate clock.Millis
	step       int
	// nextRandom is the wait drawn for the current random tick
	nextRandom clock.Millis
}

// New creates an Engine. Invalid settings in cfg fall back to the defaults
func New(cfg Config, strip led.Strip, log k2so.Logger, r *rand.Rand) *Engine {
	if log == nil {
		log = k2so.NopLogger{}
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	def := DefaultConfig()
	if !cfg.Pattern.Valid() {
		cfg.Pattern = def.Pattern
	}

	e := &Engine{
		strip:      strip,
		log:        log,
		rand:       r,
		count:      def.Count,
		brightness: cfg.Brightness,
		color:      cfg.Color,
		pattern:    cfg.Pattern,
		enabled:    cfg.Enabled,
		autoColor:  cfg.AutoColor,
		modeColors: cfg.ModeColors,
	}
	if e.count > e.maxCount() {
		e.count = e.maxCount()
	}
	if err := e.SetCount(cfg.Count); err != nil {
		log.Warn("invalid detail LED count", cfg.Count, "using", e.count)
	}
	e.strip.SetBrightness(cfg.Brightness)
	e.restart(0)

	return e
}

func (e *Engine) maxCount() int {
	if e.strip.Len() < MaxLEDs {
		return e.strip.Len()
	}
	return MaxLEDs
}

// State returns a snapshot
func (e *Engine) State() State {
	return State{
		Count:      e.count,
		Brightness: e.brightness,
		Color:      e.color,
		Pattern:    e.pattern,
		Enabled:    e.enabled,
		AutoColor:  e.autoColor,
	}
}

// SetCount changes how many pixels are active. Values outside 1..8 (or the strip length) are
// rejected and leave the count unchanged
func (e *Engine) SetCount(n int) error {
	if n < 1 || n > e.maxCount() {
		return ErrCountOutOfRange
	}
	e.count = n
	e.step = 0
	e.off()
	e.log.Info("detail LED count set to", n)
	return nil
}

// SetPattern switches patterns, restarting the animation from a dark strip
func (e *Engine) SetPattern(p Pattern, now clock.Millis) error {
	if !p.Valid() {
		return ErrInvalidPattern
	}
	e.pattern = p
	e.restart(now)
	e.off()
	e.log.Info("detail LED pattern set to", p.String())
	return nil
}

// SetColor changes the pattern color, taking effect on the next tick
func (e *Engine) SetColor(c rgb.Color) {
	e.color = c
}

// SetBrightness changes the strip brightness
func (e *Engine) SetBrightness(b uint8) {
	e.brightness = b
	e.strip.SetBrightness(b)
}

// SetEnabled turns the strip on or off. Disabling clears the pixels immediately
func (e *Engine) SetEnabled(on bool, now clock.Millis) {
	e.enabled = on
	if !on {
		e.off()
		return
	}
	e.restart(now)
}

// SetAutoColor makes the color follow the personality
func (e *Engine) SetAutoColor(on bool) {
	e.autoColor = on
}

// SetModeColor sets the color used for p when auto color is on
func (e *Engine) SetModeColor(p k2so.Personality, c rgb.Color) {
	if !p.Valid() {
		return
	}
	e.modeColors[p] = c
}

// ApplyPersonality re-derives the color from the personality when auto color is on
func (e *Engine) ApplyPersonality(p k2so.Personality) {
	if !e.autoColor || !p.Valid() {
		return
	}
	e.color = e.modeColors[p]
}

// Preset applies the look the droid uses for each personality: a blue pulse while scanning, a
// red blink on alert and a dim amber fade when idle
func (e *Engine) Preset(p k2so.Personality, now clock.Millis) {
	switch p {
	case k2so.PersonalityScanning:
		e.color = rgb.Pack(80, 150, 255)
		_ = e.SetPattern(PatternPulse, now)
	case k2so.PersonalityAlert:
		e.color = rgb.AlertRed
		_ = e.SetPattern(PatternBlink, now)
	case k2so.PersonalityIdle:
		e.color = rgb.Pack(100, 60, 0)
		_ = e.SetPattern(PatternFade, now)
	}
}

func (e *Engine) restart(now clock.Millis) {
	e.step = 0
	e.started = now
	e.lastUpdate = now
	e.nextRandom = e.randomInterval()
}

func (e *Engine) randomInterval() clock.Millis {
	return RandomMin + clock.Millis(e.rand.Intn(int(RandomMax-RandomMin)+1))
}

func (e *Engine) off() {
	e.strip.Clear()
	e.show()
}

func (e *Engine) show() {
	if err := e.strip.Show(); err != nil {
		e.log.Warn("error writing detail LEDs:", err.Error())
	}
}

// fill paints every active pixel
func (e *Engine) fill(c rgb.Color) {
	e.strip.Clear()
	for i := 0; i < e.count; i++ {
		e.strip.SetPixel(i, c)
	}
	e.show()
}

// Update advances the pattern, returning true when the strip was repainted
func (e *Engine) Update(now clock.Millis) bool {
	if !e.enabled {
		return false
	}

	switch e.pattern {
	case PatternBlink:
		return e.blink(now)
	case PatternFade:
		return e.fade(now)
	case PatternChase:
		return e.chase(now)
	case PatternPulse:
		return e.pulse(now)
	case PatternRandom:
		return e.random(now)
	}
	return false
}

func (e *Engine) blink(now clock.Millis) bool {
	wait := BlinkOn
	if e.step%2 == 1 {
		wait = BlinkOff
	}
	if !clock.Due(now, e.lastUpdate, wait) {
		return false
	}
	e.lastUpdate = now
	e.step++

	if e.step%2 == 0 {
		e.fill(e.color)
	} else {
		e.fill(rgb.Off)
	}
	return true
}

func (e *Engine) fade(now clock.Millis) bool {
	if !clock.Due(now, e.lastUpdate, FrameTime) {
		return false
	}
	e.lastUpdate = now

	p := clock.Phase(clock.Elapsed(now, e.started), FadePeriod)
	level := p * 2
	if p >= 0.5 {
		level = (1 - p) * 2
	}
	e.fill(rgb.Scale(e.color, level))
	return true
}

func (e *Engine) chase(now clock.Millis) bool {
	if !clock.Due(now, e.lastUpdate, ChaseStep) {
		return false
	}
	e.lastUpdate = now

	e.strip.Clear()
	e.strip.SetPixel(e.step%e.count, e.color)
	e.show()
	e.step++
	return true
}

func (e *Engine) pulse(now clock.Millis) bool {
	if !clock.Due(now, e.lastUpdate, FrameTime) {
		return false
	}
	e.lastUpdate = now

	level := PulseFloor + (1-PulseFloor)*clock.Wave(clock.Elapsed(now, e.started), PulsePeriod)
	e.fill(rgb.Scale(e.color, level))
	return true
}

func (e *Engine) random(now clock.Millis) bool {
	if !clock.Due(now, e.lastUpdate, e.nextRandom) {
		return false
	}
	e.lastUpdate = now
	e.nextRandom = e.randomInterval()

	e.strip.Clear()
	lit := 1 + e.rand.Intn(e.count)
	for _, i := range e.rand.Perm(e.count)[:lit] {
		level := float32(20+e.rand.Intn(81)) / 100
		e.strip.SetPixel(i, rgb.Scale(e.color, level))
	}
	e.show()
	return true
}
