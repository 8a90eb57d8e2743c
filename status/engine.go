// Package status drives the single status pixel. A steady state animation (solid, pulse or blink)
// is shown unless a short activity flash is active; the flash always wins and the steady state
// resumes by itself when it expires.
package status

import (
	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/rgb"
)

const (
	DefaultBrightness = 50

	PulsePeriod     clock.Millis = 3000
	BootPulsePeriod clock.Millis = 1000
	BlinkFast       clock.Millis = 200
	BlinkSlow       clock.Millis = 1000
	FlashDuration   clock.Millis = 100

	// FrameTime paces pulse repaints
	FrameTime clock.Millis = 20
)

// Status palette
var (
	Red    = rgb.AlertRed
	Green  = rgb.Pack(0, 255, 0)
	Blue   = rgb.Pack(0, 0, 255)
	Yellow = rgb.Pack(255, 255, 0)
	Purple = rgb.Pack(128, 0, 128)
	Cyan   = rgb.Pack(0, 255, 255)
	White  = rgb.White
	Amber  = rgb.Pack(255, 191, 0)
	Ice    = rgb.Pack(80, 150, 255)
)

// State is what the status pixel is reporting
type State int

const (
	StateOff State = iota
	StateBoot
	StateWiFiConnecting
	StateWiFiConnected
	StateWiFiDisconnected
	StateModeScanning
	StateModeAlert
	StateModeIdle
	StateIRActivity
	StateServoActivity
	StateAudioActivity
	StateError
	StateLearning
	StateConfig

	numStates
)

var stateNames = [numStates]string{
	"OFF", "BOOT", "WIFI_CONNECTING", "WIFI_CONNECTED", "WIFI_DISCONNECTED",
	"MODE_SCANNING", "MODE_ALERT", "MODE_IDLE", "IR_ACTIVITY", "SERVO_ACTIVITY",
	"AUDIO_ACTIVITY", "ERROR", "LEARNING_MODE", "CONFIG_MODE",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Valid reports whether s is a defined state
func (s State) Valid() bool {
	return s >= StateOff && s < numStates
}

type style int

const (
	styleSolid style = iota
	stylePulse
	styleBlink
)

// look is how a state renders
type look struct {
	color  rgb.Color
	style  style
	period clock.Millis
}

func lookFor(s State) look {
	switch s {
	case StateBoot:
		return look{Blue, stylePulse, BootPulsePeriod}
	case StateWiFiConnecting:
		return look{Yellow, styleBlink, BlinkFast}
	case StateWiFiConnected:
		return look{Green, styleSolid, 0}
	case StateWiFiDisconnected:
		return look{Red, styleSolid, 0}
	case StateModeScanning:
		return look{Ice, stylePulse, PulsePeriod}
	case StateModeAlert:
		return look{Red, stylePulse, PulsePeriod}
	case StateModeIdle:
		return look{Amber, stylePulse, PulsePeriod}
	case StateIRActivity:
		return look{White, styleSolid, 0}
	case StateServoActivity:
		return look{Blue, styleSolid, 0}
	case StateAudioActivity:
		return look{Green, styleSolid, 0}
	case StateError:
		return look{Red, styleBlink, BlinkFast}
	case StateLearning:
		return look{Purple, styleBlink, BlinkSlow}
	case StateConfig:
		return look{Cyan, stylePulse, PulsePeriod}
	}
	return look{rgb.Off, styleSolid, 0}
}

// Activity is a fire-and-forget flash kind
type Activity int

const (
	ActivityIR Activity = iota
	ActivityServo
	ActivityAudio
)

func (a Activity) color() rgb.Color {
	switch a {
	case ActivityIR:
		return White
	case ActivityServo:
		return Blue
	case ActivityAudio:
		return Green
	}
	return White
}

// Engine drives the status pixel
type Engine struct {
	strip led.Strip
	log   k2so.Logger

	enabled    bool
	brightness uint8
	current    State
	target     State

	animStart clock.Millis
	lastFrame clock.Millis
	shown     rgb.Color
	painted   bool

	flashing      bool
	flashStart    clock.Millis
	flashDuration clock.Millis
}

// New creates an Engine showing Off
func New(strip led.Strip, brightness uint8, enabled bool, log k2so.Logger) *Engine {
	if log == nil {
		log = k2so.NopLogger{}
	}
	strip.SetBrightness(brightness)
	return &Engine{
		strip:      strip,
		log:        log,
		enabled:    enabled,
		brightness: brightness,
	}
}

// State is the steady state currently rendered (or shown after the active flash)
func (e *Engine) State() State {
	return e.current
}

// Target is the state that renders once any flash is over
func (e *Engine) Target() State {
	return e.target
}

// Flashing is true while an activity flash masks the steady state
func (e *Engine) Flashing() bool {
	return e.flashing
}

// Color is the color most recently written
func (e *Engine) Color() rgb.Color {
	return e.shown
}

// Enabled reports whether the pixel is in use
func (e *Engine) Enabled() bool {
	return e.enabled
}

// SetEnabled turns the pixel on or off. Turning it off darkens it immediately
func (e *Engine) SetEnabled(on bool) {
	e.enabled = on
	if !on {
		e.flashing = false
		e.paint(rgb.Off)
		return
	}
	e.painted = false
}

// Brightness is the pixel brightness
func (e *Engine) Brightness() uint8 {
	return e.brightness
}

// SetBrightness changes the pixel brightness
func (e *Engine) SetBrightness(b uint8) {
	e.brightness = b
	e.strip.SetBrightness(b)
	e.painted = false
}

// SetState changes the steady state. While a flash is active only the target is recorded, except
// for errors which cancel the flash
func (e *Engine) SetState(s State, now clock.Millis) {
	if !e.enabled {
		return
	}
	if !s.Valid() {
		e.log.Warn("invalid status LED state", int(s))
		return
	}

	e.target = s
	if e.flashing {
		if s != StateError {
			return
		}
		e.flashing = false
	}

	e.current = s
	e.animStart = now
	e.lastFrame = now
	e.painted = false
	e.render(now)
}

// Flash shows the activity color at once for FlashDuration. Flashing again restarts the timer
func (e *Engine) Flash(a Activity, now clock.Millis) {
	e.FlashColor(a.color(), FlashDuration, now)
}

// FlashColor shows any color for d
func (e *Engine) FlashColor(c rgb.Color, d clock.Millis, now clock.Millis) {
	if !e.enabled {
		return
	}
	if !e.flashing {
		e.target = e.current
	}
	e.flashing = true
	e.flashStart = now
	e.flashDuration = d
	e.paint(c)
}

// Update renders the current state, returning true when the pixel was rewritten
func (e *Engine) Update(now clock.Millis) bool {
	if !e.enabled {
		return false
	}

	if e.flashing {
		if !clock.Due(now, e.flashStart, e.flashDuration) {
			return false
		}
		e.flashing = false
		e.current = e.target
		e.painted = false
	}

	return e.render(now)
}

func (e *Engine) render(now clock.Millis) bool {
	l := lookFor(e.current)
	elapsed := clock.Elapsed(now, e.animStart)

	switch l.style {
	case stylePulse:
		if e.painted && !clock.Due(now, e.lastFrame, FrameTime) {
			return false
		}
		e.lastFrame = now
		return e.paint(rgb.Scale(l.color, clock.Wave(elapsed, l.period)))
	case styleBlink:
		if (elapsed/l.period)%2 == 0 {
			return e.paint(l.color)
		}
		return e.paint(rgb.Off)
	}
	return e.paint(l.color)
}

// paint writes c only when it differs from what is displayed
func (e *Engine) paint(c rgb.Color) bool {
	if e.painted && c == e.shown {
		return false
	}
	e.shown = c
	e.painted = true
	e.strip.SetPixel(0, c)
	if err := e.strip.Show(); err != nil {
		e.log.Warn("error writing status LED:", err.Error())
	}
	return true
}
