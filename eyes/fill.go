package eyes

import (
	"math"

	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/rgb"
)

// Animations that paint every active pixel of an eye with one color
const (
	FadeDuration  clock.Millis = 1000
	FadeFrameTime clock.Millis = 20

	FlickerInterval clock.Millis = 50
	FlickerMin                   = 0.3
	FlickerMax                   = 1.0

	PulsePeriod    clock.Millis = 3000
	PulseFrameTime clock.Millis = 20
	PulseMin                    = 0.2
	PulseMax                    = 1.0

	HeartbeatPeriod    clock.Millis = 1200
	HeartbeatFrameTime clock.Millis = 20
	HeartbeatBaseline               = 0.1
	HeartbeatDub                    = 0.7

	AlarmInterval clock.Millis = 150
)

// fade interpolates from the displayed colors to a target. The zero value fades to black
type fade struct {
	from, to  [2]rgb.Color
	toBase    bool
	started   clock.Millis
	lastFrame clock.Millis
}

func (a *fade) start(f *frame, now clock.Millis) {
	a.from = f.shown
	if a.toBase {
		a.to = f.base
	}
	a.started = now
	a.lastFrame = now
}

func (a *fade) update(f *frame, now clock.Millis) tick {
	elapsed := clock.Elapsed(now, a.started)
	if elapsed >= FadeDuration {
		return tickDone
	}
	if !clock.Due(now, a.lastFrame, FadeFrameTime) {
		return tickIdle
	}
	a.lastFrame = now

	p := rgb.Smoothstep(float32(elapsed) / float32(FadeDuration))
	l := rgb.Lerp(a.from[left], a.to[left], p)
	r := rgb.Lerp(a.from[right], a.to[right], p)
	if f.shown == [2]rgb.Color{l, r} {
		return tickIdle
	}
	f.fill(l, r)
	return tickPainted
}

// flicker draws an independent random intensity per eye on every tick
type flicker struct {
	last      clock.Millis
	intensity [2]float32
}

func (a *flicker) start(_ *frame, now clock.Millis) {
	a.last = now
	a.intensity = [2]float32{1, 1}
}

func (a *flicker) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, FlickerInterval) {
		return tickIdle
	}
	a.last = now

	for eye := range a.intensity {
		a.intensity[eye] = FlickerMin + f.rand.Float32()*(FlickerMax-FlickerMin)
	}
	f.fill(
		rgb.Scale(f.base[left], a.intensity[left]),
		rgb.Scale(f.base[right], a.intensity[right]),
	)
	return tickPainted
}

// pulseLevel is the breathing brightness shared by pulse and iris
func pulseLevel(elapsed clock.Millis) float32 {
	return PulseMin + (PulseMax-PulseMin)*clock.Wave(elapsed, PulsePeriod)
}

// pulse breathes the base color. The first frame is painted on start so the phase anchor is visible
type pulse struct {
	started   clock.Millis
	lastFrame clock.Millis
}

func (a *pulse) start(f *frame, now clock.Millis) {
	a.started = now
	a.lastFrame = now
	a.paint(f, now)
}

func (a *pulse) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.lastFrame, PulseFrameTime) {
		return tickIdle
	}
	a.lastFrame = now
	return a.paint(f, now)
}

func (a *pulse) paint(f *frame, now clock.Millis) tick {
	level := pulseLevel(clock.Elapsed(now, a.started))
	l := rgb.Scale(f.base[left], level)
	r := rgb.Scale(f.base[right], level)
	if f.shown == [2]rgb.Color{l, r} {
		return tickIdle
	}
	f.fill(l, r)
	return tickPainted
}

// heartbeat is a lub-dub double pulse over a dim baseline, identical on both eyes
type heartbeat struct {
	started   clock.Millis
	lastFrame clock.Millis
}

func (a *heartbeat) start(_ *frame, now clock.Millis) {
	a.started = now
	a.lastFrame = now
}

// heartbeatLevel returns the intensity at t milliseconds into the cycle
func heartbeatLevel(t clock.Millis) float32 {
	level := float32(0)
	switch {
	case t < 200:
		level = float32(math.Sin(math.Pi * float64(t) / 200))
	case t >= 400 && t < 600:
		level = HeartbeatDub * float32(math.Sin(math.Pi*float64(t-400)/200))
	}
	if level < HeartbeatBaseline {
		return HeartbeatBaseline
	}
	return level
}

func (a *heartbeat) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.lastFrame, HeartbeatFrameTime) {
		return tickIdle
	}
	a.lastFrame = now

	level := heartbeatLevel(clock.Elapsed(now, a.started) % HeartbeatPeriod)
	l := rgb.Scale(f.base[left], level)
	r := rgb.Scale(f.base[right], level)
	if f.shown == [2]rgb.Color{l, r} {
		return tickIdle
	}
	f.fill(l, r)
	return tickPainted
}

// alarm alternates alert red and white on every tick
type alarm struct {
	last clock.Millis
	step int
}

func (a *alarm) start(_ *frame, now clock.Millis) {
	a.last = now
	a.step = 0
}

func (a *alarm) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, AlarmInterval) {
		return tickIdle
	}
	a.last = now

	c := rgb.AlertRed
	if a.step%2 == 1 {
		c = rgb.White
	}
	a.step++
	f.fill(c, c)
	return tickPainted
}
