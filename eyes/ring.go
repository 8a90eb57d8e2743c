package eyes

import (
	"github.com/calvinmclean/k2so/clock"
)

// Ring modes address pixel 0 as the center and pixels 1..12 as the ring
const (
	IrisFrameTime clock.Millis = 20

	TargetingInterval clock.Millis = 100
	TargetingBlink    clock.Millis = 500

	SpiralInterval clock.Millis = 100

	FocusInterval clock.Millis = 300
)

// iris holds the center steady and breathes the ring with the pulse curve
type iris struct {
	started   clock.Millis
	lastFrame clock.Millis
	level     float32
}

func (a *iris) start(f *frame, now clock.Millis) {
	a.started = now
	a.lastFrame = now
	a.level = -1
	a.paint(f, now)
}

func (a *iris) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.lastFrame, IrisFrameTime) {
		return tickIdle
	}
	a.lastFrame = now
	return a.paint(f, now)
}

func (a *iris) paint(f *frame, now clock.Millis) tick {
	level := pulseLevel(clock.Elapsed(now, a.started))
	if level == a.level {
		return tickIdle
	}
	a.level = level

	f.clear()
	f.setBoth(0, 1)
	for i := 1; i <= ringSize; i++ {
		f.setBoth(i, level)
	}
	f.show()
	return tickPainted
}

// targeting rotates a four point crosshair around the ring while the center blinks
type targeting struct {
	started  clock.Millis
	last     clock.Millis
	rotation int
}

func (a *targeting) start(_ *frame, now clock.Millis) {
	a.started = now
	a.last = now
	a.rotation = 0
}

func (a *targeting) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, TargetingInterval) {
		return tickIdle
	}
	a.last = now

	f.clear()
	if (clock.Elapsed(now, a.started)/TargetingBlink)%2 == 0 {
		f.setBoth(0, 1)
	}
	for _, slot := range crosshair(a.rotation) {
		f.setBoth(slot+1, 1)
	}
	f.show()

	a.rotation = (a.rotation + 1) % ringSize
	return tickPainted
}

// crosshair returns the four ring slots spaced three apart, rotated by r
func crosshair(r int) [4]int {
	var slots [4]int
	for k := range slots {
		slots[k] = (r + k*3) % ringSize
	}
	return slots
}

// spiral lights the ring one more pixel per tick, brighter further round, then holds with the
// center lit before starting over
type spiral struct {
	last clock.Millis
	step int
}

func (a *spiral) start(_ *frame, now clock.Millis) {
	a.last = now
	a.step = 0
}

func (a *spiral) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, SpiralInterval) {
		return tickIdle
	}
	a.last = now

	f.clear()
	lit := a.step + 1
	if lit > ringSize {
		lit = ringSize
		f.setBoth(0, 1)
	}
	for i := 1; i <= lit; i++ {
		f.setBoth(i, float32(i)/ringSize)
	}
	f.show()

	a.step++
	if a.step > ringSize {
		a.step = 0
	}
	return tickPainted
}

// focus keeps the center lit and toggles the whole ring
type focus struct {
	last   clock.Millis
	ringOn bool
}

func (a *focus) start(_ *frame, now clock.Millis) {
	a.last = now
	a.ringOn = false
}

func (a *focus) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, FocusInterval) {
		return tickIdle
	}
	a.last = now
	a.ringOn = !a.ringOn

	f.clear()
	f.setBoth(0, 1)
	if a.ringOn {
		for i := 1; i <= ringSize; i++ {
			f.setBoth(i, 1)
		}
	}
	f.show()
	return tickPainted
}
