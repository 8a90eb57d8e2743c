package eyes

import (
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/rgb"
)

const (
	ScannerInterval clock.Millis = 100
	ScannerTail                  = 3

	RadarInterval clock.Millis = 60
	RadarTrail                 = 6
	RadarCenter                = 0.3
)

// tailLevel is the intensity i pixels behind a head: full at the head, fading linearly to zero
func tailLevel(i, length int) float32 {
	return 1 - float32(i)/float32(length)
}

// pingPong moves a cursor across [0,n) and turns around at both ends
func pingPong(pos int, forward bool, n int) (int, bool) {
	if n <= 1 {
		return 0, forward
	}
	if forward {
		pos++
		if pos >= n {
			return n - 2, false
		}
		return pos, true
	}
	pos--
	if pos < 0 {
		return 1, true
	}
	return pos, false
}

// scanner sweeps a lit head with a fading tail across both eyes as if they were one strip
type scanner struct {
	last    clock.Millis
	pos     int
	forward bool
}

func (a *scanner) start(_ *frame, now clock.Millis) {
	a.last = now
	a.pos = 0
	a.forward = true
}

func (a *scanner) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, ScannerInterval) {
		return tickIdle
	}
	a.last = now

	total := f.active * 2
	f.clear()
	for i := 0; i < ScannerTail; i++ {
		// the tail trails behind the direction of travel and is cut off at the strip ends
		idx := a.pos - i
		if !a.forward {
			idx = a.pos + i
		}
		if idx < 0 || idx >= total {
			continue
		}

		eye, pixel := left, idx
		if idx >= f.active {
			eye, pixel = right, idx-f.active
		}
		f.set(eye, pixel, rgb.Scale(f.base[eye], tailLevel(i, ScannerTail)))
	}
	f.show()

	a.pos, a.forward = pingPong(a.pos, a.forward, total)
	return tickPainted
}

// ringScanner is the scanner confined to ring slots 1..12 with the center held lit
type ringScanner struct {
	last clock.Millis
	// slot is 0..11 and maps to pixel slot+1
	slot    int
	forward bool
}

func (a *ringScanner) start(_ *frame, now clock.Millis) {
	a.last = now
	a.slot = 0
	a.forward = true
}

func (a *ringScanner) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, ScannerInterval) {
		return tickIdle
	}
	a.last = now

	f.clear()
	f.setBoth(0, 1)
	for i := 0; i < ScannerTail; i++ {
		slot := a.slot - i
		if !a.forward {
			slot = a.slot + i
		}
		if slot < 0 || slot >= ringSize {
			continue
		}
		f.setBoth(slot+1, tailLevel(i, ScannerTail))
	}
	f.show()

	a.slot, a.forward = pingPong(a.slot, a.forward, ringSize)
	return tickPainted
}

// radar sweeps one way around the ring with a long trail over a dim center
type radar struct {
	last clock.Millis
	slot int
}

func (a *radar) start(_ *frame, now clock.Millis) {
	a.last = now
	a.slot = 0
}

func (a *radar) update(f *frame, now clock.Millis) tick {
	if !clock.Due(now, a.last, RadarInterval) {
		return tickIdle
	}
	a.last = now

	f.clear()
	f.setBoth(0, RadarCenter)
	for i := 0; i < RadarTrail; i++ {
		slot := (a.slot - i + ringSize) % ringSize
		f.setBoth(slot+1, tailLevel(i, RadarTrail))
	}
	f.show()

	a.slot = (a.slot + 1) % ringSize
	return tickPainted
}
