package motion

import (
	"math/rand"

	"github.com/calvinmclean/k2so/clock"
)

// Fidget gives a random axis a random target every so often
type Fidget struct {
	planner *Planner
	rand    *rand.Rand

	last clock.Millis
	wait clock.Millis

	// OnMove is called with the axis picked for each fidget
	OnMove func(AxisID)
}

// NewFidget creates a Fidget. The first fidget happens on the first Update
func NewFidget(p *Planner, r *rand.Rand) *Fidget {
	if r == nil {
		r = p.rand
	}
	return &Fidget{planner: p, rand: r}
}

// Reset restarts the wait from now, with the next fidget due right away
func (f *Fidget) Reset(now clock.Millis) {
	f.last = now
	f.wait = 0
}

// Update picks a new target when active and the wait has passed. Profiles without a wait span
// (idle) never fidget
func (f *Fidget) Update(now clock.Millis, active bool) bool {
	span := f.planner.profile.Wait
	if !active || span == (clock.Span{}) {
		return false
	}
	if !clock.Due(now, f.last, f.wait) {
		return false
	}

	id := AxisID(f.rand.Intn(int(NumAxes)))
	a := f.planner.axes[id]
	r := a.Range()
	target := r.Center
	if r.Max >= r.Min {
		target = r.Min + f.rand.Intn(r.Max-r.Min+1)
	}
	a.SetTarget(target)
	if f.OnMove != nil {
		f.OnMove(id)
	}

	f.last = now
	f.wait = span.Draw(f.rand)
	return true
}
