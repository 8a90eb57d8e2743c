package motion

import (
	"math/rand"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
)

// Timing holds the movement and wait bounds of the moving personalities
type Timing struct {
	ScanMove  clock.Span `yaml:"scan_move" toml:"scan_move" json:"scan_move"`
	ScanWait  clock.Span `yaml:"scan_wait" toml:"scan_wait" json:"scan_wait"`
	AlertMove clock.Span `yaml:"alert_move" toml:"alert_move" json:"alert_move"`
	AlertWait clock.Span `yaml:"alert_wait" toml:"alert_wait" json:"alert_wait"`
}

// DefaultTiming is a slow wander when scanning and a twitchy one on alert
func DefaultTiming() Timing {
	return Timing{
		ScanMove:  clock.Span{Min: 20, Max: 40},
		ScanWait:  clock.Span{Min: 3000, Max: 6000},
		AlertMove: clock.Span{Min: 5, Max: 15},
		AlertWait: clock.Span{Min: 500, Max: 1500},
	}
}

// Profile is how fast the axes move for one personality
type Profile struct {
	EyeStep  int
	HeadStep int
	// Move is where step intervals are drawn from. A zero span keeps the current intervals
	Move clock.Span
	// Wait is the pause between fidgets. A zero span disables fidgeting
	Wait clock.Span
}

// ProfileFor returns the movement profile of p
func ProfileFor(p k2so.Personality, t Timing) Profile {
	switch p {
	case k2so.PersonalityAlert:
		return Profile{EyeStep: 5, HeadStep: 3, Move: t.AlertMove, Wait: t.AlertWait}
	case k2so.PersonalityIdle:
		return Profile{EyeStep: 1, HeadStep: 1}
	}
	return Profile{EyeStep: 2, HeadStep: 1, Move: t.ScanMove, Wait: t.ScanWait}
}

// Planner owns the four servo axes
type Planner struct {
	axes [NumAxes]*Axis
	log  k2so.Logger
	rand *rand.Rand

	timing  Timing
	profile Profile
	moves   uint32
}

// NewPlanner creates a Planner for the four ranges, indexed by AxisID. outs may hold nil writers
func NewPlanner(ranges [NumAxes]Range, outs [NumAxes]Writer, t Timing, log k2so.Logger, r *rand.Rand) *Planner {
	if log == nil {
		log = k2so.NopLogger{}
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}

	p := &Planner{log: log, rand: r, timing: t}
	for i := range p.axes {
		p.axes[i] = NewAxis(AxisID(i), ranges[i], outs[i])
		p.axes[i].onFail = p.writeFailed
	}
	p.ApplyPersonality(k2so.PersonalityScanning)
	return p
}

func (p *Planner) writeFailed(id AxisID, err error) {
	p.log.Warn("error writing servo", id.String(), err.Error())
}

// Axis returns the axis for id
func (p *Planner) Axis(id AxisID) *Axis {
	if id < 0 || id >= NumAxes {
		return nil
	}
	return p.axes[id]
}

// Movements counts every servo write since start
func (p *Planner) Movements() uint32 {
	return p.moves
}

// Profile is the active movement profile
func (p *Planner) Profile() Profile {
	return p.profile
}

// Timing returns the current bounds
func (p *Planner) Timing() Timing {
	return p.timing
}

// SetTiming replaces the bounds. The active profile keeps its steps
func (p *Planner) SetTiming(t Timing, personality k2so.Personality) {
	p.timing = t
	p.ApplyPersonality(personality)
}

// ApplyPersonality sets step sizes and draws new intervals for every axis
func (p *Planner) ApplyPersonality(personality k2so.Personality) {
	p.profile = ProfileFor(personality, p.timing)

	for _, a := range p.axes {
		step := p.profile.HeadStep
		if a.id == EyePan || a.id == EyeTilt {
			step = p.profile.EyeStep
		}
		a.SetStep(step)
		if p.profile.Move != (clock.Span{}) {
			a.SetInterval(p.profile.Move.Draw(p.rand))
		}
	}
}

// SetTarget starts a move on one axis
func (p *Planner) SetTarget(id AxisID, pos int) {
	a := p.Axis(id)
	if a == nil {
		p.log.Warn("invalid servo axis", int(id))
		return
	}
	a.SetTarget(pos)
}

// Nudge moves one axis by delta degrees immediately, staying in range
func (p *Planner) Nudge(id AxisID, delta int) {
	a := p.Axis(id)
	if a == nil {
		return
	}
	a.MoveTo(a.Current() + delta)
	p.moves++
}

// MoveTo writes an axis position immediately
func (p *Planner) MoveTo(id AxisID, pos int) {
	a := p.Axis(id)
	if a == nil {
		p.log.Warn("invalid servo axis", int(id))
		return
	}
	a.MoveTo(pos)
	p.moves++
}

// CenterAll writes every axis to its rest position immediately
func (p *Planner) CenterAll() {
	for _, a := range p.axes {
		a.Center()
	}
	p.moves++
	p.log.Info("centering all servos")
}

// Moving reports whether any axis has a move in progress
func (p *Planner) Moving() bool {
	for _, a := range p.axes {
		if a.Moving() {
			return true
		}
	}
	return false
}

// Update steps every axis and returns true when any servo was written
func (p *Planner) Update(now clock.Millis) bool {
	wrote := false
	for _, a := range p.axes {
		if a.Update(now) {
			p.moves++
			wrote = true
		}
	}
	return wrote
}
