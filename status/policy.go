package status

import (
	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
)

const (
	PolicyInterval clock.Millis = 1000
	// WiFiHold is how long the connected state is shown after a connection is made
	WiFiHold clock.Millis = 2000
)

// Conditions is the droid state the Policy derives the status from
type Conditions struct {
	AudioReady    bool
	BootComplete  bool
	Learning      bool
	Configuring   bool
	WiFiEnabled   bool
	WiFiConnected bool
	Personality   k2so.Personality
}

// Policy picks the steady status state once per PolicyInterval
type Policy struct {
	engine *Engine

	last    clock.Millis
	started bool

	wifiWas   bool
	holdState State
	holdUntil clock.Millis
	holding   bool
}

// NewPolicy creates a Policy driving e
func NewPolicy(e *Engine) *Policy {
	return &Policy{engine: e}
}

// Update evaluates c when the interval has passed and returns true when the state was changed
func (p *Policy) Update(c Conditions, now clock.Millis) bool {
	if p.started && !clock.Due(now, p.last, PolicyInterval) {
		return false
	}
	p.started = true
	p.last = now

	s := p.derive(c, now)
	if s == p.engine.Target() {
		return false
	}
	p.engine.SetState(s, now)
	return true
}

func (p *Policy) derive(c Conditions, now clock.Millis) State {
	switch {
	case !c.AudioReady && c.BootComplete:
		return StateError
	case c.Learning:
		return StateLearning
	case c.Configuring:
		return StateConfig
	case !c.BootComplete:
		return StateBoot
	}

	if c.WiFiEnabled {
		if c.WiFiConnected != p.wifiWas {
			p.wifiWas = c.WiFiConnected
			p.holding = true
			p.holdUntil = now + WiFiHold
			p.holdState = StateWiFiDisconnected
			if c.WiFiConnected {
				p.holdState = StateWiFiConnected
			} else {
				// disconnects show for a single evaluation
				p.holdUntil = now + PolicyInterval
			}
		}
		if p.holding {
			if int32(now-p.holdUntil) < 0 {
				return p.holdState
			}
			p.holding = false
		}
	}

	return ForPersonality(c.Personality)
}

// ForPersonality maps a personality onto its status state
func ForPersonality(p k2so.Personality) State {
	switch p {
	case k2so.PersonalityAlert:
		return StateModeAlert
	case k2so.PersonalityIdle:
		return StateModeIdle
	}
	return StateModeScanning
}
