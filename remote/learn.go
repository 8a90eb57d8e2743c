package remote

import (
	"errors"

	"github.com/calvinmclean/k2so/clock"
)

var ErrButtonCount = errors.New("button count must be between 1 and 21")

// Learner records one code per button, in order. It never blocks: codes are fed in as they
// arrive and Update enforces the timeout
type Learner struct {
	buttons []Button
	index   int
	active  bool
	last    clock.Millis
}

// Start begins learning. When existing is empty a fresh table of count buttons is created,
// otherwise the existing names are relearned
func (l *Learner) Start(existing []Button, count int, now clock.Millis) error {
	if len(existing) == 0 {
		if count < 1 || count > MaxButtons {
			return ErrButtonCount
		}
		existing = make([]Button, count)
		for i := range existing {
			existing[i].Name = ButtonName(i)
		}
	}

	l.buttons = make([]Button, len(existing))
	copy(l.buttons, existing)
	l.index = 0
	l.active = true
	l.last = now
	return nil
}

// Active reports whether learning is in progress
func (l *Learner) Active() bool {
	return l.active
}

// Prompt is the name of the button to press next
func (l *Learner) Prompt() string {
	if !l.active {
		return ""
	}
	return l.buttons[l.index].Name
}

// Progress returns how many buttons are learned out of the total
func (l *Learner) Progress() (int, int) {
	return l.index, len(l.buttons)
}

// Buttons returns the table as learned so far
func (l *Learner) Buttons() []Button {
	return l.buttons
}

// Feed records code for the current button and returns true when the last button is done
func (l *Learner) Feed(code uint32, now clock.Millis) bool {
	if !l.active {
		return false
	}
	l.buttons[l.index].Code = code
	l.buttons[l.index].Configured = true
	l.index++
	l.last = now

	if l.index >= len(l.buttons) {
		l.active = false
		return true
	}
	return false
}

// Update returns true once when learning times out
func (l *Learner) Update(now clock.Millis) bool {
	if !l.active || !clock.Due(now, l.last, LearnTimeout+1) {
		return false
	}
	l.active = false
	return true
}

// Cancel stops learning and keeps nothing
func (l *Learner) Cancel() {
	l.active = false
}
