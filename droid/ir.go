package droid

import (
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
	"github.com/calvinmclean/k2so/rgb"
	"github.com/calvinmclean/k2so/status"
)

// repeatCode is what NEC receivers report while a button is held
const repeatCode = 0xFFFFFFFF

// HandleIR routes a received code according to the operating mode
func (d *Droid) HandleIR(code uint32, now clock.Millis) {
	if !d.cfg.IREnabled || code == 0 || code == repeatCode {
		return
	}
	d.irCommands++
	d.lastIR = code
	d.status.Flash(status.ActivityIR, now)

	switch d.mode {
	case ModeIRScanner:
		d.printf("IR code: 0x%08X\n", code)
		return
	case ModeLearning:
		d.learn(code, now)
		return
	}

	b, ok := remote.Lookup(d.cfg.Buttons, code)
	if !ok {
		d.log.Info("unknown IR code", code)
		return
	}
	d.log.Info("IR button", b.Name)
	d.pressButton(b.Name, now)
}

func (d *Droid) pressButton(name string, now clock.Millis) {
	d.Touch(now)

	switch a := remote.ActionFor(name); a.Kind {
	case remote.KindLook:
		d.look(a.Direction, now)
	case remote.KindCenter:
		d.CenterServos(now)
	case remote.KindPersonality:
		_ = d.SetPersonality(a.Personality, now)
	case remote.KindSound:
		if err := d.audio.PlayRandom(a.Folder, now); err != nil {
			d.log.Warn("error playing sound:", err.Error())
		}
	case remote.KindColorNext:
		c := d.colors.Next()
		d.SetEyeColors(c, c, now)
	case remote.KindColorPrev:
		c := d.colors.Prev()
		d.SetEyeColors(c, c, now)
	case remote.KindToggleEyes:
		c := rgb.Off
		if d.eyes.State().Shown == [2]rgb.Color{rgb.Off, rgb.Off} {
			c = rgb.White
		}
		d.SetEyeColors(c, c, now)
	}
}

// look points the eyes at the edge of their range and centres the other eye axis
func (d *Droid) look(dir remote.Direction, now clock.Millis) {
	pan := d.servos.Axis(motion.EyePan).Range()
	tilt := d.servos.Axis(motion.EyeTilt).Range()

	switch dir {
	case remote.Up:
		d.servos.MoveTo(motion.EyePan, pan.Center)
		d.servos.MoveTo(motion.EyeTilt, tilt.Max)
	case remote.Down:
		d.servos.MoveTo(motion.EyePan, pan.Center)
		d.servos.MoveTo(motion.EyeTilt, tilt.Min)
	case remote.Left:
		d.servos.MoveTo(motion.EyePan, pan.Max)
		d.servos.MoveTo(motion.EyeTilt, tilt.Center)
	case remote.Right:
		d.servos.MoveTo(motion.EyePan, pan.Min)
		d.servos.MoveTo(motion.EyeTilt, tilt.Center)
	}
	d.status.Flash(status.ActivityServo, now)
}

// StartLearning records new codes. A count of 0 relearns the current button names, any other
// count starts a fresh table of that many buttons
func (d *Droid) StartLearning(count int, now clock.Millis) error {
	var existing []remote.Button
	if count == 0 {
		existing = d.cfg.Buttons
	}
	if err := d.learner.Start(existing, count, now); err != nil {
		return err
	}

	d.mode = ModeLearning
	_, total := d.learner.Progress()
	d.log.Info("IR learning started for", total, "buttons")
	d.printPrompt()
	return nil
}

func (d *Droid) learn(code uint32, now clock.Millis) {
	name := d.learner.Prompt()
	done := d.learner.Feed(code, now)
	d.printf("Learned %s = 0x%08X\n", name, code)
	if !done {
		d.printPrompt()
		return
	}

	d.cfg.Buttons = d.learner.Buttons()
	d.mode = ModeNormal
	d.printf("Learning complete: %d buttons\n", len(d.cfg.Buttons))
	d.log.Info("IR learning complete")
	if d.store == nil {
		return
	}
	if err := d.Save(); err != nil {
		d.log.Warn("error saving learned buttons:", err.Error())
	}
}

func (d *Droid) printPrompt() {
	i, total := d.learner.Progress()
	d.printf("Press button '%s' (%d/%d)\n", d.learner.Prompt(), i+1, total)
}

// Buttons returns a copy of the IR button table
func (d *Droid) Buttons() []remote.Button {
	return append([]remote.Button(nil), d.cfg.Buttons...)
}

// ResetButtons restores the codes of the stock remote
func (d *Droid) ResetButtons() {
	d.cfg.Buttons = remote.DefaultButtons()
	d.log.Info("IR buttons reset to defaults")
}

// SetIREnabled turns IR handling on or off
func (d *Droid) SetIREnabled(on bool) {
	d.cfg.IREnabled = on
}

// IREnabled reports whether IR codes are acted on
func (d *Droid) IREnabled() bool {
	return d.cfg.IREnabled
}
