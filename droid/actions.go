package droid

import (
	"fmt"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"
	"github.com/calvinmclean/k2so/status"
)

// Touch records activity, waking the droid if it is asleep
func (d *Droid) Touch(now clock.Millis) {
	d.lastActivity = now
	if d.awake || !d.boot.done {
		return
	}

	d.awake = true
	c := d.cfg.Eyes.Colors.For(d.personality)
	d.eyes.FadeTo(c, c, now)
	d.audio.Start(now)
	d.fidget.Reset(now)
	d.log.Info("waking up")
}

// Sleep fades the eyes out, centers the servos and silences the chatter until the next activity
func (d *Droid) Sleep(now clock.Millis) {
	if !d.awake {
		return
	}
	d.awake = false
	d.eyes.FadeOff(now)
	d.servos.CenterAll()
	d.audio.Stop()
	d.log.Info("going to sleep")
}

// SetPersonality switches eye color, servo profile, detail color, status state and sound folder
func (d *Droid) SetPersonality(p k2so.Personality, now clock.Millis) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", k2so.ErrInvalidPersonality, int(p))
	}

	d.personality = p
	d.cfg.Personality = p
	d.servos.ApplyPersonality(p)
	d.detail.ApplyPersonality(p)
	if d.mode == ModeNormal && d.boot.done {
		d.status.SetState(status.ForPersonality(p), now)
	}

	if d.awake {
		c := d.cfg.Eyes.Colors.For(p)
		if d.eyes.Animating() {
			d.eyes.SetBaseColor(c)
		} else {
			d.eyes.SetColor(c)
		}
	}
	d.Touch(now)

	d.log.Info("personality set to", p.String())
	return nil
}

// SetEyeMode starts an eye animation
func (d *Droid) SetEyeMode(m eyes.Mode, now clock.Millis) {
	d.Touch(now)
	d.eyes.SetMode(m, now)
}

// SetEyeColors shows steady colors, stopping any animation
func (d *Droid) SetEyeColors(l, r rgb.Color, now clock.Millis) {
	d.Touch(now)
	d.eyes.SetColors(l, r)
}

// SetEyeBrightness changes and remembers the eye brightness
func (d *Droid) SetEyeBrightness(b uint8) {
	d.cfg.Eyes.Brightness = b
	d.eyes.SetBrightness(b)
}

// SetEyeHardware changes and remembers the eye topology
func (d *Droid) SetEyeHardware(v k2so.EyeHardware, now clock.Millis) error {
	if !v.Valid() {
		return fmt.Errorf("invalid eye hardware %d, use 7 or 13", int(v))
	}
	d.cfg.Eyes.Hardware = v
	d.eyes.SetHardware(v, now)
	return nil
}

// SetStatusLED changes and remembers the status pixel settings
func (d *Droid) SetStatusLED(enabled bool, brightness uint8) {
	d.cfg.Status.Enabled = enabled
	d.cfg.Status.Brightness = brightness
	d.status.SetBrightness(brightness)
	d.status.SetEnabled(enabled)
}

// MoveServo writes one axis immediately
func (d *Droid) MoveServo(id motion.AxisID, pos int, now clock.Millis) {
	d.Touch(now)
	d.servos.MoveTo(id, pos)
	d.status.Flash(status.ActivityServo, now)
}

// MoveServos writes all axes immediately. A sleeping droid wakes up on alert
func (d *Droid) MoveServos(pos [motion.NumAxes]int, now clock.Millis) {
	wasAsleep := !d.awake && d.boot.done
	for id, p := range pos {
		d.servos.MoveTo(motion.AxisID(id), p)
	}
	d.status.Flash(status.ActivityServo, now)
	if wasAsleep {
		_ = d.SetPersonality(k2so.PersonalityAlert, now)
		return
	}
	d.Touch(now)
}

// CenterServos returns every axis to rest
func (d *Droid) CenterServos(now clock.Millis) {
	d.Touch(now)
	d.servos.CenterAll()
	d.status.Flash(status.ActivityServo, now)
}

// CalibrateServo replaces the range of one axis
func (d *Droid) CalibrateServo(id motion.AxisID, r motion.Range) error {
	a := d.servos.Axis(id)
	if a == nil {
		return fmt.Errorf("invalid servo axis %d", int(id))
	}
	if !r.Valid() {
		return fmt.Errorf("invalid range for %s: min %d max %d center %d", id, r.Min, r.Max, r.Center)
	}
	*d.cfg.Servos.Range(id) = r
	a.SetRange(r)
	return nil
}

func (d *Droid) servoPositions() [motion.NumAxes]int {
	var pos [motion.NumAxes]int
	for id := motion.EyePan; id < motion.NumAxes; id++ {
		pos[id] = d.servos.Axis(id).Current()
	}
	return pos
}

// PlaySound plays an effects clip
func (d *Droid) PlaySound(track int, now clock.Millis) error {
	d.Touch(now)
	return d.audio.Play(track, now)
}

// PlayRandom plays a random clip from folder
func (d *Droid) PlayRandom(folder int, now clock.Millis) error {
	d.Touch(now)
	return d.audio.PlayRandom(folder, now)
}

// SetVolume changes and remembers the volume
func (d *Droid) SetVolume(v int) error {
	if err := d.audio.SetVolume(v); err != nil {
		return err
	}
	d.cfg.Volume = v
	return nil
}
