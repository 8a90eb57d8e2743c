package droid

import (
	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/rgb"
)

// bootSequence tests the eyes, centers the servos and plays the boot sound, one step per
// BootStepDelay
type bootSequence struct {
	step    int
	last    clock.Millis
	running bool
	done    bool
}

var bootColors = [3]rgb.Color{rgb.AlertRed, rgb.Pack(0, 255, 0), rgb.Pack(0, 0, 255)}

func (d *Droid) startBoot(now clock.Millis) {
	d.boot = bootSequence{running: true}
	d.runBootStep(now)
}

func (d *Droid) bootStep(now clock.Millis) {
	if !clock.Due(now, d.boot.last, d.cfg.BootStepDelay) {
		return
	}
	d.runBootStep(now)
}

func (d *Droid) runBootStep(now clock.Millis) {
	d.boot.last = now

	switch step := d.boot.step; {
	case step < len(bootColors):
		d.eyes.SetColor(bootColors[step])
	case step == 3:
		d.servos.CenterAll()
	case step == 4:
		if !d.audio.Ready() {
			d.log.Warn("audio not ready, skipping boot sound")
			break
		}
		if err := d.audio.Play(audio.BootTrack, now); err != nil {
			d.log.Warn("error playing boot sound:", err.Error())
		}
	default:
		d.eyes.SetColor(d.cfg.Eyes.Colors.For(d.personality))
		d.finishBoot(now)
		return
	}
	d.boot.step++
}

func (d *Droid) finishBoot(now clock.Millis) {
	d.boot.running = false
	d.boot.done = true
	d.awake = true
	d.lastActivity = now
	d.audio.Start(now)
	d.fidget.Reset(now)
	d.log.Info("Boot sequence complete")
	d.printf("K-2SO ready\n")
}
