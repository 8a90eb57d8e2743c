// Package droid owns every engine of the head and runs them from a single cooperative superloop.
// Update is called as often as possible with the current time and never blocks; each engine
// decides on its own whether anything is due.
package droid

import (
	"errors"
	"io"
	"math/rand"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/audio"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/detail"
	"github.com/calvinmclean/k2so/eyes"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/remote"
	"github.com/calvinmclean/k2so/status"
)

const (
	StatsInterval   clock.Millis = 60000
	MonitorInterval clock.Millis = 1000
)

var (
	ErrMissingStrip = errors.New("missing LED strip")
	ErrNoStore      = errors.New("no config store")
)

// Network reports the WiFi link. Droids without one leave Hardware.Network nil
type Network interface {
	Connected() bool
}

// Hardware is everything the droid drives. Servo writers and the player may be nil
type Hardware struct {
	LeftEye  led.Strip
	RightEye led.Strip
	Detail   led.Strip
	Status   led.Strip

	Servos  [motion.NumAxes]motion.Writer
	Player  audio.Player
	Network Network
}

// Droid is the composition root
type Droid struct {
	log   k2so.Logger
	rand  *rand.Rand
	out   io.Writer
	store config.Store
	cfg   config.Config

	eyes    *eyes.Engine
	detail  *detail.Engine
	status  *status.Engine
	policy  *status.Policy
	servos  *motion.Planner
	fidget  *motion.Fidget
	audio   *audio.Scheduler
	network Network

	learner remote.Learner
	colors  remote.Cycle

	personality k2so.Personality
	mode        OperatingMode
	awake       bool
	boot        bootSequence

	now          clock.Millis
	started      clock.Millis
	lastActivity clock.Millis
	lastMonitor  clock.Millis
	lastStats    clock.Millis

	irCommands uint32
	lastIR     uint32
}

// New builds every engine from cfg. Out-of-range settings are clamped and logged
func New(cfg config.Config, hw Hardware, log k2so.Logger, r *rand.Rand) (*Droid, error) {
	if hw.LeftEye == nil || hw.RightEye == nil || hw.Detail == nil || hw.Status == nil {
		return nil, ErrMissingStrip
	}
	if log == nil {
		log = k2so.NopLogger{}
	}
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("config:", err.Error())
	}

	d := &Droid{
		log:         log,
		rand:        r,
		out:         io.Discard,
		cfg:         cfg,
		network:     hw.Network,
		personality: cfg.Personality,
	}

	d.eyes = eyes.New(cfg.EyesConfig(), hw.LeftEye, hw.RightEye, log, r)
	d.detail = detail.New(cfg.DetailConfig(), hw.Detail, log, r)
	d.detail.ApplyPersonality(cfg.Personality)
	d.status = status.New(hw.Status, cfg.Status.Brightness, cfg.Status.Enabled, log)
	d.policy = status.NewPolicy(d.status)

	d.servos = motion.NewPlanner(cfg.Servos.Ranges(), hw.Servos, cfg.Timing, log, r)
	d.servos.ApplyPersonality(cfg.Personality)
	d.fidget = motion.NewFidget(d.servos, r)
	d.fidget.OnMove = func(motion.AxisID) {
		d.status.Flash(status.ActivityServo, d.now)
	}

	d.audio = audio.NewScheduler(hw.Player, cfg.SoundPause, log, r)
	d.audio.OnPlay = func(int, int) {
		d.status.Flash(status.ActivityAudio, d.now)
	}
	if err := d.audio.SetVolume(cfg.Volume); err != nil {
		log.Warn("error setting volume:", err.Error())
	}

	return d, nil
}

// SetOutput sets where console prompts and monitor lines are written
func (d *Droid) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	d.out = w
}

// SetStore sets where Save and Load keep the configuration
func (d *Droid) SetStore(s config.Store) {
	d.store = s
}

// Start begins the boot sequence. It must be called once before Update
func (d *Droid) Start(now clock.Millis) {
	d.now = now
	d.started = now
	d.lastActivity = now
	d.lastStats = now
	d.log.Info("K-2SO starting")
	d.status.SetState(status.StateBoot, now)
	d.startBoot(now)
}

// Update runs one pass of the superloop
func (d *Droid) Update(now clock.Millis) {
	d.now = now

	if d.boot.running {
		d.bootStep(now)
	}

	if d.learner.Update(now) {
		d.mode = ModeNormal
		d.log.Warn("IR learning timed out")
		d.printf("Learning timed out\n")
	}

	if d.awake && clock.Due(now, d.lastActivity, d.cfg.AutoSleep) {
		d.Sleep(now)
	}

	d.eyes.Update(now)
	d.detail.Update(now)
	d.servos.Update(now)
	d.fidget.Update(now, d.awake && d.mode == ModeNormal)
	d.audio.Update(now, d.awake, d.personality)

	d.policy.Update(d.conditions(), now)
	d.status.Update(now)

	if d.mode == ModeMonitor && clock.Due(now, d.lastMonitor, MonitorInterval) {
		d.lastMonitor = now
		d.printMonitor(now)
	}

	if clock.Due(now, d.lastStats, StatsInterval) {
		d.lastStats = now
		d.log.Info("stats: uptime", d.uptime(now), "ir_commands", d.irCommands, "servo_movements", d.servos.Movements(), "sounds", d.audio.Plays())
	}
}

func (d *Droid) conditions() status.Conditions {
	return status.Conditions{
		AudioReady:    d.audio.Ready(),
		BootComplete:  d.boot.done,
		Learning:      d.mode == ModeLearning,
		Configuring:   d.mode == ModeMonitor || d.mode == ModeIRScanner,
		WiFiEnabled:   d.network != nil,
		WiFiConnected: d.network != nil && d.network.Connected(),
		Personality:   d.personality,
	}
}

// uptime is in whole seconds
func (d *Droid) uptime(now clock.Millis) uint32 {
	return uint32(clock.Elapsed(now, d.started) / 1000)
}

// Eyes exposes the eye engine
func (d *Droid) Eyes() *eyes.Engine {
	return d.eyes
}

// Detail exposes the detail strip engine
func (d *Droid) Detail() *detail.Engine {
	return d.detail
}

// StatusLED exposes the status pixel engine
func (d *Droid) StatusLED() *status.Engine {
	return d.status
}

// Servos exposes the motion planner
func (d *Droid) Servos() *motion.Planner {
	return d.servos
}

// Audio exposes the sound scheduler
func (d *Droid) Audio() *audio.Scheduler {
	return d.audio
}

func (d *Droid) Personality() k2so.Personality {
	return d.personality
}

// Awake is false while the droid sleeps or is still booting
func (d *Droid) Awake() bool {
	return d.awake
}

// BootComplete reports whether the boot sequence has finished
func (d *Droid) BootComplete() bool {
	return d.boot.done
}

// OperatingMode is the console mode
func (d *Droid) OperatingMode() OperatingMode {
	return d.mode
}
