//go:build tinygo

// Package device binds the droid to RP2040 hardware
package device

import (
	"errors"
	"image/color"
	"machine"

	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/led"
	"github.com/calvinmclean/k2so/motion"
	"github.com/calvinmclean/k2so/rgb"

	"tinygo.org/x/drivers/servo"
	"tinygo.org/x/drivers/ws2812"
)

// Device owns the pins. The droid package only sees the interfaces returned by Hardware
type Device struct {
	strips [4]*led.Buffer
	servos [motion.NumAxes]motion.Writer
	ir     *IR
	player *Player

	Log *Logger
}

// New configures every peripheral in cfg
func New(cfg Config, log *Logger) (*Device, error) {
	d := &Device{Log: log}

	for i, sc := range []StripConfig{cfg.LeftEye, cfg.RightEye, cfg.Detail, cfg.Status} {
		d.strips[i] = newStrip(sc)
	}

	for i, sc := range cfg.Servos {
		if sc == (ServoConfig{}) {
			continue
		}
		s, err := servo.New(sc.PWM, sc.Pin)
		if err != nil {
			return nil, errors.New("error creating servo " + motion.AxisID(i).String() + ": " + err.Error())
		}
		d.servos[i] = motion.WriterFunc(s.SetAngle)
	}

	if cfg.IR != machine.NoPin {
		d.ir = NewIR(cfg.IR)
	}

	if cfg.Player.UART != nil {
		p, err := NewPlayer(cfg.Player)
		if err != nil {
			// the droid keeps running without sound
			log.Warn("error creating player:", err.Error())
		} else {
			d.player = p
		}
	}

	return d, nil
}

// Hardware hands the peripherals to droid.New
func (d *Device) Hardware() droid.Hardware {
	hw := droid.Hardware{
		LeftEye:  d.strips[0],
		RightEye: d.strips[1],
		Detail:   d.strips[2],
		Status:   d.strips[3],
		Servos:   d.servos,
	}
	if d.player != nil {
		hw.Player = d.player
	}
	return hw
}

// NextIR returns the oldest undelivered remote code
func (d *Device) NextIR() (uint32, bool) {
	if d.ir == nil {
		return 0, false
	}
	return d.ir.Next()
}

func newStrip(cfg StripConfig) *led.Buffer {
	cfg.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ws := ws2812.New(cfg.Pin)
	frame := make([]color.RGBA, cfg.Pixels)

	return led.NewBuffer(cfg.Pixels, led.WriterFunc(func(colors []rgb.Color) error {
		for i, c := range colors {
			frame[i] = c.RGBA()
		}
		return ws.WriteColors(frame)
	}))
}
