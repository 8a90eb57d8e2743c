//go:build tinygo

package main

import (
	"machine"
	"math/rand"
	"runtime"
	"time"

	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/commands"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/droid"
	"github.com/calvinmclean/k2so/firmware/device"
	"github.com/calvinmclean/k2so/motion"
)

func main() {
	// give the USB console a moment to enumerate so boot lines are not lost
	time.Sleep(2 * time.Second)

	clk := clock.NewMonotonic(0)
	log := device.NewLogger(clk, true)

	cfg := device.Config{
		LeftEye:  device.StripConfig{Pin: machine.GP2, Pixels: 13},
		RightEye: device.StripConfig{Pin: machine.GP3, Pixels: 13},
		Detail:   device.StripConfig{Pin: machine.GP4, Pixels: 8},
		Status:   device.StripConfig{Pin: machine.GP5, Pixels: 1},
		Servos: [motion.NumAxes]device.ServoConfig{
			motion.EyePan:   {PWM: machine.PWM5, Pin: machine.GP10},
			motion.EyeTilt:  {PWM: machine.PWM5, Pin: machine.GP11},
			motion.HeadPan:  {PWM: machine.PWM6, Pin: machine.GP12},
			motion.HeadTilt: {PWM: machine.PWM6, Pin: machine.GP13},
		},
		IR: machine.GP15,
		Player: device.PlayerConfig{
			UART: machine.UART1,
			TX:   machine.GP8,
			RX:   machine.GP9,
			Busy: machine.GP14,
		},
	}

	dev, err := device.New(cfg, log)
	if err != nil {
		panic(err)
	}

	store := &config.MemoryStore{}
	settings, err := store.Load()
	if err != nil {
		log.Warn("error loading config:", err.Error())
	}

	k, err := droid.New(settings, dev.Hardware(), log, rand.New(rand.NewSource(seed())))
	if err != nil {
		panic(err)
	}
	k.SetOutput(machine.Serial)
	k.SetStore(store)

	console := commands.New(k, machine.Serial)
	k.Start(clk.Now())

	for {
		now := clk.Now()

		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			console.Feed(b, now)
		}

		for code, ok := dev.NextIR(); ok; code, ok = dev.NextIR() {
			k.HandleIR(code, now)
		}

		k.Update(now)
		runtime.Gosched()
	}
}

func seed() int64 {
	n, err := machine.GetRNG()
	if err != nil {
		return time.Now().UnixNano()
	}
	return int64(n)
}
