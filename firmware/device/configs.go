//go:build tinygo

package device

import (
	"machine"

	"github.com/calvinmclean/k2so/motion"

	"tinygo.org/x/drivers/servo"
)

// StripConfig is one WS2812 data line
type StripConfig struct {
	Pin    machine.Pin
	Pixels int
}

// ServoConfig has device-level values for setting up the Servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// PlayerConfig wires the DFPlayer Mini. Busy is the module's BUSY output, low while a clip plays.
// Tracks is the number of clips in each folder on the SD card since the player is never queried
type PlayerConfig struct {
	UART   *machine.UART
	TX     machine.Pin
	RX     machine.Pin
	Busy   machine.Pin
	Tracks map[int]int
}

// Config is every pin the head uses. A zero ServoConfig or PlayerConfig leaves that part out
type Config struct {
	LeftEye  StripConfig
	RightEye StripConfig
	Detail   StripConfig
	Status   StripConfig

	Servos [motion.NumAxes]ServoConfig
	IR     machine.Pin
	Player PlayerConfig

	Verbose bool
}
