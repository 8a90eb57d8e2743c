package controller

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.bug.st/serial/enumerator"
)

const (
	DefaultBaudRate = 115200

	// SerialPortNone runs the host tools against an in-process droid
	SerialPortNone = "None"

	EnvPort     = "K2SO_PORT"
	EnvBaudRate = "K2SO_BAUD"
)

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// Config is how the host reaches the droid. The desktop panel keeps it in its preferences
type Config struct {
	SerialPort string
	BaudRate   string
	PanelAddr  string
}

// ConfigFromEnv reads K2SO_PORT and K2SO_BAUD
func ConfigFromEnv() Config {
	cfg := Config{
		SerialPort: os.Getenv(EnvPort),
		BaudRate:   os.Getenv(EnvBaudRate),
	}
	if cfg.BaudRate == "" {
		cfg.BaudRate = strconv.Itoa(DefaultBaudRate)
	}
	return cfg
}

// Baud parses BaudRate, falling back to DefaultBaudRate when it is empty
func (c Config) Baud() (int, error) {
	if c.BaudRate == "" {
		return DefaultBaudRate, nil
	}
	b, err := strconv.Atoi(c.BaudRate)
	if err != nil || b <= 0 {
		return 0, fmt.Errorf("invalid baud rate %q", c.BaudRate)
	}
	return b, nil
}

// GetSerialPorts lists USB serial devices, which is where the Pico enumerates
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p.Name)
		}
	}
	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}
