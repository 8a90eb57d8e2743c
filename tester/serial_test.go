package main_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/controller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// These tests talk to a droid on the port named by K2SO_PORT and are skipped without one

func portOrSkip(t *testing.T) string {
	t.Helper()
	port := os.Getenv(controller.EnvPort)
	if port == "" || port == controller.SerialPortNone {
		t.Skipf("%s is not set", controller.EnvPort)
	}
	return port
}

func sendSerial(t *testing.T, port, in string) string {
	t.Helper()
	p, err := serial.Open(port, &serial.Mode{BaudRate: controller.DefaultBaudRate})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Write([]byte(in))
	require.NoError(t, err)

	require.NoError(t, p.SetReadTimeout(100*time.Millisecond))

	var out strings.Builder
	buf := make([]byte, 256)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := p.Read(buf)
		require.NoError(t, err)
		out.Write(buf[:n])

		s := strings.ReplaceAll(out.String(), "\r", "")
		if strings.HasSuffix(s, "OK\n") || strings.Contains(s, "ERR ") && strings.HasSuffix(s, "\n") {
			break
		}
	}
	return strings.Trim(strings.ReplaceAll(out.String(), "\r", ""), "\x00")
}

func TestSerial(t *testing.T) {
	port := portOrSkip(t)

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			"SetMode",
			"mode alert\n",
			"mode: alert\nOK\n",
		},
		{
			"UnknownCommand",
			"dance\n",
			"ERR unknown command: \"dance\", type 'help'\n",
		},
		{
			"ResetMode",
			"mode scanning\n",
			"mode: scanning\nOK\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := sendSerial(t, port, tt.in)
			assert.True(t, strings.HasSuffix(out, tt.expected), "expected suffix %q, got %q", tt.expected, out)
		})
	}
}

func TestController(t *testing.T) {
	port := portOrSkip(t)

	c, err := controller.New(controller.Config{SerialPort: port}, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = c.Send(ctx, "mode idle")
	require.NoError(t, err)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, k2so.PersonalityIdle, status.Personality)
	assert.True(t, status.BootComplete)

	_, err = c.Send(ctx, "mode scanning")
	require.NoError(t, err)
}
