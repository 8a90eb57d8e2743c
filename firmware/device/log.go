//go:build tinygo

package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinmclean/k2so/clock"
)

// Logger prints to the USB console. Info lines only show when verbose
type Logger struct {
	clock   clock.Source
	verbose bool
}

func NewLogger(c clock.Source, verbose bool) *Logger {
	return &Logger{clock: c, verbose: verbose}
}

func (l *Logger) Info(args ...any) {
	if !l.verbose {
		return
	}
	println(l.ts(), sprint(args))
}

func (l *Logger) Warn(args ...any) {
	println(l.ts(), "WARN", sprint(args))
}

// SetVerbose toggles Info output
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

func (l *Logger) ts() string {
	return "[" + strconv.FormatUint(uint64(l.clock.Now()), 10) + "ms]"
}

func sprint(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
