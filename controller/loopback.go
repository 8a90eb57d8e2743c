package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/commands"
	"github.com/calvinmclean/k2so/droid"
)

// LoopbackPeriod is how often Run updates the droid
const LoopbackPeriod = 5 * time.Millisecond

// Loopback is a console connection to a droid running in this process. It stands in for the
// serial port when no hardware is attached
type Loopback struct {
	mtx     sync.Mutex
	droid   *droid.Droid
	console *commands.Interpreter
	clock   clock.Source

	r *io.PipeReader
	w *io.PipeWriter
}

var _ io.ReadWriteCloser = &Loopback{}

// NewLoopback redirects the droid output into the connection. Start the droid before Run
func NewLoopback(d *droid.Droid, clk clock.Source) *Loopback {
	r, w := io.Pipe()
	d.SetOutput(w)
	return &Loopback{
		droid:   d,
		console: commands.New(d, w),
		clock:   clk,
		r:       r,
		w:       w,
	}
}

// Write feeds console bytes to the droid
func (l *Loopback) Write(p []byte) (int, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.clock.Now()
	for _, b := range p {
		l.console.Feed(b, now)
	}
	return len(p), nil
}

func (l *Loopback) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

func (l *Loopback) Close() error {
	return l.w.Close()
}

// Do runs fn with exclusive access to the droid
func (l *Loopback) Do(fn func(d *droid.Droid, now clock.Millis)) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	fn(l.droid, l.clock.Now())
}

// Update runs one pass of the superloop
func (l *Loopback) Update() {
	l.Do(func(d *droid.Droid, now clock.Millis) {
		d.Update(now)
	})
}

// Run updates the droid until ctx is cancelled
func (l *Loopback) Run(ctx context.Context) {
	ticker := time.NewTicker(LoopbackPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Update()
		}
	}
}
