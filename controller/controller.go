// Package controller talks to a droid console over a serial link. Each request is one line and
// each reply runs until the line that starts with OK or ERR. Anything the droid prints between
// requests, like log lines or the monitor table, goes to the unsolicited writer.
package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/k2so/commands"
	"github.com/calvinmclean/k2so/droid"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a request whose context has no deadline
const DefaultTimeout = 3 * time.Second

var (
	ErrCommand = errors.New("command failed")
	ErrClosed  = errors.New("connection closed")
)

// Controller owns one console connection
type Controller struct {
	conn io.ReadWriteCloser
	log  *zap.SugaredLogger

	sendMtx sync.Mutex

	mtx     sync.Mutex
	pending *replyBuffer
	out     io.Writer

	done chan struct{}
	err  error
}

// New opens the serial port named in cfg
func New(cfg Config, log *zap.SugaredLogger) (*Controller, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.SerialPort == "" || cfg.SerialPort == SerialPortNone {
		return nil, fmt.Errorf("no serial port configured, set %s", EnvPort)
	}
	baud, err := cfg.Baud()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
	}
	log.Infow("connected", "port", cfg.SerialPort, "baud", baud)

	return NewConn(port, log), nil
}

// NewFromEnv opens the port named by K2SO_PORT
func NewFromEnv(log *zap.SugaredLogger) (*Controller, error) {
	return New(ConfigFromEnv(), log)
}

// NewConn wraps an already open connection
func NewConn(conn io.ReadWriteCloser, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Controller{
		conn: conn,
		log:  log,
		out:  io.Discard,
		done: make(chan struct{}),
	}
	go c.read()
	return c
}

// SetUnsolicited sets where lines outside of a reply are written
func (c *Controller) SetUnsolicited(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	c.mtx.Lock()
	c.out = w
	c.mtx.Unlock()
}

func (c *Controller) read() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\x00")

		c.mtx.Lock()
		if c.pending != nil {
			c.pending.push(line)
		} else {
			fmt.Fprintln(c.out, line)
		}
		c.mtx.Unlock()
	}
	c.err = scanner.Err()
}

// Send runs one console line and returns the reply without its terminator. A reply ending in
// ERR is returned as an error wrapping ErrCommand
func (c *Controller) Send(ctx context.Context, line string) ([]string, error) {
	if strings.ContainsAny(line, "\r\n") {
		return nil, fmt.Errorf("%w: line must not contain newlines", ErrCommand)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	c.sendMtx.Lock()
	defer c.sendMtx.Unlock()

	pending := newReplyBuffer()
	c.mtx.Lock()
	c.pending = pending
	c.mtx.Unlock()
	defer func() {
		c.mtx.Lock()
		c.pending = nil
		for _, l := range pending.take() {
			fmt.Fprintln(c.out, l)
		}
		c.mtx.Unlock()
	}()

	c.log.Debugw("send", "line", line)
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return nil, fmt.Errorf("error writing command: %w", err)
	}

	var reply, queued []string
	closed := false
	for {
		if len(queued) == 0 {
			if closed {
				if c.err != nil {
					return reply, fmt.Errorf("%w: %w", ErrClosed, c.err)
				}
				return reply, ErrClosed
			}

			select {
			case <-ctx.Done():
				return reply, fmt.Errorf("error waiting for reply to %q: %w", line, ctx.Err())
			case <-c.done:
				closed = true
			case <-pending.ready:
			}
			queued = pending.take()
			continue
		}

		l := queued[0]
		queued = queued[1:]
		switch {
		case l == commands.ResponseOK:
			pending.unread(queued)
			return reply, nil
		case strings.HasPrefix(l, commands.ResponseError+" "):
			pending.unread(queued)
			return reply, fmt.Errorf("%w: %s", ErrCommand, strings.TrimPrefix(l, commands.ResponseError+" "))
		}
		reply = append(reply, l)
	}
}

// replyBuffer collects reply lines for one Send. push never blocks so the reader keeps draining
// the connection while the request is still being written
type replyBuffer struct {
	mtx   sync.Mutex
	lines []string
	ready chan struct{}
}

func newReplyBuffer() *replyBuffer {
	return &replyBuffer{ready: make(chan struct{}, 1)}
}

func (b *replyBuffer) push(line string) {
	b.mtx.Lock()
	b.lines = append(b.lines, line)
	b.mtx.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *replyBuffer) take() []string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	lines := b.lines
	b.lines = nil
	return lines
}

// unread puts lines that followed the terminator back in front
func (b *replyBuffer) unread(lines []string) {
	if len(lines) == 0 {
		return
	}
	b.mtx.Lock()
	b.lines = append(lines, b.lines...)
	b.mtx.Unlock()
}

// Status fetches and parses the status report
func (c *Controller) Status(ctx context.Context) (droid.Status, error) {
	lines, err := c.Send(ctx, "status")
	if err != nil {
		return droid.Status{}, err
	}
	return droid.ParseStatus(lines)
}

// Run relays lines from in to the droid and prints every reply to out until in is exhausted or
// ctx is cancelled
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.SetUnsolicited(out)
	defer c.SetUnsolicited(nil)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return ErrClosed
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			reply, err := c.Send(ctx, line)
			for _, l := range reply {
				fmt.Fprintln(out, l)
			}
			switch {
			case errors.Is(err, ErrCommand):
				fmt.Fprintln(out, err.Error())
			case err != nil:
				return err
			}
		}
	}
}

// Close closes the connection, which also stops the reader
func (c *Controller) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}
