//go:build tinygo

package device

import (
	"machine"
	"sync/atomic"

	"tinygo.org/x/drivers/irremote"
)

// RepeatCode is what the droid treats as a held button
const RepeatCode = 0xFFFFFFFF

// IR buffers decoded NEC codes from the receiver interrupt until the superloop collects them.
// The interrupt is the only writer of head and the loop the only writer of tail
type IR struct {
	rx    irremote.ReceiverDevice
	codes [8]uint32
	head  atomic.Uint32
	tail  atomic.Uint32
}

func NewIR(pin machine.Pin) *IR {
	ir := &IR{rx: irremote.NewReceiver(pin)}
	ir.rx.Configure()
	ir.rx.SetCommandHandler(ir.handle)
	return ir
}

func (ir *IR) handle(data irremote.Data) {
	code := data.Code
	if data.Flags&irremote.DataFlagIsRepeat != 0 {
		code = RepeatCode
	}

	head := ir.head.Load()
	next := (head + 1) % uint32(len(ir.codes))
	if next == ir.tail.Load() {
		// full
		return
	}
	ir.codes[head] = code
	ir.head.Store(next)
}

// Next pops the oldest code
func (ir *IR) Next() (uint32, bool) {
	tail := ir.tail.Load()
	if tail == ir.head.Load() {
		return 0, false
	}
	code := ir.codes[tail]
	ir.tail.Store((tail + 1) % uint32(len(ir.codes)))
	return code, true
}
