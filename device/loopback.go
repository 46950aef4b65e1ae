package device

import (
	"github.com/daedaluz/ascom/hexcodec"
	"github.com/daedaluz/ascom/register"
	"github.com/daedaluz/ascom/stream"
	"github.com/sirupsen/logrus"
)

// LoopbackRingCap sizes the loopback device's in/out buffers generously
// above a single max-length frame, matching the dummy loopback device's
// role as a conformance target rather than a memory-constrained one.
const LoopbackRingCap = 256

// NewLoopbackDevice builds the Go counterpart of
// ascii_serial_com_dummy_loopback_device.c: a fully-wired Endpoint holding
// a 16-register, 32-bit-wide table (rw-class) and a free-running counter
// streamed on an 's' frame every periodMs milliseconds once enabled via
// 'n'/'f'. It exists to exercise every wire operation end to end, and as
// the simulated peer behind cmd/ascom-loopback's default (non -l) mode.
func NewLoopbackDevice(ver, app byte, periodMs uint32, log *logrus.Logger) *Endpoint {
	ep := NewEndpoint(LoopbackRingCap, ver, app, log)

	cells := make([]uint32, 16)
	entries := make([]register.Entry, len(cells))
	for i := range cells {
		entries[i] = register.Entry{Cell: &cells[i], WriteMask: 0xFFFFFFFF}
	}
	table := register.NewTable(register.Width32, entries)
	ep.BindRegisters(table)

	counter := uint32(0)
	ctl := stream.NewControl(periodMs, 's')
	ep.BindStream(ctl, func() ([]byte, bool) {
		counter++
		payload := make([]byte, 8)
		hexcodec.EncodeUint32(counter, payload, true)
		return payload, true
	})

	return ep
}
