// Package device wires the frame codec, dispatcher, register table and
// streaming control together into one ProtocolEndpoint (spec.md §3.4): the
// unit that a transport-facing loop (ioadapt.PollIO or an ISRSim) drives
// one iteration at a time.
package device

import (
	"github.com/daedaluz/ascom/dispatch"
	"github.com/daedaluz/ascom/register"
	"github.com/daedaluz/ascom/ring"
	"github.com/daedaluz/ascom/stream"
	"github.com/daedaluz/ascom/timer"
	"github.com/sirupsen/logrus"
)

// Endpoint is one side of an ASCII-Serial-Com conversation: an in/out byte
// ring pair, a dispatcher bound to whatever command classes this endpoint
// answers, and zero or more streaming controls it drives on each tick.
type Endpoint struct {
	In, Out    *ring.Buffer
	Dispatcher *dispatch.Dispatcher
	Ver, App   byte

	streams []registeredStream
}

type registeredStream struct {
	ctl     *stream.Control
	produce stream.Producer
}

// NewEndpoint allocates an Endpoint with ring buffers of the given
// capacity and a dispatcher bound to them.
func NewEndpoint(ringCap int, ver, app byte, log *logrus.Logger) *Endpoint {
	in := ring.New(make([]byte, ringCap))
	out := ring.New(make([]byte, ringCap))
	return &Endpoint{
		In:         in,
		Out:        out,
		Dispatcher: dispatch.New(in, out, log),
		Ver:        ver,
		App:        app,
	}
}

// BindRegisters wires an rw-class handler backed by table.
func (e *Endpoint) BindRegisters(table *register.Table) {
	e.Dispatcher.Bind(dispatch.ClassRW, register.Handle, table)
}

// BindStream wires an nf/s-class streaming source: ctl tracks on/off state
// and period, produce supplies each tick's payload.
func (e *Endpoint) BindStream(ctl *stream.Control, produce stream.Producer) {
	e.Dispatcher.Bind(dispatch.ClassNF, stream.Handle, ctl)
	e.streams = append(e.streams, registeredStream{ctl: ctl, produce: produce})
}

// Step runs one main-loop iteration (spec.md §5's ordering contract):
// decode-and-dispatch everything currently buffered in In, then give every
// bound stream a chance to produce, in registration order.
func (e *Endpoint) Step(now timer.Unit) {
	for e.Dispatcher.Receive() {
	}
	for _, s := range e.streams {
		stream.Tick(s.ctl, e.Out, now, e.Ver, e.App, s.produce)
	}
}
