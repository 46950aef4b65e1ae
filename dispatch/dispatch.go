// Package dispatch routes decoded ASC frames to handlers by command class
// and replies with an error frame when no handler is registered for a
// class, per spec.md §3.2 and §4.5.
package dispatch

import (
	"github.com/daedaluz/ascom/ascerr"
	"github.com/daedaluz/ascom/frame"
	"github.com/daedaluz/ascom/hexcodec"
	"github.com/daedaluz/ascom/ring"
	"github.com/sirupsen/logrus"
)

// Class groups cmd characters that share a handler.
type Class int

const (
	ClassRW Class = iota
	ClassS
	ClassNF
	ClassE
	ClassOther
)

// ClassOf classifies cmd per spec.md §3.2.
func ClassOf(cmd byte) Class {
	switch cmd {
	case 'r', 'w':
		return ClassRW
	case 's':
		return ClassS
	case 'n', 'f':
		return ClassNF
	case 'e':
		return ClassE
	default:
		return ClassOther
	}
}

// Handler processes one decoded frame of the class it's registered for. It
// may push reply frames into out. State is an opaque value the handler
// owns (a *register.Table, a *stream.Control, ...); Dispatcher never
// inspects it.
type Handler func(out *ring.Buffer, msg frame.Message, state interface{})

// entry pairs a handler with its opaque state.
type entry struct {
	handler Handler
	state   interface{}
}

// Dispatcher routes frames decoded from in to per-class handlers and
// writes replies to out.
type Dispatcher struct {
	In, Out *ring.Buffer
	Log     *logrus.Logger

	handlers [ClassOther + 1]entry
}

// New returns a Dispatcher over the given input/output rings. If log is
// nil, a discard logger is used.
func New(in, out *ring.Buffer, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.New()
		log.SetOutput(discard{})
	}
	return &Dispatcher{In: in, Out: out, Log: log}
}

// Bind registers handler and its opaque state for class. Passing a nil
// handler removes any existing binding.
func (d *Dispatcher) Bind(class Class, handler Handler, state interface{}) {
	d.handlers[class] = entry{handler: handler, state: state}
}

// Receive decodes at most one frame from In and dispatches it. It returns
// false when In held no complete frame (nothing to do this call).
// Decode-time errors are caught here and logged rather than propagating;
// the codec has already resynchronized, so Receive returns true. No error
// frame is sent for a decode error: only a missing handler or a handler
// error produces one.
func (d *Dispatcher) Receive() bool {
	var msg frame.Message
	var gotFrame bool
	code, threw := ascerr.Scope(func() {
		msg, gotFrame = frame.DecodeFrom(d.In)
	})
	if threw {
		d.Log.WithField("code", code).Debug("dispatch: frame decode error, resynchronizing")
		return true
	}
	if !gotFrame {
		return false
	}

	class := ClassOf(msg.Cmd)
	e := d.handlers[class]
	if e.handler == nil {
		d.ReplyError(msg.Ver, msg.App, ascerr.CommandNotImplemented, msg.Cmd, msg.Data)
		return true
	}

	hcode, hthrew := ascerr.Scope(func() {
		e.handler(d.Out, msg, e.state)
	})
	if hthrew {
		d.Log.WithField("code", hcode).Warn("dispatch: handler error")
		d.ReplyError(msg.Ver, msg.App, hcode, msg.Cmd, msg.Data)
	}
	return true
}

// ReplyError pushes an 'e' class error frame, preserving ver/app from the
// request, carrying code as 2 hex chars, the original cmd, and up to 9
// bytes of the original data (12 bytes of payload total), per spec.md §7.2.
// Encode-time failure here is swallowed (logged), per spec.md §7.2's note
// that a corrupted reply wouldn't be believed by the peer anyway.
func (d *Dispatcher) ReplyError(ver, app byte, code ascerr.Code, cmd byte, data []byte) {
	const maxLen = 12
	out := make([]byte, 0, maxLen)
	var codeHex [2]byte
	hexcodec.EncodeUint8(uint8(code), codeHex[:], true)
	out = append(out, codeHex[:]...)
	out = append(out, cmd)
	room := maxLen - len(out)
	if room > len(data) {
		room = len(data)
	}
	out = append(out, data[:room]...)

	_, threw := ascerr.Scope(func() {
		frame.EncodeInto(d.Out, ver, app, 'e', out)
	})
	if threw {
		d.Log.Warn("dispatch: failed to encode error reply, dropping")
	}
}

// Reply pushes a non-error reply frame, preserving ver/app by convention.
func (d *Dispatcher) Reply(ver, app, cmd byte, data []byte) {
	frame.EncodeInto(d.Out, ver, app, cmd, data)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
