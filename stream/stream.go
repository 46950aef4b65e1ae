// Package stream implements the nf/s streaming glue (spec.md §4.9): an
// on/off flag toggled by 'n'/'f' requests, and a periodic producer that
// emits 's' frames only when out_buf is empty, providing implicit
// backpressure against a slow transport.
package stream

import (
	"github.com/daedaluz/ascom/frame"
	"github.com/daedaluz/ascom/ring"
	"github.com/daedaluz/ascom/timer"
)

// Producer returns the next payload to stream, or ok=false to skip this
// tick (e.g. no new sample yet).
type Producer func() (payload []byte, ok bool)

// Control holds the on/off state and period for one streaming source. Its
// zero value is off.
type Control struct {
	On       bool
	Period   timer.Unit
	Interval timer.Timer
	Cmd      byte // wire command used for produced frames, typically 's'
}

// NewControl returns a Control that streams every period ms once enabled,
// emitting frames with command cmd (conventionally 's').
func NewControl(period timer.Unit, cmd byte) *Control {
	return &Control{Period: period, Cmd: cmd}
}

// Handle implements the nf-class handler contract (spec.md §4.9): cmd 'n'
// turns streaming on, 'f' turns it off. Either replies by echoing the
// request, confirming the new state.
func Handle(out *ring.Buffer, msg frame.Message, state interface{}) {
	ctl, ok := state.(*Control)
	if !ok || ctl == nil {
		return
	}
	switch msg.Cmd {
	case 'n':
		ctl.On = true
	case 'f':
		ctl.On = false
	}
	frame.EncodeInto(out, msg.Ver, msg.App, msg.Cmd, nil)
}

// Tick should be called once per main-loop iteration, after receive
// processing and before transmit draining (spec.md §5's ordering
// contract). If streaming is on, the control's timer has expired, and out
// is currently empty, it asks produce for a payload and, if produce
// supplies one, encodes and enqueues an 's' frame. A non-empty out_buf
// means the transport hasn't drained the last frame yet: Tick skips this
// period rather than queueing more, which is the mechanism's only
// backpressure.
func Tick(ctl *Control, out *ring.Buffer, now timer.Unit, ver, app byte, produce Producer) {
	if !ctl.On {
		return
	}
	if !ctl.Interval.Enabled {
		timer.SetRel(&ctl.Interval, now, ctl.Period)
		return
	}
	if !timer.IsExpiredRepeat(&ctl.Interval, now) {
		return
	}
	if !out.IsEmpty() {
		return
	}
	payload, ok := produce()
	if !ok {
		return
	}
	frame.EncodeInto(out, ver, app, ctl.Cmd, payload)
}
