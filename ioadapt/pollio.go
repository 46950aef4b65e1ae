// Package ioadapt implements BufferedIO (spec.md §4.10, §5): the scoped
// producer/consumer that moves bytes between a ring.Buffer pair and a byte
// transport. PollIO is the host-side, poll()-driven adapter; ISRSim is the
// embedded-side adapter, simulating an interrupt-fed reception ring.
package ioadapt

import (
	"time"

	"github.com/daedaluz/ascom/ring"
	"github.com/sirupsen/logrus"
)

// Transport is what PollIO needs from a byte transport (spec.md §6.2).
// *serial.Port (the teacher's termios/ioctl port, itself built on
// daedaluz/fdev/poll for readiness) satisfies this directly, as does any
// *os.File via a small wrapper (cmd/ascom-loopback's fileTransport is one).
type Transport interface {
	ReadTimeout(dst []byte, timeout time.Duration) (int, error)
	Write(src []byte) (int, error)
}

// PollIO binds one in/out ring.Buffer pair to one Transport and drains/
// fills them one main-loop iteration at a time, mirroring
// circular_buffer_io_fd_poll's do_output-then-do_input ordering.
type PollIO struct {
	In, Out   *ring.Buffer
	Transport Transport
	Log       *logrus.Logger
}

// NewPollIO returns a PollIO. A nil log gets a discard logger.
func NewPollIO(in, out *ring.Buffer, t Transport, log *logrus.Logger) *PollIO {
	if log == nil {
		log = logrus.New()
		log.Out = discardWriter{}
	}
	return &PollIO{In: in, Out: out, Transport: t, Log: log}
}

// Iteration writes Out's first contiguous block (all of Out unless its
// contents wrap around the backing array) to the transport, then waits up to
// timeout for input and appends whatever arrives to In. It returns any
// transport error unchanged (the caller terminates its loop on error, per
// spec.md §4.10's HUP/ERR handling — but only once both rings are already
// drained, so the tail of a conversation isn't lost; callers should keep
// iterating while In or Out still holds bytes even after an error).
func (p *PollIO) Iteration(timeout time.Duration) error {
	if !p.Out.IsEmpty() {
		n, err := p.Out.PopFrontToWriter(p.Transport.Write)
		if err != nil {
			p.Log.WithError(err).Warn("ioadapt: write failed")
			return err
		}
		p.Log.WithField("n", n).Trace("ioadapt: drained output")
	}
	n, err := p.In.PushBackFromReader(func(dst []byte) (int, error) {
		return p.Transport.ReadTimeout(dst, timeout)
	})
	if err != nil {
		p.Log.WithError(err).Warn("ioadapt: read failed")
		return err
	}
	if n > 0 {
		p.Log.WithField("n", n).Trace("ioadapt: received input")
	}
	return nil
}

// Run calls Iteration in a loop with the given per-call timeout. It returns
// nil once done is closed (checked before each iteration), and returns
// Iteration's error when an iteration fails while In and Out are both
// empty. An error while either ring still holds bytes does not stop the
// loop.
func (p *PollIO) Run(timeout time.Duration, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		default:
		}
		err := p.Iteration(timeout)
		if err != nil {
			if p.In.IsEmpty() && p.Out.IsEmpty() {
				return err
			}
			// Keep draining the tail of the conversation even after an
			// error, per spec.md §4.10.
		}
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
