package ioadapt

import (
	"context"
	"sync"

	"github.com/daedaluz/ascom/ring"
	"golang.org/x/sync/errgroup"
)

// DropPolicy decides what ISRSim does when its reception ring is full and
// another byte arrives (spec.md §9, open question: overflow behavior).
type DropPolicy int

const (
	// DropNewest discards the incoming byte, keeping everything already
	// queued. This is the conservative default: a caller that later
	// drains faster than it receives sees no corruption of buffered
	// frames, only a gap where bytes were lost.
	DropNewest DropPolicy = iota
	// DropOldest evicts the oldest queued byte to make room, favoring
	// the newest data over buffered-but-stale data.
	DropOldest
)

// ISRSim models the embedded side's interrupt-driven reception: a real ISR
// fills a small ring one byte at a time and the main loop drains it one
// byte per iteration, the two synchronized by a single-byte critical
// section (spec.md §5). Go has no interrupt context, so the "ISR" here is
// whatever goroutine calls OnByteReceived — typically one reading a serial
// fd in a loop — and the mutex stands in for disabling interrupts around
// the ring access.
type ISRSim struct {
	Extra  *ring.Buffer // the interrupt-fed ring; small by design
	In     *ring.Buffer // the frame codec's input ring
	Out    *ring.Buffer
	Policy DropPolicy

	// CanSend reports whether the transport is currently able to accept a
	// byte (e.g. UART TX not busy). A nil CanSend means always.
	CanSend func() bool
	// WriteByte hands one byte to the transport.
	WriteByte func(b byte) error

	// mu stands in for disabling interrupts around the one-byte
	// critical section.
	mu sync.Mutex
}

// OnByteReceived simulates the ISR: it takes the critical section and
// pushes one byte into Extra, applying Policy if Extra is already full.
func (s *ISRSim) OnByteReceived(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Extra.IsFull() {
		switch s.Policy {
		case DropOldest:
			_, _ = s.Extra.PopFront()
		default: // DropNewest
			return
		}
	}
	s.Extra.PushBack(b)
}

// PumpOneByte performs the main loop's half of the critical section:
// transfer a single byte from Extra to In, if one is waiting. Call once per
// main-loop iteration, per spec.md §5's one-byte-at-a-time contract.
func (s *ISRSim) PumpOneByte() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.Extra.PopFront()
	if err != nil {
		return false
	}
	s.In.PushBack(b)
	return true
}

// PumpOutput hands at most one queued output byte to the transport, if the
// transport can currently accept one. It returns false when there was
// nothing to send or the transport reported it can't send right now.
func (s *ISRSim) PumpOutput() bool {
	if s.Out.IsEmpty() {
		return false
	}
	if s.CanSend != nil && !s.CanSend() {
		return false
	}
	b, err := s.Out.PopFront()
	if err != nil {
		return false
	}
	if s.WriteByte != nil {
		_ = s.WriteByte(b)
	}
	return true
}

// Run joins a feeder goroutine (simulating the ISR, consuming bytes off
// feed) with a main-loop goroutine (consuming ticks off tick, each tick
// pumping one byte in, running body, then pumping one byte out) using
// errgroup so either side's error or the context's cancellation stops
// both. feed and tick should both be closed by the caller to end Run
// cleanly; closing either returns nil from that goroutine.
func (s *ISRSim) Run(ctx context.Context, feed <-chan byte, tick <-chan struct{}, body func() error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case b, ok := <-feed:
				if !ok {
					return nil
				}
				s.OnByteReceived(b)
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-tick:
				if !ok {
					return nil
				}
				s.PumpOneByte()
				if body != nil {
					if err := body(); err != nil {
						return err
					}
				}
				s.PumpOutput()
			}
		}
	})
	return g.Wait()
}
