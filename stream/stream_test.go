package stream

import (
	"testing"

	"github.com/daedaluz/ascom/frame"
	"github.com/daedaluz/ascom/ring"
	"github.com/stretchr/testify/require"
)

func newOut() *ring.Buffer { return ring.New(make([]byte, frame.MaxMessageLen*2)) }

func TestHandleTogglesOnOff(t *testing.T) {
	ctl := NewControl(100, 's')
	out := newOut()
	Handle(out, frame.Message{Ver: '0', App: '0', Cmd: 'n'}, ctl)
	require.True(t, ctl.On)
	reply, ok := frame.DecodeFrom(out)
	require.True(t, ok)
	require.Equal(t, byte('n'), reply.Cmd)

	Handle(out, frame.Message{Ver: '0', App: '0', Cmd: 'f'}, ctl)
	require.False(t, ctl.On)
}

func TestTickOffDoesNothing(t *testing.T) {
	ctl := NewControl(10, 's')
	out := newOut()
	Tick(ctl, out, 1000, '0', '0', func() ([]byte, bool) { return []byte("x"), true })
	require.True(t, out.IsEmpty())
}

func TestTickEmitsOnSchedule(t *testing.T) {
	ctl := NewControl(10, 's')
	ctl.On = true
	out := newOut()

	Tick(ctl, out, 0, '0', '0', func() ([]byte, bool) { return []byte("z"), true }) // arms timer
	require.True(t, out.IsEmpty())

	Tick(ctl, out, 9, '0', '0', func() ([]byte, bool) { return []byte("z"), true }) // not yet
	require.True(t, out.IsEmpty())

	Tick(ctl, out, 10, '0', '0', func() ([]byte, bool) { return []byte("z"), true })
	msg, ok := frame.DecodeFrom(out)
	require.True(t, ok)
	require.Equal(t, byte('s'), msg.Cmd)
	require.Equal(t, []byte("z"), msg.Data)
}

func TestTickSkipsWhenOutBusy(t *testing.T) {
	ctl := NewControl(10, 's')
	ctl.On = true
	out := newOut()
	Tick(ctl, out, 0, '0', '0', func() ([]byte, bool) { return nil, false })
	frame.EncodeInto(out, '0', '0', 'r', []byte("held")) // simulate a pending reply
	sizeBefore := out.Size()

	Tick(ctl, out, 10, '0', '0', func() ([]byte, bool) { return []byte("z"), true })
	require.Equal(t, sizeBefore, out.Size()) // skipped: backpressure
}
