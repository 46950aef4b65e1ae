package device

import (
	"testing"

	"github.com/daedaluz/ascom/frame"
	"github.com/daedaluz/ascom/register"
	"github.com/stretchr/testify/require"
)

func TestEndpointRegisterReadWriteRoundtrip(t *testing.T) {
	ep := NewEndpoint(256, '0', '0', nil)
	cells := make([]uint32, 4)
	entries := make([]register.Entry, len(cells))
	for i := range cells {
		entries[i] = register.Entry{Cell: &cells[i], WriteMask: 0xFF}
	}
	ep.BindRegisters(register.NewTable(register.Width8, entries))

	frame.EncodeInto(ep.In, '0', '0', 'w', []byte("0002,7A"))
	ep.Step(0)
	reply, ok := frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, byte('w'), reply.Cmd)
	require.Equal(t, uint32(0x7A), cells[2])

	frame.EncodeInto(ep.In, '0', '0', 'r', []byte("0002"))
	ep.Step(0)
	reply, ok = frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, []byte("0002,7A"), reply.Data)
}

func TestEndpointUnboundClassRepliesError(t *testing.T) {
	ep := NewEndpoint(256, '0', '0', nil)
	frame.EncodeInto(ep.In, '0', '0', 's', nil)
	ep.Step(0)
	reply, ok := frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, byte('e'), reply.Cmd)
}

func TestLoopbackDeviceStreamsAfterEnable(t *testing.T) {
	ep := NewLoopbackDevice('0', '0', 10, nil)

	frame.EncodeInto(ep.In, '0', '0', 'n', nil)
	ep.Step(0) // enables streaming and arms the interval timer at now=0
	ack, ok := frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, byte('n'), ack.Cmd)

	ep.Step(10) // interval expires, should produce a sample
	sample, ok := frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, byte('s'), sample.Cmd)
	require.Len(t, sample.Data, 8)
}

func TestLoopbackDeviceRegistersAreWritable(t *testing.T) {
	ep := NewLoopbackDevice('0', '0', 10, nil)
	frame.EncodeInto(ep.In, '0', '0', 'w', []byte("0000,DEADBEEF"))
	ep.Step(0)
	reply, ok := frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, byte('w'), reply.Cmd)

	frame.EncodeInto(ep.In, '0', '0', 'r', []byte("0000"))
	ep.Step(0)
	reply, ok = frame.DecodeFrom(ep.Out)
	require.True(t, ok)
	require.Equal(t, []byte("0000,DEADBEEF"), reply.Data)
}
