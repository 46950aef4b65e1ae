package ioadapt

import (
	"context"
	"testing"
	"time"

	"github.com/daedaluz/ascom/ring"
	"github.com/stretchr/testify/require"
)

func newSim(cap int, policy DropPolicy) *ISRSim {
	return &ISRSim{
		Extra:  ring.New(make([]byte, cap)),
		In:     ring.New(make([]byte, 64)),
		Out:    ring.New(make([]byte, 64)),
		Policy: policy,
	}
}

func TestOnByteReceivedDropsNewestWhenFull(t *testing.T) {
	sim := newSim(2, DropNewest)
	sim.OnByteReceived('a')
	sim.OnByteReceived('b')
	sim.OnByteReceived('c') // dropped
	require.Equal(t, []byte("ab"), sim.Extra.Bytes())
}

func TestOnByteReceivedDropsOldestWhenFull(t *testing.T) {
	sim := newSim(2, DropOldest)
	sim.OnByteReceived('a')
	sim.OnByteReceived('b')
	sim.OnByteReceived('c') // evicts 'a'
	require.Equal(t, []byte("bc"), sim.Extra.Bytes())
}

func TestPumpOneByteTransfersInOrder(t *testing.T) {
	sim := newSim(4, DropNewest)
	sim.OnByteReceived('x')
	sim.OnByteReceived('y')
	require.True(t, sim.PumpOneByte())
	require.True(t, sim.PumpOneByte())
	require.False(t, sim.PumpOneByte())
	require.Equal(t, []byte("xy"), sim.In.Bytes())
}

func TestPumpOutputRespectsCanSend(t *testing.T) {
	sim := newSim(4, DropNewest)
	sim.Out.PushBackBlock([]byte("z"))
	sim.CanSend = func() bool { return false }
	require.False(t, sim.PumpOutput())
	require.False(t, sim.Out.IsEmpty())

	var sent byte
	sim.CanSend = func() bool { return true }
	sim.WriteByte = func(b byte) error { sent = b; return nil }
	require.True(t, sim.PumpOutput())
	require.Equal(t, byte('z'), sent)
	require.True(t, sim.Out.IsEmpty())
}

func TestRunJoinsFeederAndMainLoop(t *testing.T) {
	sim := newSim(8, DropNewest)
	feed := make(chan byte, 4)
	tick := make(chan struct{}, 4)
	feed <- 'a'
	feed <- 'b'
	tick <- struct{}{}
	tick <- struct{}{}
	close(feed)
	close(tick)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := sim.Run(ctx, feed, tick, nil)
	require.NoError(t, err)
}
