package frame

import (
	"math/rand"
	"testing"

	"github.com/daedaluz/ascom/ascerr"
	"github.com/daedaluz/ascom/ring"
	"github.com/stretchr/testify/require"
)

func newBuf() *ring.Buffer { return ring.New(make([]byte, MaxMessageLen*4)) }

// §8.2 scenario 1: empty write request.
func TestEncodeEmptyWriteRequest(t *testing.T) {
	out := newBuf()
	EncodeInto(out, '0', '0', 'w', nil)
	require.Equal(t, []byte(">00w.23A6\n"), out.Bytes())
}

// §8.2 scenario 2.
func TestEncodeRegisterReply(t *testing.T) {
	out := newBuf()
	EncodeInto(out, '0', '0', 'w', []byte("FFFF"))
	require.Equal(t, []byte(">00wFFFF.9F3B\n"), out.Bytes())
}

// §8.2 scenario 3: max-length payload.
func TestEncodeMaxLengthPayload(t *testing.T) {
	out := newBuf()
	data := make([]byte, 54)
	for i := range data {
		data[i] = '6'
	}
	EncodeInto(out, '3', '4', '5', data)
	got := out.Bytes()
	require.Len(t, got, 64)
	require.Equal(t, byte('C'), got[59])
	require.Equal(t, byte('\n'), got[63])
}

func TestEncodeDataTooLong(t *testing.T) {
	out := newBuf()
	code, threw := ascerr.Scope(func() {
		EncodeInto(out, '0', '0', 'w', make([]byte, MaxDataLen+1))
	})
	require.True(t, threw)
	require.Equal(t, ascerr.DataTooLong, code)
}

// §8.2 scenario 4: decode with garbage prefix.
func TestDecodeGarbagePrefix(t *testing.T) {
	in := newBuf()
	in.PushBackBlock([]byte("junk>abc.C103\n"))
	msg, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('a'), msg.Ver)
	require.Equal(t, byte('b'), msg.App)
	require.Equal(t, byte('c'), msg.Cmd)
	require.Empty(t, msg.Data)
	require.True(t, in.IsEmpty())
}

// §8.2 scenario 5: decode max-length stream frame.
func TestDecodeMaxLengthStreamFrame(t *testing.T) {
	in := newBuf()
	data := make([]byte, 54)
	for i := range data {
		data[i] = 'x'
	}
	in.PushBackBlock([]byte(">def"))
	in.PushBackBlock(data)
	in.PushBackBlock([]byte(".350F\n"))
	msg, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('d'), msg.Ver)
	require.Equal(t, byte('e'), msg.App)
	require.Equal(t, byte('f'), msg.Cmd)
	require.Equal(t, data, msg.Data)
}

// randPrintable returns a printable byte in 0x20..0x7E, excluding '.'
// (0x2E) and '>' (0x3E): the wire grammar reserves '.' as the data/CRC
// delimiter and '>' as the frame start, so neither can appear in
// ver/app/cmd or data without being mistaken for it.
func randPrintable(rnd *rand.Rand) byte {
	for {
		v := byte(0x20 + rnd.Intn(0x5F)) // 0x20..0x7E
		if v != '.' && v != '>' {
			return v
		}
	}
}

// F1: roundtrip for all printable (non-'.', non-'>') ver/app/cmd and data
// lengths < MaxDataLen.
func TestRoundtrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		ver := randPrintable(rnd)
		app := randPrintable(rnd)
		cmd := randPrintable(rnd)
		n := rnd.Intn(MaxDataLen)
		data := make([]byte, n)
		for j := range data {
			data[j] = randPrintable(rnd)
		}

		buf := newBuf()
		EncodeInto(buf, ver, app, cmd, data)
		msg, ok := DecodeFrom(buf)
		require.True(t, ok)
		require.Equal(t, ver, msg.Ver)
		require.Equal(t, app, msg.App)
		require.Equal(t, cmd, msg.Cmd)
		require.Equal(t, data, msg.Data)
		require.True(t, buf.IsEmpty())
	}
}

// F2: decoding from a buffer with no '>' is a no-op returning none, and
// leaves the buffer empty.
func TestDecodeNoFrameStart(t *testing.T) {
	in := newBuf()
	in.PushBackBlock([]byte("nothing to see here"))
	_, ok := DecodeFrom(in)
	require.False(t, ok)
	require.True(t, in.IsEmpty())
}

// F3: garbage (no '\n') followed by a good frame still decodes the good
// frame.
func TestDecodeResyncAfterGarbage(t *testing.T) {
	in := newBuf()
	in.PushBackBlock([]byte("not a frame at all"))
	EncodeInto(in, '1', '2', 'r', []byte("AB"))
	msg, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('1'), msg.Ver)
	require.Equal(t, byte('2'), msg.App)
	require.Equal(t, byte('r'), msg.Cmd)
	require.Equal(t, []byte("AB"), msg.Data)
}

// An interrupted frame (second '>' before the first '\n') is discarded in
// favor of the newer one.
func TestDecodeInterruptedFrame(t *testing.T) {
	in := newBuf()
	in.PushBackBlock([]byte(">ab")) // interrupted: no '.' or '\n' yet
	EncodeInto(in, 'x', 'y', 'z', nil)
	msg, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('x'), msg.Ver)
}

// F4: flipping a data bit causes a checksum-mismatch throw on that call; a
// following good frame still decodes correctly afterward (E1).
func TestDecodeRejectsCorruptFrame(t *testing.T) {
	in := newBuf()
	EncodeInto(in, '0', '0', 'w', []byte("AB"))
	raw := in.Bytes()
	raw[5] ^= 0x01 // flip a bit inside the data byte, CRC no longer matches
	in.Clear()
	in.PushBackBlock(raw)
	EncodeInto(in, '1', '1', 'r', []byte("CD")) // queue a good frame right after

	code, threw := ascerr.Scope(func() {
		DecodeFrom(in)
	})
	require.True(t, threw)
	require.Equal(t, ascerr.ChecksumProblem, code)

	msg, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('1'), msg.Ver)
	require.Equal(t, []byte("CD"), msg.Data)
}

func TestDecodeIncompleteWaitsForMore(t *testing.T) {
	in := newBuf()
	in.PushBackBlock([]byte(">00w."))
	_, ok := DecodeFrom(in)
	require.False(t, ok)
	require.Equal(t, []byte(">00w."), in.Bytes()) // non-destructive
}

func TestMultipleQueuedFrames(t *testing.T) {
	out := newBuf()
	EncodeInto(out, '0', '0', 'r', []byte("AA"))
	EncodeInto(out, '1', '1', 'w', []byte("BB"))

	in := ring.New(make([]byte, MaxMessageLen*4))
	in.PushBackBlock(out.Bytes())

	first, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('0'), first.Ver)

	second, ok := DecodeFrom(in)
	require.True(t, ok)
	require.Equal(t, byte('1'), second.Ver)
	require.True(t, in.IsEmpty())
}
