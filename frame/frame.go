// Package frame implements the ASC wire frame codec: pack and unpack
//
//	'>' ver app cmd data... '.' c0 c1 c2 c3 '\n'
//
// on top of ring.Buffer, crc.Checksum16DNP and hexcodec. Decoding is a pure
// function of ring contents: no state is carried between calls beyond the
// buffer itself, so it tolerates arbitrary interleavings of garbage,
// truncated frames and multiple queued frames.
package frame

import (
	"github.com/daedaluz/ascom/ascerr"
	"github.com/daedaluz/ascom/crc"
	"github.com/daedaluz/ascom/hexcodec"
	"github.com/daedaluz/ascom/ring"
)

const (
	// MaxDataLen is the largest payload a single frame may carry.
	MaxDataLen = 54
	// MaxMessageLen is the largest a whole encoded frame may be.
	MaxMessageLen = 64
	// nCharChecksum is the number of hex characters the CRC occupies.
	nCharChecksum = 4
)

// Message is one decoded ASC frame.
type Message struct {
	Ver, App, Cmd byte
	Data          []byte
}

// EncodeInto appends one ASC frame for (ver, app, cmd, data) onto out. It
// throws ascerr.DataTooLong if len(data) > MaxDataLen, and
// ascerr.ChecksumProblem if it cannot locate the bracket pair it just wrote
// (a defensive check: it always can, barring a corrupt caller-shared ring).
func EncodeInto(out *ring.Buffer, ver, app, cmd byte, data []byte) {
	if len(data) > MaxDataLen {
		ascerr.Throw(ascerr.DataTooLong)
	}
	out.PushBack('>')
	out.PushBack(ver)
	out.PushBack(app)
	out.PushBack(cmd)
	out.PushBackBlock(data)
	out.PushBack('.')

	start := out.FindLast('>')
	stop := out.FindLast('.')
	if start >= out.Size() || stop >= out.Size() || stop <= start {
		ascerr.Throw(ascerr.ChecksumProblem)
	}
	framed := make([]byte, stop-start+1)
	for i := range framed {
		v, _ := out.At(start + i)
		framed[i] = v
	}
	sum := crc.Checksum16DNP(framed)
	var hex [nCharChecksum]byte
	hexcodec.EncodeUint16(sum, hex[:], true)
	out.PushBackBlock(hex[:])
	out.PushBack('\n')
}

// DecodeFrom attempts to extract one frame from in. It returns ok=false
// (non-destructively, aside from dropping leading garbage) when the buffer
// doesn't yet hold a complete frame. Structural or checksum problems throw
// one of ascerr.InvalidFramePeriod, ascerr.ChecksumProblem or
// ascerr.InvalidFrame and resynchronize by popping the leading '>' so the
// next call can re-scan from the following byte.
func DecodeFrom(in *ring.Buffer) (Message, bool) {
	dropIncompleteLeader(in)
	if in.IsEmpty() {
		return Message{}, false
	}

	nl := in.FindFirst('\n')
	if nl >= in.Size() {
		return Message{}, false // frame incomplete, wait for more bytes
	}

	dot := in.FindFirst('.')
	if dot >= in.Size() || dot > nl {
		in.PopFront()
		ascerr.Throw(ascerr.InvalidFramePeriod)
	}

	if nl != dot+nCharChecksum+1 {
		in.PopFront()
		ascerr.Throw(ascerr.InvalidFrame)
	}

	framed := make([]byte, dot+1)
	for i := range framed {
		v, _ := in.At(i)
		framed[i] = v
	}
	want := crc.Checksum16DNP(framed)

	recv := make([]byte, nCharChecksum)
	for i := range recv {
		v, _ := in.At(dot + 1 + i)
		recv[i] = v
	}
	var wantHex [nCharChecksum]byte
	hexcodec.EncodeUint16(want, wantHex[:], true)
	if string(wantHex[:]) != string(recv) {
		in.PopFront()
		ascerr.Throw(ascerr.ChecksumProblem)
	}

	in.PopFront() // '>'
	ver, _ := in.PopFront()
	app, _ := in.PopFront()
	cmd, _ := in.PopFront()
	data := make([]byte, 0, dot-4)
	for {
		b, _ := in.PopFront()
		if b == '.' {
			break
		}
		data = append(data, b)
	}
	for i := 0; i < nCharChecksum; i++ {
		in.PopFront()
	}
	in.PopFront() // '\n'

	return Message{Ver: ver, App: app, Cmd: cmd, Data: data}, true
}

// dropIncompleteLeader pops leading bytes that cannot start a frame, and
// collapses any interrupted frame (a second '>' appearing before the first
// '\n') down to the newest '>' seen so far.
func dropIncompleteLeader(in *ring.Buffer) {
	for in.Size() > 0 {
		v, _ := in.At(0)
		if v == '>' {
			break
		}
		in.PopFront()
	}
	for in.Size() > 1 {
		limit := in.FindFirst('\n') // in.Size() itself if no '\n' yet
		interrupt := -1
		for i := 1; i < limit; i++ {
			v, _ := in.At(i)
			if v == '>' {
				interrupt = i
				break
			}
		}
		if interrupt < 0 {
			return
		}
		for i := 0; i < interrupt; i++ {
			in.PopFront()
		}
	}
}
