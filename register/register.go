// Package register implements the rw-class handler (spec.md §4.6): an
// indexed table of optional word-width register pointers with per-register
// write masks, reachable over ASC as hex-encoded read/write requests.
//
// The source picks one cell width at compile time via macros (8-bit cells
// on AVR, 32-bit elsewhere). Table generalizes that one step: Width is a
// per-Table value, not a build tag, so a single binary can host tables of
// different widths (one per device) without recompiling.
package register

import (
	"github.com/daedaluz/ascom/ascerr"
	"github.com/daedaluz/ascom/frame"
	"github.com/daedaluz/ascom/hexcodec"
	"github.com/daedaluz/ascom/ring"
)

// Width is a register cell's bit width.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// hexDigits is the number of hex characters a value of this width
// serializes to (W/4).
func (w Width) hexDigits() int { return int(w) / 4 }

// mask is the set of bits a value of this width can occupy.
func (w Width) mask() uint32 {
	if w >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << w) - 1
}

func (w Width) encode(v uint32, out []byte) {
	switch w {
	case Width8:
		hexcodec.EncodeUint8(uint8(v), out, true)
	case Width16:
		hexcodec.EncodeUint16(uint16(v), out, true)
	default:
		hexcodec.EncodeUint32(v, out, true)
	}
}

func (w Width) decode(in []byte) uint32 {
	switch w {
	case Width8:
		return uint32(hexcodec.DecodeUint8(in))
	case Width16:
		return uint32(hexcodec.DecodeUint16(in))
	default:
		return hexcodec.DecodeUint32(in)
	}
}

// Entry is one slot of a Table. Cell may be nil (an absent register):
// reads return 0, writes are silently dropped. Cell is a raw pointer
// rather than an atomic type so it can alias a memory-mapped peripheral
// register; callers binding it to MMIO must use the target's volatile
// access primitive themselves (there is none portable in Go) and must not
// let the compiler assume it's unaliased.
type Entry struct {
	Cell      *uint32
	WriteMask uint32
}

// Table is a fixed-length, immutable-after-init array of register Entries,
// all sharing one cell Width (spec.md §3.5, §6.4).
type Table struct {
	Width   Width
	Entries []Entry
}

// NewTable returns a Table over entries, addressed 0..len(entries)-1.
func NewTable(width Width, entries []Entry) *Table {
	return &Table{Width: width, Entries: entries}
}

// Handle implements the rw-class handler contract (matches
// dispatch.Handler's signature structurally, so it can be passed directly
// to Dispatcher.Bind without register importing dispatch). state must be a
// non-nil *Table.
func Handle(out *ring.Buffer, msg frame.Message, state interface{}) {
	table, ok := state.(*Table)
	if !ok || table == nil {
		ascerr.Throw(ascerr.RegBlockNull)
	}
	if msg.Cmd != 'r' && msg.Cmd != 'w' {
		ascerr.Throw(ascerr.UnexpectedCommand)
	}
	if len(msg.Data) < 4 {
		ascerr.Throw(ascerr.DataTooShort)
	}
	regNum := hexcodec.DecodeUint16(msg.Data[0:4])
	if int(regNum) >= len(table.Entries) {
		ascerr.Throw(ascerr.RegnumOOB)
	}
	entry := &table.Entries[regNum]

	if msg.Cmd == 'r' {
		var val uint32
		if entry.Cell != nil {
			val = *entry.Cell & table.Width.mask()
		}
		digits := table.Width.hexDigits()
		reply := make([]byte, 0, 5+digits)
		reply = append(reply, msg.Data[0:4]...)
		reply = append(reply, ',')
		hexVal := make([]byte, digits)
		table.Width.encode(val, hexVal)
		reply = append(reply, hexVal...)
		frame.EncodeInto(out, msg.Ver, msg.App, msg.Cmd, reply)
		return
	}

	// write
	digits := table.Width.hexDigits()
	if len(msg.Data) < 5+digits {
		ascerr.Throw(ascerr.RegvalLen)
	}
	incoming := table.Width.decode(msg.Data[5 : 5+digits])
	if entry.Cell != nil {
		mask := entry.WriteMask & table.Width.mask()
		old := *entry.Cell
		*entry.Cell = (old &^ mask) | (incoming & mask)
	}
	frame.EncodeInto(out, msg.Ver, msg.App, msg.Cmd, msg.Data[0:4])
}
