package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// C1 (CRC determinism) + the §6.1 reference vectors.
func TestReferenceVectors(t *testing.T) {
	cases := []struct {
		frame string
		want  uint16
	}{
		{">xxx.", 0x79BD},
		{">000.", 0x0FEC},
		{">FFF.", 0xFD98},
		{">1234567890ABCDEF.", 0x9411},
		{">" + repeat('F', 41) + ".", 0x39DE},
		{">" + repeat('0', 41) + ".", 0x1DC1},
	}
	for _, c := range cases {
		got := Checksum16DNP([]byte(c.frame))
		require.Equalf(t, c.want, got, "frame %q", c.frame)
	}
}

func TestDeterministic(t *testing.T) {
	data := []byte(">abcdef.")
	a := Checksum16DNP(data)
	b := Checksum16DNP(data)
	require.Equal(t, a, b)
}

func repeat(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
