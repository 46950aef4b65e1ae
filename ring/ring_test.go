package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopBackToBack(t *testing.T) {
	b := New(make([]byte, 4))
	require.True(t, b.IsEmpty())
	b.PushBack('a')
	b.PushBack('b')
	b.PushBack('c')
	require.Equal(t, 3, b.Size())
	v, err := b.PopFront()
	require.NoError(t, err)
	require.Equal(t, byte('a'), v)
	require.Equal(t, []byte("bc"), b.Bytes())
}

func TestPopEmpty(t *testing.T) {
	b := New(make([]byte, 2))
	_, err := b.PopFront()
	require.ErrorIs(t, err, ErrEmpty)
	_, err = b.PopBack()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestOutOfRange(t *testing.T) {
	b := New(make([]byte, 2))
	b.PushBack('x')
	_, err := b.At(1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

// R2: pushing capacity+k bytes without popping leaves the most-recent
// capacity bytes, in order.
func TestWrapEviction(t *testing.T) {
	b := New(make([]byte, 4))
	for _, v := range []byte("abcdefg") { // 7 bytes into a 4-byte ring
		b.PushBack(v)
	}
	require.Equal(t, []byte("defg"), b.Bytes())
}

func TestFindAndCount(t *testing.T) {
	b := New(make([]byte, 8))
	b.PushBackBlock([]byte("abcabc"))
	require.Equal(t, 0, b.FindFirst('a'))
	require.Equal(t, 3, b.FindLast('a'))
	require.Equal(t, 6, b.FindFirst('z'))
	require.Equal(t, 2, b.Count('a'))
}

func TestRemoveFrontTo(t *testing.T) {
	b := New(make([]byte, 8))
	b.PushBackBlock([]byte("junk>rest"))
	b.RemoveFrontTo('>', true)
	require.Equal(t, []byte("rest"), b.Bytes())
}

func TestRemoveFrontToAbsent(t *testing.T) {
	b := New(make([]byte, 8))
	b.PushBackBlock([]byte("nomarker"))
	b.RemoveFrontTo('>', true)
	require.True(t, b.IsEmpty())
}

func TestGetFirstBlockWrap(t *testing.T) {
	b := New(make([]byte, 4))
	b.PushBackBlock([]byte("abcd"))
	b.PopFront()
	b.PopFront()
	b.PushBack('e')
	b.PushBack('f') // buffer wraps: logical content "cdef"
	block := b.GetFirstBlock()
	require.Less(t, len(block), b.Size()) // wrapped: first block shorter than size
	n := b.DeleteFirstBlock()
	require.Equal(t, len(block), n)
}

func TestPushBackFromReader(t *testing.T) {
	b := New(make([]byte, 8))
	src := []byte("hello")
	i := 0
	n, err := b.PushBackFromReader(func(dst []byte) (int, error) {
		if i >= len(src) {
			return 0, nil
		}
		k := copy(dst, src[i:])
		i += k
		return k, nil
	})
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, src, b.Bytes())
}

func TestPopFrontToWriter(t *testing.T) {
	b := New(make([]byte, 8))
	b.PushBackBlock([]byte("hello"))
	var out []byte
	n, err := b.PopFrontToWriter(func(src []byte) (int, error) {
		out = append(out, src...)
		return len(src), nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), out)
	require.True(t, b.IsEmpty())
}

// R1: for random push/pop sequences, Size() matches a naive oracle and the
// logical contents match a slice-backed reference implementation.
func TestRandomAgainstOracle(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const capacity = 16
	b := New(make([]byte, capacity))
	var oracle []byte

	for i := 0; i < 2000; i++ {
		switch rnd.Intn(4) {
		case 0:
			v := byte(rnd.Intn(256))
			b.PushBack(v)
			oracle = append(oracle, v)
			if len(oracle) > capacity {
				oracle = oracle[len(oracle)-capacity:]
			}
		case 1:
			v := byte(rnd.Intn(256))
			b.PushFront(v)
			oracle = append([]byte{v}, oracle...)
			if len(oracle) > capacity {
				oracle = oracle[:capacity]
			}
		case 2:
			if len(oracle) > 0 {
				v, err := b.PopFront()
				require.NoError(t, err)
				require.Equal(t, oracle[0], v)
				oracle = oracle[1:]
			}
		case 3:
			if len(oracle) > 0 {
				v, err := b.PopBack()
				require.NoError(t, err)
				require.Equal(t, oracle[len(oracle)-1], v)
				oracle = oracle[:len(oracle)-1]
			}
		}
		require.Equal(t, len(oracle), b.Size())
		require.Equal(t, oracle, b.Bytes())
	}
}
