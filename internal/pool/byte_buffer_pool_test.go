package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abcd"))
	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte("abcd"), bb.Bytes())

	// no-op when capacity suffices
	c := bb.Cap()
	bb.Grow(1)
	require.Equal(t, c, bb.Cap())
}

func TestByteBufferWrite(t *testing.T) {
	bb := NewByteBuffer(0)
	n, err := bb.Write([]byte("grid"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "grid", string(bb.Bytes()))

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	bb.MustWrite([]byte("payload"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers are reset")

	big := NewByteBuffer(128)
	p.Put(big) // dropped, above threshold
	p.Put(nil)

	ds := GetDatasetBuffer()
	require.NotNil(t, ds)
	PutDatasetBuffer(ds)
}
