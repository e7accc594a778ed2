package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolGetPutRecyclesIndex(t *testing.T) {
	p := NewPool(2)

	w1, i1 := p.Get()
	require.NotNil(t, w1)
	w2, i2 := p.Get()
	require.NotNil(t, w2)
	require.NotEqual(t, i1, i2)

	w3, i3 := p.Get()
	require.Nil(t, w3)
	require.Equal(t, int32(-1), i3)

	p.Put(i1)
	w4, i4 := p.Get()
	require.NotNil(t, w4)
	require.Equal(t, i1, i4)
}
