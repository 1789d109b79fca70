package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmap(t *testing.T) {
	var s Bitmap

	require.False(t, s.IsSet(3))

	s.Set(3)
	s.Set(100)

	require.True(t, s.IsSet(3))
	require.True(t, s.IsSet(100))
	require.False(t, s.IsSet(4))
	require.Equal(t, 2, s.Size())

	s.Clear(3)
	require.False(t, s.IsSet(3))

	var got []int
	s.Range(func(i int) bool {
		got = append(got, i)
		return true
	})

	require.Equal(t, []int{100}, got)

	var x Bitmap
	x.Set(1)
	x.Or(s)

	require.True(t, x.IsSet(1))
	require.True(t, x.IsSet(100))

	require.False(t, (*Bitmap)(nil).IsSet(0))
	require.Equal(t, 0, (*Bitmap)(nil).Size())
}
