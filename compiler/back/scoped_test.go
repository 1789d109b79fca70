package back

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slowlang/elab/compiler/ir"
)

func TestScopedVisibility(t *testing.T) {
	s := newScoped()

	s.incDepth()
	s.insertIfAbsent(1, idValue{block: 0, value: 10})

	s.incDepth()
	s.insertIfAbsent(2, idValue{block: 1, value: 11})

	v, ok := s.get(1)
	require.True(t, ok)
	require.Equal(t, ir.Expr(10), v.value)

	_, ok = s.get(2)
	require.True(t, ok)

	s.decDepth()

	// the departing scope entry is gone, the shallow one is not
	_, ok = s.get(2)
	require.False(t, ok)

	_, ok = s.get(1)
	require.True(t, ok)

	s.decDepth()

	_, ok = s.get(1)
	require.False(t, ok)
}

func TestScopedInsertIfAbsent(t *testing.T) {
	s := newScoped()

	s.incDepth()
	s.insertIfAbsent(7, idValue{value: 1})
	s.insertIfAbsent(7, idValue{value: 2})

	v, _ := s.get(7)
	require.Equal(t, ir.Expr(1), v.value)
}

// an entry registered at a shallower depth survives deeper scope exits
func TestScopedInsertAtDepth(t *testing.T) {
	s := newScoped()

	s.incDepth()
	s.incDepth()
	s.incDepth()

	s.insertAt(3, idValue{value: 30}, 1)

	s.decDepth()
	s.decDepth()

	v, ok := s.get(3)
	require.True(t, ok)
	require.Equal(t, ir.Expr(30), v.value)

	s.decDepth()

	_, ok = s.get(3)
	require.False(t, ok)
}

func TestScopedRemove(t *testing.T) {
	s := newScoped()

	s.incDepth()
	s.insertIfAbsent(4, idValue{value: 40})
	s.remove(4)

	_, ok := s.get(4)
	require.False(t, ok)

	// reinsert after removal, eviction still works
	s.insertIfAbsent(4, idValue{value: 41})

	v, ok := s.get(4)
	require.True(t, ok)
	require.Equal(t, ir.Expr(41), v.value)

	s.decDepth()

	_, ok = s.get(4)
	require.False(t, ok)
}
