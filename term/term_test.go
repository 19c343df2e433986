package term

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomAndStrictAtomAreDistinctTypes(t *testing.T) {
	a := Atom("ok")
	s := StrictAtom("ok")

	require.Equal(t, "ok", a.String())
	require.Equal(t, "ok", s.String())
	require.NotEqual(t, any(a), any(s))
}

func TestUndefinedStringsAsUndefined(t *testing.T) {
	require.Equal(t, "undefined", Undefined.String())
}

func TestMapGetLinearScan(t *testing.T) {
	m := Map{Pairs: []Pair{
		{Key: Atom("a"), Value: 1},
		{Key: Atom("b"), Value: 2},
	}}

	v, ok := m.Get(Atom("b"))
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = m.Get(Atom("missing"))
	require.False(t, ok)

	require.Equal(t, 2, m.Len())
}

func TestPidString(t *testing.T) {
	p := Pid{Node: "node", ID: 1, Serial: 2, Creation: 3}
	require.Equal(t, "#Pid<node.1.2.3>", p.String())
}
