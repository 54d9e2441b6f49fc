package input

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/ranking"
)

func rankedState(t *testing.T, n int) *ranking.State {
	t.Helper()
	var entries []catalog.Entity
	for _, name := range []string{"A", "B", "C", "D", "E"}[:n] {
		entries = append(entries, catalog.Entity{ID: name, Name: name})
	}
	c, err := catalog.New(entries)
	require.NoError(t, err)
	s := ranking.New(c)
	for _, e := range entries {
		s.Promote(e.ID)
	}
	return s
}

func order(s *ranking.State) string {
	out := ""
	for _, e := range s.Ranking() {
		out += e.Name
	}
	return out
}

func focused(t *testing.T, m *Machine) int {
	t.Helper()
	i, ok := m.Focused()
	require.True(t, ok, "expected a focused item")
	return i
}

func TestIdleIgnoresNavigation(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	for _, ev := range []Event{CursorUp, CursorDown, MoveUp, MoveDown, ShiftLeft, ShiftRight, Delete, Escape, Select} {
		res := m.Handle(ev, s)
		require.False(t, res.Changed, ev.String())
		require.True(t, m.Idle())
	}
	require.Equal(t, "ABC", order(s))
}

func TestCursorClampsAtEdges(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	m.Focus(0, s.Len())

	m.Handle(CursorUp, s)
	require.Equal(t, 0, focused(t, &m))

	m.Handle(CursorDown, s)
	m.Handle(CursorDown, s)
	m.Handle(CursorDown, s)
	require.Equal(t, 2, focused(t, &m))
	require.Equal(t, "ABC", order(s))
}

func TestModifiedMoveFollowsItem(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	m.Focus(1, s.Len())

	res := m.Handle(MoveUp, s)
	require.True(t, res.Changed)
	require.Equal(t, "B", res.Entity.Name)
	require.Equal(t, "BAC", order(s))
	require.Equal(t, 0, focused(t, &m))

	// already at the top
	res = m.Handle(MoveUp, s)
	require.False(t, res.Changed)
	require.Equal(t, 0, focused(t, &m))

	m.Handle(MoveDown, s)
	m.Handle(MoveDown, s)
	require.Equal(t, "ACB", order(s))
	require.Equal(t, 2, focused(t, &m))

	res = m.Handle(MoveDown, s)
	require.False(t, res.Changed)
}

func TestShiftGesturesMatchModifiedMoves(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 4)
	var m Machine
	m.Focus(2, s.Len())

	m.Handle(ShiftLeft, s)
	require.Equal(t, "ACBD", order(s))
	require.Equal(t, 1, focused(t, &m))

	m.Handle(ShiftRight, s)
	m.Handle(ShiftRight, s)
	require.Equal(t, "ABDC", order(s))
	require.Equal(t, 3, focused(t, &m))
}

func TestDeleteTransitions(t *testing.T) {
	t.Parallel()

	t.Run("middle moves focus up", func(t *testing.T) {
		s := rankedState(t, 3)
		var m Machine
		m.Focus(2, s.Len())
		res := m.Handle(Delete, s)
		require.True(t, res.Changed)
		require.Equal(t, "C", res.Entity.Name)
		require.Equal(t, "AB", order(s))
		require.Equal(t, 1, focused(t, &m))
	})

	t.Run("top keeps focus at zero", func(t *testing.T) {
		s := rankedState(t, 3)
		var m Machine
		m.Focus(0, s.Len())
		m.Handle(Delete, s)
		require.Equal(t, "BC", order(s))
		require.Equal(t, 0, focused(t, &m))
	})

	t.Run("last item goes idle", func(t *testing.T) {
		s := rankedState(t, 1)
		var m Machine
		m.Focus(0, s.Len())
		m.Handle(Delete, s)
		require.Equal(t, 0, s.Len())
		require.True(t, m.Idle())
	})
}

func TestEscapeAndFocus(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	m.Focus(7, s.Len())
	require.Equal(t, 2, focused(t, &m))

	m.Handle(Escape, s)
	require.True(t, m.Idle())

	m.Focus(1, 0)
	require.True(t, m.Idle())
}

func TestSelectReportsWithoutChange(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	m.Focus(1, s.Len())
	res := m.Handle(Select, s)
	require.False(t, res.Changed)
	require.Equal(t, "B", res.Entity.Name)
	require.Equal(t, 1, focused(t, &m))
}

func TestClampAfterExternalShrink(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 3)
	var m Machine
	m.Focus(2, s.Len())
	s.Reset()
	m.Clamp(s.Len())
	require.True(t, m.Idle())

	s = rankedState(t, 3)
	m.Focus(2, 3)
	s.Demote("C")
	m.Clamp(s.Len())
	require.Equal(t, 1, focused(t, &m))
}

func TestHandleOnEmptyRankingGoesIdle(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 2)
	var m Machine
	m.Focus(0, s.Len())
	s.Reset()
	res := m.Handle(CursorDown, s)
	require.False(t, res.Changed)
	require.True(t, m.Idle())
}

func TestDrag(t *testing.T) {
	t.Parallel()
	s := rankedState(t, 4)
	var d Drag

	require.False(t, d.Drop(1, s).Changed, "drop without a drag")

	d.Start(0)
	d.Over(2)
	src, over, ok := d.Active()
	require.True(t, ok)
	require.Equal(t, 0, src)
	require.Equal(t, 2, over)

	res := d.Drop(2, s)
	require.True(t, res.Changed)
	require.Equal(t, "BCAD", order(s))
	_, _, ok = d.Active()
	require.False(t, ok)

	d.Start(1)
	require.False(t, d.Drop(1, s).Changed, "same row")
	require.Equal(t, "BCAD", order(s))

	d.Start(3)
	d.Cancel()
	require.False(t, d.Drop(0, s).Changed)

	d.Start(0)
	require.False(t, d.Drop(9, s).Changed, "out of range target")
}
