package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRegistry_ClaimRelease(t *testing.T) {
	r := NewTargetRegistry()
	require.True(t, r.Claim(3))
	assert.False(t, r.Claim(3), "second claim of the same id")
	assert.True(t, r.IsClaimed(3))
	assert.Equal(t, 1, r.Len())

	r.Release(3)
	assert.False(t, r.IsClaimed(3))
	r.Release(3)
	assert.Equal(t, 0, r.Len())
}

func TestTargetRegistry_Reset(t *testing.T) {
	r := NewTargetRegistry()
	for id := 0; id < 5; id++ {
		r.Claim(id)
	}
	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Claim(2))
}

func TestTargetRegistry_ReleasedOnRemove(t *testing.T) {
	s := newBareSim(WithWorker(Cell{2, 2}))
	st, err := s.Place(StructureScaffold, Cell{10, 10})
	require.NoError(t, err)
	s.Tick()
	require.True(t, s.Targets().IsClaimed(st.ID()))

	require.True(t, s.Remove(st.ID()))
	assert.False(t, s.Targets().IsClaimed(st.ID()))
	s.Tick()
	_, has := s.Workers()[0].Target()
	assert.False(t, has, "worker should drop a removed job")
}
