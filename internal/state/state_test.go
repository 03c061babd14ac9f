package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
)

type fakeMaterial struct{ id, name string }

func (m *fakeMaterial) ID() string        { return m.id }
func (m *fakeMaterial) Name() string      { return m.name }
func (m *fakeMaterial) SetName(n string)  { m.name = n }
func (m *fakeMaterial) Tree() shader.Tree { return nil }
func (m *fakeMaterial) Family() string    { return "" }
func (m *fakeMaterial) BlendMode() string { return host.BlendOpaque }

func (m *fakeMaterial) SetBlendMode(string) {}

func TestNextUID(t *testing.T) {
	s := New()
	assert.Equal(t, 100, s.NextUID())
	assert.Equal(t, 101, s.NextUID())
	assert.Equal(t, 102, s.AutoIncrement())

	s.SetAutoIncrement(5)
	assert.Equal(t, FirstUID, s.AutoIncrement())
}

func TestPutKeepsOneEntryPerSource(t *testing.T) {
	s := New()
	src := &fakeMaterial{id: "a", name: "Skin"}
	b1 := &fakeMaterial{id: "b1", name: "Skin_B100"}
	b2 := &fakeMaterial{id: "b2", name: "Skin_B100"}

	s.Put(s.NextUID(), src, b1)
	e := s.Put(999, src, b2)

	require.Len(t, s.Entries(), 1)
	assert.Equal(t, 100, e.UID)
	assert.Same(t, b2, e.Baked.(*fakeMaterial))

	assert.Equal(t, e, s.Lookup(src))
	assert.Equal(t, e, s.Lookup(b2))
	assert.Nil(t, s.Lookup(b1))
	assert.Nil(t, s.Lookup(nil))
}

func TestLookupMatchesByID(t *testing.T) {
	s := New()
	s.Put(100, &fakeMaterial{id: "a"}, &fakeMaterial{id: "b"})
	assert.NotNil(t, s.Lookup(&fakeMaterial{id: "a"}))
	assert.Nil(t, s.Lookup(&fakeMaterial{id: ""}))
}

func TestPutAdvancesCounter(t *testing.T) {
	s := New()
	s.Put(150, &fakeMaterial{id: "a"}, &fakeMaterial{id: "b"})
	assert.Equal(t, 151, s.NextUID())
}

func TestRemove(t *testing.T) {
	s := New()
	src := &fakeMaterial{id: "a"}
	baked := &fakeMaterial{id: "b"}
	s.Put(100, src, baked)
	s.Remove(baked)
	assert.Empty(t, s.Entries())
}

func TestMaterialSettings(t *testing.T) {
	s := New()
	m := &fakeMaterial{id: "a"}
	global := targets.DefaultSizes()

	ms := s.AddSettings(m, global)
	require.NotNil(t, ms)
	assert.Equal(t, 2048, ms.Sizes[targets.NormalSize])

	// settings are a copy of the globals
	global[targets.NormalSize] = 64
	assert.Equal(t, 2048, ms.Sizes[targets.NormalSize])

	ms.Sizes[targets.DiffuseSize] = 512
	again := s.AddSettings(m, global)
	assert.Same(t, ms, again)
	assert.Equal(t, 512, s.Settings(m).Sizes[targets.DiffuseSize])

	s.RemoveSettings(m)
	assert.Nil(t, s.Settings(m))
	assert.Empty(t, s.AllSettings())
}
