package scene_test

import (
	"reflect"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plus3/vane/scene"
)

type bare struct{}

type noEmbed interface {
	Anything()
}

func TestRegisterKindValidation(t *testing.T) {
	assert.Panics(t, func() {
		scene.RegisterKind[int](scene.NewTypeRegistry())
	}, "non-struct kind")

	assert.Panics(t, func() {
		scene.RegisterKind[bare](scene.NewTypeRegistry())
	}, "struct without ComponentBase")

	assert.Panics(t, func() {
		r := scene.NewTypeRegistry()
		scene.RegisterKind[Tag](r)
		scene.RegisterKind[Tag](r)
	}, "duplicate kind")
}

func TestRegisterCapabilityValidation(t *testing.T) {
	assert.Panics(t, func() {
		scene.RegisterCapability[Tag](scene.NewTypeRegistry())
	}, "non-interface capability")

	assert.Panics(t, func() {
		scene.RegisterCapability[scene.Component](scene.NewTypeRegistry())
	}, "Component root")

	assert.Panics(t, func() {
		scene.RegisterCapability[noEmbed](scene.NewTypeRegistry())
	}, "interface not embedding Component")

	assert.Panics(t, func() {
		r := scene.NewTypeRegistry()
		scene.RegisterCapability[scene.Renderable](r)
		scene.RegisterCapability[scene.Renderable](r)
	}, "duplicate capability")
}

func TestKindLookup(t *testing.T) {
	r := scene.NewTypeRegistry()
	scene.RegisterKind[Tag](r)

	k, ok := r.KindFor(reflect.TypeOf(&Tag{}))
	require.True(t, ok)
	assert.Equal(t, "scene_test.Tag", k.Name)
	assert.NotZero(t, k.ID)

	byName, ok := r.KindByName("scene_test.Tag")
	require.True(t, ok)
	assert.Same(t, k, byName)

	_, ok = r.KindFor(reflect.TypeOf(&Loner{}))
	assert.False(t, ok)

	fresh := k.New()
	tag, isTag := fresh.(*Tag)
	require.True(t, isTag)
	assert.Equal(t, scene.NoEntity, tag.Owner())
	assert.True(t, tag.Enabled())
}

func TestKindNamesSorted(t *testing.T) {
	r := newTestRegistry()
	names := r.KindNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "scene.Camera")
	assert.Contains(t, names, "scene_test.Tag")
}

func TestKindIDsStableAcrossRegistries(t *testing.T) {
	r1 := scene.NewTypeRegistry()
	r2 := scene.NewTypeRegistry()
	scene.RegisterKind[Tag](r1)
	scene.RegisterKind[Tag](r2)

	k1, _ := r1.KindByName("scene_test.Tag")
	k2, _ := r2.KindByName("scene_test.Tag")
	assert.Equal(t, k1.ID, k2.ID)
}

func TestCapabilityRegisteredAfterKind(t *testing.T) {
	r := scene.NewTypeRegistry()
	scene.RegisterKind[scene.Camera](r)
	scene.RegisterKind[scene.Light](r)
	scene.RegisterKind[Probe](r)

	s := scene.NewScene("late", r, zap.NewNop())
	defer s.Close()
	id := s.Spawn("probe")
	require.NoError(t, s.Attach(id, &Probe{}))

	// capability arrives after components of the kind already exist
	scene.RegisterCapability[scene.Renderable](r)

	rs := scene.Components[scene.Renderable](s, scene.ForceRefresh())
	require.Len(t, rs, 1)
	assert.IsType(t, &Probe{}, rs[0])
}
