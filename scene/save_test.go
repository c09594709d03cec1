package scene_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

func testEntityRecord(name string) scene.EntityRecord {
	return scene.EntityRecord{
		GUID:   uuid.NewString(),
		Name:   name,
		Active: true,
		Transform: scene.TransformRecord{
			Rotation: [4]float64{0, 0, 0, 1},
			Scale:    [3]float64{1, 1, 1},
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestScene()
	env := s.Environment()
	env.Ambient = vmath.Vec3{X: 0.2, Y: 0.2, Z: 0.25}
	env.Skybox = "dusk"
	env.FogDensity = 0.02

	player := s.Spawn("player")
	require.NoError(t, s.Attach(player, &Tag{Label: "hero"}))
	mr := scene.NewMeshRenderer("capsule")
	mr.Material = "steel"
	mr.Size = vmath.Vec3{X: 1, Y: 2, Z: 1}
	require.NoError(t, s.Attach(player, mr))
	s.Transform(player).Position = vmath.Vec3{X: 3, Z: -2}

	hat := s.Spawn("hat")
	require.NoError(t, s.SetParent(hat, player))
	s.Transform(hat).Position = vmath.Vec3{Y: 1.1}

	prop := s.Spawn("prop")
	s.SetEntityActive(prop, false)
	ptag := &Tag{Label: "static"}
	ptag.SetEnabled(false)
	require.NoError(t, s.Attach(prop, ptag))

	playerGUID := s.GUID(player)
	hatGUID := s.GUID(hat)
	propGUID := s.GUID(prop)

	rec, err := s.Save()
	require.NoError(t, err)
	require.Len(t, rec.Entities, 5)
	assert.NotEmpty(t, rec.Digest)

	s2, err := scene.LoadScene(rec, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, 5, s2.Len())
	assert.Equal(t, "dusk", s2.Environment().Skybox)
	assert.InDelta(t, 0.02, s2.Environment().FogDensity, 1e-12)
	assert.NotEqual(t, scene.NoEntity, s2.ActiveCamera())

	p2 := s2.FindByGUID(playerGUID)
	require.NotEqual(t, scene.NoEntity, p2)
	assert.Equal(t, "player", s2.EntityName(p2))
	assert.Equal(t, vmath.Vec3{X: 3, Z: -2}, s2.Transform(p2).Position)

	tag2, ok := scene.ComponentOn[*Tag](s2, p2)
	require.True(t, ok)
	assert.Equal(t, "hero", tag2.Label)

	mr2, ok := scene.ComponentOn[*scene.MeshRenderer](s2, p2)
	require.True(t, ok)
	assert.Equal(t, "capsule", mr2.Mesh)
	assert.Equal(t, "steel", mr2.Material)
	assert.Equal(t, vmath.Vec3{X: 1, Y: 2, Z: 1}, mr2.Size)

	h2 := s2.FindByGUID(hatGUID)
	require.NotEqual(t, scene.NoEntity, h2)
	assert.Equal(t, p2, s2.Transform(h2).Parent())

	pr2 := s2.FindByGUID(propGUID)
	require.NotEqual(t, scene.NoEntity, pr2)
	assert.False(t, s2.EntityActive(pr2))
	ptag2, ok := scene.ComponentOn[*Tag](s2, pr2)
	require.True(t, ok)
	assert.False(t, ptag2.Enabled())
}

func TestSaveToLoadFromYAML(t *testing.T) {
	s := newTestScene()
	id := s.Spawn("crate")
	require.NoError(t, s.Attach(id, &Tag{Label: "wood"}))

	var buf bytes.Buffer
	require.NoError(t, s.SaveTo(&buf))
	assert.Contains(t, buf.String(), "guid:")
	assert.Contains(t, buf.String(), "scene_test.Tag")

	s2, err := scene.LoadSceneFrom(&buf, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, 3, s2.Len())
}

func TestSaveExcludesDetachedEntities(t *testing.T) {
	s := newTestScene()
	s.SpawnDetached("ghost")

	rec, err := s.Save()
	require.NoError(t, err)
	require.Len(t, rec.Entities, 2)
	for _, er := range rec.Entities {
		assert.NotEqual(t, "ghost", er.Name)
	}
}

func TestLoadToleratesMissingCamera(t *testing.T) {
	rec := &scene.Record{
		Name:     "bare",
		ID:       uuid.NewString(),
		Entities: []scene.EntityRecord{testEntityRecord("solo")},
	}

	s, err := scene.LoadScene(rec, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, scene.NoEntity, s.ActiveCamera())
}

func TestLoadSkipsUnknownComponentKind(t *testing.T) {
	er := testEntityRecord("mystery")
	er.Components = []scene.ComponentRecord{{Kind: "demo.Gizmo", Enabled: true}}
	rec := &scene.Record{Name: "odd", ID: uuid.NewString(), Entities: []scene.EntityRecord{er}}

	s, err := scene.LoadScene(rec, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, 1, s.Len())
	id := s.EntityIDs()[0]
	assert.Empty(t, s.ComponentsOn(id))
}

func TestLoadDigestMismatchStillLoads(t *testing.T) {
	s := newTestScene()
	s.Spawn("keep")
	rec, err := s.Save()
	require.NoError(t, err)
	rec.Digest = "0123456789abcdef"

	s2, err := scene.LoadScene(rec, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, 3, s2.Len())
}

func TestLoadUnresolvedParentStaysAtRoot(t *testing.T) {
	er := testEntityRecord("orphan")
	er.Parent = uuid.NewString()
	rec := &scene.Record{Name: "partial", ID: uuid.NewString(), Entities: []scene.EntityRecord{er}}

	s, err := scene.LoadScene(rec, newTestRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, 1, s.Len())
	id := s.EntityIDs()[0]
	assert.Equal(t, scene.NoEntity, s.Transform(id).Parent())
}
