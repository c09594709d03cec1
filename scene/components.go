package scene

import "github.com/plus3/vane/vmath"

// LightKind selects the light model
type LightKind string

const (
	LightDirectional LightKind = "directional"
	LightPoint       LightKind = "point"
	LightSpot        LightKind = "spot"
)

// Camera marks an entity as a viewpoint. The scene tracks at most one active
// camera; renderers read it through Scene.ActiveCamera.
type Camera struct {
	ComponentBase

	FieldOfView float64
	Near        float64
	Far         float64
	Background  vmath.Vec3
}

// NewCamera returns a camera with the default perspective settings
func NewCamera() *Camera {
	return &Camera{
		FieldOfView: 60,
		Near:        0.1,
		Far:         1000,
		Background:  vmath.Vec3{X: 0.1, Y: 0.1, Z: 0.12},
	}
}

// Light contributes illumination to the scene
type Light struct {
	ComponentBase

	Kind      LightKind
	Color     vmath.Vec3
	Intensity float64
}

// NewLight returns a white directional light of intensity 1
func NewLight() *Light {
	return &Light{
		Kind:      LightDirectional,
		Color:     vmath.Vec3{X: 1, Y: 1, Z: 1},
		Intensity: 1,
	}
}

// Renderable is the capability for components that occupy space on screen.
// The physics bridge also uses it to derive a collision hull when a rigidbody
// has no explicit one.
type Renderable interface {
	Component
	// Bounds returns the component's local-space bounding box
	Bounds() vmath.AABB
}

// MeshRenderer draws a named mesh asset. Mesh resolution and drawing belong
// to the render collaborator; the scene only carries the reference and the
// local bounds.
type MeshRenderer struct {
	ComponentBase

	Mesh     string
	Material string
	Size     vmath.Vec3
}

// NewMeshRenderer returns a renderer for the named mesh with unit bounds
func NewMeshRenderer(mesh string) *MeshRenderer {
	return &MeshRenderer{Mesh: mesh, Size: vmath.Vec3{X: 1, Y: 1, Z: 1}}
}

// Bounds returns the renderer's local bounding box, centered on the entity
func (m *MeshRenderer) Bounds() vmath.AABB {
	half := m.Size.Scale(0.5)
	return vmath.AABB{Min: half.Scale(-1), Max: half}
}

// RegisterBuiltin registers the scene's own component kinds and capabilities
// on the given registry. Call it once per registry before constructing scenes.
func RegisterBuiltin(r *TypeRegistry) {
	RegisterKind[Camera](r)
	RegisterKind[Light](r)
	RegisterKind[MeshRenderer](r)
	RegisterCapability[Renderable](r)
	RegisterCapability[Behaviour](r)
}
