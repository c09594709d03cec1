package scene

import (
	"fmt"
	"io"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/plus3/vane/vmath"
)

// Environment is the scene-wide settings blob produced in cooperation with
// the environment/editor collaborators. The core persists it verbatim.
type Environment struct {
	Ambient    vmath.Vec3 `yaml:"ambient"`
	Skybox     string     `yaml:"skybox,omitempty"`
	FogDensity float64    `yaml:"fogDensity,omitempty"`
}

// Record is the persisted form of a scene
type Record struct {
	Name        string         `yaml:"name"`
	ID          string         `yaml:"id"`
	Environment Environment    `yaml:"environment"`
	Digest      string         `yaml:"digest,omitempty"`
	Entities    []EntityRecord `yaml:"entities"`
}

// EntityRecord is the persisted form of one entity. Parent references are by
// GUID and re-linked after all entities exist again.
type EntityRecord struct {
	GUID       string            `yaml:"guid"`
	Name       string            `yaml:"name"`
	Active     bool              `yaml:"active"`
	Parent     string            `yaml:"parent,omitempty"`
	Transform  TransformRecord   `yaml:"transform"`
	Components []ComponentRecord `yaml:"components,omitempty"`
}

// TransformRecord is the persisted local pose
type TransformRecord struct {
	Position [3]float64 `yaml:"position"`
	Rotation [4]float64 `yaml:"rotation"`
	Scale    [3]float64 `yaml:"scale"`
}

// ComponentRecord is one serialized component: its registered kind name, its
// enabled flag, and its exported fields as a nested document.
type ComponentRecord struct {
	Kind    string    `yaml:"kind"`
	Enabled bool      `yaml:"enabled"`
	Data    yaml.Node `yaml:"data,omitempty"`
}

// entityDigest fingerprints the serialized entity payload so a tampered or
// truncated record is detectable at load time.
func entityDigest(entities []EntityRecord) (string, error) {
	raw, err := yaml.Marshal(entities)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(raw)), nil
}

// Save captures the scene members, in scene order, into a Record
func (s *Scene) Save() (*Record, error) {
	rec := &Record{
		Name:        s.name,
		ID:          s.id.String(),
		Environment: s.env,
		Entities:    make([]EntityRecord, 0, len(s.order)),
	}

	for _, id := range s.order {
		sl := s.slot(id)
		if sl == nil {
			continue
		}

		er := EntityRecord{
			GUID:   sl.guid.String(),
			Name:   sl.name,
			Active: sl.active,
			Transform: TransformRecord{
				Position: [3]float64{sl.transform.Position.X, sl.transform.Position.Y, sl.transform.Position.Z},
				Rotation: [4]float64{sl.transform.Rotation.X, sl.transform.Rotation.Y, sl.transform.Rotation.Z, sl.transform.Rotation.W},
				Scale:    [3]float64{sl.transform.Scale.X, sl.transform.Scale.Y, sl.transform.Scale.Z},
			},
		}

		// parent recorded only when it is itself a saved member
		if ps := s.slot(sl.transform.parent); ps != nil && ps.member {
			er.Parent = ps.guid.String()
		}

		for _, c := range sl.components {
			kind, ok := s.reg.KindFor(reflect.TypeOf(c))
			if !ok {
				s.log.Warn("save: skipping unregistered component",
					zap.String("entity", sl.name), zap.String("type", fmt.Sprintf("%T", c)))
				continue
			}
			cr := ComponentRecord{Kind: kind.Name, Enabled: c.Enabled()}
			if err := cr.Data.Encode(c); err != nil {
				s.log.Warn("save: component encode failed",
					zap.String("entity", sl.name), zap.String("kind", kind.Name), zap.Error(err))
				continue
			}
			er.Components = append(er.Components, cr)
		}

		rec.Entities = append(rec.Entities, er)
	}

	digest, err := entityDigest(rec.Entities)
	if err != nil {
		return nil, fmt.Errorf("scene: save %q: %w", s.name, err)
	}
	rec.Digest = digest
	return rec, nil
}

// SaveTo writes the scene record as YAML
func (s *Scene) SaveTo(w io.Writer) error {
	rec, err := s.Save()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("scene: save %q: %w", s.name, err)
	}
	return enc.Close()
}

// LoadScene reconstructs a scene from a record. All entities are created
// detached first, parents are re-linked by GUID once every entity exists,
// then the roots are added to the scene in record order. The first entity
// exposing a Camera becomes the active camera; a record without one yields a
// cameraless scene, which is tolerated.
//
// Unknown component kinds, undecodable payloads, and failed attach hooks are
// logged and skipped; they never abort the load.
func LoadScene(rec *Record, reg *TypeRegistry, log *zap.Logger) (*Scene, error) {
	if rec == nil {
		return nil, fmt.Errorf("scene: load: nil record")
	}

	s := newScene(rec.Name, reg, log)
	s.env = rec.Environment

	if id, err := uuid.Parse(rec.ID); err == nil {
		s.id = id
	} else if rec.ID != "" {
		s.log.Warn("load: bad scene id, assigning a fresh one",
			zap.String("scene", rec.Name), zap.String("id", rec.ID))
	}

	if rec.Digest != "" {
		digest, err := entityDigest(rec.Entities)
		if err == nil && digest != rec.Digest {
			s.log.Warn("load: digest mismatch, record may be altered",
				zap.String("scene", rec.Name),
				zap.String("want", rec.Digest), zap.String("got", digest))
		}
	}

	byGUID := make(map[string]EntityID, len(rec.Entities))
	ids := make([]EntityID, len(rec.Entities))

	for i, er := range rec.Entities {
		id := s.SpawnDetached(er.Name)
		sl := s.slot(id)
		sl.active = er.Active
		if g, err := uuid.Parse(er.GUID); err == nil {
			sl.guid = g
		} else {
			s.log.Warn("load: bad entity guid, keeping generated one",
				zap.String("entity", er.Name), zap.String("guid", er.GUID))
		}
		sl.transform.Position = vmath.Vec3{X: er.Transform.Position[0], Y: er.Transform.Position[1], Z: er.Transform.Position[2]}
		sl.transform.Rotation = vmath.Quat{X: er.Transform.Rotation[0], Y: er.Transform.Rotation[1], Z: er.Transform.Rotation[2], W: er.Transform.Rotation[3]}.Normalized()
		sl.transform.Scale = vmath.Vec3{X: er.Transform.Scale[0], Y: er.Transform.Scale[1], Z: er.Transform.Scale[2]}

		for _, cr := range er.Components {
			kind, ok := reg.KindByName(cr.Kind)
			if !ok {
				s.log.Warn("load: unknown component kind",
					zap.String("entity", er.Name), zap.String("kind", cr.Kind))
				continue
			}
			c := kind.New()
			if cr.Data.Kind != 0 {
				if err := cr.Data.Decode(c); err != nil {
					s.log.Warn("load: component decode failed",
						zap.String("entity", er.Name), zap.String("kind", cr.Kind), zap.Error(err))
					continue
				}
			}
			c.SetEnabled(cr.Enabled)
			if err := s.Attach(id, c); err != nil {
				s.log.Warn("load: component attach failed",
					zap.String("entity", er.Name), zap.String("kind", cr.Kind), zap.Error(err))
			}
		}

		byGUID[er.GUID] = id
		ids[i] = id
	}

	// second pass: re-link parents now that every entity exists
	for i, er := range rec.Entities {
		if er.Parent == "" {
			continue
		}
		parent, ok := byGUID[er.Parent]
		if !ok {
			s.log.Warn("load: unresolved parent, leaving entity at root",
				zap.String("entity", er.Name), zap.String("parent", er.Parent))
			continue
		}
		if err := s.SetParent(ids[i], parent); err != nil {
			s.log.Warn("load: re-parenting failed",
				zap.String("entity", er.Name), zap.Error(err))
		}
	}

	for i, er := range rec.Entities {
		if er.Parent != "" {
			if _, ok := byGUID[er.Parent]; ok {
				continue
			}
		}
		if err := s.AddEntity(ids[i]); err != nil {
			return nil, fmt.Errorf("scene: load %q: add %q: %w", rec.Name, er.Name, err)
		}
	}

	for _, id := range ids {
		if _, ok := ComponentOn[*Camera](s, id); ok {
			_ = s.SetActiveCamera(id)
			break
		}
	}
	if s.activeCamera == NoEntity {
		s.log.Debug("load: scene has no camera", zap.String("scene", rec.Name))
	}

	return s, nil
}

// LoadSceneFrom decodes a YAML record and reconstructs the scene
func LoadSceneFrom(r io.Reader, reg *TypeRegistry, log *zap.Logger) (*Scene, error) {
	var rec Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("scene: load: %w", err)
	}
	return LoadScene(&rec, reg, log)
}
