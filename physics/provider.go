package physics

import (
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/vmath"
)

// WorldProvider constructs the physics world the Manager will own. Hosts
// swap providers to change gravity or substitute a world implementation in
// tests.
type WorldProvider interface {
	ProvideWorld() (*dynamics.World, error)
}

// DefaultProvider builds the in-repo dynamics world with the given gravity.
// FixedStep and MaxSubSteps override the world's step tuning when positive.
type DefaultProvider struct {
	Gravity     vmath.Vec3
	FixedStep   float64
	MaxSubSteps int
}

// ProvideWorld implements WorldProvider
func (p DefaultProvider) ProvideWorld() (*dynamics.World, error) {
	w := dynamics.NewWorld(toVector3(p.Gravity))
	w.SetStepTuning(p.FixedStep, p.MaxSubSteps)
	return w, nil
}
