// Package system wires independent engine subsystems together. Subsystems
// register once, are initialized with or without a matching configuration
// value, and are retrieved by contract type, so none of them needs to know
// the others exist.
package system

import (
	"reflect"

	"github.com/plus3/vane/event"
	"github.com/plus3/vane/scene"
)

// System is the contract every registered subsystem fulfils
type System interface {
	Name() string
}

// Initializer is implemented by systems with parameterless setup
type Initializer interface {
	Init() error
}

// Configurable is implemented by systems whose setup needs a configuration
// value. ConfigKind declares the value's type; a system whose config was not
// provided is skipped during InitAll, not failed.
type Configurable interface {
	ConfigKind() reflect.Type
	InitWithConfig(cfg any) error
}

// Updater is a system that wants a call every frame. Updaters are retrieved
// as an unordered set; update logic must not rely on peer ordering.
type Updater interface {
	System
	Update(frame event.Frame) error
}

// Renderer is a system that draws. Renderers are retrieved sorted by
// ascending priority, lower values drawing first.
type Renderer interface {
	System
	RenderPriority() int
	Render(s *scene.Scene) error
}
