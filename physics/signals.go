package physics

import (
	"github.com/plus3/vane/event"
	"github.com/plus3/vane/scene"
)

// Signals is the event contract between the physics bridge and its host.
// The Manager subscribes to all of them during Init and unsubscribes during
// Cleanup; everything else talks to the bridge by publishing or calling.
type Signals struct {
	// FrameUpdate drives simulation: each frame's delta and input snapshot.
	FrameUpdate *event.Stream[event.Frame]
	// BodyCreated registers a listener identity and hands back its body.
	BodyCreated *event.Request[scene.EntityID, *Body]
	// BodyDestroyed unregisters the given body.
	BodyDestroyed *event.Stream[*Body]
	// RaycastRequest resolves a world-space ray to the identity of the
	// nearest registered body, or NoEntity.
	RaycastRequest *event.Request[Ray, scene.EntityID]
	// Shutdown tears the bridge down.
	Shutdown *event.Stream[struct{}]
}

// NewSignals creates an unconnected signal bundle
func NewSignals() *Signals {
	return &Signals{
		FrameUpdate:    event.NewStream[event.Frame](),
		BodyCreated:    event.NewRequest[scene.EntityID, *Body](),
		BodyDestroyed:  event.NewStream[*Body](),
		RaycastRequest: event.NewRequest[Ray, scene.EntityID](),
		Shutdown:       event.NewStream[struct{}](),
	}
}
