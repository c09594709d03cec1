package scene

import "go.uber.org/zap"

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opDestroy
	opAttach
	opDetach
)

// deferredOp is one structural mutation queued during a behaviour pass
type deferredOp struct {
	kind opKind
	id   EntityID
	comp Component
}

// Update runs every enabled Behaviour on active entities, then flushes the
// structural changes the pass queued. Spawns, destroys, attaches, and
// detaches issued from behaviour code are deferred so the pass iterates a
// stable snapshot.
func (s *Scene) Update(dt float64) {
	behaviours := Components[Behaviour](s)

	s.updating = true
	for _, b := range behaviours {
		owner := b.Owner()
		if s.slot(owner) == nil {
			continue
		}
		b.Update(s, owner, dt)
	}
	s.updating = false

	s.flushPending()
}

// flushPending applies queued ops in the order they were issued. Ops whose
// entity died earlier in the flush are dropped.
func (s *Scene) flushPending() {
	if len(s.pending) == 0 {
		return
	}
	ops := s.pending
	s.pending = nil

	for _, op := range ops {
		switch op.kind {
		case opAdd:
			if err := s.addEntityNow(op.id); err != nil {
				s.log.Debug("deferred add dropped",
					zap.Uint64("entity", uint64(op.id)), zap.Error(err))
			}
		case opRemove:
			s.removeEntityNow(op.id)
		case opDestroy:
			s.destroyNow(op.id)
		case opAttach:
			sl := s.slot(op.id)
			if sl == nil {
				s.log.Debug("deferred attach dropped",
					zap.Uint64("entity", uint64(op.id)))
				continue
			}
			if err := s.attachNow(op.id, sl, op.comp); err != nil {
				s.log.Warn("deferred attach failed",
					zap.Uint64("entity", uint64(op.id)), zap.Error(err))
			}
		case opDetach:
			if sl := s.slot(op.id); sl != nil {
				s.detachNow(op.id, sl, op.comp)
			}
		}
	}
}
