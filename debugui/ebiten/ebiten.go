// Package ebiten provides Dear ImGui backend integration for Ebiten hosts.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend. Hosts keep one
// on their game object and bracket overlay rendering with BeginFrame and
// EndFrame.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}
