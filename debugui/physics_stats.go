package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/vane/engine"
	"github.com/plus3/vane/scene"
)

func NewPhysicsStats(historyFrames int) *PhysicsStats {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &PhysicsStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

func (ps *PhysicsStats) Render(ctx *engine.Context) {
	if !imgui.BeginV("Engine Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ctx.Stats()
	ps.frameHistory[ps.frameIndex] = float32(stats.LastTick.Seconds() * 1000)
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Tick: last %.2fms  avg %.2fms  max %.2fms",
		stats.LastTick.Seconds()*1000,
		stats.AvgTick.Seconds()*1000,
		stats.MaxTick.Seconds()*1000))

	var sum float32
	for _, ms := range ps.frameHistory {
		sum += ms
	}
	imgui.Text(fmt.Sprintf("Window avg: %.2fms over %d frames", sum/float32(ps.historyFrames), ps.historyFrames))
	imgui.PlotLinesFloatPtr("##tickhistory", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	imgui.Separator()
	pstats := ctx.Physics().Stats()
	imgui.Text(fmt.Sprintf("Bodies: %d", pstats.Bodies))
	imgui.Text(fmt.Sprintf("Integration steps: %d", pstats.Steps))
	imgui.Text(fmt.Sprintf("Step: last %.2fms  total %.1fms",
		pstats.LastStep.Seconds()*1000,
		pstats.TotalStep.Seconds()*1000))

	imgui.Separator()
	s := ctx.Scene()
	imgui.Text(fmt.Sprintf("Scene %q: %d entities", s.Name(), s.Len()))
	if cam := s.ActiveCamera(); cam == scene.NoEntity {
		imgui.Text("Camera: none")
	} else {
		imgui.Text(fmt.Sprintf("Camera: %s", s.EntityName(cam)))
	}

	imgui.End()
}
