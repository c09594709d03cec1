package ebiten_test

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/vane/debugui"
	debugui_ebiten "github.com/plus3/vane/debugui/ebiten"
	"github.com/plus3/vane/engine"
)

// Game implements ebiten.Game and drives an engine context with the debug
// overlay rendered on top.
type Game struct {
	ctx     *engine.Context
	backend debugui_ebiten.ImguiBackend
}

func (g *Game) Update() error {
	// Begin the ImGui frame before any renderer system emits widgets
	g.backend.BeginFrame()

	g.ctx.Tick(1.0 / 60.0)
	g.ctx.Render()

	g.backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw world content to screen first
	// ...

	// Blit the ImGui overlay on top
	g.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	// Create the Ebiten window and ImGui backend
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow("engine overlay example", 1280, 720)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	// Build the runtime and install the overlay as a renderer system
	ctx, err := engine.NewContext(engine.DefaultConfig(), nil)
	if err != nil {
		panic(err)
	}
	defer ctx.Close()

	if _, err := debugui.Install(ctx); err != nil {
		panic(err)
	}

	game := &Game{
		ctx:     ctx,
		backend: debugui_ebiten.ImguiBackend{EbitenBackend: backend},
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
