package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/vane/engine"
	"github.com/plus3/vane/physics"
	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

// spinner keeps the scene graph busy without touching physics.
type spinner struct {
	scene.ComponentBase
	Speed float64
}

func (sp *spinner) Update(s *scene.Scene, id scene.EntityID, dt float64) {
	tr := s.Transform(id)
	tr.Rotation = tr.Rotation.Mul(vmath.QuatFromAxisAngle(vmath.Vec3{Y: 1}, sp.Speed*dt))
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The number of entities to spawn.")
	bodyEvery := flag.Int("body-every", 4, "Attach a rigidbody to every Nth entity (0 disables bodies).")
	raysPerFrame := flag.Int("rays", 16, "Raycasts fired against the physics bridge each frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting scene stress test...")

	// 1. Build the runtime and register the stress behaviour
	ctx, err := engine.NewContext(engine.DefaultConfig(), nil)
	if err != nil {
		log.Fatalf("Failed to build engine context: %v", err)
	}
	defer ctx.Close()

	scene.RegisterKind[spinner](ctx.Types())
	s := ctx.Scene()

	// 2. Populate the scene
	log.Printf("Populating scene with %d entities...\n", *entityCount)

	ground := s.Spawn("ground")
	s.Transform(ground).Position = vmath.Vec3{Y: -2}
	groundBody := physics.NewRigidbody(ctx.Signals())
	groundBody.Static = true
	groundCorners := vmath.AABB{
		Min: vmath.Vec3{X: -500, Y: -1, Z: -500},
		Max: vmath.Vec3{X: 500, Y: 1, Z: 500},
	}.Corners()
	groundBody.HullPoints = groundCorners[:]
	if err := s.Attach(ground, groundBody); err != nil {
		log.Fatalf("Failed to attach ground body: %v", err)
	}

	bodies := 1
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < *entityCount; i++ {
		id := s.Spawn(fmt.Sprintf("stress-%d", i))
		tr := s.Transform(id)
		tr.Position = vmath.Vec3{
			X: rng.Float64()*200 - 100,
			Y: rng.Float64()*50 + 5,
			Z: rng.Float64()*200 - 100,
		}

		if err := s.Attach(id, &spinner{Speed: rng.Float64() * 4}); err != nil {
			log.Fatalf("Failed to attach spinner: %v", err)
		}

		if *bodyEvery > 0 && i%*bodyEvery == 0 {
			if err := s.Attach(id, scene.NewMeshRenderer("cube")); err != nil {
				log.Fatalf("Failed to attach renderer: %v", err)
			}
			if err := s.Attach(id, physics.NewRigidbody(ctx.Signals())); err != nil {
				log.Fatalf("Failed to attach rigidbody: %v", err)
			}
			bodies++
		}
	}
	log.Printf("Population complete: %d entities, %d bodies.\n", s.Len(), bodies)

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       s.Len(),
		Bodies:         bodies,
		RaysPerFrame:   *raysPerFrame,
		GCPauseMetrics: *gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	runCtx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalFrames int64
	var rayHits int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-runCtx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			tickStart := time.Now()
			ctx.Tick(deltaTime.Seconds())
			report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))

			for r := 0; r < *raysPerFrame; r++ {
				ray := physics.Ray{
					Origin: vmath.Vec3{
						X: rng.Float64()*200 - 100,
						Y: 100,
						Z: rng.Float64()*200 - 100,
					},
					Direction:   vmath.Vec3{Y: -1},
					MaxDistance: 500,
				}
				hit, err := ctx.Physics().Raycast(ray)
				if err != nil {
					log.Fatalf("Raycast failed: %v", err)
				}
				if hit != scene.NoEntity {
					rayHits++
				}
			}
			totalFrames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = totalFrames
	report.RayHits = rayHits
	report.TickTime.Finalize()
	report.Physics = ctx.Physics().Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
