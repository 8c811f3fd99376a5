// Package main is a minimal ebiten program proving SPEC_FULL.md §6's demo
// contract: the ECS core owns component/singleton storage lifetime and the
// renderer is an opaque collaborator driven once per frame through
// World.Update. No actual drawing logic lives here beyond clearing the
// screen, which stays out of scope (see Non-goals in spec.md §2).
package main

import (
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spiteengine/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

// RendererSingleton is the opaque collaborator: the ECS core never reaches
// into ebiten directly, it only publishes the values a render-adjacent
// system needs into this singleton each frame.
type RendererSingleton struct {
	ClearColor color.RGBA
	EntityCount int
}

// FrameTimingSingleton tracks elapsed wall-clock and frame count, the way a
// PreRender-stage system would feed a debug overlay.
type FrameTimingSingleton struct {
	Elapsed   time.Duration
	FrameNum  uint64
}

// MovementSystem integrates Position by Velocity every Update stage.
type MovementSystem struct {
	world *ecs.World
	query *ecs.Query2[Position, Velocity]
}

func NewMovementSystem(world *ecs.World) *MovementSystem {
	return &MovementSystem{world: world}
}

func (s *MovementSystem) Name() string    { return "MovementSystem" }
func (s *MovementSystem) Stage() ecs.Stage { return ecs.StageUpdate }

func (s *MovementSystem) OnInit(sched *ecs.Scheduler) {
	s.query = ecs.NewQuery2[Position, Velocity](s.world.Components, s.world.Queries)
	posID := ecs.GetID[Position](s.world.Components)
	velID := ecs.GetID[Velocity](s.world.Components)
	sched.Declare(s, []ecs.ComponentID{velID}, []ecs.ComponentID{posID})
}

func (s *MovementSystem) Update(dt float64) {
	s.query.Reset()
	for s.query.Next() {
		pos, vel := s.query.GetMutable()
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	}
}

// RenderSingletonSyncSystem runs in PreRender, copying frame-timing and
// population bookkeeping into the singletons the Game.Draw callback reads.
type RenderSingletonSyncSystem struct {
	world   *ecs.World
	query   *ecs.Query1[Position]
	started time.Time
}

func NewRenderSingletonSyncSystem(world *ecs.World) *RenderSingletonSyncSystem {
	return &RenderSingletonSyncSystem{world: world, started: time.Now()}
}

func (s *RenderSingletonSyncSystem) Name() string    { return "RenderSingletonSyncSystem" }
func (s *RenderSingletonSyncSystem) Stage() ecs.Stage { return ecs.StagePreRender }

func (s *RenderSingletonSyncSystem) OnInit(sched *ecs.Scheduler) {
	s.query = ecs.NewQuery1[Position](s.world.Components, s.world.Queries)
	posID := ecs.GetID[Position](s.world.Components)
	sched.Declare(s, []ecs.ComponentID{posID}, nil)
}

func (s *RenderSingletonSyncSystem) Update(dt float64) {
	count := 0
	s.query.Reset()
	for s.query.Next() {
		count++
	}

	timing := ecs.Get[FrameTimingSingleton](s.world.Singletons)
	timing.Elapsed = time.Since(s.started)
	timing.FrameNum++

	renderer := ecs.Get[RendererSingleton](s.world.Singletons)
	renderer.EntityCount = count
}

// Game adapts World.Update into ebiten's Game interface, exactly the shape
// of the teacher's own Game.
type Game struct {
	world *ecs.World
}

func NewGame() (*Game, error) {
	world, err := ecs.NewWorld(ecs.WorldOptions{})
	if err != nil {
		return nil, err
	}

	ecs.RegisterComponent[Position](world.Components)
	ecs.RegisterComponent[Velocity](world.Components)

	world.Scheduler.Register(NewMovementSystem(world))
	world.Scheduler.Register(NewRenderSingletonSyncSystem(world))

	renderer := ecs.Get[RendererSingleton](world.Singletons)
	renderer.ClearColor = color.RGBA{R: 20, G: 24, B: 38, A: 255}

	for i := range 64 {
		e := world.Entities.CreateEntity()
		ecs.AddComponent(world.Entities, e, Position{X: float64(i), Y: float64(i) * 2})
		ecs.AddComponent(world.Entities, e, Velocity{DX: 1, DY: -1})
	}

	return &Game{world: world}, nil
}

func (g *Game) Update() error {
	g.world.Update(1.0 / 60.0)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	renderer := ecs.Get[RendererSingleton](g.world.Singletons)
	screen.Fill(renderer.ClearColor)
}

func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	return 1280, 720
}

func main() {
	game, err := NewGame()
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("ecs demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
