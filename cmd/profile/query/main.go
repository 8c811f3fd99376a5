// Profiling:
// go build ./cmd/profile/query
// go tool pprof -http=":8000" ./query cpu.pprof
package main

import (
	"github.com/pkg/profile"
	"github.com/spiteengine/ecs"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type health struct{ HP int }

func main() {
	iters := 200000
	entities := 2000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(iters, entities)
	p.Stop()
}

// run builds a mixed population spread across several archetypes — some
// entities carry position+velocity, some add health on top — then repeatedly
// re-resolves and iterates a Query2[position, velocity] to exercise the
// cache-hit path in QueryRegistry.resolve and the per-chunk column-index
// cache in Query2.
func run(iters, numEntities int) {
	w, err := ecs.NewWorld(ecs.WorldOptions{})
	if err != nil {
		panic(err)
	}
	ecs.RegisterComponent[position](w.Components)
	ecs.RegisterComponent[velocity](w.Components)
	ecs.RegisterComponent[health](w.Components)

	for i := range numEntities {
		e := w.Entities.CreateEntity()
		ecs.AddComponent(w.Entities, e, position{X: float64(i)})
		ecs.AddComponent(w.Entities, e, velocity{DX: 1, DY: 1})
		if i%3 == 0 {
			ecs.AddComponent(w.Entities, e, health{HP: 100})
		}
	}

	q := ecs.NewQuery2[position, velocity](w.Components, w.Queries)
	var sumX, sumY float64
	for range iters {
		q.Reset()
		for q.Next() {
			pos, vel := q.Get()
			sumX += pos.X
			sumY += vel.DY
		}
	}
	_ = sumX
	_ = sumY
}
