// Profiling:
// go build ./cmd/profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof
package main

import (
	"github.com/pkg/profile"
	"github.com/spiteengine/ecs"
)

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := ecs.NewWorld(ecs.WorldOptions{})
		if err != nil {
			panic(err)
		}
		ecs.RegisterComponent[position](w.Components)
		ecs.RegisterComponent[velocity](w.Components)
		q := ecs.NewQuery2[position, velocity](w.Components, w.Queries)

		for range iters {
			created := w.Entities.CreateEntities(numEntities)
			for _, e := range created {
				ecs.AddComponent(w.Entities, e, position{})
				ecs.AddComponent(w.Entities, e, velocity{DX: 1, DY: 1})
			}

			var toRemove []ecs.Entity
			q.Reset()
			for q.Next() {
				toRemove = append(toRemove, q.Entity())
				pos, vel := q.Get()
				pos.X += vel.DX
				pos.Y += vel.DY
			}
			w.Entities.DestroyEntities(toRemove)
		}
	}
}
