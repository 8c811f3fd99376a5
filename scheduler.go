package ecs

import (
	"fmt"
	"sort"
)

// Scheduler builds a dependency graph over registered systems — system A
// must precede system B if A writes a component B reads or writes, or A
// reads a component B writes — intersected with stage ordering (an earlier
// stage's systems always precede a later stage's, regardless of
// read/write overlap), and executes a single-threaded topological walk
// each frame. Grounded on spec.md §4.12; no surviving C++ scheduler source,
// only the dependency-bitset bookkeeping in SystemDependencyStorage, so the
// graph-build and topo-sort are original work in the teacher's plain,
// low-abstraction style.
type Scheduler struct {
	deps     *SystemDependencyStorage
	systems  []System
	order    []System
	orderBuilt bool
	log      *Logger
}

func newScheduler(log *Logger) *Scheduler {
	return &Scheduler{deps: newSystemDependencyStorage(), log: log}
}

// Declare lets a system (inside its OnInit) register its read/write
// component sets and queries with the scheduler that owns it.
func (s *Scheduler) Declare(sys System, reads, writes []ComponentID) {
	s.deps.RegisterDependencies(sys, reads, writes)
}

// DeclareQuery lets a system register a query descriptor for dependency
// analysis (its include aspect is folded into the system's read set).
func (s *Scheduler) DeclareQuery(sys System, desc QueryDescriptor) {
	s.deps.RegisterQuery(sys, desc)
}

// Register adds sys to the scheduler and calls its OnInit, invalidating the
// cached execution order.
func (s *Scheduler) Register(sys System) {
	s.systems = append(s.systems, sys)
	s.orderBuilt = false
	sys.OnInit(s)
}

func conflicts(a, b *SystemDependencies) bool {
	return a.write.intersects(b.read) || a.write.intersects(b.write) || a.read.intersects(b.write)
}

// buildOrder performs a deterministic topological sort: an edge runs from
// system A to system B when A must precede B (stage order, or a
// read/write/write conflict with A declared earlier in registration
// order as the tie-break). Kahn's algorithm, processing ready nodes in
// registration order for determinism.
func (s *Scheduler) buildOrder() {
	n := len(s.systems)
	indegree := make([]int, n)
	edges := make([][]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			iStage, jStage := s.systems[i].Stage(), s.systems[j].Stage()
			mustPrecede := false
			if iStage < jStage {
				mustPrecede = true
			} else if iStage == jStage {
				di := s.deps.GetDependencies(s.systems[i])
				dj := s.deps.GetDependencies(s.systems[j])
				if conflicts(di, dj) && i < j {
					mustPrecede = true
				}
			}
			if mustPrecede {
				edges[i] = append(edges[i], j)
				indegree[j]++
			}
		}
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	order := make([]System, 0, n)
	for len(ready) > 0 {
		idx := ready[0]
		ready = ready[1:]
		order = append(order, s.systems[idx])
		for _, j := range edges[idx] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
				sort.Ints(ready)
			}
		}
	}

	assertInvariant(len(order) == n, AspectViolation, "system dependency graph has a cycle")
	s.order = order
	s.orderBuilt = true
}

// Update runs every registered system once, in dependency+stage order, then
// resets per-frame bookkeeping (modification tracking) the way the
// original's scheduler does between frames.
func (s *Scheduler) Update(dt float64, archMgr *ArchetypeManager) {
	if !s.orderBuilt {
		s.buildOrder()
	}
	for _, sys := range s.order {
		if s.log != nil {
			s.log.Debugf("system %s (stage %s) update", sys.Name(), sys.Stage())
		}
		sys.Update(dt)
	}
	resetAllModificationTracking(archMgr)
}

// resetAllModificationTracking clears every chunk's modified bitset across
// every archetype, matching spec.md §4.9's between-frame reset contract.
func resetAllModificationTracking(archMgr *ArchetypeManager) {
	for _, a := range archMgr.byAspect {
		for _, c := range a.chunks {
			c.resetModificationTracking()
		}
	}
}

// DebugDump returns a human-readable rendering of the built execution
// order, useful in tests and logs.
func (s *Scheduler) DebugDump() string {
	if !s.orderBuilt {
		s.buildOrder()
	}
	out := ""
	for i, sys := range s.order {
		out += fmt.Sprintf("%d: %s [%s]\n", i, sys.Name(), sys.Stage())
	}
	return out
}
