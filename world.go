package ecs

import (
	"github.com/spiteengine/ecs/internal/engineconfig"
	"github.com/spiteengine/ecs/internal/memalloc"
	"github.com/spiteengine/ecs/internal/strintern"
)

// World owns every ECS subsystem and is the single construction root an
// application holds onto. Grounded on the teacher's World (the aggregate
// object a caller constructs once) generalized to wire the whole
// archetype/aspect/version/shared/singleton/query/scheduler stack this
// module builds instead of the teacher's flat mask-indexed archetype map.
type World struct {
	Config     engineconfig.Config
	Log        *Logger
	Components *ComponentMetadataRegistry
	Aspects    *AspectRegistry
	Versions   *VersionManager
	Archetypes *ArchetypeManager
	Shared     *SharedComponentManager
	Singletons *SingletonComponentRegistry
	Queries    *QueryRegistry
	Entities   *EntityManager
	Scheduler  *Scheduler
	Events     *InputEventBus
	Strings    *strintern.Interner

	allocators    *memalloc.AllocatorRegistry
	frameScratch  *memalloc.FrameScratchRegistry
}

// WorldOptions configures World construction; an empty value uses
// engineconfig.Default().
type WorldOptions struct {
	ConfigPath string
}

// NewWorld wires every subsystem together in dependency order: component
// registry and aspect DAG first (nothing else can exist without them),
// then version tracking, then archetype storage, then the shared/singleton
// managers, then queries, then the front-door EntityManager, then the
// scheduler.
func NewWorld(opts WorldOptions) (*World, error) {
	cfg, err := engineconfig.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log := NewLogger(cfg.LogLevel, cfg.LogJSON)

	components := newComponentMetadataRegistry(cfg.MaxComponents)
	aspects := newAspectRegistry()
	versions := newVersionManager(aspects)
	archMgr := newArchetypeManager(components, aspects, versions)
	shared := newSharedComponentManager(components)
	singletons := newSingletonComponentRegistry()
	queries := newQueryRegistry(archMgr, aspects, versions)
	entities := newEntityManager(components, archMgr, shared, singletons, versions)
	scheduler := newScheduler(log)

	allocators := memalloc.NewAllocatorRegistry()
	allocators.CreateAllocator(cfg.NamedAllocatorMain, cfg.MainHeapBytes)
	allocators.CreateAllocator(cfg.NamedAllocatorGPU, cfg.GPUHeapBytes)
	frameScratch := memalloc.NewFrameScratchRegistry(int(cfg.FrameScratchBytes))

	w := &World{
		Config:       cfg,
		Log:          log,
		Components:   components,
		Aspects:      aspects,
		Versions:     versions,
		Archetypes:   archMgr,
		Shared:       shared,
		Singletons:   singletons,
		Queries:      queries,
		Entities:     entities,
		Scheduler:    scheduler,
		Events:       newInputEventBus(),
		Strings:      strintern.NewInterner(),
		allocators:   allocators,
		frameScratch: frameScratch,
	}
	log.Infof("world initialized: max_components=%d chunk_capacity=%d", cfg.MaxComponents, cfg.ChunkCapacity)
	return w, nil
}

// Update runs one frame: the scheduler executes every registered system in
// dependency+stage order, then resets modification tracking, then resets
// every worker's frame-scratch allocator — mirroring spec.md §4.12's
// between-frame contract (resetAllModificationTracking + FrameScratch.reset_frame()).
func (w *World) Update(dt float64) {
	w.Scheduler.Update(dt, w.Archetypes)
	w.frameScratch.ResetFrame()
}

// FrameScratch returns the ScratchAllocator for the given worker, lazily
// creating it.
func (w *World) FrameScratch(worker memalloc.WorkerID) *memalloc.ScratchAllocator {
	return w.frameScratch.Get(worker)
}

// HeapAllocator returns the named heap pool (main/gpu by default).
func (w *World) HeapAllocator(name string) *memalloc.HeapAllocator {
	return w.allocators.GetAllocator(name)
}

// Shutdown destroys every remaining component across every archetype and
// shuts down the named heap pools, surfacing any LeakDetected conditions.
func (w *World) Shutdown(force bool) []error {
	w.Archetypes.shutdown()
	return w.allocators.ShutdownAll(force)
}
