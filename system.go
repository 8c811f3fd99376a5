package ecs

// Stage is a system's declared execution stage within a frame. Systems in
// an earlier stage always run before systems in a later one, regardless of
// read/write dependency analysis. Grounded on spec.md §4.12's fixed ordered
// stage set.
type Stage uint8

const (
	StagePreUpdate Stage = iota
	StageUpdate
	StagePreRender
	StageRender
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StagePreUpdate:
		return "PreUpdate"
	case StageUpdate:
		return "Update"
	case StagePreRender:
		return "PreRender"
	case StageRender:
		return "Render"
	default:
		return "Unknown"
	}
}

// SystemDependencies is one system's declared read/write component sets
// plus the queries it runs, collected during onInitialize. Grounded on
// _examples/original_source/source/ecs/systems/SystemDependencies.hpp,
// replacing its DynamicBitset with bitset256 (MAX_COMPONENTS already fits
// in 256 bits here).
type SystemDependencies struct {
	read    bitset256
	write   bitset256
	queries []QueryDescriptor
}

// System is the interface every scheduled unit of work implements. OnInit
// is called once, before the first Update, and is where a system should
// declare its dependencies via Scheduler.Declare; Update runs every frame
// in dependency+stage order.
type System interface {
	Name() string
	Stage() Stage
	OnInit(s *Scheduler)
	Update(dt float64)
}

// SystemDependencyStorage owns every registered system's declared
// dependencies, keyed by system identity. Mirrors
// SystemDependencyStorage.{hpp,cpp} directly, substituting a Go map keyed
// by the System interface value for the original's SystemBase* key.
type SystemDependencyStorage struct {
	deps map[System]*SystemDependencies
}

func newSystemDependencyStorage() *SystemDependencyStorage {
	return &SystemDependencyStorage{deps: make(map[System]*SystemDependencies, 32)}
}

func (s *SystemDependencyStorage) entry(sys System) *SystemDependencies {
	d, ok := s.deps[sys]
	if !ok {
		d = &SystemDependencies{}
		s.deps[sys] = d
	}
	return d
}

// RegisterDependencies declares the component IDs sys reads and/or writes
// directly (outside of any query).
func (s *SystemDependencyStorage) RegisterDependencies(sys System, reads, writes []ComponentID) {
	d := s.entry(sys)
	for _, id := range reads {
		assertInvariant(id != invalidComponentID, InvalidHandle, "invalid component id in read set")
		d.read.set(int(id))
	}
	for _, id := range writes {
		assertInvariant(id != invalidComponentID, InvalidHandle, "invalid component id in write set")
		d.write.set(int(id))
	}
}

// RegisterQuery records a query descriptor against sys, folding its include
// aspect into the read set (queries only ever read the include columns
// directly; any writes must be separately declared via RegisterDependencies
// or the GetMutable accessor's caller).
func (s *SystemDependencyStorage) RegisterQuery(sys System, desc QueryDescriptor) {
	d := s.entry(sys)
	d.queries = append(d.queries, desc)
	for _, id := range desc.include.IDs() {
		d.read.set(int(id))
	}
}

func (s *SystemDependencyStorage) GetDependencies(sys System) *SystemDependencies {
	return s.entry(sys)
}
