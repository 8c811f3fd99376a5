package ecs

// VersionManager holds a per-aspect monotonically increasing version
// counter. Dirtying an aspect also bumps every one of its ancestors (via
// AspectRegistry.Ancestors) so a query over a less-specific aspect observes
// structural changes in any more-specific one, exactly mirroring
// _examples/original_source/source/ecs/storage/VersionManager.{hpp,cpp}.
type VersionManager struct {
	registry *AspectRegistry
	versions map[string]uint64
	global   uint64
}

func newVersionManager(registry *AspectRegistry) *VersionManager {
	return &VersionManager{
		registry: registry,
		versions: make(map[string]uint64, 64),
	}
}

// GetVersion returns the last-assigned version for a, or 0 if it has never
// been dirtied.
func (vm *VersionManager) GetVersion(a Aspect) uint64 {
	return vm.versions[a.key()]
}

// MakeDirty assigns a new global version to a and to every one of its
// registered ancestors.
func (vm *VersionManager) MakeDirty(a Aspect) {
	vm.global++
	v := vm.global
	vm.versions[a.key()] = v
	for _, ancestor := range vm.registry.Ancestors(a) {
		vm.versions[ancestor.key()] = v
	}
}
