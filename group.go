package clap

import "fmt"

// groupPartition collects the arguments filed under one display group.
type groupPartition struct {
	group *Group
	specs []*argSpec
}

// mutexPartition collects the arguments of one mutually exclusive group.
type mutexPartition struct {
	mutex *MutexGroup
	specs []*argSpec
}

// groupRegistry tracks group and mutex membership for one command and
// enforces their structural invariants at compile time, independent of any
// argv.
type groupRegistry struct {
	groups  []*groupPartition
	mutexes []*mutexPartition
	byTitle map[string]*Group
}

func newGroupRegistry() *groupRegistry {
	return &groupRegistry{byTitle: map[string]*Group{}}
}

// file places the spec into its group and mutex partitions.
func (r *groupRegistry) file(spec *argSpec) error {
	if g := spec.group; g != nil {
		if other, ok := r.byTitle[g.Title]; ok && other != g {
			return fmt.Errorf("%w: '%s'", ErrDuplicateGroupTitle, g.Title)
		}
		r.byTitle[g.Title] = g
		r.partitionFor(g).specs = append(r.partitionFor(g).specs, spec)
	}
	if m := spec.mutex; m != nil {
		if spec.group != nil && m.Parent != spec.group {
			return fmt.Errorf("%w: group '%s'", ErrMutexParentMismatch, spec.group.Title)
		}
		r.mutexFor(m).specs = append(r.mutexFor(m).specs, spec)
	}
	return nil
}

func (r *groupRegistry) partitionFor(g *Group) *groupPartition {
	for _, p := range r.groups {
		if p.group == g {
			return p
		}
	}
	p := &groupPartition{group: g}
	r.groups = append(r.groups, p)
	return p
}

func (r *groupRegistry) mutexFor(m *MutexGroup) *mutexPartition {
	for _, p := range r.mutexes {
		if p.mutex == m {
			return p
		}
	}
	p := &mutexPartition{mutex: m}
	r.mutexes = append(r.mutexes, p)
	return p
}

// validate runs the cross-argument checks once all specs are filed, and
// registers mutex parent groups whose members only declared the mutex.
func (r *groupRegistry) validate() error {
	for _, p := range r.mutexes {
		if parent := p.mutex.Parent; parent != nil {
			if other, ok := r.byTitle[parent.Title]; ok && other != parent {
				return fmt.Errorf("%w: '%s'", ErrDuplicateGroupTitle, parent.Title)
			}
			r.byTitle[parent.Title] = parent
			r.partitionFor(parent)
		}
	}
	return nil
}
