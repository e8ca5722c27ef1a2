package descriptor

import "sync"

// arena owns the nodes of a graph. IDs are stable slice indices.
type arena struct {
	mu    sync.RWMutex
	nodes []Mapping
}

func (a *arena) add(m Mapping) NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nodes = append(a.nodes, m)

	return NodeID(len(a.nodes) - 1)
}

func (a *arena) get(id NodeID) Mapping {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}

	return a.nodes[id]
}

func (a *arena) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.nodes)
}

// all returns a snapshot of the nodes in insertion order.
func (a *arena) all() []Mapping {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Mapping, len(a.nodes))
	copy(out, a.nodes)

	return out
}
