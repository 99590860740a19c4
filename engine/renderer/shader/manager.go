package shader

import "sync"

// ID identifies a container registered with a Manager. Ids are dense and start at 0.
type ID int

// Manager is the registry of shader containers. Scene objects reference shaders
// by ID; the renderer resolves ids through the manager when drawing.
type Manager interface {
	// Add registers a container and returns its id, equal to the number of
	// containers added before it.
	//
	// Parameters:
	//   - c: the container to register
	//
	// Returns:
	//   - ID: the container id
	Add(c Container) ID

	// Get returns the shared container for id.
	//
	// Parameters:
	//   - id: the container id
	//
	// Returns:
	//   - Container: the registered container (same instance for every caller)
	//   - bool: false if the id was never issued
	Get(id ID) (Container, bool)

	// Len returns the number of registered containers.
	//
	// Returns:
	//   - int: the container count
	Len() int
}

type manager struct {
	mu         *sync.RWMutex
	containers []Container
}

var _ Manager = &manager{}

// NewManager creates an empty shader registry.
//
// Returns:
//   - Manager: the registry
func NewManager() Manager {
	return &manager{
		mu: &sync.RWMutex{},
	}
}

func (m *manager) Add(c Container) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ID(len(m.containers))
	m.containers = append(m.containers, c)
	return id
}

func (m *manager) Get(id ID) (Container, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || int(id) >= len(m.containers) {
		return nil, false
	}
	return m.containers[id], true
}

func (m *manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.containers)
}
