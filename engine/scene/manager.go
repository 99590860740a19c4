package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/xGl0ck/XGEngine/engine/event"
)

// DefaultSceneName is the scene every manager holds from construction.
const DefaultSceneName = "default"

// ErrSceneNotFound is returned when a scene name is not registered.
var ErrSceneNotFound = errors.New("scene does not exist")

// ChangeSceneEvent is dispatched on the engine topic when a scene is about to become
// the rendered scene. Subscribers may cancel it to veto the switch.
type ChangeSceneEvent struct {
	event.Cancellable
	Scene Scene
}

// Manager owns the named scenes of an engine.
type Manager interface {
	// Add registers s under its name, replacing any scene with the same name.
	//
	// Parameters:
	//   - s: the scene to register
	Add(s Scene)

	// Get returns the scene registered under name.
	//
	// Parameters:
	//   - name: the scene name
	//
	// Returns:
	//   - Scene: the scene
	//   - error: ErrSceneNotFound if name is not registered
	Get(name string) (Scene, error)

	// Names returns the registered scene names in sorted order.
	Names() []string

	// RenderScene looks up name and dispatches a ChangeSceneEvent carrying it on the engine topic.
	//
	// Parameters:
	//   - name: the scene to render
	//
	// Returns:
	//   - Scene: the target scene
	//   - event.Result: the dispatch result; Cancelled means the switch was vetoed
	//   - error: ErrSceneNotFound if name is not registered
	RenderScene(name string) (Scene, event.Result, error)
}

type manager struct {
	mu     *sync.RWMutex
	bus    *event.Bus
	scenes map[string]Scene
}

var _ Manager = &manager{}

// NewManager creates a manager holding only the default scene.
//
// Parameters:
//   - bus: the bus change-scene events are dispatched on
//
// Returns:
//   - Manager: the scene manager
func NewManager(bus *event.Bus) Manager {
	return &manager{
		mu:  &sync.RWMutex{},
		bus: bus,
		scenes: map[string]Scene{
			DefaultSceneName: NewScene(DefaultSceneName),
		},
	}
}

func (m *manager) Add(s Scene) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes[s.Name()] = s
}

func (m *manager) Get(name string) (Scene, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrSceneNotFound)
	}
	return s, nil
}

func (m *manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scenes))
	for n := range m.scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *manager) RenderScene(name string) (Scene, event.Result, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, event.Result{}, err
	}
	res := event.Dispatch(m.bus, event.TopicEngine, &ChangeSceneEvent{Scene: s})
	return s, res, nil
}
