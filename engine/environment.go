package engine

import (
	"sync"

	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/event"
	"github.com/xGl0ck/XGEngine/engine/scene"
)

// Environment holds the named scenes of an engine and tracks which one is rendered.
type Environment interface {
	// CreateScene builds a scene with a zeroed camera and registers it, replacing any
	// scene with the same name.
	//
	// Parameters:
	//   - name: the scene name
	//   - options: functional options for the camera and background
	//
	// Returns:
	//   - scene.Scene: the registered scene
	CreateScene(name string, options ...scene.SceneBuilderOption) scene.Scene

	// AddScene registers s under its name, replacing any scene with the same name.
	//
	// Parameters:
	//   - s: the scene to register
	AddScene(s scene.Scene)

	// GetScene returns the scene registered under name.
	//
	// Parameters:
	//   - name: the scene name
	//
	// Returns:
	//   - scene.Scene: the scene
	//   - error: scene.ErrSceneNotFound if name is not registered
	GetScene(name string) (scene.Scene, error)

	// SceneNames returns the registered scene names in sorted order.
	SceneNames() []string

	// CurrentScene returns the scene the last successful RenderScene switched to.
	// It is the default scene until then.
	CurrentScene() scene.Scene

	// RenderScene dispatches a scene.ChangeSceneEvent for name. The current scene moves
	// only when the scene exists and no subscriber cancelled the event.
	//
	// Parameters:
	//   - name: the scene to render
	//
	// Returns:
	//   - event.Result: the dispatch result
	//   - error: scene.ErrSceneNotFound if name is not registered
	RenderScene(name string) (event.Result, error)
}

type environment struct {
	mu      *sync.RWMutex
	scenes  scene.Manager
	current scene.Scene
}

var _ Environment = &environment{}

// NewEnvironment creates an environment holding only the default scene, which is current.
//
// Parameters:
//   - bus: the bus change-scene events are dispatched on
//
// Returns:
//   - Environment: the environment
func NewEnvironment(bus *event.Bus) Environment {
	scenes := scene.NewManager(bus)
	current, _ := scenes.Get(scene.DefaultSceneName)
	return &environment{
		mu:      &sync.RWMutex{},
		scenes:  scenes,
		current: current,
	}
}

func (e *environment) CreateScene(name string, options ...scene.SceneBuilderOption) scene.Scene {
	s := scene.NewScene(name, options...)
	e.scenes.Add(s)
	return s
}

func (e *environment) AddScene(s scene.Scene) {
	e.scenes.Add(s)
}

func (e *environment) GetScene(name string) (scene.Scene, error) {
	return e.scenes.Get(name)
}

func (e *environment) SceneNames() []string {
	return e.scenes.Names()
}

func (e *environment) CurrentScene() scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// RenderScene does not hold the environment lock during dispatch, so subscribers may
// read CurrentScene; they observe the previous scene.
func (e *environment) RenderScene(name string) (event.Result, error) {
	s, res, err := e.scenes.RenderScene(name)
	if err != nil {
		return res, err
	}
	if !res.Passed() {
		common.Logger().Info("scene change cancelled", "scene", name, "reason", res.Reason)
		return res, nil
	}

	e.mu.Lock()
	e.current = s
	e.mu.Unlock()
	common.Logger().Info("scene changed", "scene", name)
	return res, nil
}
