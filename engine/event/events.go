package event

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
)

// InitEvent is dispatched once after the engine finished initialization.
type InitEvent struct {
	Cancellable
}

// ShutdownEvent is dispatched once when the host loop exits, before the renderer shuts down.
type ShutdownEvent struct {
	Cancellable
}

// InteractKind distinguishes keyboard and mouse input.
type InteractKind int

const (
	// InteractKeyboard is a key press or repeat.
	InteractKeyboard InteractKind = iota

	// InteractMouse is a cursor movement sample.
	InteractMouse
)

// MouseData is the cursor sample carried by mouse interact events.
type MouseData struct {
	Cursor  mgl32.Vec2
	Delta   mgl32.Vec2
	Pressed bool
}

// InteractEvent carries one input sample produced by the host loop.
type InteractEvent struct {
	Cancellable
	Kind  InteractKind
	Key   common.Key
	Mouse MouseData
}

// NewKeyboardEvent builds a keyboard InteractEvent.
func NewKeyboardEvent(key common.Key) *InteractEvent {
	return &InteractEvent{Kind: InteractKeyboard, Key: key}
}

// NewMouseEvent builds a mouse InteractEvent.
func NewMouseEvent(data MouseData) *InteractEvent {
	return &InteractEvent{Kind: InteractMouse, Mouse: data}
}

// Action is the closed set of requested state changes carried by an ActionEvent.
type Action interface {
	isAction()
}

// ChangeScene requests a switch to the named scene.
type ChangeScene struct {
	Name string
}

// UpdateResolution requests a new surface resolution in pixels.
type UpdateResolution struct {
	Width  int
	Height int
}

// ViewportUpdate replaces the current scene's camera vectors.
type ViewportUpdate struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
	Up  mgl32.Vec3
}

// ToggleDebug switches the renderer debug overlay.
type ToggleDebug struct {
	Enabled bool
}

func (ChangeScene) isAction()      {}
func (UpdateResolution) isAction() {}
func (ViewportUpdate) isAction()   {}
func (ToggleDebug) isAction()      {}

// ActionEvent carries a requested state change to the engine's action subscriber.
type ActionEvent struct {
	Cancellable
	Action Action
}

// NewActionEvent wraps an Action in an ActionEvent.
func NewActionEvent(a Action) *ActionEvent {
	return &ActionEvent{Action: a}
}
