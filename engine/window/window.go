package window

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
)

// ClientAPI selects the graphics context GLFW creates for the window.
type ClientAPI int

const (
	// ClientAPINone creates no context; the renderer brings its own (WebGPU).
	ClientAPINone ClientAPI = iota

	// ClientAPIOpenGL creates an OpenGL 4.1 core context and makes it current.
	ClientAPIOpenGL
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(key common.Key))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(key common.Key))

	// SetMouseMoveCallback sets the callback for mouse movement.
	// The first movement after the window opens reports a zero delta.
	//
	// Parameters:
	//   - callback: function receiving the cursor position and its change since the last event
	SetMouseMoveCallback(callback func(cursor, delta mgl32.Vec2))

	// Handle returns the native window handle the renderer draws into.
	//
	// Returns:
	//   - Handle: the handle, UnknownHandle when the window system is not supported
	Handle() Handle

	// ClientAPI returns the graphics context the window was created with.
	ClientAPI() ClientAPI

	// PollEvents processes pending window events without blocking.
	// Callbacks run on the calling goroutine.
	PollEvents()

	// SwapBuffers presents the back buffer of an OpenGL window. No-op for ClientAPINone.
	SwapBuffers()

	// RequestClose marks the window for closing. Safe to call from callbacks.
	RequestClose()

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title string

	clientAPI ClientAPI

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the framebuffer, which differs from the window size on high-DPI displays.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize    func(width, height int)
	onKeyDown   func(key common.Key)
	onKeyUp     func(key common.Key)
	onMouseMove func(cursor, delta mgl32.Vec2)

	cursor     mgl32.Vec2
	cursorSeen bool
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "XGEngine",
		clientAPI: ClientAPINone,
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key common.Key)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key common.Key)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(cursor, delta mgl32.Vec2)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseMove = callback
}

func (w *engineWindow) Handle() Handle {
	return HandleFromSurfaceDescriptor(platformGetSurfaceDescriptor(w))
}

func (w *engineWindow) ClientAPI() ClientAPI {
	return w.clientAPI
}

func (w *engineWindow) PollEvents() {
	platformPollEvents(w)
}

func (w *engineWindow) SwapBuffers() {
	if w.clientAPI == ClientAPIOpenGL {
		platformSwapBuffers(w)
	}
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// keyDown forwards a press to the key down callback.
func (w *engineWindow) keyDown(key common.Key) {
	w.mu.Lock()
	cb := w.onKeyDown
	w.mu.Unlock()
	if cb != nil {
		cb(key)
	}
}

func (w *engineWindow) keyUp(key common.Key) {
	w.mu.Lock()
	cb := w.onKeyUp
	w.mu.Unlock()
	if cb != nil {
		cb(key)
	}
}

// mouseMoved records the cursor and forwards it with the delta since the previous position.
func (w *engineWindow) mouseMoved(x, y float32) {
	w.mu.Lock()
	cursor := mgl32.Vec2{x, y}
	var delta mgl32.Vec2
	if w.cursorSeen {
		delta = cursor.Sub(w.cursor)
	}
	w.cursor = cursor
	w.cursorSeen = true
	cb := w.onMouseMove
	w.mu.Unlock()

	if cb != nil {
		cb(cursor, delta)
	}
}

// resized records the framebuffer size and forwards it to the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	cb := w.onResize
	w.mu.Unlock()

	if cb != nil {
		cb(width, height)
	}
}
