package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

// ErrUnsupportedLayout is returned by CreateMesh for vertex layouts a backend cannot draw.
var ErrUnsupportedLayout = errors.New("unsupported vertex layout")

// BackendType identifies the GPU backend implementation used by the Renderer.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. Programs are WGSL.
	BackendTypeWGPU BackendType = iota

	// BackendTypeOpenGL selects the OpenGL 4.1 core backend. Programs are GLSL.
	BackendTypeOpenGL
)

func (t BackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeOpenGL:
		return "opengl"
	default:
		return fmt.Sprintf("BackendType(%d)", int(t))
	}
}

// ParseBackendType maps a configuration name to a BackendType.
//
// Parameters:
//   - name: "wgpu" or "opengl"
//
// Returns:
//   - BackendType: the backend type
//   - error: an error if the name is unknown
func ParseBackendType(name string) (BackendType, error) {
	switch name {
	case "wgpu", "webgpu":
		return BackendTypeWGPU, nil
	case "opengl", "gl":
		return BackendTypeOpenGL, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// ShaderKind returns the shader language the backend compiles.
func (t BackendType) ShaderKind() shader.Kind {
	if t == BackendTypeOpenGL {
		return shader.KindGLSL
	}
	return shader.KindWGSL
}

// VertexLayout describes the vertex buffer format of a mesh.
type VertexLayout int

const (
	// VertexLayoutColored is scene.ColoredVertex: float32x3 position and unorm8x4 color, 16 byte stride.
	VertexLayoutColored VertexLayout = iota
)

// Mesh is a backend-owned vertex and index buffer pair ready to be drawn.
type Mesh interface {
	// IndexCount returns the number of indices drawn by Submit.
	IndexCount() int

	// Release frees the GPU buffers. The mesh must not be submitted afterwards.
	Release()
}

// Backend is the GPU API the Renderer drives. Every method is called from the render goroutine.
// A frame is BeginFrame, SetViewTransform, any number of Submit and DebugText calls, then Frame.
type Backend interface {
	shader.Compiler

	// Init creates the device and surface for the native window.
	//
	// Parameters:
	//   - handle: the native window handle
	//
	// Returns:
	//   - error: an error if the GPU or surface cannot be created
	Init(handle window.Handle) error

	// Reset reconfigures the surface for a new size in pixels.
	//
	// Parameters:
	//   - width: the surface width
	//   - height: the surface height
	Reset(width, height int)

	// SetDebug toggles backend-side debug output such as validation logging.
	//
	// Parameters:
	//   - enabled: true to enable
	SetDebug(enabled bool)

	// BeginFrame acquires the next surface image and clears it.
	//
	// Parameters:
	//   - clear: the background color
	//
	// Returns:
	//   - error: an error if the surface image cannot be acquired
	BeginFrame(clear scene.Color) error

	// SetViewTransform sets the camera transform for the following Submit calls.
	// Both matrices use OpenGL clip conventions; backends correct for their own clip space.
	//
	// Parameters:
	//   - view: the view matrix
	//   - proj: the projection matrix
	SetViewTransform(view, proj mgl32.Mat4)

	// CreateMesh uploads vertex and index data.
	//
	// Parameters:
	//   - label: debug label for the buffers
	//   - layout: the vertex format of vertices
	//   - vertices: encoded vertex bytes
	//   - indices: encoded uint16 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: ErrUnsupportedLayout or a GPU error
	CreateMesh(label string, layout VertexLayout, vertices, indices []byte, indexCount int) (Mesh, error)

	// Submit draws a mesh with a program previously returned by CompileProgram.
	//
	// Parameters:
	//   - mesh: the mesh
	//   - program: the compiled program
	//   - model: the model matrix
	//
	// Returns:
	//   - error: an error if the mesh or program belong to a different backend
	Submit(mesh Mesh, program shader.Program, model mgl32.Mat4) error

	// DebugText places one line of text on the debug overlay.
	//
	// Parameters:
	//   - row: zero based row from the top of the surface
	//   - text: the line
	DebugText(row int, text string)

	// Frame finishes the frame and presents it.
	//
	// Returns:
	//   - error: an error if submission fails
	Frame() error

	// Shutdown releases every GPU object owned by the backend.
	Shutdown()
}

// NewBackend creates the backend for the given type.
//
// Parameters:
//   - t: the backend type
//   - options: backend options; options that do not apply to t are ignored
//
// Returns:
//   - Backend: the backend, not yet initialized
func NewBackend(t BackendType, options ...BackendOption) Backend {
	cfg := &backendConfig{}
	for _, opt := range options {
		opt(cfg)
	}
	switch t {
	case BackendTypeOpenGL:
		return newOpenGLRendererBackend(cfg)
	case BackendTypeWGPU:
		fallthrough
	default:
		return newWGPURendererBackend(cfg)
	}
}

type backendConfig struct {
	vsync                bool
	forceFallbackAdapter bool
	swap                 func()
}

// BackendOption configures a backend created with NewBackend.
type BackendOption func(*backendConfig)

// WithVSync waits for vertical blank when presenting.
//
// Parameters:
//   - vsync: true to cap presentation to the display refresh rate
//
// Returns:
//   - BackendOption: option function to apply
func WithVSync(vsync bool) BackendOption {
	return func(c *backendConfig) {
		c.vsync = vsync
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - BackendOption: option function to apply
func WithForceSoftwareRenderer(force bool) BackendOption {
	return func(c *backendConfig) {
		c.forceFallbackAdapter = force
	}
}

// WithSwapFunc sets the function the OpenGL backend calls to present a frame,
// normally window.Window.SwapBuffers.
//
// Parameters:
//   - swap: the buffer swap function
//
// Returns:
//   - BackendOption: option function to apply
func WithSwapFunc(swap func()) BackendOption {
	return func(c *backendConfig) {
		c.swap = swap
	}
}
