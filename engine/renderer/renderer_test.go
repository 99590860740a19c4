package renderer

import (
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/engine/camera"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

const testWGSL = `
@group(0) @binding(0) var<uniform> mvp: mat4x4<f32>;

@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
	return mvp * vec4<f32>(pos, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

type fakeProgram struct {
	label    string
	released bool
}

func (p *fakeProgram) Release() { p.released = true }

type fakeMesh struct {
	indexCount int
	released   bool
}

func (m *fakeMesh) IndexCount() int { return m.indexCount }
func (m *fakeMesh) Release()        { m.released = true }

type submitted struct {
	mesh    Mesh
	program shader.Program
	model   mgl32.Mat4
}

type fakeBackend struct {
	initErr    error
	compileErr error

	inits     int
	resets    []Resolution
	debug     bool
	clears    []scene.Color
	frames    int
	compiles  int
	meshes    []*fakeMesh
	submits   []submitted
	text      []string
	view      mgl32.Mat4
	shutdowns int
}

func (b *fakeBackend) Init(window.Handle) error {
	b.inits++
	return b.initErr
}

func (b *fakeBackend) Reset(w, h int)       { b.resets = append(b.resets, Resolution{w, h}) }
func (b *fakeBackend) SetDebug(enabled bool) { b.debug = enabled }

func (b *fakeBackend) BeginFrame(c scene.Color) error {
	b.clears = append(b.clears, c)
	b.text = nil
	return nil
}

func (b *fakeBackend) SetViewTransform(view, _ mgl32.Mat4) { b.view = view }

func (b *fakeBackend) CompileProgram(c shader.Container) (shader.Program, error) {
	b.compiles++
	if b.compileErr != nil {
		return nil, b.compileErr
	}
	return &fakeProgram{label: c.Label()}, nil
}

func (b *fakeBackend) CreateMesh(_ string, _ VertexLayout, _, _ []byte, indexCount int) (Mesh, error) {
	m := &fakeMesh{indexCount: indexCount}
	b.meshes = append(b.meshes, m)
	return m, nil
}

func (b *fakeBackend) Submit(m Mesh, p shader.Program, model mgl32.Mat4) error {
	b.submits = append(b.submits, submitted{m, p, model})
	return nil
}

func (b *fakeBackend) DebugText(row int, text string) {
	for len(b.text) <= row {
		b.text = append(b.text, "")
	}
	b.text[row] = text
}

func (b *fakeBackend) Frame() error {
	b.frames++
	return nil
}

func (b *fakeBackend) Shutdown() { b.shutdowns++ }

var testHandle = window.XlibHandle{Display: unsafe.Pointer(new(int)), Window: 1}

func cube() *scene.ColoredMesh {
	return scene.NewColoredMesh(
		[]scene.ColoredVertex{
			{Position: mgl32.Vec3{0, 0, 0}, Color: 0xff0000ff},
			{Position: mgl32.Vec3{1, 0, 0}, Color: 0xff00ff00},
			{Position: mgl32.Vec3{0, 1, 0}, Color: 0xffff0000},
		},
		[]uint16{0, 1, 2},
	)
}

// newTestScene builds a scene whose camera looks into chunk (0, 0) holding the given objects.
func newTestScene(objects ...*scene.Object) scene.Scene {
	cam := camera.NewCamera(
		camera.WithEye(mgl32.Vec3{-5, 0, -5}),
		camera.WithUp(mgl32.Vec3{0, 0.5, 0}),
	)
	s := scene.NewScene("test", scene.WithCamera(cam))
	c := scene.NewChunk(scene.ChunkCoord{X: 0, Y: 0})
	for _, o := range objects {
		c.AddObject(o)
	}
	s.AddChunk(c, mgl32.Vec2{-50, -50}, mgl32.Vec2{50, 50})
	return s
}

func newReadyRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *fakeBackend, shader.Manager) {
	t.Helper()
	b := &fakeBackend{}
	shaders := shader.NewManager()
	r := NewRenderer(b, shaders, options...)
	if err := r.Init(testHandle); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return r, b, shaders
}

func addTestShader(t *testing.T, m shader.Manager) shader.ID {
	t.Helper()
	c, err := shader.NewWGSLContainer("test", []byte(testWGSL), []byte(testWGSL))
	if err != nil {
		t.Fatalf("NewWGSLContainer() error = %v", err)
	}
	return m.Add(c)
}

func TestLifecycle(t *testing.T) {
	b := &fakeBackend{}
	r := NewRenderer(b, shader.NewManager())

	if r.State() != StateUninitialized {
		t.Fatalf("State() = %v, want uninitialized", r.State())
	}
	if err := r.RenderCycle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RenderCycle() before Init error = %v, want ErrInvalidState", err)
	}
	if err := r.Shutdown(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Shutdown() before Init error = %v, want ErrInvalidState", err)
	}

	if err := r.Init(testHandle); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := r.Init(testHandle); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Init() error = %v, want ErrInvalidState", err)
	}
	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if r.State() != StateStopped || b.shutdowns != 1 {
		t.Errorf("after Shutdown state = %v, backend shutdowns = %d", r.State(), b.shutdowns)
	}
	if err := r.RenderCycle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RenderCycle() after Shutdown error = %v, want ErrInvalidState", err)
	}
}

func TestInitRejectsUnknownHandle(t *testing.T) {
	b := &fakeBackend{}
	r := NewRenderer(b, shader.NewManager())

	for _, h := range []window.Handle{nil, window.UnknownHandle{Name: "xcb"}} {
		if err := r.Init(h); !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Init(%v) error = %v, want ErrUnsupportedPlatform", h, err)
		}
	}
	if r.State() != StateUninitialized || b.inits != 0 {
		t.Errorf("state = %v, backend inits = %d; want untouched", r.State(), b.inits)
	}
}

func TestInitBackendError(t *testing.T) {
	b := &fakeBackend{initErr: errors.New("no adapter")}
	r := NewRenderer(b, shader.NewManager())
	if err := r.Init(testHandle); err == nil || !strings.Contains(err.Error(), "no adapter") {
		t.Errorf("Init() error = %v, want backend error", err)
	}
	if r.State() != StateUninitialized {
		t.Errorf("State() = %v, want uninitialized", r.State())
	}
}

func TestResolutionCoalesces(t *testing.T) {
	r, b, _ := newReadyRenderer(t)

	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if len(b.resets) != 0 {
		t.Errorf("resets = %v, want none while pending equals applied 0x0", b.resets)
	}

	r.UpdateSurfaceResolution(800, 600)
	r.UpdateSurfaceResolution(1024, 768)
	if got := r.Resolution(); got != (Resolution{1024, 768}) {
		t.Errorf("Resolution() = %v, want 1024x768", got)
	}
	for range 3 {
		if err := r.RenderCycle(); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.resets) != 1 || b.resets[0] != (Resolution{1024, 768}) {
		t.Errorf("resets = %v, want exactly [1024x768]", b.resets)
	}

	r.UpdateSurfaceResolution(1024, 768)
	r.UpdateSurfaceResolution(1024, 768)
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if len(b.resets) != 1 {
		t.Errorf("resets = %v after repeating the applied size, want no new reset", b.resets)
	}

	r.UpdateSurfaceResolution(1280, 720)
	for range 2 {
		if err := r.RenderCycle(); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.resets) != 2 || b.resets[1] != (Resolution{1280, 720}) {
		t.Errorf("resets = %v, want a second reset to 1280x720", b.resets)
	}
}

func TestWithResolutionResetsOnFirstFrame(t *testing.T) {
	r, b, _ := newReadyRenderer(t, WithResolution(640, 480))
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if len(b.resets) != 1 || b.resets[0] != (Resolution{640, 480}) {
		t.Errorf("resets = %v, want [640x480]", b.resets)
	}
}

func TestMissingSceneOrChunkPresentsBackground(t *testing.T) {
	r, b, _ := newReadyRenderer(t, WithClearColor(scene.ColorFromRGBA(0x000000ff)))

	if err := r.RenderCycle(); err != nil {
		t.Fatalf("RenderCycle() without scene error = %v", err)
	}
	if b.frames != 1 || b.clears[0] != scene.ColorFromRGBA(0x000000ff) {
		t.Errorf("frames = %d, clear = %v; want one frame of the clear color", b.frames, b.clears)
	}

	s := scene.NewScene("empty")
	s.SetBackground(scene.ColorFromRGBA(0x102030ff))
	r.SetScene(s)
	if err := r.RenderCycle(); err != nil {
		t.Fatalf("RenderCycle() without chunk error = %v", err)
	}
	if b.frames != 2 || b.clears[1] != scene.ColorFromRGBA(0x102030ff) {
		t.Errorf("frames = %d, clear = %v; want scene background", b.frames, b.clears[1])
	}
	if len(b.submits) != 0 {
		t.Errorf("submits = %d, want 0", len(b.submits))
	}
}

func TestSceneWithoutBackgroundUsesClearColor(t *testing.T) {
	clearColor := scene.ColorFromRGBA(0x204060ff)
	r, b, _ := newReadyRenderer(t, WithClearColor(clearColor))

	r.SetScene(scene.NewScene("plain"))
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if b.clears[0] != clearColor {
		t.Errorf("clear = %v, want configured clear color %v", b.clears[0], clearColor)
	}
}

func TestShutdownReleasesPrograms(t *testing.T) {
	r, _, shaders := newReadyRenderer(t)
	id := addTestShader(t, shaders)
	r.SetScene(newTestScene(scene.NewObject(cube(), id, mgl32.Vec3{3, 0, 0})))
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}

	c, _ := shaders.Get(id)
	p, ok := c.Program().(*fakeProgram)
	if !ok {
		t.Fatal("shader not loaded after the first frame")
	}
	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !p.released || c.Loaded() {
		t.Errorf("program released = %v, container loaded = %v; want true, false", p.released, c.Loaded())
	}
}

func TestShutdownStopsWorkers(t *testing.T) {
	before := runtime.NumGoroutine()

	r := NewRenderer(&fakeBackend{}, shader.NewManager(), WithWorkers(4))
	if err := r.Init(testHandle); err != nil {
		t.Fatal(err)
	}
	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d after Shutdown, want at most %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestObjectsDrawnInOrderWithCachedResources(t *testing.T) {
	r, b, shaders := newReadyRenderer(t, WithWorkers(2))
	id := addTestShader(t, shaders)

	o1 := scene.NewObject(cube(), id, mgl32.Vec3{3, 0, 0})
	o2 := scene.NewObject(cube(), id, mgl32.Vec3{7, 0, 0})
	r.SetScene(newTestScene(o1, o2))

	for range 3 {
		if err := r.RenderCycle(); err != nil {
			t.Fatalf("RenderCycle() error = %v", err)
		}
	}

	if b.compiles != 1 {
		t.Errorf("compiles = %d, want 1", b.compiles)
	}
	if len(b.meshes) != 2 {
		t.Errorf("meshes created = %d, want 2", len(b.meshes))
	}
	if len(b.submits) != 6 {
		t.Fatalf("submits = %d, want 6", len(b.submits))
	}
	if b.submits[0].model != o1.ModelMatrix() || b.submits[1].model != o2.ModelMatrix() {
		t.Error("objects not submitted in storage order")
	}
	if b.submits[0].mesh != b.submits[2].mesh {
		t.Error("mesh of the first object changed between frames")
	}
	if b.submits[0].mesh.IndexCount() != 3 {
		t.Errorf("IndexCount() = %d, want 3", b.submits[0].mesh.IndexCount())
	}

	want := r.Scene().Camera().State().ViewMatrix()
	if b.view != want {
		t.Error("view transform not taken from the scene camera")
	}

	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}
	for i, m := range b.meshes {
		if !m.released {
			t.Errorf("mesh %d not released on Shutdown", i)
		}
	}
}

func TestSkippedObjects(t *testing.T) {
	r, b, shaders := newReadyRenderer(t)
	id := addTestShader(t, shaders)

	textured := scene.NewObject(scene.NewImageTexturedMesh([]scene.ImageTexturedVertex{{}}, []uint16{0, 0, 0}, nil), id, mgl32.Vec3{})
	unknown := scene.NewObject(cube(), shader.ID(99), mgl32.Vec3{})
	empty := scene.NewObject(scene.NewColoredMesh(nil, nil), id, mgl32.Vec3{})
	drawn := scene.NewObject(cube(), id, mgl32.Vec3{1, 0, 0})
	r.SetScene(newTestScene(textured, unknown, empty, drawn))

	if err := r.RenderCycle(); err != nil {
		t.Fatalf("RenderCycle() error = %v", err)
	}
	if len(b.submits) != 1 || b.submits[0].model != drawn.ModelMatrix() {
		t.Errorf("submits = %d, want only the drawable object", len(b.submits))
	}
	if b.frames != 1 {
		t.Errorf("frames = %d, want 1", b.frames)
	}
}

func TestShaderLoadErrorIsFatal(t *testing.T) {
	r, b, shaders := newReadyRenderer(t)
	b.compileErr = errors.New("bad shader")
	id := addTestShader(t, shaders)
	r.SetScene(newTestScene(scene.NewObject(cube(), id, mgl32.Vec3{})))

	if err := r.RenderCycle(); err == nil || !strings.Contains(err.Error(), "bad shader") {
		t.Errorf("RenderCycle() error = %v, want shader error", err)
	}
	if b.frames != 0 {
		t.Errorf("frames = %d, want 0 after a fatal error", b.frames)
	}
}

func TestDebugLinesInOrder(t *testing.T) {
	r, b, _ := newReadyRenderer(t)
	r.PutDebugLine("fps", "60")
	r.PutDebugLine("scene", "default")

	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if len(b.text) != 0 {
		t.Errorf("debug text drawn while debug is off: %q", b.text)
	}

	r.DoDebug(true)
	if !b.debug || !r.Debug() {
		t.Error("DoDebug(true) not forwarded to the backend")
	}
	r.PutDebugLine("fps", "59")
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	want := []string{"fps: 59", "scene: default"}
	if len(b.text) != len(want) {
		t.Fatalf("debug text = %q, want %q", b.text, want)
	}
	for i := range want {
		if b.text[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, b.text[i], want[i])
		}
	}

	r.SetDebugData(NewDebugData(DebugLine{Key: "only", Value: "1"}))
	if d := r.DebugData(); d.Len() != 1 {
		t.Errorf("DebugData().Len() = %d, want 1", d.Len())
	}
}

func TestSetSceneSwaps(t *testing.T) {
	r, b, shaders := newReadyRenderer(t)
	id := addTestShader(t, shaders)

	first := newTestScene(scene.NewObject(cube(), id, mgl32.Vec3{}))
	second := newTestScene()
	r.SetScene(first)
	if r.Scene() != first {
		t.Fatal("Scene() did not return the bound scene")
	}
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	r.SetScene(second)
	if err := r.RenderCycle(); err != nil {
		t.Fatal(err)
	}
	if len(b.submits) != 1 {
		t.Errorf("submits = %d, want 1 (second scene has an empty chunk)", len(b.submits))
	}
}

func TestPerspectiveOption(t *testing.T) {
	p := camera.Perspective{FovDegrees: 90, Near: 1, Far: 10}
	r := NewRenderer(&fakeBackend{}, shader.NewManager(), WithPerspective(p), WithDebug(true))
	if r.Perspective() != p || !r.Debug() {
		t.Errorf("options not applied: %v, debug %v", r.Perspective(), r.Debug())
	}
	r.UpdatePerspective(camera.DefaultPerspective())
	if r.Perspective() != camera.DefaultPerspective() {
		t.Error("UpdatePerspective() not applied")
	}
}

func TestParseBackendType(t *testing.T) {
	tests := []struct {
		in   string
		want BackendType
		err  bool
	}{
		{"wgpu", BackendTypeWGPU, false},
		{"opengl", BackendTypeOpenGL, false},
		{"vulkan", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBackendType(tt.in)
		if (err != nil) != tt.err || (!tt.err && got != tt.want) {
			t.Errorf("ParseBackendType(%q) = %v, %v", tt.in, got, err)
		}
	}
	if BackendTypeOpenGL.ShaderKind() != shader.KindGLSL || BackendTypeWGPU.ShaderKind() != shader.KindWGSL {
		t.Error("ShaderKind() mismatch")
	}
}
