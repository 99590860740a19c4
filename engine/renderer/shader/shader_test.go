package shader

import (
	"errors"
	"testing"
)

const testWGSL = `
// @vertex fn commented_out() {}
@group(0) @binding(0) var<uniform> mvp: mat4x4f;
@group(0) @binding(1) var<storage, read> extra: array<f32>;

struct VertexOut {
	@builtin(position) position: vec4f,
	@location(0) color: vec4f,
}

@vertex
fn vs_main(@location(0) pos: vec3f, @location(1) color: vec4f) -> VertexOut {
	var out: VertexOut;
	out.position = mvp * vec4f(pos, 1.0);
	out.color = color;
	return out;
}

/* @fragment fn nope() {} */
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4f {
	return in.color;
}
`

const testGLSLVertex = "#version 410 core\nvoid main() {}\n"

type fakeProgram struct {
	released bool
}

func (p *fakeProgram) Release() { p.released = true }

type fakeCompiler struct {
	calls int
	err   error
}

func (c *fakeCompiler) CompileProgram(Container) (Program, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &fakeProgram{}, nil
}

func TestNewWGSLContainer(t *testing.T) {
	c, err := NewWGSLContainer("colored", []byte(testWGSL), []byte(testWGSL))
	if err != nil {
		t.Fatalf("NewWGSLContainer() error = %v", err)
	}
	if got := c.EntryPoint(StageVertex); got != "vs_main" {
		t.Errorf("EntryPoint(vertex) = %q, want vs_main", got)
	}
	if got := c.EntryPoint(StageFragment); got != "fs_main" {
		t.Errorf("EntryPoint(fragment) = %q, want fs_main", got)
	}
	if c.Kind() != KindWGSL {
		t.Errorf("Kind() = %v, want wgsl", c.Kind())
	}

	uniforms := c.Uniforms()
	if len(uniforms) != 1 {
		t.Fatalf("len(Uniforms()) = %d, want 1", len(uniforms))
	}
	if u := uniforms[0]; u.Group != 0 || u.Binding != 0 || u.Name != "mvp" || u.Type != "mat4x4f" {
		t.Errorf("Uniforms()[0] = %+v", u)
	}
}

func TestNewWGSLContainerMissingEntryPoint(t *testing.T) {
	_, err := NewWGSLContainer("broken", []byte("@fragment fn fs() {}"), []byte(testWGSL))
	if !errors.Is(err, ErrMissingEntryPoint) {
		t.Errorf("NewWGSLContainer() error = %v, want ErrMissingEntryPoint", err)
	}
}

func TestNewGLSLContainer(t *testing.T) {
	c, err := NewGLSLContainer("colored", []byte(testGLSLVertex), []byte(testGLSLVertex))
	if err != nil {
		t.Fatalf("NewGLSLContainer() error = %v", err)
	}
	if c.EntryPoint(StageVertex) != "main" || c.Kind() != KindGLSL {
		t.Errorf("unexpected GLSL container: kind=%v entry=%q", c.Kind(), c.EntryPoint(StageVertex))
	}

	_, err = NewGLSLContainer("broken", []byte("void main() {}"), []byte(testGLSLVertex))
	if !errors.Is(err, ErrMissingVersion) {
		t.Errorf("NewGLSLContainer() error = %v, want ErrMissingVersion", err)
	}
}

func TestSourceIsImmutable(t *testing.T) {
	raw := []byte(testGLSLVertex)
	c, err := NewGLSLContainer("colored", raw, raw)
	if err != nil {
		t.Fatal(err)
	}
	raw[0] = 'X'
	src := c.Source(StageVertex)
	src[1] = 'Y'
	if got := string(c.Source(StageVertex)); got != testGLSLVertex {
		t.Errorf("Source() = %q, want original bytes", got)
	}
}

func TestLoadOnce(t *testing.T) {
	c, _ := NewGLSLContainer("colored", []byte(testGLSLVertex), []byte(testGLSLVertex))
	compiler := &fakeCompiler{}

	if c.Loaded() || c.Program() != nil {
		t.Fatal("new container reports loaded")
	}
	if err := c.Load(compiler); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c.Loaded() || c.Program() == nil {
		t.Fatal("container not loaded after Load")
	}
	if err := c.Load(compiler); !errors.Is(err, ErrAlreadyLoaded) {
		t.Errorf("second Load() error = %v, want ErrAlreadyLoaded", err)
	}
	if compiler.calls != 1 {
		t.Errorf("compiler called %d times, want 1", compiler.calls)
	}
}

func TestLoadPropagatesCompilerError(t *testing.T) {
	c, _ := NewGLSLContainer("colored", []byte(testGLSLVertex), []byte(testGLSLVertex))
	boom := errors.New("link failed")
	err := c.Load(&fakeCompiler{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want wrapped %v", err, boom)
	}
	if c.Loaded() {
		t.Error("container loaded after failed compile")
	}
}

func TestManagerIDs(t *testing.T) {
	m := NewManager()
	for want := 0; want < 4; want++ {
		c, _ := NewGLSLContainer("s", []byte(testGLSLVertex), []byte(testGLSLVertex))
		if got := m.Add(c); got != ID(want) {
			t.Errorf("Add() = %d, want %d", got, want)
		}
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
	if _, ok := m.Get(4); ok {
		t.Error("Get(4) found a container that was never added")
	}
	if _, ok := m.Get(-1); ok {
		t.Error("Get(-1) found a container")
	}
}

func TestManagerSharesContainers(t *testing.T) {
	m := NewManager()
	c, _ := NewWGSLContainer("colored", []byte(testWGSL), []byte(testWGSL))
	id := m.Add(c)

	held, ok := m.Get(id)
	if !ok {
		t.Fatal("Get() missed a registered id")
	}
	if err := c.Load(&fakeCompiler{}); err != nil {
		t.Fatal(err)
	}
	if !held.Loaded() {
		t.Error("shared handle did not observe Load through another holder")
	}
}

func TestReleaseUnloads(t *testing.T) {
	c, err := NewWGSLContainer("colored", []byte(testWGSL), []byte(testWGSL))
	if err != nil {
		t.Fatalf("NewWGSLContainer() error = %v", err)
	}
	c.Release()
	if c.Loaded() {
		t.Fatal("Release() on an unloaded container marked it loaded")
	}

	compiler := &fakeCompiler{}
	if err := c.Load(compiler); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p := c.Program().(*fakeProgram)

	c.Release()
	if !p.released {
		t.Error("Release() did not release the program")
	}
	if c.Loaded() || c.Program() != nil {
		t.Errorf("after Release() Loaded() = %v, Program() = %v; want false, nil", c.Loaded(), c.Program())
	}

	if err := c.Load(compiler); err != nil {
		t.Fatalf("Load() after Release() error = %v", err)
	}
	if compiler.calls != 2 {
		t.Errorf("compiler calls = %d, want 2", compiler.calls)
	}
}
