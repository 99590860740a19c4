package shader

import (
	"errors"
	"fmt"
	"sync"
)

// Kind identifies the backend family a shader container targets.
type Kind int

const (
	// KindWGSL is the native WebGPU shader variant.
	KindWGSL Kind = iota

	// KindGLSL is the alternate OpenGL shader variant.
	KindGLSL
)

func (k Kind) String() string {
	switch k {
	case KindWGSL:
		return "wgsl"
	case KindGLSL:
		return "glsl"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the pixel/fragment stage.
	StageFragment
)

var (
	// ErrAlreadyLoaded is returned by Load when the container already holds a program.
	ErrAlreadyLoaded = errors.New("shader already loaded")

	// ErrMissingEntryPoint is returned when a WGSL stage declares no entry point.
	ErrMissingEntryPoint = errors.New("shader stage has no entry point")

	// ErrMissingVersion is returned when a GLSL stage has no #version directive.
	ErrMissingVersion = errors.New("shader stage has no #version directive")

	// ErrKindMismatch is returned by a backend asked to compile a container of another kind.
	ErrKindMismatch = errors.New("shader kind does not match backend")
)

// Program is the opaque backend handle produced by loading a Container.
type Program interface {
	// Release frees the backend resources held by the program.
	Release()
}

// Compiler turns a container's raw stages into a backend program.
// Renderer backends implement Compiler.
type Compiler interface {
	// CompileProgram builds a backend program from the container's stages.
	//
	// Parameters:
	//   - c: the container to compile
	//
	// Returns:
	//   - Program: the backend program handle
	//   - error: an error if the stages fail to compile or link
	CompileProgram(c Container) (Program, error)
}

// Container wraps the raw bytecode of a vertex and a fragment stage and, once loaded,
// the backend program built from them. A container is shared by every scene object
// drawn with it; the program is built lazily by the renderer on first use.
type Container interface {
	// Kind returns the backend family this container targets.
	//
	// Returns:
	//   - Kind: KindWGSL or KindGLSL
	Kind() Kind

	// Label returns the human-readable label used for backend resources.
	//
	// Returns:
	//   - string: the container label
	Label() string

	// Source returns a copy of the raw bytecode for the given stage.
	//
	// Parameters:
	//   - stage: StageVertex or StageFragment
	//
	// Returns:
	//   - []byte: the stage bytecode, or nil for an unknown stage
	Source(stage Stage) []byte

	// EntryPoint returns the entry function name for the given stage.
	//
	// Parameters:
	//   - stage: StageVertex or StageFragment
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint(stage Stage) string

	// Loaded reports whether Load has produced a program.
	//
	// Returns:
	//   - bool: true once the program exists
	Loaded() bool

	// Load compiles the container with the given backend compiler and stores the program.
	// Callers check Loaded first; loading twice returns ErrAlreadyLoaded and never
	// builds a second program.
	//
	// Parameters:
	//   - c: the backend compiler
	//
	// Returns:
	//   - error: ErrAlreadyLoaded, or the wrapped compiler error
	Load(c Compiler) error

	// Program returns the loaded backend program, or nil before Load.
	//
	// Returns:
	//   - Program: the backend program handle
	Program() Program

	// Release frees the loaded program and returns the container to the unloaded state.
	// No-op when nothing is loaded.
	Release()
}

// container holds the state shared by both container variants.
type container struct {
	mu *sync.Mutex

	kind     Kind
	label    string
	vertex   []byte
	fragment []byte
	entries  [2]string

	loaded  bool
	program Program
}

func newContainer(kind Kind, label string, vertex, fragment []byte) *container {
	return &container{
		mu:       &sync.Mutex{},
		kind:     kind,
		label:    label,
		vertex:   append([]byte(nil), vertex...),
		fragment: append([]byte(nil), fragment...),
	}
}

func (c *container) Kind() Kind {
	return c.kind
}

func (c *container) Label() string {
	return c.label
}

func (c *container) Source(stage Stage) []byte {
	switch stage {
	case StageVertex:
		return append([]byte(nil), c.vertex...)
	case StageFragment:
		return append([]byte(nil), c.fragment...)
	default:
		return nil
	}
}

func (c *container) EntryPoint(stage Stage) string {
	if stage < StageVertex || stage > StageFragment {
		return ""
	}
	return c.entries[stage]
}

func (c *container) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *container) Program() Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.program
}

func (c *container) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	if c.program != nil {
		c.program.Release()
	}
	c.program = nil
	c.loaded = false
}

// load is called by the variants with themselves as the Container so the compiler
// receives the exported type.
func (c *container) load(self Container, compiler Compiler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return fmt.Errorf("%s: %w", c.label, ErrAlreadyLoaded)
	}

	program, err := compiler.CompileProgram(self)
	if err != nil {
		return fmt.Errorf("failed to load shader %q: %w", c.label, err)
	}
	c.program = program
	c.loaded = true
	return nil
}
