package shader

import "fmt"

// WGSLContainer is the native WebGPU shader variant. Both stages are WGSL source;
// entry points are read from the @vertex and @fragment annotations.
type WGSLContainer struct {
	*container
	uniforms []UniformBinding
}

var _ Container = &WGSLContainer{}

// NewWGSLContainer builds a WGSL container from vertex and fragment source.
// The stages may be the same module. Entry points and uniform bindings are
// parsed up front so a malformed module fails at registration, not mid-frame.
//
// Parameters:
//   - label: the label used for backend resources
//   - vertex: WGSL source containing a @vertex entry point
//   - fragment: WGSL source containing a @fragment entry point
//
// Returns:
//   - *WGSLContainer: the container, not yet loaded
//   - error: ErrMissingEntryPoint if either stage has no entry point
func NewWGSLContainer(label string, vertex, fragment []byte) (*WGSLContainer, error) {
	c := newContainer(KindWGSL, label, vertex, fragment)

	vs := parseEntryPoint(string(vertex), StageVertex)
	if vs == "" {
		return nil, fmt.Errorf("%s vertex stage: %w", label, ErrMissingEntryPoint)
	}
	fs := parseEntryPoint(string(fragment), StageFragment)
	if fs == "" {
		return nil, fmt.Errorf("%s fragment stage: %w", label, ErrMissingEntryPoint)
	}
	c.entries = [2]string{vs, fs}

	return &WGSLContainer{
		container: c,
		uniforms:  parseUniformBindings(string(vertex)),
	}, nil
}

// Uniforms returns the var<uniform> bindings declared by the vertex stage.
//
// Returns:
//   - []UniformBinding: bindings in declaration order
func (c *WGSLContainer) Uniforms() []UniformBinding {
	out := make([]UniformBinding, len(c.uniforms))
	copy(out, c.uniforms)
	return out
}

func (c *WGSLContainer) Load(compiler Compiler) error {
	return c.container.load(c, compiler)
}
