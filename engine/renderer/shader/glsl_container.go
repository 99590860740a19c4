package shader

import (
	"bytes"
	"fmt"
)

// GLSLContainer is the alternate OpenGL shader variant. Both stages are GLSL
// source with a #version directive and a main entry point.
type GLSLContainer struct {
	*container
}

var _ Container = &GLSLContainer{}

// NewGLSLContainer builds a GLSL container from vertex and fragment source.
//
// Parameters:
//   - label: the label used for backend resources
//   - vertex: GLSL vertex stage source
//   - fragment: GLSL fragment stage source
//
// Returns:
//   - *GLSLContainer: the container, not yet loaded
//   - error: ErrMissingVersion if either stage lacks a #version directive
func NewGLSLContainer(label string, vertex, fragment []byte) (*GLSLContainer, error) {
	if !bytes.Contains(vertex, []byte("#version")) {
		return nil, fmt.Errorf("%s vertex stage: %w", label, ErrMissingVersion)
	}
	if !bytes.Contains(fragment, []byte("#version")) {
		return nil, fmt.Errorf("%s fragment stage: %w", label, ErrMissingVersion)
	}

	c := newContainer(KindGLSL, label, vertex, fragment)
	c.entries = [2]string{"main", "main"}
	return &GLSLContainer{container: c}, nil
}

func (c *GLSLContainer) Load(compiler Compiler) error {
	return c.container.load(c, compiler)
}
