package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
)

// Object is a drawable entity: immutable geometry, the id of the shader it is drawn
// with, and a world-space translation. Objects are created at scene-build time and
// owned by the chunk they are added to.
type Object struct {
	geometry Geometry
	shader   shader.ID
	position mgl32.Vec3
}

// NewObject creates a scene object.
//
// Parameters:
//   - geometry: the drawable payload
//   - shaderID: the id of the shader container in the engine's shader manager
//   - position: the world-space translation
//
// Returns:
//   - *Object: the new object
func NewObject(geometry Geometry, shaderID shader.ID, position mgl32.Vec3) *Object {
	return &Object{
		geometry: geometry,
		shader:   shaderID,
		position: position,
	}
}

// Geometry returns the drawable payload.
func (o *Object) Geometry() Geometry {
	return o.geometry
}

// Shader returns the id of the shader container used to draw the object.
func (o *Object) Shader() shader.ID {
	return o.shader
}

// Position returns the world-space translation.
func (o *Object) Position() mgl32.Vec3 {
	return o.position
}

// ModelMatrix returns the translation-only world transform.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(o.position[0], o.position[1], o.position[2])
}
