package scene

import "image"

// Geometry is the closed set of drawable payloads a scene object can carry:
// *ColoredMesh, *ImageTexturedMesh and *TgaTexturedMesh. Consumers switch on the
// concrete type. Geometry is immutable after construction.
type Geometry interface {
	// VertexCount returns the number of vertices.
	VertexCount() int

	// Indices returns a copy of the u16 triangle list.
	Indices() []uint16

	// EncodeVertices returns the vertex buffer bytes in the variant's GPU layout.
	EncodeVertices() []byte

	isGeometry()
}

// ColoredMesh is geometry shaded by per-vertex color.
type ColoredMesh struct {
	vertices []ColoredVertex
	indices  []uint16
}

// ImageTexturedMesh is geometry sampled from a single texture image.
type ImageTexturedMesh struct {
	vertices []ImageTexturedVertex
	indices  []uint16
	texture  image.Image
}

// TgaTexturedMesh is normal-mapped geometry with a color and a normal image.
type TgaTexturedMesh struct {
	vertices []TgaTexturedVertex
	indices  []uint16
	color    image.Image
	normal   image.Image
}

var (
	_ Geometry = &ColoredMesh{}
	_ Geometry = &ImageTexturedMesh{}
	_ Geometry = &TgaTexturedMesh{}
)

// NewColoredMesh copies vertices and indices into a new colored mesh.
func NewColoredMesh(vertices []ColoredVertex, indices []uint16) *ColoredMesh {
	return &ColoredMesh{
		vertices: append([]ColoredVertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	}
}

// NewImageTexturedMesh copies vertices and indices into a new textured mesh.
func NewImageTexturedMesh(vertices []ImageTexturedVertex, indices []uint16, texture image.Image) *ImageTexturedMesh {
	return &ImageTexturedMesh{
		vertices: append([]ImageTexturedVertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
		texture:  texture,
	}
}

// NewTgaTexturedMesh copies vertices and indices into a new normal-mapped mesh.
func NewTgaTexturedMesh(vertices []TgaTexturedVertex, indices []uint16, color, normal image.Image) *TgaTexturedMesh {
	return &TgaTexturedMesh{
		vertices: append([]TgaTexturedVertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
		color:    color,
		normal:   normal,
	}
}

func (m *ColoredMesh) VertexCount() int       { return len(m.vertices) }
func (m *ColoredMesh) Indices() []uint16      { return append([]uint16(nil), m.indices...) }
func (m *ColoredMesh) EncodeVertices() []byte { return EncodeColoredVertices(m.vertices) }
func (m *ColoredMesh) isGeometry()            {}

// Vertices returns a copy of the mesh vertices.
func (m *ColoredMesh) Vertices() []ColoredVertex {
	return append([]ColoredVertex(nil), m.vertices...)
}

func (m *ImageTexturedMesh) VertexCount() int       { return len(m.vertices) }
func (m *ImageTexturedMesh) Indices() []uint16      { return append([]uint16(nil), m.indices...) }
func (m *ImageTexturedMesh) EncodeVertices() []byte { return EncodeImageTexturedVertices(m.vertices) }
func (m *ImageTexturedMesh) isGeometry()            {}

// Texture returns the sampled image.
func (m *ImageTexturedMesh) Texture() image.Image { return m.texture }

func (m *TgaTexturedMesh) VertexCount() int       { return len(m.vertices) }
func (m *TgaTexturedMesh) Indices() []uint16      { return append([]uint16(nil), m.indices...) }
func (m *TgaTexturedMesh) EncodeVertices() []byte { return EncodeTgaTexturedVertices(m.vertices) }
func (m *TgaTexturedMesh) isGeometry()            {}

// Color returns the color image.
func (m *TgaTexturedMesh) Color() image.Image { return m.color }

// Normal returns the normal map image.
func (m *TgaTexturedMesh) Normal() image.Image { return m.normal }
