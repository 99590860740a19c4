package scene

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex strides in bytes, matching the GPU vertex layouts.
const (
	ColoredVertexStride       = 16
	ImageTexturedVertexStride = 16
	TgaTexturedVertexStride   = 24
)

// ColoredVertex is a position with a packed 8-bit-per-channel color.
// Color is packed as 0xAABBGGRR so its little-endian bytes read R, G, B, A.
type ColoredVertex struct {
	Position mgl32.Vec3
	Color    uint32
}

// ImageTexturedVertex is a position with 16-bit texture coordinates.
type ImageTexturedVertex struct {
	Position mgl32.Vec3
	U, V     int16
}

// TgaTexturedVertex is a position with a packed normal and tangent and 16-bit texture coordinates.
type TgaTexturedVertex struct {
	Position mgl32.Vec3
	Normal   uint32
	Tangent  uint32
	U, V     int16
}

// EncodeColoredVertices writes vertices as tightly packed little-endian bytes:
// three float32 position components followed by four color bytes.
func EncodeColoredVertices(vertices []ColoredVertex) []byte {
	out := make([]byte, len(vertices)*ColoredVertexStride)
	for i, v := range vertices {
		b := out[i*ColoredVertexStride:]
		putVec3(b, v.Position)
		binary.LittleEndian.PutUint32(b[12:], v.Color)
	}
	return out
}

// EncodeImageTexturedVertices writes position then U, V as little-endian int16, padded to 16 bytes.
func EncodeImageTexturedVertices(vertices []ImageTexturedVertex) []byte {
	out := make([]byte, len(vertices)*ImageTexturedVertexStride)
	for i, v := range vertices {
		b := out[i*ImageTexturedVertexStride:]
		putVec3(b, v.Position)
		binary.LittleEndian.PutUint16(b[12:], uint16(v.U))
		binary.LittleEndian.PutUint16(b[14:], uint16(v.V))
	}
	return out
}

// EncodeTgaTexturedVertices writes position, normal, tangent, U and V.
func EncodeTgaTexturedVertices(vertices []TgaTexturedVertex) []byte {
	out := make([]byte, len(vertices)*TgaTexturedVertexStride)
	for i, v := range vertices {
		b := out[i*TgaTexturedVertexStride:]
		putVec3(b, v.Position)
		binary.LittleEndian.PutUint32(b[12:], v.Normal)
		binary.LittleEndian.PutUint32(b[16:], v.Tangent)
		binary.LittleEndian.PutUint16(b[20:], uint16(v.U))
		binary.LittleEndian.PutUint16(b[22:], uint16(v.V))
	}
	return out
}

// EncodeIndices writes a u16 triangle list as little-endian bytes.
func EncodeIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}

func putVec3(b []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v[2]))
}
