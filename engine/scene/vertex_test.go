package scene

import (
	"bytes"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeColoredVertices(t *testing.T) {
	got := EncodeColoredVertices([]ColoredVertex{
		{Position: mgl32.Vec3{1, 0, -2}, Color: 0xff0000ff},
	})
	want := []byte{
		0x00, 0x00, 0x80, 0x3f, // 1.0
		0x00, 0x00, 0x00, 0x00, // 0.0
		0x00, 0x00, 0x00, 0xc0, // -2.0
		0xff, 0x00, 0x00, 0xff, // R G B A
	}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeColoredVertices() = % x, want % x", got, want)
	}
}

func TestEncodeIndices(t *testing.T) {
	got := EncodeIndices([]uint16{1, 0x0203})
	want := []byte{0x01, 0x00, 0x03, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeIndices() = % x, want % x", got, want)
	}
}

func TestTexturedStrides(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	im := NewImageTexturedMesh([]ImageTexturedVertex{{U: -1, V: 2}, {}}, []uint16{0, 1, 0}, img)
	if n := len(im.EncodeVertices()); n != 2*ImageTexturedVertexStride {
		t.Errorf("image textured bytes = %d, want %d", n, 2*ImageTexturedVertexStride)
	}
	tm := NewTgaTexturedMesh([]TgaTexturedVertex{{}}, []uint16{0, 0, 0}, img, img)
	if n := len(tm.EncodeVertices()); n != TgaTexturedVertexStride {
		t.Errorf("tga textured bytes = %d, want %d", n, TgaTexturedVertexStride)
	}
	if im.Texture() != img || tm.Normal() != img {
		t.Error("textured meshes lost their images")
	}
}

func TestMeshCopiesInput(t *testing.T) {
	verts := []ColoredVertex{{Color: 1}}
	idx := []uint16{0, 0, 0}
	m := NewColoredMesh(verts, idx)
	verts[0].Color = 2
	idx[0] = 9

	if m.Vertices()[0].Color != 1 || m.Indices()[0] != 0 {
		t.Error("mesh aliases caller slices")
	}
	if m.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", m.VertexCount())
	}
}
