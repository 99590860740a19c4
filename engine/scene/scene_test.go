package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/engine/camera"
)

func TestGetChunkInsideAndOutside(t *testing.T) {
	s := NewScene("s")
	c := NewChunk(ChunkCoord{0, 0})
	s.AddChunk(c, mgl32.Vec2{-50, -50}, mgl32.Vec2{50, 50})

	for _, p := range []mgl32.Vec2{{0, 0}, {-50, -50}, {50, 50}, {49.9, -12}} {
		got, err := s.GetChunk(p)
		if err != nil {
			t.Errorf("GetChunk(%v) error = %v", p, err)
			continue
		}
		if got != c {
			t.Errorf("GetChunk(%v) returned a different chunk", p)
		}
	}

	for _, p := range []mgl32.Vec2{{50.1, 0}, {0, -51}, {1000, 1000}} {
		if _, err := s.GetChunk(p); !errors.Is(err, ErrNoChunkRange) {
			t.Errorf("GetChunk(%v) error = %v, want ErrNoChunkRange", p, err)
		}
	}
}

func TestGetChunkFirstInsertedWins(t *testing.T) {
	s := NewScene("s")
	a := NewChunk(ChunkCoord{0, 0})
	b := NewChunk(ChunkCoord{1, 1})
	s.AddChunk(a, mgl32.Vec2{0, 0}, mgl32.Vec2{150, 150})
	s.AddChunk(b, mgl32.Vec2{50, 50}, mgl32.Vec2{100, 100})

	got, err := s.GetChunk(mgl32.Vec2{75, 75})
	if err != nil {
		t.Fatalf("GetChunk() error = %v", err)
	}
	if got.Coordinate() != (ChunkCoord{0, 0}) {
		t.Errorf("GetChunk((75,75)) = chunk %v, want (0, 0)", got.Coordinate())
	}
}

func TestGetChunkDanglingRange(t *testing.T) {
	s := NewScene("s")
	s.AddChunk(NewChunk(ChunkCoord{2, 2}), mgl32.Vec2{0, 0}, mgl32.Vec2{10, 10})

	// Replace the map entry through the range-less path so the first range dangles.
	impl := s.(*sceneImpl)
	delete(impl.chunks, ChunkCoord{2, 2})

	if _, err := s.GetChunk(mgl32.Vec2{5, 5}); !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("GetChunk() error = %v, want ErrChunkNotFound", err)
	}
}

func TestAddChunkOverwritesAndAppends(t *testing.T) {
	s := NewScene("s")
	first := NewChunk(ChunkCoord{0, 0})
	second := NewChunk(ChunkCoord{0, 0})
	s.AddChunk(first, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})
	s.AddChunk(second, mgl32.Vec2{2, 2}, mgl32.Vec2{3, 3})

	if s.ChunkCount() != 1 {
		t.Errorf("ChunkCount() = %d, want 1", s.ChunkCount())
	}
	if got, _ := s.Chunk(ChunkCoord{0, 0}); got != second {
		t.Error("AddChunk did not overwrite the chunk at the same coordinate")
	}
	ranges := s.Ranges()
	if len(ranges) != 2 || ranges[1].Begin != (mgl32.Vec2{2, 2}) {
		t.Errorf("Ranges() = %v, want two ranges in insertion order", ranges)
	}
	if got, _ := s.GetChunk(mgl32.Vec2{0.5, 0.5}); got != second {
		t.Error("first range should resolve to the replacing chunk")
	}
}

func TestStagedChunkIsUnreachable(t *testing.T) {
	s := NewScene("s")
	s.StageChunk(NewChunk(ChunkCoord{4, 4}))
	if _, ok := s.Chunk(ChunkCoord{4, 4}); !ok {
		t.Error("staged chunk missing from the map")
	}
	if _, err := s.GetChunk(mgl32.Vec2{4, 4}); !errors.Is(err, ErrNoChunkRange) {
		t.Errorf("GetChunk() error = %v, want ErrNoChunkRange", err)
	}
}

func TestGetCurrentChunkUsesAtXZ(t *testing.T) {
	cam := camera.NewCamera(camera.WithAt(mgl32.Vec3{5, 0, 25}))
	s := NewScene("s", WithCamera(cam))
	near := NewChunk(ChunkCoord{0, 0})
	far := NewChunk(ChunkCoord{0, 1})
	s.AddChunk(near, mgl32.Vec2{0, 0}, mgl32.Vec2{10, 10})
	s.AddChunk(far, mgl32.Vec2{0, 20}, mgl32.Vec2{10, 30})

	got, err := s.GetCurrentChunk()
	if err != nil || got != far {
		t.Fatalf("GetCurrentChunk() = %v, %v; want far chunk", got, err)
	}

	for _, y := range []float32{-100, 3, 1e6} {
		at := cam.At()
		at[1] = y
		cam.SetAt(at)
		if got, _ := s.GetCurrentChunk(); got != far {
			t.Errorf("GetCurrentChunk() changed with at.y = %v", y)
		}
	}

	cam.SetAt(mgl32.Vec3{5, 0, 5})
	if got, _ := s.GetCurrentChunk(); got != near {
		t.Error("GetCurrentChunk() did not follow at.z")
	}
}

func TestChunkObjects(t *testing.T) {
	c := NewChunk(ChunkCoord{1, -1})
	mesh := NewColoredMesh([]ColoredVertex{{Position: mgl32.Vec3{1, 2, 3}, Color: 0xff0000ff}}, []uint16{0, 0, 0})
	o1 := NewObject(mesh, 0, mgl32.Vec3{3, 0, 0})
	o2 := NewObject(mesh, 0, mgl32.Vec3{7, 0, 0})

	if i := c.AddObject(o1); i != 0 {
		t.Errorf("AddObject() = %d, want 0", i)
	}
	snapshot := c.Objects()
	if i := c.AddObject(o2); i != 1 {
		t.Errorf("AddObject() = %d, want 1", i)
	}
	if len(snapshot) != 1 {
		t.Errorf("snapshot grew to %d after a later AddObject", len(snapshot))
	}
	objs := c.Objects()
	if len(objs) != 2 || objs[0] != o1 || objs[1] != o2 {
		t.Errorf("Objects() not in storage order")
	}
	if c.Coordinate() != (ChunkCoord{1, -1}) {
		t.Errorf("Coordinate() = %v", c.Coordinate())
	}
}

func TestObjectModelMatrix(t *testing.T) {
	o := NewObject(NewColoredMesh(nil, nil), 3, mgl32.Vec3{3, 4, 5})
	p := o.ModelMatrix().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	if !p.Vec3().ApproxEqual(mgl32.Vec3{4, 5, 6}) {
		t.Errorf("ModelMatrix() * (1,1,1) = %v, want (4,5,6)", p)
	}
	if o.Shader() != 3 {
		t.Errorf("Shader() = %d, want 3", o.Shader())
	}
}

func TestColor(t *testing.T) {
	c := ColorFromRGBA(0x103030ff)
	if c.A != 1 || c.RGBA() != 0x103030ff {
		t.Errorf("ColorFromRGBA round trip = %#08x, want 0x103030ff", c.RGBA())
	}
	if got := (Color{R: 2, G: -1, B: 0.5, A: 1}).RGBA(); got != 0xff0080ff {
		t.Errorf("RGBA() = %#08x, want 0xff0080ff", got)
	}
}

func TestBackgroundExplicitness(t *testing.T) {
	s := NewScene("plain")
	if c, ok := s.Background(); ok || c != DefaultClearColor {
		t.Errorf("Background() = %v, %v; want DefaultClearColor, false", c, ok)
	}

	s.SetBackground(ColorFromRGBA(0x204060ff))
	if c, ok := s.Background(); !ok || c != ColorFromRGBA(0x204060ff) {
		t.Errorf("Background() after SetBackground = %v, %v; want 0x204060ff, true", c, ok)
	}

	opt := NewScene("opt", WithBackground(ColorFromRGBA(0x000000ff)))
	if c, ok := opt.Background(); !ok || c != ColorFromRGBA(0x000000ff) {
		t.Errorf("Background() with WithBackground = %v, %v; want 0x000000ff, true", c, ok)
	}
}
