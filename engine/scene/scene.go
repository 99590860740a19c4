package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/engine/camera"
)

var (
	// ErrNoChunkRange is returned when no registered range contains the query point.
	ErrNoChunkRange = errors.New("no chunk range contains point")

	// ErrChunkNotFound is returned when a range matched but its chunk is not in the scene.
	ErrChunkNotFound = errors.New("chunk does not exist")
)

// ChunkCorners maps the inclusive world-space rectangle [Begin, End] to a chunk coordinate.
type ChunkCorners struct {
	Begin mgl32.Vec2
	End   mgl32.Vec2
	Chunk ChunkCoord
}

// Contains reports whether p lies inside the rectangle, edges included.
func (cc ChunkCorners) Contains(p mgl32.Vec2) bool {
	return p[0] >= cc.Begin[0] && p[1] >= cc.Begin[1] &&
		p[0] <= cc.End[0] && p[1] <= cc.End[1]
}

type sceneImpl struct {
	mu *sync.RWMutex

	name          string
	camera        camera.Camera
	background    Color
	hasBackground bool
	chunks        map[ChunkCoord]Chunk
	ranges        []ChunkCorners
}

// Scene is a named world: a camera, a background color, a coordinate to chunk map
// and the ordered list of ranges used to resolve which chunk the camera looks at.
//
// A chunk present in the map without any range is valid but unreachable through
// GetChunk; this is how chunks are staged before they get a region.
type Scene interface {
	// Name returns the scene name, unique within a scene manager.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Background returns the color the surface is cleared to.
	// A scene without an explicit background reports DefaultClearColor and false;
	// the renderer then clears to its own configured color.
	//
	// Returns:
	//   - Color: the background color
	//   - bool: true if the background was set with WithBackground or SetBackground
	Background() (Color, bool)

	// SetBackground sets the color the surface is cleared to.
	//
	// Parameters:
	//   - c: the background color
	SetBackground(c Color)

	// AddChunk inserts c into the chunk map, replacing any chunk at the same coordinate,
	// and appends the range [begin, end] for it after every existing range.
	//
	// Parameters:
	//   - c: the chunk to add
	//   - begin: the lower corner of the chunk's region
	//   - end: the upper corner of the chunk's region
	AddChunk(c Chunk, begin, end mgl32.Vec2)

	// StageChunk inserts c into the chunk map without a range.
	//
	// Parameters:
	//   - c: the chunk to stage
	StageChunk(c Chunk)

	// Chunk returns the chunk stored at coord.
	//
	// Parameters:
	//   - coord: the chunk coordinate
	//
	// Returns:
	//   - Chunk: the chunk
	//   - bool: false if no chunk is stored at coord
	Chunk(coord ChunkCoord) (Chunk, bool)

	// ChunkCount returns the number of chunks in the map.
	ChunkCount() int

	// Ranges returns a copy of the range list in insertion order.
	//
	// Returns:
	//   - []ChunkCorners: the ranges
	Ranges() []ChunkCorners

	// GetChunk resolves the chunk whose range contains p. Ranges are scanned in
	// insertion order and the first match wins, even when a later range is smaller.
	//
	// Parameters:
	//   - p: the world-space point on the horizontal plane
	//
	// Returns:
	//   - Chunk: the resolved chunk
	//   - error: ErrNoChunkRange if no range contains p, ErrChunkNotFound if the
	//     first matching range points at a coordinate with no chunk
	GetChunk(p mgl32.Vec2) (Chunk, error)

	// GetCurrentChunk resolves the chunk under the camera's look-at point,
	// projected onto the horizontal plane as (at.x, at.z).
	//
	// Returns:
	//   - Chunk: the resolved chunk
	//   - error: the GetChunk error
	GetCurrentChunk() (Chunk, error)
}

var _ Scene = &sceneImpl{}

// NewScene creates an empty scene with a zeroed camera and the default clear color.
//
// Parameters:
//   - name: the scene name
//   - options: functional options for the camera and background
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:         &sync.RWMutex{},
		name:       name,
		background: DefaultClearColor,
		chunks:     make(map[ChunkCoord]Chunk),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	return s
}

func (s *sceneImpl) Name() string {
	return s.name
}

func (s *sceneImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sceneImpl) Background() (Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background, s.hasBackground
}

func (s *sceneImpl) SetBackground(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
	s.hasBackground = true
}

func (s *sceneImpl) AddChunk(c Chunk, begin, end mgl32.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coord := c.Coordinate()
	s.chunks[coord] = c
	s.ranges = append(s.ranges, ChunkCorners{Begin: begin, End: end, Chunk: coord})
}

func (s *sceneImpl) StageChunk(c Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[c.Coordinate()] = c
}

func (s *sceneImpl) Chunk(coord ChunkCoord) (Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chunks[coord]
	return c, ok
}

func (s *sceneImpl) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *sceneImpl) Ranges() []ChunkCorners {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChunkCorners, len(s.ranges))
	copy(out, s.ranges)
	return out
}

func (s *sceneImpl) GetChunk(p mgl32.Vec2) (Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.ranges {
		if !r.Contains(p) {
			continue
		}
		c, ok := s.chunks[r.Chunk]
		if !ok {
			return nil, fmt.Errorf("scene %q, chunk %v: %w", s.name, r.Chunk, ErrChunkNotFound)
		}
		return c, nil
	}
	return nil, fmt.Errorf("scene %q, point %v: %w", s.name, p, ErrNoChunkRange)
}

func (s *sceneImpl) GetCurrentChunk() (Chunk, error) {
	at := s.camera.At()
	return s.GetChunk(mgl32.Vec2{at[0], at[2]})
}
