package scene

import (
	"fmt"
	"sync"
)

// ChunkCoord is the integer 2D coordinate of a chunk.
type ChunkCoord struct {
	X int32
	Y int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

type chunk struct {
	mu *sync.RWMutex

	coord   ChunkCoord
	objects []*Object
}

// Chunk is a spatial bucket of scene objects at a fixed coordinate.
// Objects may be appended before or after the chunk is attached to a scene.
type Chunk interface {
	// Coordinate returns the chunk's coordinate, fixed at construction.
	//
	// Returns:
	//   - ChunkCoord: the coordinate
	Coordinate() ChunkCoord

	// AddObject appends an object to the chunk.
	//
	// Parameters:
	//   - o: the object to add
	//
	// Returns:
	//   - int: the object's index in storage order
	AddObject(o *Object) int

	// Objects returns a snapshot of the chunk's objects in storage order.
	//
	// Returns:
	//   - []*Object: a copy of the object list
	Objects() []*Object

	// Len returns the number of objects in the chunk.
	Len() int
}

var _ Chunk = &chunk{}

// NewChunk creates an empty chunk at coord.
//
// Parameters:
//   - coord: the chunk coordinate
//
// Returns:
//   - Chunk: the new chunk
func NewChunk(coord ChunkCoord) Chunk {
	return &chunk{
		mu:    &sync.RWMutex{},
		coord: coord,
	}
}

func (c *chunk) Coordinate() ChunkCoord {
	return c.coord
}

func (c *chunk) AddObject(o *Object) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects = append(c.objects, o)
	return len(c.objects) - 1
}

func (c *chunk) Objects() []*Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Object, len(c.objects))
	copy(out, c.objects)
	return out
}

func (c *chunk) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
