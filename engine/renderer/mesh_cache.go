package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/scene"
)

type encodedMesh struct {
	object     *scene.Object
	vertices   []byte
	indices    []byte
	indexCount int
}

// meshCache maps scene objects to their uploaded meshes. Geometry is encoded on a
// worker pool; uploads happen on the caller's goroutine because the backend is
// bound to the render thread.
type meshCache struct {
	mu      *sync.Mutex
	pool    worker.DynamicWorkerPool
	workers int
	meshes  map[*scene.Object]Mesh
}

func newMeshCache(workers int) *meshCache {
	workers = max(workers, 1)
	return &meshCache{
		mu:      &sync.Mutex{},
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
		meshes:  make(map[*scene.Object]Mesh),
	}
}

// get returns the cached mesh for o.
func (c *meshCache) get(o *scene.Object) (Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.meshes[o]
	return m, ok
}

// len returns the number of cached meshes.
func (c *meshCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.meshes)
}

// prepare uploads every colored object in objects that has no mesh yet.
// Objects with other geometry variants or empty geometry are ignored.
func (c *meshCache) prepare(backend Backend, objects []*scene.Object) error {
	var pending []*scene.Object
	seen := make(map[*scene.Object]struct{})
	c.mu.Lock()
	for _, o := range objects {
		g, ok := o.Geometry().(*scene.ColoredMesh)
		if !ok || g.VertexCount() == 0 || len(g.Indices()) == 0 {
			continue
		}
		if _, ok := c.meshes[o]; ok {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		pending = append(pending, o)
	}
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	encoded := make([]encodedMesh, len(pending))
	var wg sync.WaitGroup
	for i, o := range pending {
		wg.Add(1)
		c.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				g := o.Geometry()
				indices := g.Indices()
				encoded[i] = encodedMesh{
					object:     o,
					vertices:   g.EncodeVertices(),
					indices:    scene.EncodeIndices(indices),
					indexCount: len(indices),
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, e := range encoded {
		m, err := backend.CreateMesh(fmt.Sprintf("object %d", i), VertexLayoutColored, e.vertices, e.indices, e.indexCount)
		if err != nil {
			return fmt.Errorf("failed to create mesh: %w", err)
		}
		c.mu.Lock()
		c.meshes[e.object] = m
		c.mu.Unlock()
	}
	common.Logger().Debug("uploaded meshes", "count", len(encoded))
	return nil
}

// release frees every cached mesh.
func (c *meshCache) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for o, m := range c.meshes {
		m.Release()
		delete(c.meshes, o)
	}
}

// close ends every worker goroutine of the pool. Each worker picks up exactly one exit
// task and leaves its loop through runtime.Goexit, so the pool's own Stop, which can hand
// a stop signal to the wrong worker, is only used to mark the pool stopped afterwards.
// The cache must not be prepared again after close.
func (c *meshCache) close() {
	var wg sync.WaitGroup
	for i := range c.workers {
		wg.Add(1)
		c.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				wg.Done()
				runtime.Goexit()
				return nil, nil
			},
		})
	}
	wg.Wait()
	c.pool.Stop()
}
