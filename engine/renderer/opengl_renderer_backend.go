package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

const glMVPUniform = "u_mvp"

type glProgram struct {
	id         uint32
	mvpUniform int32
}

func (p *glProgram) Release() {
	gl.DeleteProgram(p.id)
}

type glMesh struct {
	vao        uint32
	vbo        uint32
	ibo        uint32
	indexCount int
}

func (m *glMesh) IndexCount() int {
	return m.indexCount
}

func (m *glMesh) Release() {
	gl.DeleteBuffers(1, &m.ibo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// openGLRendererBackendImpl draws with an OpenGL 4.1 core context that the window made
// current on the render thread.
type openGLRendererBackendImpl struct {
	mu *sync.Mutex

	swap        func()
	initialized bool
	debug       bool

	width  int
	height int

	viewProj mgl32.Mat4

	overlayText    debugText
	overlayTexture uint32
	overlayFBO     uint32

	frameDraws int
}

var _ Backend = &openGLRendererBackendImpl{}

func newOpenGLRendererBackend(cfg *backendConfig) *openGLRendererBackendImpl {
	return &openGLRendererBackendImpl{
		mu:       &sync.Mutex{},
		swap:     cfg.swap,
		viewProj: mgl32.Ident4(),
	}
}

func (b *openGLRendererBackendImpl) Init(handle window.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	runtime.LockOSThread()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	common.Logger().Info("opengl context", "version", gl.GoStr(gl.GetString(gl.VERSION)), "platform", handle.Platform())

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.GenTextures(1, &b.overlayTexture)
	gl.BindTexture(gl.TEXTURE_2D, b.overlayTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &b.overlayFBO)

	b.initialized = true
	return nil
}

func (b *openGLRendererBackendImpl) Reset(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width, b.height = width, height
	if b.initialized && width > 0 && height > 0 {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
}

func (b *openGLRendererBackendImpl) SetDebug(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debug = enabled
}

func (b *openGLRendererBackendImpl) CompileProgram(c shader.Container) (shader.Program, error) {
	if c.Kind() != shader.KindGLSL {
		return nil, fmt.Errorf("%s shader %q on opengl backend: %w", c.Kind(), c.Label(), shader.ErrKindMismatch)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, errors.New("opengl backend is not initialized")
	}

	vertexShader, err := compileGLShader(string(c.Source(shader.StageVertex)), gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s vertex stage: %w", c.Label(), err)
	}
	fragmentShader, err := compileGLShader(string(c.Source(shader.StageFragment)), gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return nil, fmt.Errorf("%s fragment stage: %w", c.Label(), err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
		return nil, fmt.Errorf("failed to link program %q: %s", c.Label(), strings.TrimRight(log, "\x00"))
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return &glProgram{
		id:         program,
		mvpUniform: gl.GetUniformLocation(program, gl.Str(glMVPUniform+"\x00")),
	}, nil
}

func compileGLShader(source string, shaderType uint32) (uint32, error) {
	s := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csources, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(s, logLength, nil, gl.Str(log))

		gl.DeleteShader(s)
		return 0, fmt.Errorf("failed to compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return s, nil
}

func (b *openGLRendererBackendImpl) CreateMesh(label string, layout VertexLayout, vertices, indices []byte, indexCount int) (Mesh, error) {
	if layout != VertexLayoutColored {
		return nil, fmt.Errorf("layout %d: %w", layout, ErrUnsupportedLayout)
	}
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no geometry", label)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	m := &glMesh{indexCount: indexCount}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STATIC_DRAW)

	// location 0: position, location 1: normalized RGBA bytes
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, scene.ColoredVertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.UNSIGNED_BYTE, true, scene.ColoredVertexStride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m, nil
}

func (b *openGLRendererBackendImpl) BeginFrame(clear scene.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return errors.New("opengl backend is not initialized")
	}
	b.overlayText.reset()
	b.frameDraws = 0

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(float32(clear.R), float32(clear.G), float32(clear.B), float32(clear.A))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *openGLRendererBackendImpl) SetViewTransform(view, proj mgl32.Mat4) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewProj = proj.Mul4(view)
}

func (b *openGLRendererBackendImpl) Submit(mesh Mesh, program shader.Program, model mgl32.Mat4) error {
	m, ok := mesh.(*glMesh)
	if !ok {
		return fmt.Errorf("mesh %T does not belong to the opengl backend", mesh)
	}
	p, ok := program.(*glProgram)
	if !ok {
		return fmt.Errorf("program %T does not belong to the opengl backend", program)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	gl.UseProgram(p.id)
	if p.mvpUniform >= 0 {
		mvp := b.viewProj.Mul4(model)
		gl.UniformMatrix4fv(p.mvpUniform, 1, false, &mvp[0])
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(m.indexCount), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	b.frameDraws++
	return nil
}

func (b *openGLRendererBackendImpl) DebugText(row int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overlayText.set(row, text)
}

func (b *openGLRendererBackendImpl) Frame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.overlayText.empty() {
		b.blitOverlay()
	}

	if b.swap != nil {
		b.swap()
	}
	if b.debug {
		common.Logger().Debug("frame presented", "draws", b.frameDraws)
	}
	return nil
}

// blitOverlay uploads the debug panel into the overlay texture and copies it to the
// top left corner of the default framebuffer.
func (b *openGLRendererBackendImpl) blitOverlay() {
	panel := rasterizeDebugPanel(b.overlayText.lines())
	if panel == nil || b.height <= 0 {
		return
	}
	w, h := int32(panel.Bounds().Dx()), int32(panel.Bounds().Dy())

	gl.BindTexture(gl.TEXTURE_2D, b.overlayTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(panel.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, b.overlayFBO)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.overlayTexture, 0)
	if gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)

	// Image rows run top down; flip them onto the bottom-up framebuffer.
	top := int32(b.height)
	gl.BlitFramebuffer(0, 0, w, h, 0, top, w, top-h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (b *openGLRendererBackendImpl) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	gl.DeleteFramebuffers(1, &b.overlayFBO)
	gl.DeleteTextures(1, &b.overlayTexture)
	b.initialized = false
}
