package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

const mvpSize = 64

// wgpuClipCorrection maps OpenGL clip depth [-1, 1] to the WebGPU range [0, 1].
var wgpuClipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

var coloredVertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: scene.ColoredVertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 1},
	},
}

const overlayWGSL = `
@group(0) @binding(0) var overlay: texture_2d<f32>;

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
	var pos = array<vec2<f32>, 3>(vec2<f32>(-1.0, -1.0), vec2<f32>(3.0, -1.0), vec2<f32>(-1.0, 3.0));
	return vec4<f32>(pos[i], 0.0, 1.0);
}

@fragment
fn fs_main(@builtin(position) frag: vec4<f32>) -> @location(0) vec4<f32> {
	return textureLoad(overlay, vec2<i32>(frag.xy), 0);
}
`

var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type wgpuProgram struct {
	label    string
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	modules  []*wgpu.ShaderModule
	usesMVP  bool
}

func (p *wgpuProgram) Release() {
	p.pipeline.Release()
	p.layout.Release()
	for _, m := range p.modules {
		m.Release()
	}
}

type wgpuMesh struct {
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	indexCount    int
}

func (m *wgpuMesh) IndexCount() int {
	return m.indexCount
}

func (m *wgpuMesh) Release() {
	m.bindGroup.Release()
	m.uniformBuffer.Release()
	m.indexBuffer.Release()
	m.vertexBuffer.Release()
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	width         int
	height        int
	configured    bool

	forceFallbackAdapter bool
	debug                bool

	mvpLayout        *wgpu.BindGroupLayout
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	overlayLayout    *wgpu.BindGroupLayout
	overlayProgram   *wgpuProgram
	overlayTexture   *wgpu.Texture
	overlayView      *wgpu.TextureView
	overlayBindGroup *wgpu.BindGroup
	overlayText      debugText

	viewProj mgl32.Mat4

	// Frame state between BeginFrame and Frame. frameSkipped is set when there is no
	// configured surface to draw into; draw calls of that frame are dropped.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameSkipped bool
	frameDraws   int
}

var _ Backend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(cfg *backendConfig) *wgpuRendererBackendImpl {
	b := &wgpuRendererBackendImpl{
		mu:                   &sync.Mutex{},
		presentMode:          wgpu.PresentModeImmediate,
		forceFallbackAdapter: cfg.forceFallbackAdapter,
		viewProj:             mgl32.Ident4(),
	}
	if cfg.vsync {
		b.presentMode = wgpu.PresentModeFifo
	}
	return b
}

func (b *wgpuRendererBackendImpl) Init(handle window.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	runtime.LockOSThread()

	descriptor, err := window.SurfaceDescriptor(handle)
	if err != nil {
		return err
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(descriptor)

	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return fmt.Errorf("failed to request adapter: %w", err)
	}

	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return fmt.Errorf("failed to request device: %w", err)
	}
	b.queue = b.device.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface is not compatible with the adapter")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]
	if !containsPresentMode(capabilities.PresentModes, b.presentMode) {
		b.presentMode = wgpu.PresentModeFifo
	}

	b.mvpLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MVP Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: mvpSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create mvp bind group layout: %w", err)
	}

	if err := b.initOverlay(); err != nil {
		return err
	}
	return nil
}

func containsPresentMode(modes []wgpu.PresentMode, mode wgpu.PresentMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// initOverlay builds the pipeline that blends the debug text texture over the frame.
func (b *wgpuRendererBackendImpl) initOverlay() error {
	var err error
	b.overlayLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Debug Overlay Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create overlay bind group layout: %w", err)
	}

	b.overlayProgram, err = b.createPipeline("Debug Overlay", overlayWGSL, "vs_main", overlayWGSL, "fs_main", b.overlayLayout, nil, false)
	if err != nil {
		return fmt.Errorf("failed to create overlay pipeline: %w", err)
	}
	return nil
}

// createPipeline compiles both stages and builds a render pipeline targeting the surface.
// groupLayout may be nil for programs without bindings.
func (b *wgpuRendererBackendImpl) createPipeline(
	label, vertexSource, vertexEntry, fragmentSource, fragmentEntry string,
	groupLayout *wgpu.BindGroupLayout,
	buffers []wgpu.VertexBufferLayout,
	depthTest bool,
) (*wgpuProgram, error) {
	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " Vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: vertexSource},
	})
	if err != nil {
		return nil, err
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " Fragment",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: fragmentSource},
	})
	if err != nil {
		vs.Release()
		return nil, err
	}

	var groupLayouts []*wgpu.BindGroupLayout
	if groupLayout != nil {
		groupLayouts = []*wgpu.BindGroupLayout{groupLayout}
	}
	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		vs.Release()
		fs.Release()
		return nil, err
	}

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	depthCompare := wgpu.CompareFunctionLess
	if !depthTest {
		target.Blend = &alphaBlend
		depthCompare = wgpu.CompareFunctionAlways
	}

	pipeline, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexEntry,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: depthTest,
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		pipelineLayout.Release()
		vs.Release()
		fs.Release()
		return nil, err
	}

	return &wgpuProgram{
		label:    label,
		pipeline: pipeline,
		layout:   pipelineLayout,
		modules:  []*wgpu.ShaderModule{vs, fs},
		usesMVP:  groupLayout == b.mvpLayout && groupLayout != nil,
	}, nil
}

func (b *wgpuRendererBackendImpl) Reset(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return
	}
	if width <= 0 || height <= 0 {
		// Minimized: keep the old configuration and skip frames until a real size arrives.
		b.configured = false
		return
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.width, b.height = width, height

	b.releaseSizedResources()

	var err error
	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = b.depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	b.overlayTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Debug Overlay Texture",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	b.overlayView, err = b.overlayTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	b.overlayBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Debug Overlay Bind Group",
		Layout:  b.overlayLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: b.overlayView}},
	})
	if err != nil {
		panic(err)
	}

	b.configured = true
}

func (b *wgpuRendererBackendImpl) releaseSizedResources() {
	if b.overlayBindGroup != nil {
		b.overlayBindGroup.Release()
		b.overlayBindGroup = nil
	}
	if b.overlayView != nil {
		b.overlayView.Release()
		b.overlayView = nil
	}
	if b.overlayTexture != nil {
		b.overlayTexture.Release()
		b.overlayTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetDebug(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debug = enabled
}

func (b *wgpuRendererBackendImpl) CompileProgram(c shader.Container) (shader.Program, error) {
	wc, ok := c.(*shader.WGSLContainer)
	if !ok {
		return nil, fmt.Errorf("%s shader %q on wgpu backend: %w", c.Kind(), c.Label(), shader.ErrKindMismatch)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, errors.New("wgpu backend is not initialized")
	}

	var groupLayout *wgpu.BindGroupLayout
	for _, u := range wc.Uniforms() {
		if u.Group != 0 || u.Binding != 0 {
			return nil, fmt.Errorf("shader %q: uniform %s at @group(%d) @binding(%d) is not supported", c.Label(), u.Name, u.Group, u.Binding)
		}
		groupLayout = b.mvpLayout
	}

	return b.createPipeline(
		c.Label(),
		string(c.Source(shader.StageVertex)), c.EntryPoint(shader.StageVertex),
		string(c.Source(shader.StageFragment)), c.EntryPoint(shader.StageFragment),
		groupLayout,
		[]wgpu.VertexBufferLayout{coloredVertexBufferLayout},
		true,
	)
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, layout VertexLayout, vertices, indices []byte, indexCount int) (Mesh, error) {
	if layout != VertexLayoutColored {
		return nil, fmt.Errorf("layout %d: %w", layout, ErrUnsupportedLayout)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vertexBuffer, err := b.createBuffer(label+" Vertex Buffer", vertices, wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	indexBuffer, err := b.createBuffer(label+" Index Buffer", align4(indices), wgpu.BufferUsageIndex)
	if err != nil {
		vertexBuffer.Release()
		return nil, err
	}
	uniformBuffer, err := b.createBuffer(label+" MVP Buffer", make([]byte, mvpSize), wgpu.BufferUsageUniform)
	if err != nil {
		vertexBuffer.Release()
		indexBuffer.Release()
		return nil, err
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " MVP Bind Group",
		Layout: b.mvpLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  uniformBuffer,
			Offset:  0,
			Size:    mvpSize,
		}},
	})
	if err != nil {
		vertexBuffer.Release()
		indexBuffer.Release()
		uniformBuffer.Release()
		return nil, err
	}

	return &wgpuMesh{
		vertexBuffer:  vertexBuffer,
		indexBuffer:   indexBuffer,
		uniformBuffer: uniformBuffer,
		bindGroup:     bindGroup,
		indexCount:    indexCount,
	}, nil
}

func (b *wgpuRendererBackendImpl) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// align4 pads data with zeros to a multiple of four bytes, the copy alignment of WriteBuffer.
func align4(data []byte) []byte {
	if rem := len(data) % 4; rem != 0 {
		return append(append([]byte(nil), data...), make([]byte, 4-rem)...)
	}
	return data
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear scene.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.overlayText.reset()
	b.frameDraws = 0

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if !b.configured {
		b.frameSkipped = true
		return nil
	}
	b.frameSkipped = false

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) SetViewTransform(view, proj mgl32.Mat4) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewProj = wgpuClipCorrection.Mul4(proj).Mul4(view)
}

func (b *wgpuRendererBackendImpl) Submit(mesh Mesh, program shader.Program, model mgl32.Mat4) error {
	m, ok := mesh.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("mesh %T does not belong to the wgpu backend", mesh)
	}
	p, ok := program.(*wgpuProgram)
	if !ok {
		return fmt.Errorf("program %T does not belong to the wgpu backend", program)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSkipped || b.framePass == nil {
		return nil
	}

	b.framePass.SetPipeline(p.pipeline)
	if p.usesMVP {
		mvp := b.viewProj.Mul4(model)
		b.queue.WriteBuffer(m.uniformBuffer, 0, common.SliceToBytes(mvp[:]))
		b.framePass.SetBindGroup(0, m.bindGroup, nil)
	}
	b.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(m.indexCount), 1, 0, 0, 0)
	b.frameDraws++
	return nil
}

func (b *wgpuRendererBackendImpl) DebugText(row int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overlayText.set(row, text)
}

func (b *wgpuRendererBackendImpl) Frame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSkipped || b.framePass == nil {
		return nil
	}

	if !b.overlayText.empty() {
		b.drawOverlay()
	}

	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil

	b.surface.Present()

	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil

	if b.debug {
		common.Logger().Debug("frame presented", "draws", b.frameDraws)
	}
	return nil
}

// drawOverlay uploads this frame's debug text and blends it over the color attachment.
func (b *wgpuRendererBackendImpl) drawOverlay() {
	img := composeDebugOverlay(b.width, b.height, b.overlayText.lines())
	if img == nil || b.overlayBindGroup == nil {
		return
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  b.overlayTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: uint32(b.height),
		},
		&wgpu.Extent3D{
			Width:              uint32(b.width),
			Height:             uint32(b.height),
			DepthOrArrayLayers: 1,
		},
	)

	b.framePass.SetPipeline(b.overlayProgram.pipeline)
	b.framePass.SetBindGroup(0, b.overlayBindGroup, nil)
	b.framePass.Draw(3, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseSizedResources()
	if b.overlayProgram != nil {
		b.overlayProgram.Release()
		b.overlayProgram = nil
	}
	if b.overlayLayout != nil {
		b.overlayLayout.Release()
		b.overlayLayout = nil
	}
	if b.mvpLayout != nil {
		b.mvpLayout.Release()
		b.mvpLayout = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.configured = false
}
