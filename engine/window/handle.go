package window

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnsupportedHandle is returned when a handle cannot be turned into a surface descriptor.
var ErrUnsupportedHandle = errors.New("unsupported window handle")

// Handle identifies the native window a renderer draws into.
// The set of variants is closed; renderers switch over them exhaustively.
type Handle interface {
	// Platform returns a short name of the window system, used in logs and errors.
	//
	// Returns:
	//   - string: the window system name
	Platform() string

	isHandle()
}

// Win32Handle is a Windows HWND and its module instance.
type Win32Handle struct {
	Hinstance unsafe.Pointer
	Hwnd      unsafe.Pointer
}

// AppKitHandle is the CAMetalLayer backing a macOS window.
type AppKitHandle struct {
	Layer unsafe.Pointer
}

// XlibHandle is an X11 window on a display connection.
type XlibHandle struct {
	Display unsafe.Pointer
	Window  uint32
}

// WaylandHandle is a Wayland surface on a display connection.
type WaylandHandle struct {
	Display unsafe.Pointer
	Surface unsafe.Pointer
}

// UnknownHandle stands for a window system no renderer backend can drive.
type UnknownHandle struct {
	Name string
}

func (Win32Handle) Platform() string     { return "win32" }
func (AppKitHandle) Platform() string    { return "appkit" }
func (XlibHandle) Platform() string      { return "xlib" }
func (WaylandHandle) Platform() string   { return "wayland" }
func (h UnknownHandle) Platform() string { return h.Name }

func (Win32Handle) isHandle()   {}
func (AppKitHandle) isHandle()  {}
func (XlibHandle) isHandle()    {}
func (WaylandHandle) isHandle() {}
func (UnknownHandle) isHandle() {}

// HandleFromSurfaceDescriptor picks the native handle out of a surface descriptor.
// Descriptors for window systems without a Handle variant yield an UnknownHandle.
//
// Parameters:
//   - d: the descriptor, usually produced by wgpuglfw
//
// Returns:
//   - Handle: the native handle
func HandleFromSurfaceDescriptor(d *wgpu.SurfaceDescriptor) Handle {
	switch {
	case d == nil:
		return UnknownHandle{Name: "none"}
	case d.WindowsHWND != nil:
		return Win32Handle{Hinstance: d.WindowsHWND.Hinstance, Hwnd: d.WindowsHWND.Hwnd}
	case d.MetalLayer != nil:
		return AppKitHandle{Layer: d.MetalLayer.Layer}
	case d.XlibWindow != nil:
		return XlibHandle{Display: d.XlibWindow.Display, Window: d.XlibWindow.Window}
	case d.WaylandSurface != nil:
		return WaylandHandle{Display: d.WaylandSurface.Display, Surface: d.WaylandSurface.Surface}
	case d.XcbWindow != nil:
		return UnknownHandle{Name: "xcb"}
	case d.AndroidNativeWindow != nil:
		return UnknownHandle{Name: "android"}
	default:
		return UnknownHandle{Name: "none"}
	}
}

// SurfaceDescriptor builds the WebGPU surface descriptor for a native handle.
//
// Parameters:
//   - h: the native handle
//
// Returns:
//   - *wgpu.SurfaceDescriptor: the descriptor
//   - error: ErrUnsupportedHandle for UnknownHandle or nil
func SurfaceDescriptor(h Handle) (*wgpu.SurfaceDescriptor, error) {
	switch h := h.(type) {
	case Win32Handle:
		return &wgpu.SurfaceDescriptor{WindowsHWND: &wgpu.SurfaceDescriptorFromWindowsHWND{
			Hinstance: h.Hinstance,
			Hwnd:      h.Hwnd,
		}}, nil
	case AppKitHandle:
		return &wgpu.SurfaceDescriptor{MetalLayer: &wgpu.SurfaceDescriptorFromMetalLayer{
			Layer: h.Layer,
		}}, nil
	case XlibHandle:
		return &wgpu.SurfaceDescriptor{XlibWindow: &wgpu.SurfaceDescriptorFromXlibWindow{
			Display: h.Display,
			Window:  h.Window,
		}}, nil
	case WaylandHandle:
		return &wgpu.SurfaceDescriptor{WaylandSurface: &wgpu.SurfaceDescriptorFromWaylandSurface{
			Display: h.Display,
			Surface: h.Surface,
		}}, nil
	case nil:
		return nil, fmt.Errorf("nil handle: %w", ErrUnsupportedHandle)
	default:
		return nil, fmt.Errorf("%s: %w", h.Platform(), ErrUnsupportedHandle)
	}
}
