package window

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestHandleRoundTrip(t *testing.T) {
	var a, b int
	pa, pb := unsafe.Pointer(&a), unsafe.Pointer(&b)

	tests := []struct {
		name     string
		handle   Handle
		platform string
	}{
		{"win32", Win32Handle{Hinstance: pa, Hwnd: pb}, "win32"},
		{"appkit", AppKitHandle{Layer: pa}, "appkit"},
		{"xlib", XlibHandle{Display: pa, Window: 42}, "xlib"},
		{"wayland", WaylandHandle{Display: pa, Surface: pb}, "wayland"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := SurfaceDescriptor(tt.handle)
			if err != nil {
				t.Fatalf("SurfaceDescriptor() error = %v", err)
			}
			got := HandleFromSurfaceDescriptor(d)
			if got != tt.handle {
				t.Errorf("HandleFromSurfaceDescriptor() = %#v, want %#v", got, tt.handle)
			}
			if got.Platform() != tt.platform {
				t.Errorf("Platform() = %q, want %q", got.Platform(), tt.platform)
			}
		})
	}
}

func TestUnknownHandles(t *testing.T) {
	if h := HandleFromSurfaceDescriptor(nil); h.Platform() != "none" {
		t.Errorf("nil descriptor platform = %q, want none", h.Platform())
	}
	xcb := HandleFromSurfaceDescriptor(&wgpu.SurfaceDescriptor{XcbWindow: &wgpu.SurfaceDescriptorFromXcbWindow{}})
	if _, ok := xcb.(UnknownHandle); !ok || xcb.Platform() != "xcb" {
		t.Errorf("xcb descriptor = %#v, want UnknownHandle{xcb}", xcb)
	}
	if _, err := SurfaceDescriptor(xcb); !errors.Is(err, ErrUnsupportedHandle) {
		t.Errorf("SurfaceDescriptor(xcb) error = %v, want ErrUnsupportedHandle", err)
	}
	if _, err := SurfaceDescriptor(nil); !errors.Is(err, ErrUnsupportedHandle) {
		t.Errorf("SurfaceDescriptor(nil) error = %v, want ErrUnsupportedHandle", err)
	}
}
