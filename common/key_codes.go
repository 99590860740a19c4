package common

// Key is a virtual key code carried by keyboard interact events.
// Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key uint32

const (
	KeyUnknown Key = 0

	KeySpace Key = 32
	KeyA     Key = 65
	KeyD     Key = 68
	KeyG     Key = 71
	KeyQ     Key = 81
	KeyS     Key = 83
	KeyT     Key = 84
	KeyW     Key = 87
	KeyF3    Key = 292

	Key0 Key = 48
	Key1 Key = 49
	Key2 Key = 50

	KeyEscape    Key = 256
	KeyBackspace Key = 259
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
)
