package renderer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// DebugRowHeight is the height in pixels of one debug overlay row.
	DebugRowHeight = 13

	debugGlyphWidth = 7
	debugPadding    = 4
)

var debugPanelColor = color.RGBA{R: 0, G: 0, B: 0, A: 160}

// DebugLine is one "key: value" entry of the debug overlay.
type DebugLine struct {
	Key   string
	Value string
}

// String formats the line the way it is drawn.
func (l DebugLine) String() string {
	return l.Key + ": " + l.Value
}

// DebugData is an insertion-ordered set of debug lines keyed by name.
// Putting an existing key replaces its value and keeps its position.
type DebugData struct {
	lines []DebugLine
	index map[string]int
}

// NewDebugData creates DebugData holding lines in order; later duplicates replace earlier values.
func NewDebugData(lines ...DebugLine) DebugData {
	var d DebugData
	for _, l := range lines {
		d.Put(l.Key, l.Value)
	}
	return d
}

// Put sets the value for key.
func (d *DebugData) Put(key, value string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.lines[i].Value = value
		return
	}
	d.index[key] = len(d.lines)
	d.lines = append(d.lines, DebugLine{Key: key, Value: value})
}

// Get returns the value for key.
func (d DebugData) Get(key string) (string, bool) {
	i, ok := d.index[key]
	if !ok {
		return "", false
	}
	return d.lines[i].Value, true
}

// Lines returns a copy of the lines in insertion order.
func (d DebugData) Lines() []DebugLine {
	return append([]DebugLine(nil), d.lines...)
}

// Len returns the number of lines.
func (d DebugData) Len() int {
	return len(d.lines)
}

func (d DebugData) clone() DebugData {
	return NewDebugData(d.lines...)
}

// debugText collects DebugText calls of one frame.
type debugText struct {
	rows map[int]string
	max  int
}

func (t *debugText) set(row int, text string) {
	if row < 0 {
		return
	}
	if t.rows == nil {
		t.rows = make(map[int]string)
	}
	t.rows[row] = text
	if row+1 > t.max {
		t.max = row + 1
	}
}

func (t *debugText) empty() bool {
	return len(t.rows) == 0
}

func (t *debugText) reset() {
	clear(t.rows)
	t.max = 0
}

// lines returns the rows top to bottom, blank for rows never set.
func (t *debugText) lines() []string {
	out := make([]string, t.max)
	for row, text := range t.rows {
		out[row] = text
	}
	return out
}

// debugPanelSize returns the pixel size of the panel holding lines.
func debugPanelSize(lines []string) (int, int) {
	width := 0
	for _, l := range lines {
		width = max(width, len(l)*debugGlyphWidth)
	}
	if width == 0 {
		return 0, 0
	}
	return width + 2*debugPadding, len(lines)*DebugRowHeight + 2*debugPadding
}

// rasterizeDebugPanel draws lines in white basicfont glyphs on a translucent panel.
// Row i occupies pixels [pad + i*DebugRowHeight, pad + (i+1)*DebugRowHeight) from the top.
//
// Returns nil when there is nothing to draw.
func rasterizeDebugPanel(lines []string) *image.RGBA {
	w, h := debugPanelSize(lines)
	if w == 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(debugPanelColor), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(debugPadding, debugPadding+i*DebugRowHeight+face.Ascent)
		d.DrawString(l)
	}
	return img
}

// composeDebugOverlay places the debug panel in the top left corner of a transparent
// surface-sized image.
func composeDebugOverlay(width, height int, lines []string) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if panel := rasterizeDebugPanel(lines); panel != nil {
		draw.Draw(dst, panel.Bounds(), panel, image.Point{}, draw.Src)
	}
	return dst
}
