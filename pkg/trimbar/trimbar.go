// ABOUTME: Draggable start/end markers over a waveform canvas
// ABOUTME: Tracks hover, drag state and clamped bar positions
package trimbar

import (
	"image"
	"image/color"
	"math"

	"github.com/Resonate-Protocol/padsampler-go/pkg/canvas"
)

// DefaultHitRadius is the horizontal distance in pixels within which a bar is hovered
const DefaultHitRadius = 5

// Handle identifies one of the two bars
type Handle int

const (
	HandleNone Handle = iota
	HandleLeft
	HandleRight
)

func (h Handle) String() string {
	switch h {
	case HandleLeft:
		return "left"
	case HandleRight:
		return "right"
	default:
		return "none"
	}
}

// State is the drag state of the controller
type State int

const (
	Idle State = iota
	Dragging
)

// Bar is a vertical marker at a horizontal pixel position
type Bar struct {
	X float64
}

// Point is a pointer position in canvas pixels
type Point struct {
	X, Y float64
}

// Style holds overlay colors
type Style struct {
	Bar       color.Color
	Highlight color.Color
	Shade     color.Color
}

// DefaultStyle matches the sampler's dark canvas
var DefaultStyle = Style{
	Bar:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Highlight: color.RGBA{R: 255, G: 64, B: 64, A: 255},
	Shade:     color.RGBA{A: 128},
}

// Controller owns the two trim bars of the selected sample.
// It holds copies of the slot trims; committing them back is the caller's job.
// All methods are no-ops until Bind is called.
type Controller struct {
	Left  Bar
	Right Bar

	width     int
	hitRadius float64
	style     Style
	bound     bool
	state     State
	hover     Handle
	active    Handle
}

// New creates an unbound controller for a canvas of the given width
func New(width int) *Controller {
	return &Controller{
		width:     width,
		hitRadius: DefaultHitRadius,
		style:     DefaultStyle,
	}
}

// SetHitRadius changes the hover tolerance
func (c *Controller) SetHitRadius(px float64) {
	if px > 0 {
		c.hitRadius = px
	}
}

// SetStyle changes the overlay colors
func (c *Controller) SetStyle(s Style) {
	c.style = s
}

// Width returns the canvas width the bars are clamped to
func (c *Controller) Width() int {
	return c.width
}

// Bind loads a slot's trims and resets to Idle
func (c *Controller) Bind(start, end float64) {
	w := float64(c.width)
	start = canvas.Clamp(start, 0, w)
	end = canvas.Clamp(end, 0, w)
	if start > end {
		start, end = end, start
	}
	c.Left.X = start
	c.Right.X = end
	c.bound = true
	c.state = Idle
	c.hover = HandleNone
	c.active = HandleNone
}

// Unbind detaches the controller from any slot
func (c *Controller) Unbind() {
	c.bound = false
	c.state = Idle
	c.hover = HandleNone
	c.active = HandleNone
}

// Bound reports whether a slot is bound
func (c *Controller) Bound() bool {
	return c.bound
}

// State returns the current drag state
func (c *Controller) State() State {
	return c.state
}

// Hovered returns the bar under the pointer while Idle, or the dragged bar
func (c *Controller) Hovered() Handle {
	if c.state == Dragging {
		return c.active
	}
	return c.hover
}

// Positions returns the trims to commit
func (c *Controller) Positions() (start, end float64) {
	return c.Left.X, c.Right.X
}

// MoveTrimBars handles pointer motion.
// While Idle it updates the hovered bar; while Dragging it moves the active
// bar to the clamped pointer position. The left bar never passes the right.
func (c *Controller) MoveTrimBars(p Point) {
	if !c.bound {
		return
	}
	if c.state == Idle {
		c.hover = c.hitTest(p.X)
		return
	}

	x := canvas.Clamp(p.X, 0, float64(c.width))
	switch c.active {
	case HandleLeft:
		c.Left.X = math.Min(x, c.Right.X)
	case HandleRight:
		c.Right.X = math.Max(x, c.Left.X)
	}
}

// StartDrag begins dragging the hovered bar. Without a hovered bar it is a no-op.
func (c *Controller) StartDrag() bool {
	if !c.bound || c.state != Idle || c.hover == HandleNone {
		return false
	}
	c.state = Dragging
	c.active = c.hover
	return true
}

// StopDrag returns to Idle. Safe to call in any state.
func (c *Controller) StopDrag() bool {
	wasDragging := c.state == Dragging
	if wasDragging {
		c.hover = c.active
	}
	c.state = Idle
	c.active = HandleNone
	return wasDragging
}

// Leave handles the pointer exiting the canvas
func (c *Controller) Leave() bool {
	wasDragging := c.StopDrag()
	c.hover = HandleNone
	return wasDragging
}

func (c *Controller) hitTest(x float64) Handle {
	dl := math.Abs(x - c.Left.X)
	dr := math.Abs(x - c.Right.X)
	inLeft := dl <= c.hitRadius
	inRight := dr <= c.hitRadius

	switch {
	case inLeft && inRight:
		// Bars overlap: pick the nearer one, and when equidistant pick
		// the one on the pointer's side so both stay reachable.
		if dl < dr {
			return HandleLeft
		}
		if dr < dl || x > c.Right.X {
			return HandleRight
		}
		return HandleLeft
	case inLeft:
		return HandleLeft
	case inRight:
		return HandleRight
	}
	return HandleNone
}

// Draw renders the overlay: shading outside the trim window and both bars.
// The hovered or dragged bar is drawn in the highlight color.
func (c *Controller) Draw(s canvas.Surface) {
	if !c.bound || c.width <= 0 {
		return
	}
	h := s.Height()
	left := int(math.Round(c.Left.X * float64(s.Width()) / float64(c.width)))
	right := int(math.Round(c.Right.X * float64(s.Width()) / float64(c.width)))

	s.FillRect(image.Rect(0, 0, left, h), c.style.Shade)
	s.FillRect(image.Rect(right+1, 0, s.Width(), h), c.style.Shade)

	s.VLine(clampColumn(left, s.Width()), 0, float64(h), c.barColor(HandleLeft))
	s.VLine(clampColumn(right, s.Width()), 0, float64(h), c.barColor(HandleRight))
}

// Clear wipes the overlay surface
func (c *Controller) Clear(s canvas.Surface) {
	if !c.bound {
		return
	}
	s.Clear()
}

func (c *Controller) barColor(h Handle) color.Color {
	if c.Hovered() == h {
		return c.style.Highlight
	}
	return c.style.Bar
}

func clampColumn(x, width int) int {
	if x >= width {
		return width - 1
	}
	if x < 0 {
		return 0
	}
	return x
}
