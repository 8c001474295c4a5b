// ABOUTME: Character-cell implementation of Surface for terminal rendering
// ABOUTME: Each cell holds a glyph with foreground and background colors
package canvas

import (
	"image"
	"image/color"
)

// Cell is one character position of a Grid
type Cell struct {
	Glyph rune
	FG    color.Color
	BG    color.Color
}

// Grid is a Surface where one unit is one terminal cell
type Grid struct {
	width  int
	height int
	cells  []Cell
	glyph  rune
}

// NewGrid creates an empty grid. Vertical lines are drawn with glyph.
func NewGrid(width, height int, glyph rune) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		glyph:  glyph,
	}
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// Clear empties every cell
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{}
	}
}

// VLine fills the cells of column x covered by [y0, y1]
func (g *Grid) VLine(x int, y0, y1 float64, c color.Color) {
	if x < 0 || x >= g.width {
		return
	}
	top, bottom, ok := rows(y0, y1, g.height)
	if !ok {
		return
	}
	for y := top; y <= bottom; y++ {
		cell := &g.cells[y*g.width+x]
		cell.Glyph = g.glyph
		cell.FG = c
	}
}

// FillRect sets the background of the covered cells
func (g *Grid) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(image.Rect(0, 0, g.width, g.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.cells[y*g.width+x].BG = c
		}
	}
}

// Cell returns the cell at (x, y)
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Cell{}
	}
	return g.cells[y*g.width+x]
}

// Overlay returns a copy of g with the non-empty parts of top layered over it
func (g *Grid) Overlay(top *Grid) *Grid {
	out := &Grid{width: g.width, height: g.height, glyph: g.glyph, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	if top == nil || top.width != g.width || top.height != g.height {
		return out
	}
	for i, c := range top.cells {
		if c.Glyph != 0 {
			out.cells[i].Glyph = c.Glyph
			out.cells[i].FG = c.FG
		}
		if c.BG != nil {
			out.cells[i].BG = c.BG
		}
	}
	return out
}
