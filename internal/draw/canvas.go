package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical canvas coordinates to actual terminal pixels.
// Only cells that changed since the previous Render are written.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], ColorNone if unset
	prev           []cell  // Last rendered cell per terminal position
	pen            Color   // Color used by subsequent drawing calls

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// cell is what a terminal position displayed after the last render.
type cell struct {
	ch     rune
	fg, bg Color
}

// unknownCell never equals a real cell, forcing a redraw.
var unknownCell = cell{ch: -1}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		pen:           ColorWhite,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	c.prev = make([]cell, termWidth*termHeight)
	c.ForceRedraw()
	if termWidth > 0 && termHeight > 0 {
		c.scaleX = float64(termWidth) / c.logicalWidth
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = unknownCell
	}
}

// MarkTextDirty records that text was written over canvas cells so they are
// repainted on the next Render. col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+length; x++ {
		if x >= 0 && x < c.termWidth {
			c.prev[r*c.termWidth+x] = unknownCell
		}
	}
}

// SetPen sets the color used by subsequent drawing calls.
func (c *Canvas) SetPen(color Color) {
	c.pen = color
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = c.pen
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)))
}

// pixelSpan converts a logical span to an inclusive pixel range.
// Every span covers at least one pixel so small entities stay visible.
func pixelSpan(pos, size, scale float64) (int, int) {
	start := int(math.Floor(pos * scale))
	end := int(math.Ceil((pos+size)*scale)) - 1
	if end < start {
		end = start
	}
	return start, end
}

// FillRect fills a logical rect with the pen color.
func (c *Canvas) FillRect(x, y, w, h float64) {
	x0, x1 := pixelSpan(x, w, c.scaleX)
	y0, y1 := pixelSpan(y, h, c.scaleY)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py)
		}
	}
}

// DrawSprite draws a sprite mask scaled into a logical rect.
// A nil sprite draws a filled rect instead.
func (c *Canvas) DrawSprite(x, y, w, h float64, s *Sprite) {
	if s == nil || s.Width == 0 || s.Height == 0 {
		c.FillRect(x, y, w, h)
		return
	}

	x0, x1 := pixelSpan(x, w, c.scaleX)
	y0, y1 := pixelSpan(y, h, c.scaleY)
	pw := float64(x1 - x0 + 1)
	ph := float64(y1 - y0 + 1)

	for py := y0; py <= y1; py++ {
		sy := int(float64(py-y0) / ph * float64(s.Height))
		for px := x0; px <= x1; px++ {
			sx := int(float64(px-x0) / pw * float64(s.Width))
			if s.At(sx, sy) {
				c.setPixel(px, py)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the changed canvas cells to the writer using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			next := cellFor(c.pixels[topOffset+col], c.pixels[bottomOffset+col])
			idx := row*c.termWidth + col
			if c.prev[idx] == next {
				continue
			}
			c.prev[idx] = next

			c.renderBuf.WriteString("\033[")
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
			c.renderBuf.WriteByte(';')
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
			c.renderBuf.WriteByte('H')
			c.renderBuf.WriteString(next.fg.fgCode())
			c.renderBuf.WriteString(next.bg.bgCode())
			c.renderBuf.WriteRune(next.ch)
			c.renderBuf.WriteString(ColorReset)
		}
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// cellFor picks the half-block character and colors for a pair of sub-pixels.
func cellFor(top, bottom Color) cell {
	switch {
	case top != ColorNone && bottom != ColorNone && top == bottom:
		return cell{ch: BlockFull, fg: top}
	case top != ColorNone && bottom != ColorNone:
		return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
	case top != ColorNone:
		return cell{ch: BlockUpperHalf, fg: top}
	case bottom != ColorNone:
		return cell{ch: BlockLowerHalf, fg: bottom}
	default:
		return cell{ch: ' '}
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)
	buf.WriteString(cursorTo(left, top) + "┌" + line + "┐")
	buf.WriteString(cursorTo(left, bottom) + "└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (canvas resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (canvas resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 0-based terminal cell (as reported by the mouse)
// to the logical coordinates of the cell centre. The render offset is removed.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.scaleX == 0 || c.scaleY == 0 {
		return 0, 0
	}
	x = (float64(col-c.offsetCol) + 0.5) / c.scaleX
	y = (float64(row-c.offsetRow)*2 + 1) / c.scaleY
	return x, y
}

// At returns the color of the pixel at actual pixel coordinates. Used by tests
// and alternative renderers.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}
