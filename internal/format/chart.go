package format

import "math"

// sparklineChars maps values 0..7 to Unicode block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline scales values to their own maximum and renders one block
// character per value.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if maxV > 0 && v > 0 {
			idx = int(v / maxV * 7)
		}
		runes[i] = sparklineChars[min(max(idx, 0), 7)]
	}
	return string(runes)
}

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

// Point is one (size, time) pair to plot.
type Point struct {
	X, Y float64
}

// ChartOptions sizes a braille chart.
type ChartOptions struct {
	// Width and Rows are in text cells; each cell holds 2x4 dots.
	Width int
	Rows  int
	// LogX spaces the x axis logarithmically, which suits geometric size
	// plans. It is ignored when any x is not positive.
	LogX bool
}

// brailleGrid is a dot canvas backed by braille runes.
type brailleGrid struct {
	cells [][]rune
	cols  int // dot columns
	rows  int // dot rows
}

func newBrailleGrid(width, rows int) *brailleGrid {
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, width)
		for c := range cells[r] {
			cells[r][c] = 0x2800
		}
	}
	return &brailleGrid{cells: cells, cols: width * 2, rows: rows * 4}
}

func (g *brailleGrid) set(dotCol, dotRow int) {
	if dotCol < 0 || dotCol >= g.cols || dotRow < 0 || dotRow >= g.rows {
		return
	}
	g.cells[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
}

func (g *brailleGrid) lines() []string {
	out := make([]string, len(g.cells))
	for r := range g.cells {
		out[r] = string(g.cells[r])
	}
	return out
}

// RenderScatter plots points on a braille grid with y growing upwards. When
// curve is non-nil it is sampled at every dot column and drawn as well, so a
// fitted model can be compared with the measurements. The y range always
// starts at zero.
func RenderScatter(points []Point, curve func(x float64) float64, opts ChartOptions) []string {
	if opts.Width <= 0 || opts.Rows <= 0 || len(points) == 0 {
		return nil
	}
	g := newBrailleGrid(opts.Width, opts.Rows)

	logX := opts.LogX
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
		if p.X <= 0 {
			logX = false
		}
	}
	scaleX := func(x float64) float64 { return x }
	if logX {
		scaleX = math.Log
	}
	lo, hi := scaleX(minX), scaleX(maxX)

	toCol := func(x float64) int {
		if hi == lo {
			return g.cols / 2
		}
		return int(math.Round((scaleX(x) - lo) / (hi - lo) * float64(g.cols-1)))
	}
	toRow := func(y float64) int {
		if maxY <= 0 {
			return g.rows - 1
		}
		return g.rows - 1 - int(math.Round(y/maxY*float64(g.rows-1)))
	}

	if curve != nil && hi > lo {
		for c := 0; c < g.cols; c++ {
			sx := lo + float64(c)/float64(g.cols-1)*(hi-lo)
			x := sx
			if logX {
				x = math.Exp(sx)
			}
			y := curve(x)
			if math.IsNaN(y) || y < 0 || y > maxY {
				continue
			}
			g.set(c, toRow(y))
		}
	}
	for _, p := range points {
		if math.IsNaN(p.Y) || p.Y < 0 {
			continue
		}
		g.set(toCol(p.X), toRow(p.Y))
	}
	return g.lines()
}
