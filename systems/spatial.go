// Package systems provides the per-frame simulation passes for the spark field.
package systems

// Neighbor holds a nearby spark with precomputed spatial data.
// Index refers to the frame-local spark list the grid was filled from.
type Neighbor struct {
	Index  int32
	DistSq float32 // squared distance (avoid sqrt in hot path)
}

// SparkGrid provides O(1) neighbor lookups using a cell-based grid.
// The field is bounded, so cells clamp at the viewport edges rather
// than wrapping; distance is plain Euclidean.
type SparkGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]gridEntry
}

type gridEntry struct {
	idx  int32
	x, y float32
}

// NewSparkGrid creates a grid covering the given viewport. Cell size is
// normally the interaction radius, so a radius query only touches the
// 3x3 block around the center cell.
func NewSparkGrid(width, height, cellSize float32) *SparkGrid {
	g := &SparkGrid{cellSize: cellSize}
	g.Resize(width, height)
	return g
}

// Resize recomputes the grid extents for a new viewport size. Cell
// storage is reused when the shape is unchanged.
func (g *SparkGrid) Resize(width, height float32) {
	cols := int(width/g.cellSize) + 1
	rows := int(height/g.cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if cols == g.cols && rows == g.rows {
		return
	}
	g.cols = cols
	g.rows = rows

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8) // pre-allocate small capacity
	}
	g.cells = cells
}

// Clear removes all sparks from the grid.
func (g *SparkGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a spark to the grid at the given position. Positions
// outside the viewport land in the nearest edge cell.
func (g *SparkGrid) Insert(idx int32, x, y float32) {
	i := g.cellIndex(x, y)
	g.cells[i] = append(g.cells[i], gridEntry{idx: idx, x: x, y: y})
}

// AppendNeighbors finds sparks within radius of (x, y) whose insert index
// is strictly greater than after, appending them to dst. Passing the
// querying spark's own index as after visits each unordered pair exactly
// once across a full sweep. Pass -1 to return every spark in range.
// Reuse dst across calls to avoid allocations.
func (g *SparkGrid) AppendNeighbors(dst []Neighbor, x, y, radius float32, after int32) []Neighbor {
	// Determine cell range to check
	cellRadius := int(radius / g.cellSize)
	if float32(cellRadius)*g.cellSize < radius {
		cellRadius++
	}

	centerCol := g.clampCol(int(x / g.cellSize))
	centerRow := g.clampRow(int(y / g.cellSize))

	minCol := g.clampCol(centerCol - cellRadius)
	maxCol := g.clampCol(centerCol + cellRadius)
	minRow := g.clampRow(centerRow - cellRadius)
	maxRow := g.clampRow(centerRow + cellRadius)

	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		base := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[base+col] {
				if e.idx <= after {
					continue
				}
				dx := e.x - x
				dy := e.y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Index: e.idx, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellIndex returns the flat index for a world position.
func (g *SparkGrid) cellIndex(x, y float32) int {
	return g.clampRow(int(y/g.cellSize))*g.cols + g.clampCol(int(x/g.cellSize))
}

func (g *SparkGrid) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *SparkGrid) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}
