package terminal

// CellBuffer is a double-buffered cell grid.
// back holds pending writes, front mirrors what was last flushed to the terminal.
// Both are row-major (index y*width + x) and always share dimensions.
type CellBuffer struct {
	width  int
	height int
	front  []Cell
	back   []Cell
}

// NewCellBuffer creates a buffer of the given size with blank cells
func NewCellBuffer(width, height int) *CellBuffer {
	cb := &CellBuffer{}
	cb.Resize(width, height)
	return cb
}

// Resize reallocates both grids and clears them; prior content is not preserved
func (cb *CellBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	cb.width = width
	cb.height = height
	cb.front = make([]Cell, size)
	cb.back = make([]Cell, size)
	for i := range cb.back {
		cb.front[i] = blankCell
		cb.back[i] = blankCell
	}
}

// Size returns the grid dimensions
func (cb *CellBuffer) Size() (width, height int) {
	return cb.width, cb.height
}

// InBounds reports whether (x, y) addresses a cell
func (cb *CellBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < cb.width && y >= 0 && y < cb.height
}

// SetCell writes a cell into the back grid; out-of-bounds positions are ignored
func (cb *CellBuffer) SetCell(x, y int, c Cell) {
	if !cb.InBounds(x, y) {
		return
	}
	cb.back[y*cb.width+x] = c
}

// Get returns the back-grid cell at (x, y), or a blank cell out of bounds
func (cb *CellBuffer) Get(x, y int) Cell {
	if !cb.InBounds(x, y) {
		return blankCell
	}
	return cb.back[y*cb.width+x]
}

// Clear resets every back-grid cell to a space with the given colors
func (cb *CellBuffer) Clear(fg, bg Color) {
	c := Cell{Rune: ' ', Fg: fg, Bg: bg}
	for i := range cb.back {
		cb.back[i] = c
	}
}

// Back exposes the back grid for bulk writes; the slice is invalidated by Resize
func (cb *CellBuffer) Back() []Cell {
	return cb.back
}

// Front exposes the last flushed grid; callers must not modify it
func (cb *CellBuffer) Front() []Cell {
	return cb.front
}

// commit copies the back grid into the front grid after a successful flush
func (cb *CellBuffer) commit() {
	copy(cb.front, cb.back)
}

// invalidateFront fills the front grid with a sentinel no real cell matches,
// forcing every cell to differ on the next diff
func (cb *CellBuffer) invalidateFront() {
	for i := range cb.front {
		cb.front[i] = Cell{Rune: -1}
	}
}
