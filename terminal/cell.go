package terminal

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Attrs Attr
}

// WideTail is the rune of a cell covered by the right half of a wide rune in the
// cell to its left. Print writes it; the renderer draws it as a space when the
// wide rune no longer covers it.
const WideTail rune = -2

// blankCell is the cell every grid position starts as: a space on default colors
var blankCell = Cell{Rune: ' '}

// BlankCell returns a space with default colors and no attributes
func BlankCell() Cell {
	return blankCell
}
