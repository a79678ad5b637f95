package combobox

// Region is a screen rectangle in terminal cells
type Region struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside the region.
// Empty regions contain nothing.
func (r Region) Contains(x, y int) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
