package model

// Cell is an integer grid coordinate on the colony map.
type Cell struct {
	X int
	Y int
}

func (c Cell) ToArray() [2]int { return [2]int{c.X, c.Y} }

// DistSq is the squared euclidean distance between two cells.
func DistSq(a, b Cell) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
