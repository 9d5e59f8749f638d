// Package hex provides the axial-coordinate tile addressing used for
// population indexing and rumor range queries.
package hex

// Coord is an axial hex coordinate.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Distance returns the |Δq|+|Δr| distance between two tiles. Rumor
// propagation and proximity queries use this Manhattan-style metric.
func Distance(a, b Coord) int {
	return abs(a.Q-b.Q) + abs(a.R-b.R)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
