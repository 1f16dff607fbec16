package geo

// Rewind reverses the winding order of every ring in coords, in place. A
// closed ring, whose first and last positions are equal, stays closed; the
// closing position is not duplicated or dropped.
//
// Some exporters (OpenStreetMap among them) wind rings in the opposite
// direction from what the consuming geometry library expects.
func Rewind(coords [][][][]float64) {
	for k := range coords {
		for j := range coords[k] {
			ring := coords[k][j]
			for i := len(ring)/2 - 1; i >= 0; i-- {
				opp := len(ring) - 1 - i
				ring[i], ring[opp] = ring[opp], ring[i]
			}
		}
	}
}
