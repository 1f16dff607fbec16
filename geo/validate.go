package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// Validate builds an s2 polygon out of the outer ring of every polygon in mp
// and reports whether it is well formed: each ring needs at least three
// distinct vertices and no two edges may cross.
func Validate(mp *MultiPolygon) error {
	loops := make([]*s2.Loop, 0, len(mp.Coordinates))
	for k, poly := range mp.Coordinates {
		if len(poly) == 0 {
			return fmt.Errorf("geo: polygon %d has no rings", k)
		}
		ring := poly[0]
		pts := make([]s2.Point, 0, len(ring))
		for i, p := range ring {
			// golang/geo does not like having the polygon end in the same point
			if i == len(ring)-1 && i > 0 && samePosition(p, ring[0]) {
				continue
			}
			if len(p) < 2 {
				return fmt.Errorf("geo: polygon %d position %d has %d values, want at least 2", k, i, len(p))
			}
			pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(p[1], p[0])))
		}
		if len(pts) < 3 {
			return fmt.Errorf("geo: polygon %d outer ring has %d distinct vertices, want at least 3", k, len(pts))
		}
		loop := s2.LoopFromPoints(pts)
		loop.Normalize()
		loops = append(loops, loop)
	}
	if len(loops) == 0 {
		return nil
	}
	poly := s2.PolygonFromOrientedLoops(loops)
	if err := poly.Validate(); err != nil {
		return fmt.Errorf("geo: invalid multipolygon: %v", err)
	}
	return nil
}

func samePosition(a, b []float64) bool {
	return len(a) >= 2 && len(b) >= 2 && a[0] == b[0] && a[1] == b[1]
}
