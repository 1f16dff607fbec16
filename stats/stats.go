// Package stats summarizes a MultiPolygon before it is turned into code.
package stats

import (
	"github.com/kevinburke/geojson2c/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Summary struct {
	Polygons int
	// Points is the number of positions in outer rings, which is the number
	// of append calls in the generated code.
	Points int
	// Holes counts interior rings. They are not emitted.
	Holes int
	Bound orb.Bound
	// Area is the planar area of the outer rings in square degrees.
	Area float64
}

func Summarize(mp *geo.MultiPolygon) *Summary {
	s := &Summary{Polygons: len(mp.Coordinates)}
	for _, poly := range mp.Coordinates {
		if len(poly) == 0 {
			continue
		}
		s.Points += len(poly[0])
		s.Holes += len(poly) - 1
	}
	o := mp.Orb()
	if len(o) > 0 {
		s.Bound = o.Bound()
	}
	for _, p := range o {
		s.Area += planar.Area(p)
	}
	return s
}

var printer = message.NewPrinter(language.English)

func (s *Summary) String() string {
	return printer.Sprintf("%d polygons, %d points, %d holes skipped, bounds [%.6f %.6f, %.6f %.6f]",
		s.Polygons, s.Points, s.Holes, s.Bound.Min[0], s.Bound.Min[1], s.Bound.Max[0], s.Bound.Max[1])
}
