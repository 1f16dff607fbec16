package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
)

type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *MultiPolygon          `json:"geometry"`
}

type MultiPolygon struct {
	Type        string          `json:"type"`
	Coordinates [][][][]float64 `json:"coordinates"`
}

// UnmarshalJSON decodes null numbers as NaN instead of zero, so Check can
// reject them. A null ring or position stays nil.
func (mp *MultiPolygon) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string           `json:"type"`
		Coordinates [][][][]*float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mp.Type = raw.Type
	mp.Coordinates = nil
	if raw.Coordinates == nil {
		return nil
	}
	mp.Coordinates = make([][][][]float64, len(raw.Coordinates))
	for k, poly := range raw.Coordinates {
		if poly == nil {
			continue
		}
		mp.Coordinates[k] = make([][][]float64, len(poly))
		for j, ring := range poly {
			if ring == nil {
				continue
			}
			r := make([][]float64, len(ring))
			for i, pos := range ring {
				if pos == nil {
					continue
				}
				r[i] = make([]float64, len(pos))
				for n, v := range pos {
					if v == nil {
						r[i][n] = math.NaN()
						continue
					}
					r[i][n] = *v
				}
			}
			mp.Coordinates[k][j] = r
		}
	}
	return nil
}

// Decode reads a GeoJSON document from r.
func Decode(r io.Reader) (*FeatureCollection, error) {
	fc := new(FeatureCollection)
	if err := json.NewDecoder(r).Decode(fc); err != nil {
		return nil, err
	}
	return fc, nil
}

var errNoFeatures = errors.New("geo: feature collection has no features")

// MultiPolygon returns the geometry of the first feature. Any other features
// are ignored.
func (fc *FeatureCollection) MultiPolygon() (*MultiPolygon, error) {
	if len(fc.Features) == 0 || fc.Features[0] == nil {
		return nil, errNoFeatures
	}
	g := fc.Features[0].Geometry
	if g == nil {
		return nil, errors.New("geo: first feature has no geometry")
	}
	if g.Type != "" && g.Type != "MultiPolygon" {
		return nil, fmt.Errorf("geo: unsupported geometry type %q", g.Type)
	}
	if g.Coordinates == nil {
		return nil, errors.New("geo: first feature geometry has no coordinates")
	}
	return g, nil
}

// Check reports an error if a polygon has no rings, its outer ring is null,
// or a position in the outer ring has fewer than two numbers or a null
// longitude or latitude. Interior rings are not inspected.
func (mp *MultiPolygon) Check() error {
	for i, poly := range mp.Coordinates {
		if len(poly) == 0 {
			return fmt.Errorf("geo: polygon %d has no rings", i)
		}
		if poly[0] == nil {
			return fmt.Errorf("geo: polygon %d outer ring is null", i)
		}
		for j, pos := range poly[0] {
			if len(pos) < 2 {
				return fmt.Errorf("geo: polygon %d position %d has %d values, want at least 2", i, j, len(pos))
			}
			if math.IsNaN(pos[0]) || math.IsNaN(pos[1]) {
				return fmt.Errorf("geo: polygon %d position %d is not a number", i, j)
			}
		}
	}
	return nil
}

// Orb converts the outer rings of mp to an orb geometry. Altitude values and
// interior rings are dropped.
func (mp *MultiPolygon) Orb() orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(mp.Coordinates))
	for _, poly := range mp.Coordinates {
		if len(poly) == 0 {
			continue
		}
		ring := make(orb.Ring, 0, len(poly[0]))
		for _, pos := range poly[0] {
			if len(pos) < 2 {
				continue
			}
			ring = append(ring, orb.Point{pos[0], pos[1]})
		}
		out = append(out, orb.Polygon{ring})
	}
	return out
}
