// Package geojson2c generates C-like source code from a GeoJSON MultiPolygon.
//
// The heavy lifting lives in the geo and codegen packages; Load ties them
// together for callers that just have a reader.
package geojson2c

import (
	"io"

	"github.com/kevinburke/geojson2c/geo"
)

const Version = "0.3"

// Load decodes a GeoJSON feature collection from r and returns the
// MultiPolygon geometry of its first feature.
func Load(r io.Reader) (*geo.MultiPolygon, error) {
	fc, err := geo.Decode(r)
	if err != nil {
		return nil, err
	}
	mp, err := fc.MultiPolygon()
	if err != nil {
		return nil, err
	}
	if err := mp.Check(); err != nil {
		return nil, err
	}
	return mp, nil
}
