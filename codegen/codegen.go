// Package codegen turns a GeoJSON MultiPolygon into C-like source code that
// rebuilds it through a small geometry API: a polygon type, a point append
// function and a multipolygon container with push_back.
package codegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/kevinburke/geojson2c/geo"
	"golang.org/x/sync/errgroup"
)

// Names holds the identifiers written into the generated source. Empty fields
// fall back to the matching field in DefaultNames.
type Names struct {
	MultiPolygon    string `yaml:"multipolygon"`
	Polygon         string `yaml:"polygon"`
	MultiPolygonVar string `yaml:"multipolygon_var"`
	PolygonVar      string `yaml:"polygon_var"`
	AppendFunc      string `yaml:"append_func"`
	PushBack        string `yaml:"push_back"`
}

var DefaultNames = Names{
	MultiPolygon:    "MultiPolygon",
	Polygon:         "Polygon",
	MultiPolygonVar: "mp",
	PolygonVar:      "p",
	AppendFunc:      "a",
	PushBack:        "push_back",
}

var identRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (n Names) withDefaults() Names {
	set := func(s *string, def string) {
		if *s == "" {
			*s = def
		}
	}
	set(&n.MultiPolygon, DefaultNames.MultiPolygon)
	set(&n.Polygon, DefaultNames.Polygon)
	set(&n.MultiPolygonVar, DefaultNames.MultiPolygonVar)
	set(&n.PolygonVar, DefaultNames.PolygonVar)
	set(&n.AppendFunc, DefaultNames.AppendFunc)
	set(&n.PushBack, DefaultNames.PushBack)
	return n
}

// Validate returns an error if any non-empty name is not a valid identifier.
func (n Names) Validate() error {
	fields := []struct {
		key, val string
	}{
		{"multipolygon", n.MultiPolygon},
		{"polygon", n.Polygon},
		{"multipolygon_var", n.MultiPolygonVar},
		{"polygon_var", n.PolygonVar},
		{"append_func", n.AppendFunc},
		{"push_back", n.PushBack},
	}
	for _, f := range fields {
		if f.val != "" && !identRx.MatchString(f.val) {
			return fmt.Errorf("codegen: %s: %q is not a valid identifier", f.key, f.val)
		}
	}
	if n.MultiPolygonVar != "" && n.MultiPolygonVar == n.PolygonVar {
		return fmt.Errorf("codegen: multipolygon_var and polygon_var are both %q", n.PolygonVar)
	}
	return nil
}

const source = `{{define "header" -}}
{{.MultiPolygon}} {{.MultiPolygonVar}};
{{end}}

{{define "polygon" -}}
{
{{.Names.Polygon}} {{.Names.PolygonVar}};
{{range .Ring -}}
{{$.Names.AppendFunc}}({{$.Names.PolygonVar}}, {{num (index . 0)}}, {{num (index . 1)}});
{{end -}}
{{.Names.MultiPolygonVar}}.{{.Names.PushBack}}({{.Names.PolygonVar}});
}
{{end}}
`

var tmpl = template.Must(template.New("codegen").Funcs(template.FuncMap{
	"num": formatNumber,
}).Parse(source))

type polygonData struct {
	Names Names
	Ring  [][]float64
}

// Generator writes source code for a MultiPolygon.
type Generator struct {
	Names Names
	// Workers is the number of polygons rendered at once. If zero,
	// runtime.NumCPU() is used. Output does not depend on the value.
	Workers int
}

func (g *Generator) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.NumCPU()
}

// Generate writes the declaration of the multipolygon followed by one block
// per polygon, in input order. Only the outer ring of each polygon is
// emitted. Nothing is written to w if mp is malformed.
func (g *Generator) Generate(ctx context.Context, w io.Writer, mp *geo.MultiPolygon) error {
	names := g.Names.withDefaults()
	if err := names.Validate(); err != nil {
		return err
	}
	if err := mp.Check(); err != nil {
		return err
	}

	blocks := make([]bytes.Buffer, len(mp.Coordinates))
	group, errctx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers())
	for i := range mp.Coordinates {
		i := i
		group.Go(func() error {
			if err := errctx.Err(); err != nil {
				return err
			}
			data := &polygonData{Names: names, Ring: mp.Coordinates[i][0]}
			return tmpl.ExecuteTemplate(&blocks[i], "polygon", data)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if err := tmpl.ExecuteTemplate(w, "header", names); err != nil {
		return err
	}
	for i := range blocks {
		if _, err := blocks[i].WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// Generate writes source for mp to w using the default names.
func Generate(w io.Writer, mp *geo.MultiPolygon) error {
	return new(Generator).Generate(context.Background(), w, mp)
}

// formatNumber prints the shortest decimal that round trips to f. Magnitudes
// below 1e-6 or at least 1e21 use exponent form without zero padding, e.g.
// 1e-7 or 1.5e+21.
func formatNumber(f float64) string {
	if f == 0 {
		// also covers -0
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mant, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + string(sign) + exp
}
