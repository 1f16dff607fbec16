package codegen

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kevinburke/geojson2c/geo"
)

func mp(coords [][][][]float64) *geo.MultiPolygon {
	return &geo.MultiPolygon{Type: "MultiPolygon", Coordinates: coords}
}

func TestGenerateSquare(t *testing.T) {
	buf := new(bytes.Buffer)
	err := Generate(buf, mp([][][][]float64{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}))
	if err != nil {
		t.Fatal(err)
	}
	want := `MultiPolygon mp;
{
Polygon p;
a(p, 0, 0);
a(p, 1, 0);
a(p, 1, 1);
a(p, 0, 0);
mp.push_back(p);
}
`
	if got := buf.String(); got != want {
		t.Errorf("Generate:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Generate(buf, mp([][][][]float64{})); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "MultiPolygon mp;\n" {
		t.Errorf("got %q, want only the declaration", got)
	}
}

func TestGenerateOrder(t *testing.T) {
	buf := new(bytes.Buffer)
	coords := [][][][]float64{
		{{{10, 20}, {11, 20}, {10, 20}}},
		{{{-3.25, 51.5, 100}, {-3.5, 51.75, 100}}, {{9, 9}, {9, 9}}},
	}
	if err := Generate(buf, mp(coords)); err != nil {
		t.Fatal(err)
	}
	want := `MultiPolygon mp;
{
Polygon p;
a(p, 10, 20);
a(p, 11, 20);
a(p, 10, 20);
mp.push_back(p);
}
{
Polygon p;
a(p, -3.25, 51.5);
a(p, -3.5, 51.75);
mp.push_back(p);
}
`
	if got := buf.String(); got != want {
		t.Errorf("Generate:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateCounts(t *testing.T) {
	coords := make([][][][]float64, 0)
	for i := 0; i < 25; i++ {
		ring := make([][]float64, 0)
		for j := 0; j < i; j++ {
			ring = append(ring, []float64{float64(i), float64(j)})
		}
		coords = append(coords, [][][]float64{ring})
	}
	buf := new(bytes.Buffer)
	g := &Generator{Workers: 3}
	if err := g.Generate(context.Background(), buf, mp(coords)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, "Polygon p;\n"); n != 25 {
		t.Errorf("got %d polygon declarations, want 25", n)
	}
	if n := strings.Count(out, "mp.push_back(p);\n"); n != 25 {
		t.Errorf("got %d push_back calls, want 25", n)
	}
	if n := strings.Count(out, "{\n"); n != 25 {
		t.Errorf("got %d blocks, want 25", n)
	}
	blocks := strings.Split(out, "{\n")[1:]
	for i, block := range blocks {
		if n := strings.Count(block, "a(p, "); n != i {
			t.Errorf("block %d: got %d points, want %d", i, n, i)
		}
		if i > 1 && !strings.Contains(block, fmt.Sprintf("a(p, %d, %d);\na(p, %d, %d);\n", i, 0, i, 1)) {
			t.Errorf("block %d: points out of order:\n%s", i, block)
		}
	}
}

func TestGenerateWorkersDeterministic(t *testing.T) {
	coords := make([][][][]float64, 200)
	for i := range coords {
		x := float64(i) / 7
		coords[i] = [][][]float64{{{x, -x}, {x + 1, -x}, {x, -x}}}
	}
	var want string
	for _, workers := range []int{1, 2, 16, 0} {
		buf := new(bytes.Buffer)
		g := &Generator{Workers: workers}
		if err := g.Generate(context.Background(), buf, mp(coords)); err != nil {
			t.Fatal(err)
		}
		if want == "" {
			want = buf.String()
			continue
		}
		if buf.String() != want {
			t.Errorf("output with %d workers differs from output with 1 worker", workers)
		}
	}
}

func TestGenerateNames(t *testing.T) {
	g := &Generator{Names: Names{
		MultiPolygon:    "geom_multi",
		Polygon:         "geom_poly",
		MultiPolygonVar: "shape",
		AppendFunc:      "append_point",
	}}
	buf := new(bytes.Buffer)
	if err := g.Generate(context.Background(), buf, mp([][][][]float64{{{{1.5, 2}}}})); err != nil {
		t.Fatal(err)
	}
	want := `geom_multi shape;
{
geom_poly p;
append_point(p, 1.5, 2);
shape.push_back(p);
}
`
	if got := buf.String(); got != want {
		t.Errorf("Generate:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		names  Names
		coords [][][][]float64
		err    string
	}{
		{"bad identifier", Names{Polygon: "my poly"}, nil, `polygon: "my poly" is not a valid identifier`},
		{"leading digit", Names{AppendFunc: "1a"}, nil, "append_func"},
		{"same variables", Names{PolygonVar: "mp"}, nil, "both \"mp\""},
		{"no rings", Names{}, [][][][]float64{{{{0, 0}}}, {}}, "polygon 1 has no rings"},
		{"short position", Names{}, [][][][]float64{{{{0}}}}, "polygon 0 position 0"},
	}
	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			g := &Generator{Names: test.names}
			err := g.Generate(context.Background(), buf, mp(test.coords))
			if err == nil || !strings.Contains(err.Error(), test.err) {
				t.Fatalf("Generate: got err %v, want %q", err, test.err)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output on error, got %q", buf.String())
			}
		})
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := new(bytes.Buffer)
	err := new(Generator).Generate(ctx, buf, mp([][][][]float64{{{{0, 0}}}}))
	if err != context.Canceled {
		t.Fatalf("got err %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestGenerateGolden(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "islands.geojson"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fc, err := geo.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	m, err := fc.MultiPolygon()
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := Generate(buf, m); err != nil {
		t.Fatal(err)
	}
	want, err := ioutil.ReadFile(filepath.Join("testdata", "islands.golden"))
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != string(want) {
		t.Errorf("Generate:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-1, "-1"},
		{0.1, "0.1"},
		{0.30000000000000004, "0.30000000000000004"},
		{-122.4194155, "-122.4194155"},
		{37.7749295, "37.7749295"},
		{123456789012, "123456789012"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e21, "1.5e+21"},
		{-2.5e22, "-2.5e+22"},
		{1e100, "1e+100"},
		{0.000001, "0.000001"},
		{0.0000015, "0.0000015"},
		{1e-7, "1e-7"},
		{-2.5e-10, "-2.5e-10"},
		{5e-324, "5e-324"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	coords := make([][][][]float64, 100)
	for i := range coords {
		ring := make([][]float64, 500)
		for j := range ring {
			ring[j] = []float64{-122 + float64(j)/1000, 37 + float64(i)/1000}
		}
		coords[i] = [][][]float64{ring}
	}
	m := mp(coords)
	buf := new(bytes.Buffer)
	if err := Generate(buf, m); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(buf.Len()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := Generate(buf, m); err != nil {
			b.Fatal(err)
		}
	}
}
