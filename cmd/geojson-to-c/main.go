// geojson-to-c reads a GeoJSON file whose first feature is a MultiPolygon and
// prints C-like source code that rebuilds the outer ring of each polygon:
//
//	MultiPolygon mp;
//	{
//	Polygon p;
//	a(p, -122.5, 37.7);
//	...
//	mp.push_back(p);
//	}
//
// Identifiers in the output can be changed with a YAML config file, see
// FileConfig.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	log "github.com/inconshreveable/log15"
	"github.com/kevinburke/geojson2c"
	"github.com/kevinburke/geojson2c/codegen"
	"github.com/kevinburke/geojson2c/geo"
	"github.com/kevinburke/geojson2c/stats"
	yaml "gopkg.in/yaml.v2"
)

// FileConfig represents the data in a config file. Every field is optional.
type FileConfig struct {
	// Names of the types, variables and functions in the generated code.
	// Unset names use codegen.DefaultNames.
	Names codegen.Names `yaml:"names"`

	// Reverse the winding order of every ring before printing it.
	Rewind bool `yaml:"rewind"`

	// Check that the outer rings form a valid polygon and fail if they don't.
	Validate bool `yaml:"validate"`

	// Number of polygons to render at once. Defaults to the number of CPUs.
	Workers int `yaml:"workers"`
}

var logger = log.New()

func init() {
	setLevel(os.Stderr, log.LvlInfo)
}

func setLevel(w io.Writer, lvl log.Lvl) {
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, log.LogfmtFormat())))
}

func loadConfig(path string) (*FileConfig, error) {
	c := new(FileConfig)
	if path == "" {
		return c, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if err := c.Names.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("%s: workers must be positive, got %d", path, c.Workers)
	}
	return c, nil
}

// build writes code for the MultiPolygon in the file at path to w. Nothing is
// written if an error occurs.
func build(ctx context.Context, w io.Writer, path string, c *FileConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	mp, err := geojson2c.Load(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if c.Rewind {
		geo.Rewind(mp.Coordinates)
	}
	summary := stats.Summarize(mp)
	logger.Debug("loaded multipolygon", "file", path, "summary", log.Lazy{Fn: summary.String}, "area", summary.Area)
	if summary.Holes > 0 {
		logger.Warn("interior rings are not emitted", "file", path, "holes", summary.Holes)
	}
	if c.Validate {
		if err := geo.Validate(mp); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	buf := new(bytes.Buffer)
	g := &codegen.Generator{Names: c.Names, Workers: c.Workers}
	if err := g.Generate(ctx, buf, mp); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

const usage = `usage: geojson-to-c [flags] <file.geojson>

Print C-like source code that rebuilds the MultiPolygon of the first feature
in file.geojson.

`

func main() {
	cfg := flag.String("config", "", "Path to a YAML config file")
	rewind := flag.Bool("rewind", false, "Reverse the winding order of every ring")
	validate := flag.Bool("validate", false, "Fail if the outer rings do not form a valid polygon")
	verbose := flag.Bool("v", false, "Log debug output to stderr")
	version := flag.Bool("version", false, "Print the version string and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Fprintf(os.Stderr, "geojson-to-c version %s\n", geojson2c.Version)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		setLevel(os.Stderr, log.LvlDebug)
	}
	c, err := loadConfig(*cfg)
	if err != nil {
		logger.Error("Couldn't load config file", "err", err)
		os.Exit(2)
	}
	if *rewind {
		c.Rewind = true
	}
	if *validate {
		c.Validate = true
	}

	if err := build(context.Background(), os.Stdout, flag.Arg(0), c); err != nil {
		logger.Error("Couldn't generate code", "err", err)
		os.Exit(1)
	}
}
