package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ChristopherRabotin/trajviz"
)

// outputs is the repeatable -out flag, as kind=path.
type outputs map[string]string

var outputKinds = []string{"gif", "cosmo", "csv"}

func (o outputs) String() string {
	kinds := make([]string, 0, len(o))
	for kind, path := range o {
		kinds = append(kinds, kind+"="+path)
	}
	sort.Strings(kinds)
	return strings.Join(kinds, ",")
}

func (o outputs) Set(s string) error {
	kind, path, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return fmt.Errorf("expected kind=path, got `%s`", s)
	}
	for _, known := range outputKinds {
		if kind == known {
			o[kind] = path
			return nil
		}
	}
	return fmt.Errorf("unknown output `%s` (expected one of %s)", kind, strings.Join(outputKinds, ", "))
}

// openData opens the data file, or returns the standard input for "-".
func openData(path string) (io.ReadCloser, error) {
	if path == trajviz.StdinPath {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func loadParameters(path string) (*trajviz.Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	params, err := trajviz.ReadParameters(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &params, nil
}

// exporters returns the file renderers requested by outs.
func exporters(conf trajviz.Config, outs outputs) []trajviz.Renderer {
	var renderers []trajviz.Renderer
	if path, ok := outs["gif"]; ok {
		renderers = append(renderers, trajviz.NewGIFRenderer(path, conf.GIF, conf.Rate))
	}
	if dir, ok := outs["cosmo"]; ok {
		econf := conf.Export
		econf.Dir = dir
		econf.Cosmo = true
		renderers = append(renderers, trajviz.NewExporter(econf))
	}
	if path, ok := outs["csv"]; ok {
		econf := conf.Export
		econf.Dir = filepath.Dir(path)
		econf.Filename = strings.TrimSuffix(filepath.Base(path), ".csv")
		econf.AsCSV = true
		renderers = append(renderers, trajviz.NewExporter(econf))
	}
	return renderers
}
