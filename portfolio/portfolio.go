/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package portfolio provides a portfolio of charts over public datasets: the
// charts' configurations, a cache of their loaded datasets, and a renderer
// drawing many charts concurrently.
package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/ilhamster/chartkit/chart"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/topology"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
)

// Data holds a chart's loaded data: either rows or a tree.
type Data struct {
	Rows []dataset.Row
	Meta dataset.Row
	Tree *weightedtree.Tree
	// Features holds the map regions of choropleths, and Borders the
	// outlines drawn over them.
	Features []topology.Feature
	Borders  []topology.Feature
}

// Options adjust a chart's default configuration.  Zero fields keep the
// default.
type Options struct {
	Width, Height float64
	Margin        *chart.Margin
	// Buckets sets the number of quantize colour buckets.
	Buckets int
	// Tiling names the treemap tiling.
	Tiling string
}

func (o Options) apply(cfg *chart.Config) error {
	if o.Width > 0 {
		cfg.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Height = o.Height
	}
	if o.Margin != nil {
		cfg.Margin = *o.Margin
	}
	if o.Buckets > 0 {
		if cfg.Color == nil || cfg.Color.Kind != scale.Quantize {
			return fmt.Errorf("chart '%s' has no quantize colour scale", cfg.Name)
		}
		spec := *cfg.Color
		spec.Buckets = o.Buckets
		cfg.Color = &spec
	}
	if o.Tiling != "" {
		if cfg.Treemap == nil {
			return fmt.Errorf("chart '%s' is not a treemap", cfg.Name)
		}
		tiling, err := weightedtree.ParseTiling(o.Tiling)
		if err != nil {
			return err
		}
		layout := *cfg.Treemap
		layout.Tiling = tiling
		cfg.Treemap = &layout
	}
	return nil
}

// Definition describes one portfolio chart.
type Definition struct {
	Name        string
	Description string
	// Datasets maps the roles of the chart's data files to their default
	// file names.
	Datasets map[string]string
	load     loadFunc
	config   func(data *Data) (chart.Config, error)
}

// Load loads the receiver's data through the provided Fetcher.  Files maps
// data roles to file names, overriding the receiver's defaults.
func (def *Definition) Load(ctx context.Context, f *Fetcher, files map[string]string) (*Data, error) {
	resolved := make(map[string]string, len(def.Datasets))
	for role, file := range def.Datasets {
		resolved[role] = file
	}
	for role, file := range files {
		if _, ok := def.Datasets[role]; !ok {
			return nil, fmt.Errorf("chart '%s' has no dataset role '%s'", def.Name, role)
		}
		resolved[role] = file
	}
	return def.load(ctx, f, resolved)
}

// Config returns the receiver's chart configuration over the provided data,
// adjusted by opts.
func (def *Definition) Config(data *Data, opts Options) (chart.Config, error) {
	cfg, err := def.config(data)
	if err != nil {
		return chart.Config{}, err
	}
	if err := opts.apply(&cfg); err != nil {
		return chart.Config{}, err
	}
	return cfg, nil
}

var definitionsByName = func() map[string]*Definition {
	ret := map[string]*Definition{}
	for _, def := range definitions {
		ret[def.Name] = def
	}
	return ret
}()

// Lookup returns the named chart Definition.
func Lookup(name string) (*Definition, error) {
	def, ok := definitionsByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown chart '%s'", name)
	}
	return def, nil
}

// Names returns the names of all portfolio charts, sorted.
func Names() []string {
	ret := make([]string, 0, len(definitions))
	for _, def := range definitions {
		ret = append(ret, def.Name)
	}
	sort.Strings(ret)
	return ret
}
