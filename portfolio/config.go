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

package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ilhamster/chartkit/chart"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
	"gopkg.in/yaml.v3"
)

const (
	defaultCacheSize   = 16
	defaultParallelism = 4
)

// Margin is the YAML form of a chart.Margin.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Entry selects one chart to render, with optional adjustments.
type Entry struct {
	Name string `yaml:"name"`
	// Datasets overrides the chart's data files by role.
	Datasets map[string]string `yaml:"datasets,omitempty"`
	Width    float64           `yaml:"width,omitempty"`
	Height   float64           `yaml:"height,omitempty"`
	Margin   *Margin           `yaml:"margin,omitempty"`
	Buckets  int               `yaml:"buckets,omitempty"`
	Tiling   string            `yaml:"tiling,omitempty"`
	// Output overrides the output file name, which defaults to the chart
	// name.
	Output string `yaml:"output,omitempty"`
}

// Options returns the chart adjustments of the receiver.
func (e Entry) Options() Options {
	opts := Options{
		Width:   e.Width,
		Height:  e.Height,
		Buckets: e.Buckets,
		Tiling:  e.Tiling,
	}
	if e.Margin != nil {
		opts.Margin = &chart.Margin{
			Top:    e.Margin.Top,
			Right:  e.Margin.Right,
			Bottom: e.Margin.Bottom,
			Left:   e.Margin.Left,
		}
	}
	return opts
}

// OutputName returns the base name of the receiver's output file.
func (e Entry) OutputName() string {
	if e.Output != "" {
		return e.Output
	}
	return e.Name
}

// Config configures a portfolio run.
type Config struct {
	// DataRoot is the directory holding the dataset files.
	DataRoot string `yaml:"data_root"`
	// CacheSize bounds the number of decoded dataset files kept in memory.
	CacheSize int `yaml:"cache_size,omitempty"`
	// Parallelism bounds the number of charts rendered at once.
	Parallelism int     `yaml:"parallelism,omitempty"`
	Charts      []Entry `yaml:"charts"`
}

// DefaultConfig returns a Config rendering every portfolio chart from the
// provided data root.
func DefaultConfig(dataRoot string) *Config {
	cfg := &Config{
		DataRoot:    dataRoot,
		CacheSize:   defaultCacheSize,
		Parallelism: defaultParallelism,
	}
	for _, name := range Names() {
		cfg.Charts = append(cfg.Charts, Entry{Name: name})
	}
	return cfg
}

// ParseConfig decodes and validates a YAML Config.  Unknown keys are
// errors.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = defaultParallelism
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig reads and validates the YAML Config at the provided path.
func ReadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(bytes.NewReader(raw))
}

func (cfg *Config) validate() error {
	if cfg.CacheSize < 0 {
		return fmt.Errorf("cache_size must be positive, got %d", cfg.CacheSize)
	}
	if cfg.Parallelism < 0 {
		return fmt.Errorf("parallelism must be positive, got %d", cfg.Parallelism)
	}
	outputs := map[string]string{}
	for idx, e := range cfg.Charts {
		def, err := Lookup(e.Name)
		if err != nil {
			return fmt.Errorf("chart #%d: %w", idx, err)
		}
		for role := range e.Datasets {
			if _, ok := def.Datasets[role]; !ok {
				return fmt.Errorf("chart '%s' has no dataset role '%s'", e.Name, role)
			}
		}
		if e.Buckets < 0 {
			return fmt.Errorf("chart '%s': buckets must be positive, got %d", e.Name, e.Buckets)
		}
		if e.Tiling != "" {
			if _, err := weightedtree.ParseTiling(e.Tiling); err != nil {
				return fmt.Errorf("chart '%s': %w", e.Name, err)
			}
		}
		if prev, ok := outputs[e.OutputName()]; ok {
			return fmt.Errorf("charts '%s' and '%s' both write '%s'", prev, e.Name, e.OutputName())
		}
		outputs[e.OutputName()] = e.Name
	}
	return nil
}

// Marshal encodes the receiver as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
