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

package chart

import (
	"fmt"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/mark"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/style"
	"github.com/ilhamster/chartkit/tooltip"
	"github.com/ilhamster/chartkit/topology"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
	"seehuhn.de/go/geom/rect"
)

// Margin insets the plot area from the canvas edges, in pixels.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// LegendConfig places a colour legend on the canvas.  Quantize legends are
// drawn as a horizontal strip of swatches Width pixels wide, with bucket
// boundaries labeled beneath; categorical legends as a vertical list of
// swatches with their labels alongside.
type LegendConfig struct {
	Title    string
	X, Y     float64
	Width    float64
	SwatchPx float64
}

const defaultSwatchPx = 12

// Config describes one chart.  It is static for the lifetime of a mounted
// chart; only the data changes.
type Config struct {
	Name                     string
	Title, Subtitle, Caption string
	Width, Height            float64
	Margin                   Margin
	// X and Y are the position scales, and Color the colour scale, if any.
	// Their Ranges are assigned from the plot area (or legend) on each
	// update.
	X, Y, Color *scale.AxisSpec
	// Treemap lays out hierarchical data passed to UpdateTree.
	Treemap *weightedtree.Layout
	// Geometry builds each update's mark Geometry.
	Geometry GeometryFunc
	Legend   *LegendConfig
	// Tooltip formats hovered rows; if nil, the chart has no tooltips.
	Tooltip tooltip.Formatter
	// MarkStyle holds presentation attributes applied to all marks.
	MarkStyle *style.Style
	// Outlines are drawn over the marks.
	Outlines []Outline
}

// Outline draws unfilled map borders, such as state lines over county
// regions.  Outlines are part of the frame: they neither change with the
// data nor respond to the pointer.
type Outline struct {
	Features []topology.Feature
	// Fit holds the features whose extent is fitted to the plot area.  Pass
	// the features of the chart's Regions to align outlines with them.  If
	// empty, Features are fitted by their own extent.
	Fit    []topology.Feature
	Stroke string
}

// paths returns the receiver's projected borders within plot.
func (o *Outline) paths(plot rect.Rect) []OutlinePath {
	fit := o.Fit
	if len(fit) == 0 {
		fit = o.Features
	}
	p := topology.Fit(topology.Extent(fit), plot)
	ret := make([]OutlinePath, 0, len(o.Features))
	for _, f := range o.Features {
		if path := f.Path(p); path != "" {
			ret = append(ret, OutlinePath{Path: path, Stroke: o.Stroke})
		}
	}
	return ret
}

// Plot returns the plot area of the receiver.
func (cfg *Config) Plot() rect.Rect {
	return rect.Rect{
		LLx: cfg.Margin.Left,
		LLy: cfg.Margin.Top,
		URx: cfg.Width - cfg.Margin.Right,
		URy: cfg.Height - cfg.Margin.Bottom,
	}
}

func (cfg *Config) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("chart '%s' has non-positive size %gx%g", cfg.Name, cfg.Width, cfg.Height)
	}
	plot := cfg.Plot()
	if plot.URx <= plot.LLx || plot.URy <= plot.LLy {
		return fmt.Errorf("chart '%s' margins leave no plot area", cfg.Name)
	}
	if cfg.Geometry == nil {
		return fmt.Errorf("chart '%s' has no geometry", cfg.Name)
	}
	for idx, o := range cfg.Outlines {
		if len(o.Features) == 0 {
			return fmt.Errorf("chart '%s' outline #%d has no features", cfg.Name, idx)
		}
	}
	for _, spec := range []*scale.AxisSpec{cfg.X, cfg.Y, cfg.Color} {
		if spec != nil && spec.Field == "" {
			return fmt.Errorf("chart '%s' has a %s scale with no field", cfg.Name, spec.Kind)
		}
	}
	return nil
}

// Pass holds the resolved state of one update, from which a GeometryFunc
// builds its Geometry.
type Pass struct {
	Plot        rect.Rect
	X, Y, Color scale.Scale
	// Tiles holds the laid-out leaves of a treemap update.
	Tiles []weightedtree.Tile
}

// Paint returns a Paint from the receiver's colour scale, falling back to
// the provided colour.
func (p *Pass) Paint(fallback string) mark.Paint {
	ret := mark.Paint{Color: fallback}
	if c, ok := p.Color.(scale.Colorer); ok {
		ret.Scale = c
	}
	return ret
}

// GeometryFunc builds a Geometry for one update.
type GeometryFunc func(p *Pass) (mark.Geometry, error)

// Bars draws bars of the provided width (ignored over a band x scale).
func Bars(widthPx float64, fill string) GeometryFunc {
	return func(p *Pass) (mark.Geometry, error) {
		if p.X == nil || p.Y == nil {
			return nil, fmt.Errorf("bars need x and y scales")
		}
		return &mark.Bar{X: p.X, Y: p.Y, Width: widthPx, Fill: p.Paint(fill)}, nil
	}
}

// Channel selects which paint of a point the colour scale drives.
type Channel int

const (
	// FillChannel colours point interiors.
	FillChannel Channel = iota
	// StrokeChannel colours point outlines.
	StrokeChannel
)

// Points draws circles of the provided radius.
func Points(radiusPx float64, fill, stroke string, keyed Channel) GeometryFunc {
	return func(p *Pass) (mark.Geometry, error) {
		if p.X == nil || p.Y == nil {
			return nil, fmt.Errorf("points need x and y scales")
		}
		pt := &mark.Point{
			X:      p.X,
			Y:      p.Y,
			Radius: radiusPx,
			Fill:   mark.Paint{Color: fill},
			Stroke: mark.Paint{Color: stroke},
		}
		if keyed == StrokeChannel {
			pt.Stroke = p.Paint(stroke)
		} else {
			pt.Fill = p.Paint(fill)
		}
		return pt, nil
	}
}

// Cells draws heatmap cells over band x and y scales.
func Cells() GeometryFunc {
	return func(p *Pass) (mark.Geometry, error) {
		x, xok := p.X.(scale.Banded)
		y, yok := p.Y.(scale.Banded)
		if !xok || !yok {
			return nil, fmt.Errorf("cells need band x and y scales")
		}
		return &mark.Cell{X: x, Y: y, Fill: p.Paint("")}, nil
	}
}

// Leaves draws treemap leaves, with labels inset by the provided padding.
// If lines is nil, leaves are labeled with their name and weight.
func Leaves(labelInsetPx float64, lines func(row dataset.Row) []string) GeometryFunc {
	return func(p *Pass) (mark.Geometry, error) {
		return &mark.Leaf{
			Tiles:        p.Tiles,
			Fill:         p.Paint(""),
			Lines:        lines,
			LabelInsetPx: labelInsetPx,
		}, nil
	}
}

// Regions draws the provided map regions, fitted to the plot area, matching
// rows to regions by the key of keyField.
func Regions(features []topology.Feature, keyField string, key dataset.KeyFunc) GeometryFunc {
	extent := topology.Extent(features)
	return func(p *Pass) (mark.Geometry, error) {
		r := mark.NewRegion(features, topology.Fit(extent, p.Plot), keyField, key)
		r.Fill = p.Paint("")
		return r, nil
	}
}
