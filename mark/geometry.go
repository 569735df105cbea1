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

package mark

import (
	"fmt"
	"math"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/label"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/topology"
	"github.com/ilhamster/chartkit/util"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
)

// Bar places each row as a bar rising from the Y scale's baseline to its
// value.  If X is banded, bars fill their bands; otherwise they are Width
// pixels wide, starting at their X position.
type Bar struct {
	X, Y  scale.Scale
	Width float64
	Fill  Paint
}

func (b *Bar) Kind() Kind {
	return BarKind
}

func (b *Bar) Mark(idx int, row dataset.Row) (Mark, error) {
	x, err := position(b.X, row)
	if err != nil {
		return Mark{}, err
	}
	y, err := position(b.Y, row)
	if err != nil {
		return Mark{}, err
	}
	width := b.Width
	if banded, ok := b.X.(scale.Banded); ok {
		width = banded.Bandwidth()
	}
	base := y
	if bl, ok := b.Y.(scale.Baseliner); ok {
		base = bl.Baseline()
	}
	fill, err := b.Fill.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	return Mark{
		X:      x,
		Y:      math.Min(y, base),
		Width:  width,
		Height: math.Abs(base - y),
		Fill:   fill,
	}, nil
}

// Point places each row as a fixed-radius circle centered at its X and Y
// positions.  Banded positions are centered in their bands.
type Point struct {
	X, Y         scale.Scale
	Radius       float64
	Fill, Stroke Paint
}

func (p *Point) Kind() Kind {
	return PointKind
}

func center(s scale.Scale, row dataset.Row) (float64, error) {
	pos, err := position(s, row)
	if err != nil {
		return 0, err
	}
	if banded, ok := s.(scale.Banded); ok {
		pos += banded.Bandwidth() / 2
	}
	return pos, nil
}

func (p *Point) Mark(idx int, row dataset.Row) (Mark, error) {
	x, err := center(p.X, row)
	if err != nil {
		return Mark{}, err
	}
	y, err := center(p.Y, row)
	if err != nil {
		return Mark{}, err
	}
	fill, err := p.Fill.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	stroke, err := p.Stroke.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	return Mark{
		X:      x,
		Y:      y,
		Radius: p.Radius,
		Fill:   fill,
		Stroke: stroke,
	}, nil
}

// Cell places each row as the rectangle at the intersection of its X and Y
// bands.
type Cell struct {
	X, Y scale.Banded
	Fill Paint
}

func (c *Cell) Kind() Kind {
	return CellKind
}

func (c *Cell) Mark(idx int, row dataset.Row) (Mark, error) {
	x, err := position(c.X, row)
	if err != nil {
		return Mark{}, err
	}
	y, err := position(c.Y, row)
	if err != nil {
		return Mark{}, err
	}
	fill, err := c.Fill.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	return Mark{
		X:      x,
		Y:      y,
		Width:  c.X.Bandwidth(),
		Height: c.Y.Bandwidth(),
		Fill:   fill,
	}, nil
}

// Leaf row fields.
const (
	LeafNameField   = "name"
	LeafParentField = "parent"
	LeafValueField  = "value"
)

// LeafRows returns one row per leaf tile: the leaf's own fields, plus its
// name, its parent's name and its total weight.
func LeafRows(tiles []weightedtree.Tile) []dataset.Row {
	ret := make([]dataset.Row, len(tiles))
	for idx, tile := range tiles {
		row := dataset.Row{}
		for k, v := range tile.Node.Row {
			row[k] = v
		}
		row[LeafNameField] = util.StringValue(tile.Node.Name)
		if p := tile.Node.Parent(); p != nil {
			row[LeafParentField] = util.StringValue(p.Name)
		}
		row[LeafValueField] = util.DoubleValue(tile.Node.Total())
		ret[idx] = row
	}
	return ret
}

// Leaf places treemap leaves: row i is drawn in Tiles[i], labeled with
// lines fitted to the tile's width.  Rows are typically LeafRows(Tiles).
type Leaf struct {
	Tiles []weightedtree.Tile
	Fill  Paint
	// Lines returns a row's label lines; if nil, the leaf's name and value.
	Lines func(row dataset.Row) []string
	// Measurer estimates label widths; if nil, label.Estimate{}.
	Measurer label.Measurer
	// LabelInsetPx is subtracted from the tile width available to labels.
	LabelInsetPx float64
}

func (l *Leaf) Kind() Kind {
	return LeafKind
}

func (l *Leaf) Mark(idx int, row dataset.Row) (Mark, error) {
	if idx >= len(l.Tiles) {
		return Mark{}, fmt.Errorf("no tile for leaf %d", idx)
	}
	b := l.Tiles[idx].Bounds
	fill, err := l.Fill.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	lines := []string{row.Text(LeafNameField), scale.FormatValue(scale.DefaultFormat, row[LeafValueField])}
	if l.Lines != nil {
		lines = l.Lines(row)
	}
	var m label.Measurer = label.Estimate{}
	if l.Measurer != nil {
		m = l.Measurer
	}
	return Mark{
		X:         b.LLx,
		Y:         b.LLy,
		Width:     b.URx - b.LLx,
		Height:    b.URy - b.LLy,
		Fill:      fill,
		Label:     label.FitAll(lines, b.URx-b.LLx-l.LabelInsetPx, m),
		Magnitude: l.Tiles[idx].Node.Total(),
	}, nil
}

// Region places each row as the map region whose key matches the row's
// KeyField.
type Region struct {
	keyField   string
	key        dataset.KeyFunc
	features   map[string]*topology.Feature
	projection topology.Projection
	Fill       Paint
}

// NewRegion returns a Region drawing the provided features under the
// provided projection.  Rows and features are matched by key, with feature
// IDs keyed as strings.
func NewRegion(features []topology.Feature, p topology.Projection, keyField string, key dataset.KeyFunc) *Region {
	r := &Region{
		keyField:   keyField,
		key:        key,
		features:   make(map[string]*topology.Feature, len(features)),
		projection: p,
	}
	for idx := range features {
		f := &features[idx]
		r.features[key(util.StringValue(f.ID))] = f
	}
	return r
}

func (r *Region) Kind() Kind {
	return RegionKind
}

func (r *Region) Mark(idx int, row dataset.Row) (Mark, error) {
	v := row[r.keyField]
	if v == nil {
		return Mark{}, fieldError(r.keyField, fmt.Errorf("missing value"))
	}
	k := r.key(v)
	f, ok := r.features[k]
	if !ok {
		return Mark{}, fieldError(r.keyField, fmt.Errorf("no region '%s'", k))
	}
	fill, err := r.Fill.resolve(row)
	if err != nil {
		return Mark{}, err
	}
	b := r.projection.ApplyRect(f.Bounds())
	return Mark{
		X:          b.LLx,
		Y:          b.LLy,
		Width:      b.URx - b.LLx,
		Height:     b.URy - b.LLy,
		Fill:       fill,
		Path:       f.Path(r.projection),
		region:     f,
		projection: r.projection,
	}, nil
}
