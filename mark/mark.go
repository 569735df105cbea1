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

// Package mark renders rows into marks: positioned drawable primitives.
// Given rows and a Geometry holding resolved scales,
//
//	marks, err := Render(rows, &Bar{X: xScale, Y: yScale, Fill: Paint{Color: "orange"}})
//
// returns one Mark per row the Geometry could place, in row order.  Rows that
// cannot be placed, such as those missing a mapped field, yield no Mark and
// are reported together in err, a dataset.MalformedRows; the marks returned
// alongside such an error remain usable.  Render has no side effects.
//
// Marks may be written into a scene with Build, one child Datum per mark:
//
//	mark
//	  properties:
//	    * mark kind and geometry
//	    * fill and stroke colors
//	    * label lines
//	    * total magnitude, for treemap leaves
//	  children:
//	    * row payload
//
// and read back with Decode.
package mark

import (
	"fmt"
	"math"
	"strings"

	"github.com/ilhamster/chartkit/color"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/label"
	"github.com/ilhamster/chartkit/magnitude"
	"github.com/ilhamster/chartkit/payload"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/topology"
	"github.com/ilhamster/chartkit/util"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Kind is a kind of mark.
type Kind int

// Mark kinds.
const (
	BarKind Kind = iota
	PointKind
	CellKind
	LeafKind
	RegionKind
)

var kindNames = []string{"bar", "point", "cell", "leaf", "region"}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func parseKind(name string) (Kind, error) {
	for idx, n := range kindNames {
		if n == name {
			return Kind(idx), nil
		}
	}
	return 0, fmt.Errorf("unknown mark kind '%s'", name)
}

// Mark is a drawable primitive derived from one row.
type Mark struct {
	Kind Kind
	// Index is the index of the mark's row.
	Index int
	// X and Y locate the mark: its top-left corner for rectangular kinds,
	// or its center for points.
	X, Y          float64
	Width, Height float64
	Radius        float64
	Fill, Stroke  string
	// Label holds the mark's label lines, already fitted to its width.
	Label []string
	// Path holds SVG path data for regions.
	Path string
	// Magnitude holds the total weight of a treemap leaf.
	Magnitude float64
	Row       dataset.Row

	region     *topology.Feature
	projection topology.Projection
}

// Bounds returns the receiver's bounding box.
func (m Mark) Bounds() rect.Rect {
	if m.Kind == PointKind {
		return rect.Rect{LLx: m.X - m.Radius, LLy: m.Y - m.Radius, URx: m.X + m.Radius, URy: m.Y + m.Radius}
	}
	return rect.Rect{LLx: m.X, LLy: m.Y, URx: m.X + m.Width, URy: m.Y + m.Height}
}

// Contains reports whether the provided point lies within the receiver.
func (m Mark) Contains(pt vec.Vec2) bool {
	switch m.Kind {
	case PointKind:
		return pt.Sub(vec.Vec2{X: m.X, Y: m.Y}).Length() <= m.Radius
	case RegionKind:
		if m.region == nil {
			return false
		}
		return m.region.Contains(m.projection.Invert(pt))
	}
	b := m.Bounds()
	return pt.X >= b.LLx && pt.X <= b.URx && pt.Y >= b.LLy && pt.Y <= b.URy
}

// Hit returns the index of the topmost (last-drawn) mark containing the
// provided point.
func Hit(marks []Mark, pt vec.Vec2) (int, bool) {
	for idx := len(marks) - 1; idx >= 0; idx-- {
		if marks[idx].Contains(pt) {
			return idx, true
		}
	}
	return 0, false
}

// Geometry places rows as marks.
type Geometry interface {
	Kind() Kind
	// Mark returns the mark for the row at the provided index.
	Mark(idx int, row dataset.Row) (Mark, error)
}

// Render returns the marks of the provided rows under the provided Geometry.
// Rows that cannot be placed yield no mark; if there are any, the returned
// error is a dataset.MalformedRows describing them.
func Render(rows []dataset.Row, g Geometry) ([]Mark, error) {
	ret := make([]Mark, 0, len(rows))
	var malformed dataset.MalformedRows
	for idx, row := range rows {
		m, err := g.Mark(idx, row)
		if err != nil {
			mre, ok := err.(*dataset.MalformedRowError)
			if !ok {
				mre = &dataset.MalformedRowError{Err: err}
			}
			mre.Index = idx
			malformed = append(malformed, mre)
			continue
		}
		m.Kind = g.Kind()
		m.Index = idx
		m.Row = row
		ret = append(ret, m)
	}
	if len(malformed) > 0 {
		return ret, malformed
	}
	return ret, nil
}

func fieldError(field string, err error) error {
	return &dataset.MalformedRowError{Field: field, Err: err}
}

// position maps the provided row's value for s's field.
func position(s scale.Scale, row dataset.Row) (float64, error) {
	field := s.Spec().Field
	v := row[field]
	if v == nil {
		return 0, fieldError(field, fmt.Errorf("missing value"))
	}
	pos, ok := s.Map(v)
	if !ok || math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0, fieldError(field, fmt.Errorf("cannot place '%s' on the %s scale", v.Text(), s.Spec().Kind))
	}
	return pos, nil
}

// Paint colors marks: from a Colorer scale if one is set, falling back to a
// fixed Color.
type Paint struct {
	Color string
	Scale scale.Colorer
}

func (p Paint) resolve(row dataset.Row) (string, error) {
	if p.Scale == nil {
		return p.Color, nil
	}
	field := p.Scale.Spec().Field
	if c, ok := p.Scale.Color(row[field]); ok {
		return c, nil
	}
	if p.Color != "" {
		return p.Color, nil
	}
	return "", fieldError(field, fmt.Errorf("no color for '%s'", row[field].Text()))
}

const (
	markKindKey   = "mark_kind"
	markIndexKey  = "mark_index"
	markXKey      = "mark_x"
	markYKey      = "mark_y"
	markWidthKey  = "mark_width"
	markHeightKey = "mark_height"
	markRadiusKey = "mark_radius"
	markPathKey   = "mark_path"

	rowPayloadType = "row"
)

// Build adds the receiver to the provided DataBuilder as a new child.
func (m Mark) Build(db util.DataBuilder) {
	mdb := db.Child().With(
		util.StringProperty(markKindKey, m.Kind.String()),
		util.IntegerProperty(markIndexKey, int64(m.Index)),
		util.DoubleProperty(markXKey, m.X),
		util.DoubleProperty(markYKey, m.Y),
		util.IfElse(m.Kind == PointKind,
			util.DoubleProperty(markRadiusKey, m.Radius),
			util.Chain(
				util.DoubleProperty(markWidthKey, m.Width),
				util.DoubleProperty(markHeightKey, m.Height),
			),
		),
		util.If(m.Fill != "", color.Primary(m.Fill)),
		util.If(m.Stroke != "", color.Stroke(m.Stroke)),
		util.If(len(m.Label) > 0, label.Text(m.Label...)),
		util.If(m.Path != "", util.StringProperty(markPathKey, m.Path)),
		util.If(m.Kind == LeafKind, magnitude.TotalMagnitude(m.Magnitude)),
	)
	if len(m.Row) > 0 {
		payload.New(payload.Child(mdb), rowPayloadType).With(payload.Values(m.Row))
	}
}

// Decode reads a Mark from a Datum written by Build.
func Decode(d *util.Datum) (Mark, error) {
	kindName, ok := d.GetString(markKindKey)
	if !ok {
		return Mark{}, fmt.Errorf("datum is not a mark")
	}
	kind, err := parseKind(kindName)
	if err != nil {
		return Mark{}, err
	}
	idx, _ := d.GetInteger(markIndexKey)
	m := Mark{
		Kind:  kind,
		Index: int(idx),
	}
	m.X, _ = d.GetDouble(markXKey)
	m.Y, _ = d.GetDouble(markYKey)
	m.Width, _ = d.GetDouble(markWidthKey)
	m.Height, _ = d.GetDouble(markHeightKey)
	m.Radius, _ = d.GetDouble(markRadiusKey)
	m.Fill, _ = color.PrimaryOf(d)
	m.Stroke, _ = color.StrokeOf(d)
	m.Label = label.TextOf(d)
	m.Path, _ = d.GetString(markPathKey)
	m.Magnitude, _ = magnitude.TotalOf(d)
	if p, ok := payload.Find(d, rowPayloadType); ok {
		m.Row = dataset.Row(payload.ValuesOf(p))
	}
	return m, nil
}

// String returns a short description of the receiver, for logging.
func (m Mark) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s #%d at (%.2f, %.2f)", m.Kind, m.Index, m.X, m.Y)
	if m.Kind == PointKind {
		fmt.Fprintf(&sb, " r%.2f", m.Radius)
	} else {
		fmt.Fprintf(&sb, " %.2fx%.2f", m.Width, m.Height)
	}
	return sb.String()
}
