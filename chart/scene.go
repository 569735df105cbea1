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
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ilhamster/chartkit/color"
	"github.com/ilhamster/chartkit/label"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/tooltip"
	"github.com/ilhamster/chartkit/util"
	"seehuhn.de/go/geom/rect"
)

// Scene is a Container that encodes charts as scene Datums:
//
//	chart
//	  properties:
//	    * name, canvas size and plot bounds
//	    * title, subtitle and caption
//	  children:
//	    * x axis, if any (element 'axis'): the resolved scale's definition,
//	      the axis title, and a child per tick
//	    * y axis, if any
//	    * legend, if any (element 'legend'): the colour scale's definition
//	      and a child per swatch and per boundary tick
//	    * marks (element 'marks'): the mark style, and a child per mark
//	    * tooltip (element 'tooltip')
//
// Tick children carry the tick's position (`tick_pos`), value
// (`tick_value`) and label text.
type Scene struct {
	frame   *Frame
	drawing *Drawing
	tip     tooltip.Tooltip
}

// NewScene returns a new, empty Scene container.
func NewScene() *Scene {
	return &Scene{}
}

// Ready reports that Scene containers are always ready.
func (s *Scene) Ready() bool {
	return true
}

// Frame stores the provided frame.  It fails if a frame is already present.
func (s *Scene) Frame(f *Frame) error {
	if s.frame != nil {
		return fmt.Errorf("chart '%s' is already framed", s.frame.Name)
	}
	s.frame = f
	return nil
}

// Draw replaces the stored drawing.
func (s *Scene) Draw(d *Drawing) error {
	if s.frame == nil {
		return errNoFrame
	}
	s.drawing = d
	return nil
}

// Tooltip replaces the stored tooltip.
func (s *Scene) Tooltip(t tooltip.Tooltip) error {
	if s.frame == nil {
		return errNoFrame
	}
	s.tip = t
	return nil
}

// Clear discards everything stored.
func (s *Scene) Clear() error {
	s.frame, s.drawing, s.tip = nil, nil, tooltip.Tooltip{}
	return nil
}

const (
	elementKey = "element"

	chartNameKey     = "chart_name"
	chartWidthKey    = "chart_width"
	chartHeightKey   = "chart_height"
	chartTitleKey    = "chart_title"
	chartSubtitleKey = "chart_subtitle"
	chartCaptionKey  = "chart_caption"

	axisOrientationKey = "axis_orientation"
	axisTitleKey       = "axis_title"
	legendTitleKey     = "legend_title"
	tickPosKey         = "tick_pos"
	tickValueKey       = "tick_value"
	outlinePathKey     = "outline_path"
)

// Scene element kinds.
const (
	AxisElement    = "axis"
	LegendElement  = "legend"
	SwatchElement  = "swatch"
	TickElement    = "tick"
	MarksElement   = "marks"
	TooltipElement = "tooltip"
	OutlineElement = "outline"
)

// bounds sets <prefix>_min_x, <prefix>_min_y, <prefix>_max_x and
// <prefix>_max_y.
func bounds(prefix string, r rect.Rect) util.PropertyUpdate {
	return util.Chain(
		util.DoubleProperty(prefix+"_min_x", r.LLx),
		util.DoubleProperty(prefix+"_min_y", r.LLy),
		util.DoubleProperty(prefix+"_max_x", r.URx),
		util.DoubleProperty(prefix+"_max_y", r.URy),
	)
}

func ticks(db util.DataBuilder, ts []scale.Tick) {
	for _, t := range ts {
		db.Child().With(
			util.StringProperty(elementKey, TickElement),
			util.DoubleProperty(tickPosKey, t.Pos),
			util.If(t.Value != nil, util.ValueProperty(tickValueKey, t.Value)),
			label.Text(t.Label),
		)
	}
}

func (s *Scene) axis(db util.DataBuilder, orientation, title string, sc scale.Scale, ts []scale.Tick) {
	adb := db.Child().With(
		util.StringProperty(elementKey, AxisElement),
		util.StringProperty(axisOrientationKey, orientation),
		util.If(title != "", util.StringProperty(axisTitleKey, title)),
	)
	if sc != nil {
		adb.With(sc.Define())
	}
	ticks(adb, ts)
}

// Build adds the receiver's chart to the provided DataBuilder.
func (s *Scene) Build(db util.DataBuilder) error {
	f := s.frame
	if f == nil {
		return errNoFrame
	}
	db.With(
		util.StringProperty(chartNameKey, f.Name),
		util.DoubleProperty(chartWidthKey, f.Width),
		util.DoubleProperty(chartHeightKey, f.Height),
		bounds("plot", f.Plot),
		util.If(f.Title != "", util.StringProperty(chartTitleKey, f.Title)),
		util.If(f.Subtitle != "", util.StringProperty(chartSubtitleKey, f.Subtitle)),
		util.If(f.Caption != "", util.StringProperty(chartCaptionKey, f.Caption)),
	)
	d := s.drawing
	if d == nil {
		d = &Drawing{}
	}
	if f.XAxis {
		s.axis(db, "bottom", f.XTitle, d.X, d.XTicks)
	}
	if f.YAxis {
		s.axis(db, "left", f.YTitle, d.Y, d.YTicks)
	}
	if f.Legend != nil {
		ldb := db.Child().With(
			util.StringProperty(elementKey, LegendElement),
			util.If(f.Legend.Title != "", util.StringProperty(legendTitleKey, f.Legend.Title)),
		)
		if d.Color != nil {
			ldb.With(d.Color.Define())
		}
		for _, sw := range d.Swatches {
			ldb.Child().With(
				util.StringProperty(elementKey, SwatchElement),
				color.Primary(sw.Color),
				util.If(sw.Label != "", label.Text(sw.Label)),
				bounds("swatch", sw.Bounds),
			)
		}
		ticks(ldb, d.LegendTicks)
	}
	mdb := db.Child().With(util.StringProperty(elementKey, MarksElement))
	if f.MarkStyle != nil {
		mdb.With(f.MarkStyle.Define())
	}
	for _, m := range d.Marks {
		m.Build(mdb)
	}
	for _, o := range f.Outlines {
		db.Child().With(
			util.StringProperty(elementKey, OutlineElement),
			util.StringProperty(outlinePathKey, o.Path),
			color.Stroke(o.Stroke),
		)
	}
	db.Child().With(
		util.StringProperty(elementKey, TooltipElement),
		s.tip.Define(),
	)
	return nil
}

// Scene returns the receiver's chart as a scene Datum.
func (s *Scene) Scene() (*util.Datum, error) {
	sb := util.NewSceneBuilder()
	if err := s.Build(sb.Root()); err != nil {
		return nil, err
	}
	return sb.Scene()
}

// WriteTo writes the receiver's scene as indented JSON.
func (s *Scene) WriteTo(w io.Writer) (int64, error) {
	scene, err := s.Scene()
	if err != nil {
		return 0, err
	}
	raw, err := json.Marshal(scene)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// Element returns the element kind of the provided scene Datum.
func Element(d *util.Datum) string {
	e, _ := d.GetString(elementKey)
	return e
}
