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
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/ilhamster/chartkit/label"
	"github.com/ilhamster/chartkit/mark"
	"github.com/ilhamster/chartkit/tooltip"
)

var errNoFrame = errors.New("no frame has been drawn")

// Rendering constants, in pixels.
const (
	tickLengthPx     = 6
	tickLabelGapPx   = 9
	titleFontPx      = 20
	fontPx           = 12
	lineHeightPx     = 16
	leafLabelInsetPx = 4
	tooltipPaddingPx = 6
	axisTitleGapPx   = 45
)

// SVG is a Container that holds the latest frame, drawing and tooltip, and
// writes them as an SVG document on demand.
type SVG struct {
	frame   *Frame
	drawing *Drawing
	tip     tooltip.Tooltip
}

// NewSVG returns a new, empty SVG container.
func NewSVG() *SVG {
	return &SVG{}
}

// Ready reports that SVG containers are always ready.
func (s *SVG) Ready() bool {
	return true
}

// Frame stores the provided frame.  It fails if a frame is already present.
func (s *SVG) Frame(f *Frame) error {
	if s.frame != nil {
		return fmt.Errorf("chart '%s' is already framed", s.frame.Name)
	}
	s.frame = f
	return nil
}

// Draw replaces the stored drawing.
func (s *SVG) Draw(d *Drawing) error {
	if s.frame == nil {
		return errNoFrame
	}
	s.drawing = d
	return nil
}

// Tooltip replaces the stored tooltip.
func (s *SVG) Tooltip(t tooltip.Tooltip) error {
	if s.frame == nil {
		return errNoFrame
	}
	s.tip = t
	return nil
}

// Clear discards everything stored.
func (s *SVG) Clear() error {
	s.frame, s.drawing, s.tip = nil, nil, tooltip.Tooltip{}
	return nil
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}

func px(f float64) int {
	return int(math.Round(f))
}

// WriteTo writes the receiver as an SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	if s.frame == nil {
		return 0, errNoFrame
	}
	cw := &countingWriter{w: w}
	canvas := svg.New(cw)
	f := s.frame
	canvas.Start(px(f.Width), px(f.Height), `font-family="sans-serif"`, fmt.Sprintf(`font-size="%d"`, fontPx))
	if f.Title != "" {
		canvas.Title(f.Title)
	}
	s.writeFrame(canvas)
	if s.drawing != nil {
		s.writeAxes(canvas)
		s.writeMarks(canvas)
		s.writeLegend(canvas)
	}
	s.writeOutlines(canvas)
	s.writeTooltip(canvas)
	canvas.End()
	return cw.n, cw.err
}

func (s *SVG) writeFrame(canvas *svg.SVG) {
	f := s.frame
	canvas.Group(`class="frame"`)
	cx := px(f.Width / 2)
	if f.Title != "" {
		canvas.Text(cx, px(f.Plot.LLy/2), f.Title, `id="title"`, `text-anchor="middle"`, fmt.Sprintf(`font-size="%d"`, titleFontPx))
	}
	if f.Subtitle != "" {
		canvas.Text(cx, px(f.Plot.LLy/2)+lineHeightPx+4, f.Subtitle, `id="subtitle"`, `text-anchor="middle"`)
	}
	if f.Caption != "" {
		canvas.Text(px(f.Plot.URx), px(f.Height)-lineHeightPx/2, f.Caption, `id="caption"`, `text-anchor="end"`)
	}
	if f.XAxis {
		canvas.Line(px(f.Plot.LLx), px(f.Plot.URy), px(f.Plot.URx), px(f.Plot.URy), `id="x-axis"`, `stroke="black"`)
		if f.XTitle != "" {
			canvas.Text(px((f.Plot.LLx+f.Plot.URx)/2), px(f.Plot.URy)+axisTitleGapPx, f.XTitle, `text-anchor="middle"`)
		}
	}
	if f.YAxis {
		canvas.Line(px(f.Plot.LLx), px(f.Plot.LLy), px(f.Plot.LLx), px(f.Plot.URy), `id="y-axis"`, `stroke="black"`)
		if f.YTitle != "" {
			x, y := px(f.Plot.LLx)-axisTitleGapPx-tickLabelGapPx, px((f.Plot.LLy+f.Plot.URy)/2)
			canvas.Text(x, y, f.YTitle, `text-anchor="middle"`, fmt.Sprintf(`transform="rotate(-90 %d %d)"`, x, y))
		}
	}
	if f.Legend != nil && f.Legend.Title != "" {
		canvas.Text(px(f.Legend.X), px(f.Legend.Y)-lineHeightPx/2, f.Legend.Title, `id="legend-title"`)
	}
	canvas.Gend()
}

func (s *SVG) writeAxes(canvas *svg.SVG) {
	f, d := s.frame, s.drawing
	if f.XAxis {
		canvas.Group(`class="x-ticks"`, `text-anchor="middle"`)
		y := px(f.Plot.URy)
		for _, t := range d.XTicks {
			x := px(t.Pos)
			canvas.Line(x, y, x, y+tickLengthPx, `stroke="black"`)
			canvas.Text(x, y+tickLengthPx+tickLabelGapPx, t.Label, `dy=".3em"`)
		}
		canvas.Gend()
	}
	if f.YAxis {
		canvas.Group(`class="y-ticks"`, `text-anchor="end"`)
		x := px(f.Plot.LLx)
		for _, t := range d.YTicks {
			y := px(t.Pos)
			canvas.Line(x-tickLengthPx, y, x, y, `stroke="black"`)
			canvas.Text(x-tickLabelGapPx, y, t.Label, `dy=".3em"`)
		}
		canvas.Gend()
	}
}

func paintAttr(name, color string) string {
	if color == "" {
		color = "none"
	}
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(color))
}

func (s *SVG) writeMarks(canvas *svg.SVG) {
	attrs := []string{`class="marks"`}
	if s.frame.MarkStyle != nil {
		attrs = append(attrs, s.frame.MarkStyle.Attrs()...)
	}
	canvas.Group(attrs...)
	for _, m := range s.drawing.Marks {
		idx := fmt.Sprintf(`data-index="%d"`, m.Index)
		switch m.Kind {
		case mark.PointKind:
			canvas.Circle(px(m.X), px(m.Y), px(m.Radius), idx, paintAttr("fill", m.Fill), paintAttr("stroke", m.Stroke))
		case mark.RegionKind:
			canvas.Path(m.Path, idx, paintAttr("fill", m.Fill), `stroke="white"`, `stroke-width="0.5"`)
		default:
			canvas.Rect(px(m.X), px(m.Y), px(m.Width), px(m.Height), idx, paintAttr("fill", m.Fill))
		}
		for line, text := range m.Label {
			if text == "" {
				continue
			}
			canvas.Text(px(m.X)+leafLabelInsetPx, px(m.Y)+(line+1)*lineHeightPx, text, `font-size="10"`)
		}
	}
	canvas.Gend()
}

func (s *SVG) writeOutlines(canvas *svg.SVG) {
	if len(s.frame.Outlines) == 0 {
		return
	}
	canvas.Group(`class="outlines"`, `fill="none"`, `pointer-events="none"`)
	for _, o := range s.frame.Outlines {
		canvas.Path(o.Path, paintAttr("stroke", o.Stroke))
	}
	canvas.Gend()
}

func (s *SVG) writeLegend(canvas *svg.SVG) {
	d := s.drawing
	if len(d.Swatches) == 0 {
		return
	}
	canvas.Group(`class="legend"`)
	for _, sw := range d.Swatches {
		b := sw.Bounds
		canvas.Rect(px(b.LLx), px(b.LLy), px(b.URx-b.LLx), px(b.URy-b.LLy), paintAttr("fill", sw.Color))
		if sw.Label != "" {
			canvas.Text(px(b.URx)+tickLengthPx, px((b.LLy+b.URy)/2), sw.Label, `dy=".3em"`)
		}
	}
	if len(d.LegendTicks) > 0 {
		y := px(d.Swatches[0].Bounds.URy)
		for _, t := range d.LegendTicks {
			x := px(t.Pos)
			canvas.Line(x, y, x, y+tickLengthPx, `stroke="black"`)
			canvas.Text(x, y+tickLengthPx+tickLabelGapPx, t.Label, `text-anchor="middle"`, `dy=".3em"`)
		}
	}
	canvas.Gend()
}

// tooltipLines splits safe tooltip HTML into plain text lines, breaking at
// <br> elements.
func tooltipLines(content string) []string {
	content = strings.NewReplacer("<br/>", "<br>", "<br />", "<br>").Replace(content)
	parts := strings.Split(content, "<br>")
	ret := make([]string, len(parts))
	for idx, part := range parts {
		ret[idx] = html.UnescapeString(part)
	}
	return ret
}

func (s *SVG) writeTooltip(canvas *svg.SVG) {
	t := s.tip
	if !t.Visible {
		return
	}
	lines := tooltipLines(t.Content.String())
	m := label.Estimate{GlyphPx: 7}
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, m.Width(line))
	}
	canvas.Group(`id="tooltip"`, fmt.Sprintf(`opacity="%.2f"`, t.Opacity), fmt.Sprintf(`data-mark="%d"`, t.Mark))
	canvas.Rect(px(t.X), px(t.Y), px(width)+2*tooltipPaddingPx, len(lines)*lineHeightPx+tooltipPaddingPx, `fill="black"`, `rx="4"`)
	for idx, line := range lines {
		canvas.Text(px(t.X)+tooltipPaddingPx, px(t.Y)+(idx+1)*lineHeightPx, line, `fill="white"`)
	}
	canvas.Gend()
}
