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

// Package chart composes datasets, scales, marks and tooltips into charts
// bound to a Container's lifecycle.
//
// Mount binds a Config to a Container, drawing the chart's static Frame
// (canvas, titles, axis lines and legend placement) exactly once.  Each
// Update resolves the configured scales over the new rows, renders marks
// and redraws the Drawing (ticks, legend entries and marks) without touching
// the frame.  Unmount clears the container; a Composer cannot be remounted.
//
// If the Container is not yet Ready, drawing is deferred: updates are
// computed and held until Flush finds the container ready.
//
// A Composer is not safe for concurrent use; mount, update and pointer
// events are handled one at a time, in arrival order.
package chart

import (
	"errors"
	"fmt"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/mark"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/style"
	"github.com/ilhamster/chartkit/tooltip"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrNotMounted is returned by operations on unmounted charts.
var ErrNotMounted = errors.New("chart is not mounted")

// Frame is the static part of a chart, drawn once at mount.
type Frame struct {
	Name                     string
	Width, Height            float64
	Plot                     rect.Rect
	Title, Subtitle, Caption string
	// XAxis and YAxis report whether the chart has x and y axes, and
	// XTitle and YTitle are their titles.
	XAxis, YAxis   bool
	XTitle, YTitle string
	Legend         *LegendConfig
	MarkStyle      *style.Style
	Outlines       []OutlinePath
}

// OutlinePath is a projected map border.
type OutlinePath struct {
	// Path is SVG path data.
	Path   string
	Stroke string
}

// LegendSwatch is a positioned legend entry.
type LegendSwatch struct {
	Color  string
	Label  string
	Bounds rect.Rect
}

// Drawing is the data-dependent part of a chart, redrawn on each update.
type Drawing struct {
	// X, Y and Color are the resolved scales, or nil for absent ones.
	X, Y, Color    scale.Scale
	XTicks, YTicks []scale.Tick
	// Swatches holds the legend entries.  For quantize legends, their labels
	// are omitted in favour of LegendTicks at the bucket boundaries.
	Swatches    []LegendSwatch
	LegendTicks []scale.Tick
	Marks       []mark.Mark
}

// Container is a drawing surface for one chart.
type Container interface {
	// Ready reports whether the container can be drawn into.
	Ready() bool
	// Frame draws the chart's static frame.  It is called once per mount.
	Frame(f *Frame) error
	// Draw replaces the previous Drawing, if any.
	Draw(d *Drawing) error
	// Tooltip replaces the drawn tooltip.
	Tooltip(t tooltip.Tooltip) error
	// Clear releases everything drawn.
	Clear() error
}

// Composer drives one chart.
type Composer struct {
	cfg       Config
	container Container
	mounted   bool
	framed    bool
	// drawing is the latest Drawing; dirty if it has not yet been drawn.
	drawing   *Drawing
	dirty     bool
	pass      *Pass
	malformed error
	tip       *tooltip.Controller
	tipDirty  bool
	hovered   int
}

// Mount binds the provided Config to the provided Container and draws its
// frame if the container is ready.
func Mount(container Container, cfg Config) (*Composer, error) {
	if container == nil {
		return nil, fmt.Errorf("cannot mount chart '%s' without a container", cfg.Name)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	c := &Composer{
		cfg:       cfg,
		container: container,
		mounted:   true,
		tip:       tooltip.New(cfg.Tooltip),
		hovered:   -1,
	}
	if err := c.Flush(); err != nil {
		return nil, err
	}
	return c, nil
}

// Mounted reports whether the receiver is mounted.
func (c *Composer) Mounted() bool {
	return c.mounted
}

// Config returns the receiver's configuration.
func (c *Composer) Config() Config {
	return c.cfg
}

func (c *Composer) frame() *Frame {
	f := &Frame{
		Name:      c.cfg.Name,
		Width:     c.cfg.Width,
		Height:    c.cfg.Height,
		Plot:      c.cfg.Plot(),
		Title:     c.cfg.Title,
		Subtitle:  c.cfg.Subtitle,
		Caption:   c.cfg.Caption,
		XAxis:     c.cfg.X != nil,
		YAxis:     c.cfg.Y != nil,
		Legend:    c.cfg.Legend,
		MarkStyle: c.cfg.MarkStyle,
	}
	for idx := range c.cfg.Outlines {
		f.Outlines = append(f.Outlines, c.cfg.Outlines[idx].paths(f.Plot)...)
	}
	if c.cfg.X != nil {
		f.XTitle = c.cfg.X.Label
	}
	if c.cfg.Y != nil {
		f.YTitle = c.cfg.Y.Label
	}
	return f
}

// Flush draws any deferred frame, drawing or tooltip if the container is
// ready.  It does nothing if the container is not ready.
func (c *Composer) Flush() error {
	if !c.mounted {
		return ErrNotMounted
	}
	if !c.container.Ready() {
		return nil
	}
	if !c.framed {
		if err := c.container.Frame(c.frame()); err != nil {
			return fmt.Errorf("failed to draw frame of chart '%s': %w", c.cfg.Name, err)
		}
		c.framed = true
	}
	if c.dirty {
		if err := c.container.Draw(c.drawing); err != nil {
			return fmt.Errorf("failed to draw chart '%s': %w", c.cfg.Name, err)
		}
		c.dirty = false
	}
	if c.tipDirty {
		if err := c.container.Tooltip(c.tip.Tooltip()); err != nil {
			return fmt.Errorf("failed to draw tooltip of chart '%s': %w", c.cfg.Name, err)
		}
		c.tipDirty = false
	}
	return nil
}

// Update recomputes the chart's scales and marks from the provided rows and
// redraws it.  Rows that cannot be drawn are omitted; if there are any, the
// chart is still redrawn and the returned error is a dataset.MalformedRows.
func (c *Composer) Update(rows []dataset.Row) error {
	if !c.mounted {
		return ErrNotMounted
	}
	return c.update(rows, nil)
}

// UpdateTree lays the provided tree out as a treemap within the plot area
// and redraws the chart with one mark per leaf.
func (c *Composer) UpdateTree(tree *weightedtree.Tree) error {
	if !c.mounted {
		return ErrNotMounted
	}
	if c.cfg.Treemap == nil {
		return fmt.Errorf("chart '%s' has no treemap layout", c.cfg.Name)
	}
	tiles := weightedtree.Leaves(c.cfg.Treemap.Tiles(tree.Root, c.cfg.Plot()))
	return c.update(mark.LeafRows(tiles), tiles)
}

func (c *Composer) resolve(rows []dataset.Row, spec *scale.AxisSpec, r0, r1 float64) (scale.Scale, error) {
	if spec == nil {
		return nil, nil
	}
	s := *spec
	s.Range = [2]float64{r0, r1}
	return scale.Resolve(rows, s)
}

func (c *Composer) update(rows []dataset.Row, tiles []weightedtree.Tile) error {
	plot := c.cfg.Plot()
	pass := &Pass{Plot: plot, Tiles: tiles}
	var err error
	if pass.X, err = c.resolve(rows, c.cfg.X, plot.LLx, plot.URx); err != nil {
		return err
	}
	// Continuous y values grow upward; bands run top to bottom.
	y0, y1 := plot.URy, plot.LLy
	if c.cfg.Y != nil && c.cfg.Y.Kind == scale.Band {
		y0, y1 = plot.LLy, plot.URy
	}
	if pass.Y, err = c.resolve(rows, c.cfg.Y, y0, y1); err != nil {
		return err
	}
	var legendWidth float64
	if c.cfg.Legend != nil {
		legendWidth = c.cfg.Legend.Width
	}
	if pass.Color, err = c.resolve(rows, c.cfg.Color, 0, legendWidth); err != nil {
		return err
	}
	g, err := c.cfg.Geometry(pass)
	if err != nil {
		return fmt.Errorf("failed to build geometry of chart '%s': %w", c.cfg.Name, err)
	}
	marks, renderErr := mark.Render(rows, g)
	c.drawing = c.draw(pass, marks)
	c.dirty = true
	c.malformed = renderErr
	c.pass = pass
	if c.tip.State() == tooltip.Hovering {
		c.tip.Leave()
		c.tipDirty = true
	}
	c.hovered = -1
	if err := c.Flush(); err != nil {
		return err
	}
	return renderErr
}

func (c *Composer) draw(pass *Pass, marks []mark.Mark) *Drawing {
	d := &Drawing{X: pass.X, Y: pass.Y, Color: pass.Color, Marks: marks}
	if pass.X != nil {
		d.XTicks = pass.X.Ticks()
	}
	if pass.Y != nil {
		d.YTicks = pass.Y.Ticks()
	}
	colorer, ok := pass.Color.(scale.Colorer)
	if c.cfg.Legend == nil || !ok {
		return d
	}
	lc := c.cfg.Legend
	swatchPx := lc.SwatchPx
	if swatchPx <= 0 {
		swatchPx = defaultSwatchPx
	}
	entries := colorer.Legend()
	if _, ok := colorer.(scale.Quantizer); ok {
		w := lc.Width / float64(len(entries))
		for idx, e := range entries {
			x := lc.X + float64(idx)*w
			d.Swatches = append(d.Swatches, LegendSwatch{
				Color:  e.Color,
				Bounds: rect.Rect{LLx: x, LLy: lc.Y, URx: x + w, URy: lc.Y + swatchPx},
			})
		}
		for _, t := range colorer.Ticks() {
			t.Pos += lc.X
			d.LegendTicks = append(d.LegendTicks, t)
		}
		return d
	}
	for idx, e := range entries {
		y := lc.Y + float64(idx)*(swatchPx+swatchPx/3)
		d.Swatches = append(d.Swatches, LegendSwatch{
			Color:  e.Color,
			Label:  e.Label,
			Bounds: rect.Rect{LLx: lc.X, LLy: y, URx: lc.X + swatchPx, URy: y + swatchPx},
		})
	}
	return d
}

// Err returns the malformed rows omitted from the latest update, or nil.
func (c *Composer) Err() error {
	return c.malformed
}

// Scales returns the scales resolved by the latest update, or nil before
// the first update.
func (c *Composer) Scales() *Pass {
	return c.pass
}

// Marks returns the marks of the latest update.
func (c *Composer) Marks() []mark.Mark {
	if c.drawing == nil {
		return nil
	}
	return c.drawing.Marks
}

// MarkAt returns the topmost mark at the provided point.
func (c *Composer) MarkAt(pt vec.Vec2) (mark.Mark, bool) {
	idx, ok := mark.Hit(c.Marks(), pt)
	if !ok {
		return mark.Mark{}, false
	}
	return c.Marks()[idx], true
}

// PointerMove handles the pointer moving to the provided point, entering,
// moving within or leaving marks as appropriate, and redraws the tooltip.
func (c *Composer) PointerMove(pt vec.Vec2) error {
	if !c.mounted {
		return ErrNotMounted
	}
	if c.cfg.Tooltip == nil {
		return nil
	}
	idx, ok := mark.Hit(c.Marks(), pt)
	switch {
	case !ok:
		if c.tip.State() == tooltip.Idle {
			return nil
		}
		c.tip.Leave()
		c.hovered = -1
	case idx != c.hovered:
		c.hovered = idx
		m := c.Marks()[idx]
		if err := c.tip.Enter(m.Index, m.Row, pt); err != nil {
			c.hovered = -1
			c.tipDirty = true
			if ferr := c.Flush(); ferr != nil {
				return ferr
			}
			return err
		}
	default:
		c.tip.Move(pt)
	}
	c.tipDirty = true
	return c.Flush()
}

// PointerLeave handles the pointer leaving the chart.
func (c *Composer) PointerLeave() error {
	if !c.mounted {
		return ErrNotMounted
	}
	if c.tip.State() == tooltip.Idle {
		return nil
	}
	c.tip.Leave()
	c.hovered = -1
	c.tipDirty = true
	return c.Flush()
}

// Tooltip returns the receiver's current tooltip.
func (c *Composer) Tooltip() tooltip.Tooltip {
	return c.tip.Tooltip()
}

// Unmount clears the container and releases the receiver's marks.
func (c *Composer) Unmount() error {
	if !c.mounted {
		return ErrNotMounted
	}
	c.mounted = false
	c.drawing = nil
	c.dirty, c.tipDirty = false, false
	c.tip.Leave()
	if !c.framed {
		return nil
	}
	c.framed = false
	if err := c.container.Clear(); err != nil {
		return fmt.Errorf("failed to clear chart '%s': %w", c.cfg.Name, err)
	}
	return nil
}
