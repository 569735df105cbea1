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

// Package tooltip provides the hover state machine shared by all charts.
//
// A Controller is either Idle or Hovering.  Entering a mark makes it Hovering
// with content formatted from the mark's row, placed at the pointer plus a
// fixed offset; moving while Hovering updates only the position; leaving
// returns it to Idle and clears the content.  Events are applied
// synchronously as they arrive, so the last event wins.
package tooltip

import (
	"fmt"

	"github.com/google/safehtml"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
	"seehuhn.de/go/geom/vec"
)

// State is a tooltip state.
type State int

const (
	// Idle tooltips are hidden and empty.
	Idle State = iota
	// Hovering tooltips are visible, showing the hovered row's content.
	Hovering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	// VisibleOpacity is the opacity of a visible tooltip.
	VisibleOpacity = .75
	// DefaultOffsetPx separates the tooltip from the pointer in each
	// dimension.
	DefaultOffsetPx = 5.0
)

// Tooltip is a snapshot of a Controller's tooltip.
type Tooltip struct {
	Visible bool
	Opacity float64
	Content safehtml.HTML
	// X and Y locate the tooltip's top-left corner.
	X, Y float64
	// Mark is the index of the hovered mark.
	Mark int
}

// Formatter formats a row as tooltip content.
type Formatter interface {
	Format(row dataset.Row) (safehtml.HTML, error)
}

// FormatFunc adapts a function into a Formatter.
type FormatFunc func(row dataset.Row) (safehtml.HTML, error)

// Format formats the provided row.
func (ff FormatFunc) Format(row dataset.Row) (safehtml.HTML, error) {
	return ff(row)
}

// Controller drives a single tooltip.  It is not safe for concurrent use;
// a chart's pointer events arrive one at a time.
type Controller struct {
	formatter Formatter
	offset    vec.Vec2
	state     State
	tip       Tooltip
}

// New returns a new, Idle Controller formatting content with the provided
// Formatter.
func New(formatter Formatter) *Controller {
	return &Controller{
		formatter: formatter,
		offset:    vec.Vec2{X: DefaultOffsetPx, Y: DefaultOffsetPx},
	}
}

// WithOffset sets the offset between the pointer and the tooltip, returning
// the receiver to facilitate chaining.
func (c *Controller) WithOffset(offset vec.Vec2) *Controller {
	c.offset = offset
	return c
}

// State returns the receiver's current state.
func (c *Controller) State() State {
	return c.state
}

// Tooltip returns the receiver's current tooltip.
func (c *Controller) Tooltip() Tooltip {
	return c.tip
}

// Enter handles the pointer entering the mark at the provided index, whose
// row is provided, at pt.  Entering a mark while hovering another replaces
// its content.  If the row cannot be formatted, the receiver becomes Idle
// and the error is returned.
func (c *Controller) Enter(mark int, row dataset.Row, pt vec.Vec2) error {
	var content safehtml.HTML
	if c.formatter != nil {
		var err error
		content, err = c.formatter.Format(row)
		if err != nil {
			c.Leave()
			return fmt.Errorf("failed to format tooltip for mark %d: %w", mark, err)
		}
	}
	c.state = Hovering
	c.tip = Tooltip{
		Visible: true,
		Opacity: VisibleOpacity,
		Content: content,
		Mark:    mark,
	}
	c.place(pt)
	return nil
}

// Move handles the pointer moving to pt.  It has no effect while Idle.
func (c *Controller) Move(pt vec.Vec2) {
	if c.state != Hovering {
		return
	}
	c.place(pt)
}

func (c *Controller) place(pt vec.Vec2) {
	at := pt.Add(c.offset)
	c.tip.X, c.tip.Y = at.X, at.Y
}

// Leave handles the pointer leaving the hovered mark.
func (c *Controller) Leave() {
	c.state = Idle
	c.tip = Tooltip{}
}

const (
	tooltipVisibleKey = "tooltip_visible"
	tooltipOpacityKey = "tooltip_opacity"
	tooltipContentKey = "tooltip_content"
	tooltipXKey       = "tooltip_x"
	tooltipYKey       = "tooltip_y"
	tooltipMarkKey    = "tooltip_mark"
)

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (t Tooltip) Define() util.PropertyUpdate {
	return util.IfElse(t.Visible,
		util.Chain(
			util.IntegerProperty(tooltipVisibleKey, 1),
			util.DoubleProperty(tooltipOpacityKey, t.Opacity),
			util.StringProperty(tooltipContentKey, t.Content.String()),
			util.DoubleProperty(tooltipXKey, t.X),
			util.DoubleProperty(tooltipYKey, t.Y),
			util.IntegerProperty(tooltipMarkKey, int64(t.Mark)),
		),
		util.Chain(
			util.IntegerProperty(tooltipVisibleKey, 0),
			util.DoubleProperty(tooltipOpacityKey, 0),
		),
	)
}
