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

package weightedtree

import (
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// Tiling selects how a node's area is subdivided among its children.
type Tiling int

const (
	// Squarify lays children out in rows chosen to keep tiles close to the
	// golden-ratio aspect.
	Squarify Tiling = iota
	// SliceDice alternates between horizontal and vertical subdivision by
	// depth.
	SliceDice
	// Slice stacks children vertically.
	Slice
	// Dice lines children up horizontally.
	Dice
)

var tilingNames = map[string]Tiling{
	"":           Squarify,
	"squarify":   Squarify,
	"slice-dice": SliceDice,
	"slice_dice": SliceDice,
	"slice":      Slice,
	"dice":       Dice,
}

// ParseTiling returns the Tiling with the provided name.
func ParseTiling(name string) (Tiling, error) {
	t, ok := tilingNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown tiling '%s'", name)
	}
	return t, nil
}

var phi = (1 + math.Sqrt(5)) / 2

// Layout lays trees out as nested rectangles.  Bounds are in screen
// coordinates: LLx and LLy hold the minimum corner, URx and URy the maximum.
type Layout struct {
	Tiling Tiling
	// Padding separates sibling tiles, and insets each parent's children from
	// its edges, by this many pixels.
	Padding float64
}

// Tile is a laid-out node.
type Tile struct {
	Node   *Node
	Bounds rect.Rect
}

// Tiles lays the provided root out within bounds, returning a tile for every
// node in pre-order.  The root occupies all of bounds; each other node's tile
// is inset from its allotted area by half the padding, and each parent's
// children are allotted its area less another half padding, so siblings are
// separated by one padding and outermost tiles are one padding from their
// parent's edge.
func (l Layout) Tiles(root *Node, bounds rect.Rect) []Tile {
	totals := map[*Node]float64{}
	var total func(n *Node) float64
	total = func(n *Node) float64 {
		ret := n.Self
		for _, child := range n.Children {
			ret += total(child)
		}
		totals[n] = ret
		return ret
	}
	total(root)
	tiles := []Tile{}
	var place func(n *Node, depth int, b rect.Rect, inset float64)
	place = func(n *Node, depth int, b rect.Rect, inset float64) {
		b = shrink(b, inset)
		tiles = append(tiles, Tile{Node: n, Bounds: b})
		if len(n.Children) == 0 {
			return
		}
		p := l.Padding / 2
		inner := shrink(b, l.Padding-p)
		childBounds := l.tile(n.Children, totals, depth, inner)
		for idx, child := range n.Children {
			place(child, depth+1, childBounds[idx], p)
		}
	}
	place(root, 0, bounds, 0)
	return tiles
}

// Leaves returns the tiles of leaf nodes.
func Leaves(tiles []Tile) []Tile {
	ret := []Tile{}
	for _, t := range tiles {
		if len(t.Node.Children) == 0 {
			ret = append(ret, t)
		}
	}
	return ret
}

// shrink insets b by d on every side, collapsing to its center line if it
// is too small.
func shrink(b rect.Rect, d float64) rect.Rect {
	x0, y0, x1, y1 := b.LLx+d, b.LLy+d, b.URx-d, b.URy-d
	if x1 < x0 {
		x0 = (x0 + x1) / 2
		x1 = x0
	}
	if y1 < y0 {
		y0 = (y0 + y1) / 2
		y1 = y0
	}
	return rect.Rect{LLx: x0, LLy: y0, URx: x1, URy: y1}
}

// tile subdivides b among nodes, returning each node's area.
func (l Layout) tile(nodes []*Node, totals map[*Node]float64, depth int, b rect.Rect) []rect.Rect {
	ret := make([]rect.Rect, len(nodes))
	switch l.Tiling {
	case Slice:
		slice(nodes, totals, 0, len(nodes), b, ret)
	case Dice:
		dice(nodes, totals, 0, len(nodes), b, ret)
	case SliceDice:
		if depth%2 == 1 {
			slice(nodes, totals, 0, len(nodes), b, ret)
		} else {
			dice(nodes, totals, 0, len(nodes), b, ret)
		}
	default:
		squarify(nodes, totals, b, ret)
	}
	return ret
}

func sum(nodes []*Node, totals map[*Node]float64, i0, i1 int) float64 {
	ret := 0.0
	for _, n := range nodes[i0:i1] {
		ret += totals[n]
	}
	return ret
}

// dice lays nodes[i0:i1] out left to right across b.
func dice(nodes []*Node, totals map[*Node]float64, i0, i1 int, b rect.Rect, out []rect.Rect) {
	k := 0.0
	if v := sum(nodes, totals, i0, i1); v > 0 {
		k = (b.URx - b.LLx) / v
	}
	x := b.LLx
	for idx := i0; idx < i1; idx++ {
		x1 := x + totals[nodes[idx]]*k
		out[idx] = rect.Rect{LLx: x, LLy: b.LLy, URx: x1, URy: b.URy}
		x = x1
	}
}

// slice lays nodes[i0:i1] out top to bottom down b.
func slice(nodes []*Node, totals map[*Node]float64, i0, i1 int, b rect.Rect, out []rect.Rect) {
	k := 0.0
	if v := sum(nodes, totals, i0, i1); v > 0 {
		k = (b.URy - b.LLy) / v
	}
	y := b.LLy
	for idx := i0; idx < i1; idx++ {
		y1 := y + totals[nodes[idx]]*k
		out[idx] = rect.Rect{LLx: b.LLx, LLy: y, URx: b.URx, URy: y1}
		y = y1
	}
}

// squarify lays nodes out in successive rows, each extended while doing so
// does not worsen its worst aspect ratio relative to the golden ratio.
func squarify(nodes []*Node, totals map[*Node]float64, b rect.Rect, out []rect.Rect) {
	value := sum(nodes, totals, 0, len(nodes))
	x0, y0, x1, y1 := b.LLx, b.LLy, b.URx, b.URy
	n := len(nodes)
	for i0, i1 := 0, 0; i0 < n; i0 = i1 {
		dx, dy := x1-x0, y1-y0
		// Find the next non-empty node.
		sumValue := 0.0
		for sumValue == 0 && i1 < n {
			sumValue = totals[nodes[i1]]
			i1++
		}
		minValue, maxValue := sumValue, sumValue
		alpha := math.Max(dy/dx, dx/dy) / (value * phi)
		beta := sumValue * sumValue * alpha
		minRatio := math.Max(maxValue/beta, beta/minValue)
		for ; i1 < n; i1++ {
			nodeValue := totals[nodes[i1]]
			sumValue += nodeValue
			minValue = math.Min(minValue, nodeValue)
			maxValue = math.Max(maxValue, nodeValue)
			beta = sumValue * sumValue * alpha
			newRatio := math.Max(maxValue/beta, beta/minValue)
			if newRatio > minRatio {
				sumValue -= nodeValue
				break
			}
			minRatio = newRatio
		}
		if dx < dy {
			rowY1 := y1
			if value > 0 {
				rowY1 = y0 + dy*sumValue/value
			}
			dice(nodes, totals, i0, i1, rect.Rect{LLx: x0, LLy: y0, URx: x1, URy: rowY1}, out)
			y0 = rowY1
		} else {
			rowX1 := x1
			if value > 0 {
				rowX1 = x0 + dx*sumValue/value
			}
			slice(nodes, totals, i0, i1, rect.Rect{LLx: x0, LLy: y0, URx: rowX1, URy: y1}, out)
			x0 = rowX1
		}
		value -= sumValue
	}
}
