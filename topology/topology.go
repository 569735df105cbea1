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

// Package topology decodes TopoJSON topologies into polygonal regions, such
// as the counties and states of a choropleth map.
//
// A topology stores each shared boundary once, as an arc; regions reference
// arcs by index, with a negative index ~i denoting arc i reversed.  Quantized
// topologies carry a transform and delta-encode each arc's positions.
package topology

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type geometry struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Arcs       json.RawMessage `json:"arcs"`
	Properties map[string]any  `json:"properties"`
	Geometries []geometry      `json:"geometries"`
}

type rawTopology struct {
	Type      string              `json:"type"`
	Transform *transform          `json:"transform"`
	Objects   map[string]geometry `json:"objects"`
	Arcs      [][][2]float64      `json:"arcs"`
}

// Topology is a decoded TopoJSON topology.
type Topology struct {
	objects map[string]geometry
	// arcs holds absolute, untransformed positions.
	arcs [][]vec.Vec2
}

// Decode decodes a TopoJSON topology.
func Decode(raw []byte) (*Topology, error) {
	var rt rawTopology
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("failed to decode topology: %w", err)
	}
	if rt.Type != "Topology" {
		return nil, fmt.Errorf("expected a Topology, got type '%s'", rt.Type)
	}
	t := &Topology{
		objects: rt.Objects,
		arcs:    make([][]vec.Vec2, len(rt.Arcs)),
	}
	for idx, rawArc := range rt.Arcs {
		arc := make([]vec.Vec2, len(rawArc))
		var x, y float64
		for pIdx, pos := range rawArc {
			if rt.Transform == nil {
				arc[pIdx] = vec.Vec2{X: pos[0], Y: pos[1]}
				continue
			}
			x, y = x+pos[0], y+pos[1]
			arc[pIdx] = vec.Vec2{
				X: x*rt.Transform.Scale[0] + rt.Transform.Translate[0],
				Y: y*rt.Transform.Scale[1] + rt.Transform.Translate[1],
			}
		}
		t.arcs[idx] = arc
	}
	return t, nil
}

// Objects returns the names of the receiver's objects, sorted.
func (t *Topology) Objects() []string {
	ret := make([]string, 0, len(t.objects))
	for name := range t.objects {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Feature is a single region.
type Feature struct {
	ID   string
	Name string
	// Polygons holds the region's polygons, each a list of closed rings of
	// which the first is the exterior.
	Polygons [][][]vec.Vec2
}

// Features returns the polygonal features of the named object.  Features
// without polygons (such as points or null geometries) are skipped.
func (t *Topology) Features(object string) ([]Feature, error) {
	obj, ok := t.objects[object]
	if !ok {
		return nil, fmt.Errorf("topology has no object '%s'", object)
	}
	geoms := []geometry{obj}
	if obj.Type == "GeometryCollection" {
		geoms = obj.Geometries
	}
	ret := []Feature{}
	for _, g := range geoms {
		f, ok, err := t.feature(g)
		if err != nil {
			return nil, fmt.Errorf("object '%s': %w", object, err)
		}
		if ok {
			ret = append(ret, f)
		}
	}
	return ret, nil
}

func (t *Topology) feature(g geometry) (Feature, bool, error) {
	f := Feature{
		ID: decodeID(g.ID),
	}
	if name, ok := g.Properties["name"].(string); ok {
		f.Name = name
	}
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return f, false, fmt.Errorf("feature '%s': bad polygon arcs: %w", f.ID, err)
		}
		poly, err := t.polygon(rings)
		if err != nil {
			return f, false, fmt.Errorf("feature '%s': %w", f.ID, err)
		}
		f.Polygons = [][][]vec.Vec2{poly}
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return f, false, fmt.Errorf("feature '%s': bad multipolygon arcs: %w", f.ID, err)
		}
		for _, rings := range polys {
			poly, err := t.polygon(rings)
			if err != nil {
				return f, false, fmt.Errorf("feature '%s': %w", f.ID, err)
			}
			f.Polygons = append(f.Polygons, poly)
		}
	default:
		return f, false, nil
	}
	return f, true, nil
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

func (t *Topology) polygon(rings [][]int) ([][]vec.Vec2, error) {
	ret := make([][]vec.Vec2, len(rings))
	for idx, arcs := range rings {
		ring, err := t.ring(arcs)
		if err != nil {
			return nil, err
		}
		ret[idx] = ring
	}
	return ret, nil
}

// ring stitches the referenced arcs into one closed ring.  Consecutive arcs
// share their junction point, which is kept once.
func (t *Topology) ring(arcs []int) ([]vec.Vec2, error) {
	points := []vec.Vec2{}
	for _, ref := range arcs {
		idx := ref
		if ref < 0 {
			idx = ^ref
		}
		if idx >= len(t.arcs) {
			return nil, fmt.Errorf("arc %d out of range", ref)
		}
		arc := t.arcs[idx]
		if len(points) > 0 {
			points = points[:len(points)-1]
		}
		start := len(points)
		points = append(points, arc...)
		if ref < 0 {
			for i, j := start, len(points)-1; i < j; i, j = i+1, j-1 {
				points[i], points[j] = points[j], points[i]
			}
		}
	}
	if len(points) > 0 && len(points) < 4 {
		points = append(points, points[0])
	}
	return points, nil
}

// Bounds returns the bounding box of the receiver's exterior rings.
func (f Feature) Bounds() rect.Rect {
	return Extent([]Feature{f})
}

// Extent returns the bounding box of all the provided features.
func Extent(features []Feature) rect.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range features {
		for _, poly := range f.Polygons {
			if len(poly) == 0 {
				continue
			}
			for _, p := range poly[0] {
				minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
				minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			}
		}
	}
	if math.IsInf(minX, 1) {
		return rect.Rect{}
	}
	return rect.Rect{LLx: minX, LLy: minY, URx: maxX, URy: maxY}
}

// Projection maps topology coordinates onto the canvas by uniform scaling
// and translation.
type Projection struct {
	Scale  float64
	Offset vec.Vec2
}

// Identity is the identity Projection.
var Identity = Projection{Scale: 1}

// Fit returns the Projection that scales extent uniformly to fit within
// into, centered.
func Fit(extent, into rect.Rect) Projection {
	w, h := extent.URx-extent.LLx, extent.URy-extent.LLy
	if w <= 0 || h <= 0 {
		return Projection{
			Scale: 1,
			Offset: vec.Vec2{
				X: (into.LLx+into.URx)/2 - (extent.LLx+extent.URx)/2,
				Y: (into.LLy+into.URy)/2 - (extent.LLy+extent.URy)/2,
			},
		}
	}
	scale := math.Min((into.URx-into.LLx)/w, (into.URy-into.LLy)/h)
	return Projection{
		Scale: scale,
		Offset: vec.Vec2{
			X: into.LLx + ((into.URx-into.LLx)-w*scale)/2 - extent.LLx*scale,
			Y: into.LLy + ((into.URy-into.LLy)-h*scale)/2 - extent.LLy*scale,
		},
	}
}

// Apply projects the provided point.
func (p Projection) Apply(v vec.Vec2) vec.Vec2 {
	return v.Mul(p.Scale).Add(p.Offset)
}

// Invert maps the provided projected point back into topology coordinates.
func (p Projection) Invert(v vec.Vec2) vec.Vec2 {
	if p.Scale == 0 {
		return v.Sub(p.Offset)
	}
	return v.Sub(p.Offset).Mul(1 / p.Scale)
}

// ApplyRect projects the provided rectangle.
func (p Projection) ApplyRect(r rect.Rect) rect.Rect {
	ll := p.Apply(vec.Vec2{X: r.LLx, Y: r.LLy})
	ur := p.Apply(vec.Vec2{X: r.URx, Y: r.URy})
	return rect.Rect{LLx: ll.X, LLy: ll.Y, URx: ur.X, URy: ur.Y}
}

func coord(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// Path returns the receiver as SVG path data under the provided projection,
// with coordinates rounded to hundredths of a pixel.
func (f Feature) Path(p Projection) string {
	var sb strings.Builder
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			for idx, pt := range ring {
				pt = p.Apply(pt)
				if idx == 0 {
					sb.WriteString("M")
				} else {
					sb.WriteString("L")
				}
				sb.WriteString(coord(pt.X))
				sb.WriteString(",")
				sb.WriteString(coord(pt.Y))
			}
			if len(ring) > 0 {
				sb.WriteString("Z")
			}
		}
	}
	return sb.String()
}

// Contains reports whether the provided point, in topology coordinates, lies
// within the receiver under the even-odd rule.
func (f Feature) Contains(pt vec.Vec2) bool {
	inside := false
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
				a, b := ring[i], ring[j]
				if (a.Y > pt.Y) != (b.Y > pt.Y) &&
					pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
					inside = !inside
				}
			}
		}
	}
	return inside
}
