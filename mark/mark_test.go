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
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/topology"
	"github.com/ilhamster/chartkit/util"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

const (
	canvasWidth  = 800
	canvasHeight = 500
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func gdpRows() []dataset.Row {
	return []dataset.Row{
		{"date": util.TimestampValue(date(1947, 1)), "gdp": util.DoubleValue(243.1)},
		{"date": util.TimestampValue(date(1980, 4)), "gdp": util.DoubleValue(2725.3)},
		{"date": util.TimestampValue(date(2015, 7)), "gdp": util.DoubleValue(18064.7)},
		{"date": util.TimestampValue(date(2015, 10))},
	}
}

func mustResolve(t *testing.T, rows []dataset.Row, spec scale.AxisSpec) scale.Scale {
	t.Helper()
	s, err := scale.Resolve(rows, spec)
	if err != nil {
		t.Fatalf("Resolve() yielded unexpected error %s", err)
	}
	return s
}

type geom struct {
	X, Y, Width, Height, Radius float64
	Fill                        string
}

func geoms(marks []Mark) []geom {
	ret := make([]geom, len(marks))
	for idx, m := range marks {
		ret[idx] = geom{m.X, m.Y, m.Width, m.Height, m.Radius, m.Fill}
	}
	return ret
}

func indices(marks []Mark) []int {
	ret := make([]int, len(marks))
	for idx, m := range marks {
		ret[idx] = m.Index
	}
	return ret
}

func TestBarHeights(t *testing.T) {
	rows := gdpRows()
	x := mustResolve(t, rows, scale.AxisSpec{Field: "date", Kind: scale.Time, Range: [2]float64{0, canvasWidth}})
	y := mustResolve(t, rows, scale.AxisSpec{Field: "gdp", Kind: scale.Linear, Range: [2]float64{canvasHeight, 0}})
	marks, err := Render(rows, &Bar{X: x, Y: y, Width: 2, Fill: Paint{Color: "orange"}})
	var malformed dataset.MalformedRows
	if !errors.As(err, &malformed) || len(malformed) != 1 || malformed[0].Index != 3 || malformed[0].Field != "gdp" {
		t.Fatalf("Render() yielded error %v, wanted one malformed row at index 3", err)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, indices(marks)); diff != "" {
		t.Errorf("Render() mark indices diff (-want +got):\n%s", diff)
	}
	for _, m := range marks {
		gdp, _ := m.Row.Number("gdp")
		pos, _ := y.Map(util.DoubleValue(gdp))
		want := canvasHeight - pos
		if diff := cmp.Diff(want, m.Height, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("bar for %v has height diff (-want +got):\n%s", gdp, diff)
		}
		if math.Abs(m.Y+m.Height-canvasHeight) > 1e-9 {
			t.Errorf("bar for %v ends at %v, wanted %v", gdp, m.Y+m.Height, canvasHeight)
		}
		if m.Fill != "orange" || m.Width != 2 || m.Kind != BarKind {
			t.Errorf("bar for %v is %v %v, wanted orange width-2 bar", gdp, m.Fill, m)
		}
	}
	if marks[0].Height != 0 {
		t.Errorf("smallest bar has height %v, wanted 0", marks[0].Height)
	}
	if math.Abs(marks[2].Y) > 1e-9 || math.Abs(marks[2].Height-canvasHeight) > 1e-9 {
		t.Errorf("largest bar spans %v+%v, wanted the full height", marks[2].Y, marks[2].Height)
	}
}

func TestGeometries(t *testing.T) {
	bandRows := []dataset.Row{
		{"day": util.StringValue("Mon"), "hour": util.StringValue("00"), "n": util.IntegerValue(2)},
		{"day": util.StringValue("Tue"), "hour": util.StringValue("01"), "n": util.IntegerValue(8)},
		{"day": util.StringValue("Wed"), "hour": util.StringValue("00"), "n": util.IntegerValue(4)},
	}
	day := mustResolve(t, bandRows, scale.AxisSpec{Field: "day", Kind: scale.Band, Range: [2]float64{0, 300}})
	hour := mustResolve(t, bandRows, scale.AxisSpec{Field: "hour", Kind: scale.Band, Range: [2]float64{0, 100}})
	n := mustResolve(t, bandRows, scale.AxisSpec{Field: "n", Kind: scale.Linear, ZeroFloor: true, Range: [2]float64{100, 0}})
	kind := mustResolve(t, bandRows, scale.AxisSpec{Field: "day", Kind: scale.Ordinal})
	for _, test := range []struct {
		description string
		rows        []dataset.Row
		geometry    Geometry
		want        []geom
	}{{
		description: "bars fill their bands",
		rows:        bandRows,
		geometry:    &Bar{X: day, Y: n, Fill: Paint{Color: "steelblue"}},
		want: []geom{
			{X: 0, Y: 75, Width: 100, Height: 25, Fill: "steelblue"},
			{X: 100, Y: 0, Width: 100, Height: 100, Fill: "steelblue"},
			{X: 200, Y: 50, Width: 100, Height: 50, Fill: "steelblue"},
		},
	}, {
		description: "points are centered in bands",
		rows:        bandRows,
		geometry:    &Point{X: day, Y: n, Radius: 3, Fill: Paint{Scale: kind.(scale.Colorer)}},
		want: []geom{
			{X: 50, Y: 75, Radius: 3, Fill: "#4e79a7"},
			{X: 150, Y: 0, Radius: 3, Fill: "#f28e2c"},
			{X: 250, Y: 50, Radius: 3, Fill: "#e15759"},
		},
	}, {
		description: "cells span both bands",
		rows:        bandRows,
		geometry:    &Cell{X: day.(scale.Banded), Y: hour.(scale.Banded), Fill: Paint{Color: "gray"}},
		want: []geom{
			{X: 0, Y: 0, Width: 100, Height: 50, Fill: "gray"},
			{X: 100, Y: 50, Width: 100, Height: 50, Fill: "gray"},
			{X: 200, Y: 0, Width: 100, Height: 50, Fill: "gray"},
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			marks, err := Render(test.rows, test.geometry)
			if err != nil {
				t.Fatalf("Render() yielded unexpected error %s", err)
			}
			if diff := cmp.Diff(test.want, geoms(marks), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Render() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCellFill(t *testing.T) {
	rows := []dataset.Row{
		{"x": util.StringValue("a"), "y": util.StringValue("p"), "v": util.DoubleValue(0)},
		{"x": util.StringValue("b"), "y": util.StringValue("p"), "v": util.DoubleValue(100)},
		{"x": util.StringValue("a"), "y": util.StringValue("q")},
	}
	x := mustResolve(t, rows, scale.AxisSpec{Field: "x", Kind: scale.Band, Range: [2]float64{0, 100}})
	y := mustResolve(t, rows, scale.AxisSpec{Field: "y", Kind: scale.Band, Range: [2]float64{0, 100}})
	q := mustResolve(t, rows, scale.AxisSpec{Field: "v", Kind: scale.Quantize, Palette: "inferno", Buckets: 4})
	marks, err := Render(rows, &Cell{X: x.(scale.Banded), Y: y.(scale.Banded), Fill: Paint{Scale: q.(scale.Colorer)}})
	if !errors.Is(err, dataset.ErrMalformedRow) {
		t.Errorf("Render() yielded error %v, wanted a malformed row", err)
	}
	if len(marks) != 2 {
		t.Fatalf("Render() yielded %d marks, wanted 2", len(marks))
	}
	for _, m := range marks {
		want, _ := q.(scale.Colorer).Color(m.Row["v"])
		if m.Fill != want {
			t.Errorf("cell %d filled %s, wanted %s", m.Index, m.Fill, want)
		}
	}
	if marks[0].Fill == marks[1].Fill {
		t.Errorf("extreme cells share fill %s", marks[0].Fill)
	}
}

func TestLeaves(t *testing.T) {
	tree := weightedtree.New("sales")
	tree.Root.Node("Wii Sports", 30)
	tree.Root.Node("Mario Kart Wii", 10)
	tiles := weightedtree.Leaves(weightedtree.Layout{Tiling: weightedtree.Dice}.Tiles(tree.Root, rect.Rect{URx: 400, URy: 100}))
	rows := LeafRows(tiles)
	marks, err := Render(rows, &Leaf{Tiles: tiles, Fill: Paint{Color: "green"}})
	if err != nil {
		t.Fatalf("Render() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff([]geom{
		{X: 0, Y: 0, Width: 300, Height: 100, Fill: "green"},
		{X: 300, Y: 0, Width: 100, Height: 100, Fill: "green"},
	}, geoms(marks), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Render() diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{
		{"Wii Sports", "30"},
		{"Mario Kart …", "10"},
	}, [][]string{marks[0].Label, marks[1].Label}); diff != "" {
		t.Errorf("leaf labels diff (-want +got):\n%s", diff)
	}
	if marks[0].Magnitude != 30 || marks[1].Magnitude != 10 {
		t.Errorf("leaf magnitudes are %g and %g, wanted 30 and 10", marks[0].Magnitude, marks[1].Magnitude)
	}
	if got := rows[1].Text(LeafParentField); got != "sales" {
		t.Errorf("leaf parent is '%s', wanted 'sales'", got)
	}
}

// Two unit squares sharing the edge x=1.
const twoCounties = `{
	"type": "Topology",
	"objects": {
		"counties": {
			"type": "GeometryCollection",
			"geometries": [
				{"type": "Polygon", "id": "01001", "arcs": [[0, 1]], "properties": {"name": "Autauga"}},
				{"type": "Polygon", "id": 1003, "arcs": [[2, -1]], "properties": {"name": "Baldwin"}}
			]
		}
	},
	"arcs": [
		[[1, 0], [1, 1]],
		[[1, 1], [0, 1], [0, 0], [1, 0]],
		[[1, 0], [2, 0], [2, 1], [1, 1]]
	]
}`

func TestRegions(t *testing.T) {
	topo, err := topology.Decode([]byte(twoCounties))
	if err != nil {
		t.Fatalf("Decode() yielded unexpected error %s", err)
	}
	features, err := topo.Features("counties")
	if err != nil {
		t.Fatalf("Features() yielded unexpected error %s", err)
	}
	p := topology.Projection{Scale: 100}
	rows := []dataset.Row{
		{"fips": util.IntegerValue(1003), "rate": util.DoubleValue(4.5)},
		{"fips": util.StringValue("01001"), "rate": util.DoubleValue(6.1)},
		{"fips": util.IntegerValue(99999), "rate": util.DoubleValue(1)},
	}
	marks, err := Render(rows, NewRegion(features, p, "fips", dataset.PadKey(5)))
	if !errors.Is(err, dataset.ErrMalformedRow) {
		t.Errorf("Render() yielded error %v, wanted a malformed row", err)
	}
	if diff := cmp.Diff([]string{"M100,0L200,0L200,100L100,100L100,0Z", "M100,0L100,100L0,100L0,0L100,0Z"}, []string{marks[0].Path, marks[1].Path}); diff != "" {
		t.Errorf("region paths diff (-want +got):\n%s", diff)
	}
	for _, test := range []struct {
		description string
		pt          vec.Vec2
		wantHit     bool
		wantIndex   int
	}{{
		description: "inside the first row's region",
		pt:          vec.Vec2{X: 150, Y: 50},
		wantHit:     true,
		wantIndex:   0,
	}, {
		description: "inside the second row's region",
		pt:          vec.Vec2{X: 50, Y: 50},
		wantHit:     true,
		wantIndex:   1,
	}, {
		description: "outside every region",
		pt:          vec.Vec2{X: 250, Y: 50},
	}} {
		t.Run(test.description, func(t *testing.T) {
			idx, ok := Hit(marks, test.pt)
			if ok != test.wantHit || (ok && marks[idx].Index != test.wantIndex) {
				t.Errorf("Hit(%v) = %d, %t, wanted row %d, %t", test.pt, idx, ok, test.wantIndex, test.wantHit)
			}
		})
	}
}

func TestHitPrefersLastDrawn(t *testing.T) {
	marks := []Mark{
		{Kind: PointKind, Index: 0, X: 10, Y: 10, Radius: 5},
		{Kind: PointKind, Index: 1, X: 12, Y: 10, Radius: 5},
		{Kind: BarKind, Index: 2, X: 30, Y: 0, Width: 10, Height: 20},
	}
	for _, test := range []struct {
		description string
		pt          vec.Vec2
		wantHit     bool
		wantIndex   int
	}{{
		description: "overlap",
		pt:          vec.Vec2{X: 11, Y: 10},
		wantHit:     true,
		wantIndex:   1,
	}, {
		description: "first point only",
		pt:          vec.Vec2{X: 6, Y: 10},
		wantHit:     true,
		wantIndex:   0,
	}, {
		description: "bar",
		pt:          vec.Vec2{X: 35, Y: 19},
		wantHit:     true,
		wantIndex:   2,
	}, {
		description: "nothing",
		pt:          vec.Vec2{X: 25, Y: 25},
	}} {
		t.Run(test.description, func(t *testing.T) {
			idx, ok := Hit(marks, test.pt)
			if ok != test.wantHit || (ok && idx != test.wantIndex) {
				t.Errorf("Hit(%v) = %d, %t, wanted %d, %t", test.pt, idx, ok, test.wantIndex, test.wantHit)
			}
		})
	}
}

func TestBuildAndDecode(t *testing.T) {
	marks := []Mark{{
		Kind:   BarKind,
		Index:  3,
		X:      10,
		Y:      20,
		Width:  5,
		Height: 30,
		Fill:   "#4e79a7",
		Label:  []string{"Q1", "1,024"},
		Row:    dataset.Row{"gdp": util.DoubleValue(243.1), "quarter": util.StringValue("Q1")},
	}, {
		Kind:   PointKind,
		X:      1,
		Y:      2,
		Radius: 4,
		Fill:   "red",
		Stroke: "black",
	}, {
		Kind:      LeafKind,
		Index:     1,
		Width:     300,
		Height:    100,
		Fill:      "green",
		Label:     []string{"Wii Sports", "30"},
		Magnitude: 30,
	}}
	sb := util.NewSceneBuilder()
	for _, m := range marks {
		m.Build(sb.Root())
	}
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("Scene() yielded unexpected error %s", err)
	}
	got := []Mark{}
	for _, child := range scene.Children {
		m, err := Decode(child)
		if err != nil {
			t.Fatalf("Decode() yielded unexpected error %s", err)
		}
		got = append(got, m)
	}
	if diff := cmp.Diff(marks, got, cmpopts.IgnoreUnexported(Mark{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Decode(Build()) diff (-want +got):\n%s", diff)
	}
	if _, err := Decode(&util.Datum{}); err == nil {
		t.Errorf("Decode() of a non-mark yielded no error")
	}
}
