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

package scale

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
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

func mustResolve(t *testing.T, rows []dataset.Row, spec AxisSpec) Scale {
	t.Helper()
	s, err := Resolve(rows, spec)
	if err != nil {
		t.Fatalf("Resolve() yielded unexpected error %s", err)
	}
	return s
}

func domainTexts(t *testing.T, s Scale) []string {
	t.Helper()
	d, ok := s.(Domainer)
	if !ok {
		t.Fatalf("%s scale has no domain", s.Spec().Kind)
	}
	min, max := d.Domain()
	return []string{min.Text(), max.Text()}
}

func TestLinear(t *testing.T) {
	for _, test := range []struct {
		description string
		rows        []dataset.Row
		spec        AxisSpec
		wantDomain  []string
		wantMapped  map[float64]float64
	}{{
		description: "observed extent",
		rows:        gdpRows(),
		spec:        AxisSpec{Field: "gdp", Kind: Linear, Range: [2]float64{500, 0}},
		wantDomain:  []string{"243.1", "18064.7"},
		wantMapped:  map[float64]float64{243.1: 500, 18064.7: 0},
	}, {
		description: "zero floor",
		rows:        gdpRows(),
		spec:        AxisSpec{Field: "gdp", Kind: Linear, ZeroFloor: true, Range: [2]float64{500, 0}},
		wantDomain:  []string{"0", "18064.7"},
		wantMapped:  map[float64]float64{0: 500, 18064.7: 0},
	}, {
		description: "zero floor over negative values",
		rows: []dataset.Row{
			{"gdp": util.DoubleValue(-5)},
			{"gdp": util.DoubleValue(-2)},
		},
		spec:       AxisSpec{Field: "gdp", Kind: Linear, ZeroFloor: true, Range: [2]float64{500, 0}},
		wantDomain: []string{"0", "-5"},
		wantMapped: map[float64]float64{0: 500, -2: 300, -5: 0},
	}, {
		description: "zero floor over mixed values",
		rows: []dataset.Row{
			{"gdp": util.DoubleValue(-10)},
			{"gdp": util.DoubleValue(40)},
		},
		spec:       AxisSpec{Field: "gdp", Kind: Linear, ZeroFloor: true, Range: [2]float64{0, 400}},
		wantDomain: []string{"0", "40"},
		wantMapped: map[float64]float64{0: 0, 40: 400, -10: -100},
	}, {
		description: "explicit pins",
		rows:        gdpRows(),
		spec: AxisSpec{
			Field: "gdp", Kind: Linear,
			Min: util.IntegerValue(0), Max: util.IntegerValue(20000),
			Range: [2]float64{0, 1000},
		},
		wantDomain: []string{"0", "20000"},
		wantMapped: map[float64]float64{5000: 250},
	}, {
		description: "empty rows collapse to the range start",
		rows:        nil,
		spec:        AxisSpec{Field: "gdp", Kind: Linear, Range: [2]float64{500, 0}},
		wantDomain:  []string{"0", "0"},
		wantMapped:  map[float64]float64{0: 500, 42: 500},
	}} {
		t.Run(test.description, func(t *testing.T) {
			s := mustResolve(t, test.rows, test.spec)
			if diff := cmp.Diff(test.wantDomain, domainTexts(t, s)); diff != "" {
				t.Errorf("Domain() diff (-want +got):\n%s", diff)
			}
			for v, want := range test.wantMapped {
				got, ok := s.Map(util.DoubleValue(v))
				if !ok || got != want {
					t.Errorf("Map(%v) = %v, %t, want %v", v, got, ok, want)
				}
			}
			if _, ok := s.Map(util.StringValue("lots")); ok {
				t.Errorf("Map() of a string succeeded")
			}
		})
	}
}

func TestZeroFloorBaseline(t *testing.T) {
	for _, test := range []struct {
		description string
		values      []float64
		want        float64
	}{{
		description: "positive values rise from the floor",
		values:      []float64{3, 8},
		want:        100,
	}, {
		description: "negative values hang from the floor",
		values:      []float64{-8, -3},
		want:        100,
	}} {
		t.Run(test.description, func(t *testing.T) {
			var rows []dataset.Row
			for _, v := range test.values {
				rows = append(rows, dataset.Row{"v": util.DoubleValue(v)})
			}
			s := mustResolve(t, rows, AxisSpec{Field: "v", Kind: Linear, ZeroFloor: true, Range: [2]float64{100, 0}})
			b, ok := s.(Baseliner)
			if !ok {
				t.Fatalf("linear scale has no baseline")
			}
			if got := b.Baseline(); got != test.want {
				t.Errorf("Baseline() = %v, want %v", got, test.want)
			}
			for _, v := range test.values {
				if got, _ := s.Map(util.DoubleValue(v)); got < 0 || got > 100 {
					t.Errorf("Map(%v) = %v, outside the range [100, 0]", v, got)
				}
			}
		})
	}
}

func TestDegenerateDomain(t *testing.T) {
	_, err := Resolve(gdpRows(), AxisSpec{
		Field: "gdp", Kind: Linear,
		Min: util.DoubleValue(5), Max: util.DoubleValue(5),
	})
	if !errors.Is(err, ErrDegenerateDomain) {
		t.Errorf("Resolve() yielded %v, want %v", err, ErrDegenerateDomain)
	}
	s := mustResolve(t, gdpRows()[:1], AxisSpec{Field: "gdp", Kind: Linear, Range: [2]float64{10, 90}})
	if got, _ := s.Map(util.DoubleValue(243.1)); got != 10 {
		t.Errorf("single-value Map() = %v, want 10", got)
	}
}

func TestResolveFailures(t *testing.T) {
	for _, test := range []struct {
		description string
		spec        AxisSpec
	}{{
		description: "unknown kind",
		spec:        AxisSpec{Field: "gdp", Kind: Kind(99)},
	}, {
		description: "zero floor on time",
		spec:        AxisSpec{Field: "date", Kind: Time, ZeroFloor: true},
	}, {
		description: "mistyped pin",
		spec:        AxisSpec{Field: "gdp", Kind: Linear, Min: util.StringValue("zero")},
	}, {
		description: "unknown format",
		spec:        AxisSpec{Field: "gdp", Kind: Linear, Format: "roman"},
	}, {
		description: "unknown palette",
		spec:        AxisSpec{Field: "gdp", Kind: Quantize, Palette: "plaid"},
	}, {
		description: "band padding",
		spec:        AxisSpec{Field: "gdp", Kind: Band, Padding: 1.5},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if _, err := Resolve(gdpRows(), test.spec); err == nil {
				t.Errorf("Resolve() yielded no error")
			}
		})
	}
}

func tickLabels(ticks []Tick) []string {
	ret := make([]string, len(ticks))
	for idx, tick := range ticks {
		ret[idx] = tick.Label
	}
	return ret
}

func TestContinuousTicks(t *testing.T) {
	t.Run("time", func(t *testing.T) {
		s := mustResolve(t, gdpRows(), AxisSpec{Field: "date", Kind: Time, Range: [2]float64{0, 750}})
		want := []string{"1950", "1960", "1970", "1980", "1990", "2000", "2010"}
		if diff := cmp.Diff(want, tickLabels(s.Ticks())); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
	t.Run("duration", func(t *testing.T) {
		rows := []dataset.Row{
			{"Seconds": util.DurationValue(2210 * time.Second)},
			{"Seconds": util.DurationValue(2390 * time.Second)},
		}
		s := mustResolve(t, rows, AxisSpec{Field: "Seconds", Kind: Linear, Range: [2]float64{0, 500}})
		want := []string{"37:00", "37:20", "37:40", "38:00", "38:20", "38:40", "39:00", "39:20", "39:40"}
		if diff := cmp.Diff(want, tickLabels(s.Ticks())); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
		if _, ok := s.(Baseliner); !ok {
			t.Errorf("linear scale is not a Baseliner")
		}
	})
	t.Run("grouped numbers", func(t *testing.T) {
		s := mustResolve(t, gdpRows(), AxisSpec{Field: "gdp", Kind: Linear, ZeroFloor: true, Ticks: 5})
		want := []string{"0", "5,000", "10,000", "15,000"}
		if diff := cmp.Diff(want, tickLabels(s.Ticks())); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
}

func TestBand(t *testing.T) {
	rows := []dataset.Row{}
	for _, month := range []string{"March", "January", "February", "March"} {
		rows = append(rows, dataset.Row{"month": util.StringValue(month)})
	}
	s := mustResolve(t, rows, AxisSpec{
		Field:      "month",
		Kind:       Band,
		Categories: []string{"January", "February"},
		Range:      [2]float64{0, 300},
		Padding:    .2,
	})
	banded, ok := s.(Banded)
	if !ok {
		t.Fatalf("band scale is not Banded")
	}
	if got := banded.Bandwidth(); got != 80 {
		t.Errorf("Bandwidth() = %v, want 80", got)
	}
	got := map[string]float64{}
	for _, month := range []string{"January", "February", "March"} {
		got[month], _ = s.Map(util.StringValue(month))
	}
	want := map[string]float64{"January": 10, "February": 110, "March": 210}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"January", "February", "March"}, tickLabels(s.Ticks())); diff != "" {
		t.Errorf("Ticks() diff (-want +got):\n%s", diff)
	}
	if pos := s.Ticks()[0].Pos; pos != 50 {
		t.Errorf("first tick at %v, want 50", pos)
	}
	if month, ok := banded.Lookup(150); !ok || month != "February" {
		t.Errorf("Lookup(150) = %q, %t, want February", month, ok)
	}
}

func TestQuantize(t *testing.T) {
	rows := []dataset.Row{}
	for _, v := range []float64{2.6, 14.5, 38.1, 75.1} {
		rows = append(rows, dataset.Row{"bachelorsOrHigher": util.DoubleValue(v)})
	}
	s := mustResolve(t, rows, AxisSpec{
		Field:   "bachelorsOrHigher",
		Kind:    Quantize,
		Min:     util.DoubleValue(0),
		Max:     util.DoubleValue(100),
		Buckets: 10,
		Palette: "inferno",
		Range:   [2]float64{0, 350},
	})
	q, ok := s.(Quantizer)
	if !ok {
		t.Fatalf("quantize scale is not a Quantizer")
	}
	for v, want := range map[float64]int{0: 0, 14.5: 1, 38.1: 3, 100: 9} {
		if got, _ := q.Bucket(util.DoubleValue(v)); got != want {
			t.Errorf("Bucket(%v) = %d, want %d", v, got, want)
		}
	}
	last := -1
	for v := 0.0; v <= 100; v++ {
		got, _ := q.Bucket(util.DoubleValue(v))
		if got < last {
			t.Fatalf("Bucket(%v) = %d, below the preceding %d", v, got, last)
		}
		last = got
	}
	if got, _ := q.Color(util.DoubleValue(0)); got != "#000004" {
		t.Errorf("Color(0) = %s, want #000004", got)
	}
	if got, _ := q.Color(util.DoubleValue(100)); got != "#fcffa4" {
		t.Errorf("Color(100) = %s, want #fcffa4", got)
	}
	legend := q.Legend()
	if len(legend) != 10 || legend[0].Label != "0" || legend[9].Label != "90" {
		t.Errorf("Legend() = %v, want ten entries labeled from 0 to 90", legend)
	}
	ticks := q.Ticks()
	if len(ticks) != 11 || ticks[10].Pos != 350 || ticks[5].Label != "50" {
		t.Errorf("Ticks() = %v, want 11 ticks from 0 to 350px", ticks)
	}
}

func TestOrdinal(t *testing.T) {
	rows := []dataset.Row{
		{"status": util.StringValue("no doping allegations")},
		{"status": util.StringValue("suspect of doping")},
		{"status": util.StringValue("no doping allegations")},
		{},
	}
	s := mustResolve(t, rows, AxisSpec{
		Field: "status",
		Kind:  Ordinal,
		CategoryLabels: map[string]string{
			"suspect of doping":     "Doping allegations",
			"no doping allegations": "No doping allegations",
		},
	})
	c, ok := s.(Categorizer)
	if !ok {
		t.Fatalf("ordinal scale is not a Categorizer")
	}
	want := []LegendEntry{
		{Color: "#4e79a7", Label: "No doping allegations"},
		{Color: "#f28e2c", Label: "Doping allegations"},
	}
	if diff := cmp.Diff(want, c.Legend()); diff != "" {
		t.Errorf("Legend() diff (-want +got):\n%s", diff)
	}
	if got, ok := c.Color(util.StringValue("suspect of doping")); !ok || got != "#f28e2c" {
		t.Errorf("Color() = %s, %t, want #f28e2c", got, ok)
	}
	if _, ok := c.Color(util.StringValue("acquitted")); ok {
		t.Errorf("Color() of an unknown category succeeded")
	}
}

func TestFormatValue(t *testing.T) {
	for _, test := range []struct {
		description string
		format      string
		v           *util.V
		want        string
	}{
		{"grouped integer", NumberFormat, util.DoubleValue(18000), "18,000"},
		{"fraction", DefaultFormat, util.DoubleValue(2.5), "2.5"},
		{"plain", PlainFormat, util.DoubleValue(18064.7), "18064.7"},
		{"year number", YearFormat, util.IntegerValue(1753), "1753"},
		{"clock from seconds", ClockFormat, util.IntegerValue(2210), "36:50"},
		{"month number", MonthFormat, util.IntegerValue(3), "March"},
		{"bad month number", MonthFormat, util.IntegerValue(13), "13"},
		{"timestamp year", DefaultFormat, util.TimestampValue(date(1947, 4)), "1947"},
		{"quarter", QuarterFormat, util.TimestampValue(date(1947, 4)), "Q2-1947"},
		{"date", DateFormat, util.TimestampValue(date(1947, 4)), "1947-04-01"},
		{"duration", DefaultFormat, util.DurationValue(2390 * time.Second), "39:50"},
		{"string", NumberFormat, util.StringValue("Wii"), "Wii"},
		{"nil", DefaultFormat, nil, ""},
	} {
		t.Run(test.description, func(t *testing.T) {
			if got := FormatValue(test.format, test.v); got != test.want {
				t.Errorf("FormatValue(%q) = %q, want %q", test.format, got, test.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Linear, Time, Band, Quantize, Ordinal} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%s) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("log"); err == nil {
		t.Errorf("ParseKind(log) yielded no error")
	}
}
