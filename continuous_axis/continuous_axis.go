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

// Package continuousaxis provides continuous axes.  An axis has a category
// naming it, a type which describes that axis' domain, minimum and maximum
// points along that domain, and a pixel range onto which the domain maps
// linearly.
//
// An axis' domain is the extent of the values it has been shown via Include,
// unless either end is pinned via SetMin or SetMax.  An axis with an empty or
// single-point domain is degenerate: it maps every value to the start of its
// range and places every value in its first bucket.
package continuousaxis

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/ilhamster/chartkit/category"
	"github.com/ilhamster/chartkit/util"
)

const (
	axisTypeKey     = "axis_type"
	axisMinKey      = "axis_min"
	axisMaxKey      = "axis_max"
	axisRangeMinKey = "axis_range_min_px"
	axisRangeMaxKey = "axis_range_max_px"

	timestampAxisType = "timestamp"
	durationAxisType  = "duration"
	doubleAxisType    = "double"

	xAxisRenderLabelHeightPxKey   = "x_axis_render_label_height_px"
	xAxisRenderMarkersHeightPxKey = "x_axis_render_markers_height_px"
	yAxisRenderLabelHeightPxKey   = "y_axis_render_label_width_px"
	yAxisRenderMarkersHeightPxKey = "y_axis_render_markers_width_px"
)

// XAxisRenderSettings contains configuring an X axis.
type XAxisRenderSettings struct {
	LabelHeightPx   int64
	MarkersHeightPx int64
}

// Apply annotates with the receiving XAxisRenderSettings.
func (x XAxisRenderSettings) Apply() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(xAxisRenderLabelHeightPxKey, x.LabelHeightPx),
		util.IntegerProperty(xAxisRenderMarkersHeightPxKey, x.MarkersHeightPx),
	)
}

// XAxisRenderSettingsOf returns the X axis render settings annotated on the
// provided Datum.
func XAxisRenderSettingsOf(d *util.Datum) XAxisRenderSettings {
	label, _ := d.GetInteger(xAxisRenderLabelHeightPxKey)
	markers, _ := d.GetInteger(xAxisRenderMarkersHeightPxKey)
	return XAxisRenderSettings{LabelHeightPx: label, MarkersHeightPx: markers}
}

// YAxisRenderSettings contains configuring a Y axis.
type YAxisRenderSettings struct {
	LabelWidthPx   int64
	MarkersWidthPx int64
}

// Apply annotates with the receiving YAxisRenderSettings.
func (y YAxisRenderSettings) Apply() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(yAxisRenderLabelHeightPxKey, y.LabelWidthPx),
		util.IntegerProperty(yAxisRenderMarkersHeightPxKey, y.MarkersWidthPx),
	)
}

// YAxisRenderSettingsOf returns the Y axis render settings annotated on the
// provided Datum.
func YAxisRenderSettingsOf(d *util.Datum) YAxisRenderSettings {
	label, _ := d.GetInteger(yAxisRenderLabelHeightPxKey)
	markers, _ := d.GetInteger(yAxisRenderMarkersHeightPxKey)
	return YAxisRenderSettings{LabelWidthPx: label, MarkersWidthPx: markers}
}

// Axis is a continuous axis over float64s, durations, or timestamps.
type Axis[T float64 | time.Duration | time.Time] struct {
	axisType string
	cat      *category.Category
	Value    func(key string, v T) util.PropertyUpdate
	// toFloat and fromFloat convert between T and the float64 positions the
	// axis computes over.
	toFloat   func(T) float64
	fromFloat func(float64) T
	// ticks returns tick positions within [min, max], at most maxTicks.
	ticks func(min, max float64, maxTicks int) []float64

	data           []float64
	pinMin, pinMax float64
	floor          float64
	r0, r1         float64
}

func newAxis[T float64 | time.Duration | time.Time](
	axisType string,
	cat *category.Category,
	valueFn func(key string, v T) util.PropertyUpdate,
	toFloat func(T) float64,
	fromFloat func(float64) T,
	ticks func(min, max float64, maxTicks int) []float64,
	extents ...T) *Axis[T] {
	a := &Axis[T]{
		axisType:  axisType,
		cat:       cat,
		Value:     valueFn,
		toFloat:   toFloat,
		fromFloat: fromFloat,
		ticks:     ticks,
		pinMin:    math.NaN(),
		pinMax:    math.NaN(),
		floor:     math.NaN(),
		r1:        1,
	}
	for _, extent := range extents {
		a.Include(extent)
	}
	return a
}

// NewTimestampAxis returns a new timestamp Axis with the specified category.
// If the optional extents are provided, the axis' domain will initially span
// them.  Timestamp axes tick at the start of years.
func NewTimestampAxis(cat *category.Category, extents ...time.Time) *Axis[time.Time] {
	return newAxis(
		timestampAxisType, cat,
		func(key string, v time.Time) util.PropertyUpdate {
			return util.TimestampProperty(key, v)
		},
		func(t time.Time) float64 {
			return float64(t.Unix()) + float64(t.Nanosecond())/1e9
		},
		func(f float64) time.Time {
			sec, frac := math.Modf(f)
			return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
		},
		yearTicks,
		extents...)
}

// NewDurationAxis returns a new duration Axis with the specified category.
// If the optional extents are provided, the axis' domain will initially span
// them.  Duration axes compute in seconds and tick at whole seconds.
func NewDurationAxis(cat *category.Category, extents ...time.Duration) *Axis[time.Duration] {
	return newAxis(
		durationAxisType, cat,
		func(key string, v time.Duration) util.PropertyUpdate {
			return util.DurationProperty(key, v)
		},
		func(d time.Duration) float64 {
			return d.Seconds()
		},
		func(f float64) time.Duration {
			return time.Duration(math.Round(f * float64(time.Second)))
		},
		func(min, max float64, maxTicks int) []float64 {
			return niceTicks(min, max, maxTicks, true)
		},
		extents...)
}

// NewDoubleAxis returns a new double Axis with the specified category.
// If the optional extents are provided, the axis' domain will initially span
// them.
func NewDoubleAxis(cat *category.Category, extents ...float64) *Axis[float64] {
	return newAxis(
		doubleAxisType, cat,
		func(key string, v float64) util.PropertyUpdate {
			return util.DoubleProperty(key, v)
		},
		func(f float64) float64 { return f },
		func(f float64) float64 { return f },
		func(min, max float64, maxTicks int) []float64 {
			return niceTicks(min, max, maxTicks, false)
		},
		extents...)
}

// Include widens the receiver's domain to include the provided value.
// Returns the receiver to facilitate chaining.
func (a *Axis[T]) Include(v T) *Axis[T] {
	f := a.toFloat(v)
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		a.data = append(a.data, f)
	}
	return a
}

// SetMin pins the minimum of the receiver's domain.
func (a *Axis[T]) SetMin(v T) *Axis[T] {
	a.pinMin = a.toFloat(v)
	return a
}

// SetFloor pins the start of the receiver's domain, as for bar axes whose
// bars rise from zero.  The domain then ends at the largest included value,
// or at the smallest if none exceeds the floor, so it may be inverted.  A
// pinned minimum takes precedence over the floor.
func (a *Axis[T]) SetFloor(v T) *Axis[T] {
	a.floor = a.toFloat(v)
	return a
}

// SetMax pins the maximum of the receiver's domain.
func (a *Axis[T]) SetMax(v T) *Axis[T] {
	a.pinMax = a.toFloat(v)
	return a
}

// WithRange sets the pixel range onto which the receiver's domain maps.  The
// range may be inverted (r0 > r1), as for Y axes whose domain increases
// upwards.
func (a *Axis[T]) WithRange(r0, r1 float64) *Axis[T] {
	a.r0, a.r1 = r0, r1
	return a
}

// Range returns the receiver's pixel range.
func (a *Axis[T]) Range() (r0, r1 float64) {
	return a.r0, a.r1
}

// bounds returns the start and end of the receiver's domain in float
// positions.  Without a floor, start <= end.
func (a *Axis[T]) bounds() (start, end float64) {
	lo, hi := math.NaN(), math.NaN()
	if len(a.data) > 0 {
		lo, hi = stats.Bounds(a.data)
	}
	if !math.IsNaN(a.floor) && math.IsNaN(a.pinMin) {
		start, end = a.floor, hi
		if math.IsNaN(hi) || hi <= a.floor {
			end = lo
		}
		if !math.IsNaN(a.pinMax) {
			end = a.pinMax
		}
		if math.IsNaN(end) {
			end = start
		}
		return start, end
	}
	if !math.IsNaN(a.pinMin) {
		lo = a.pinMin
	}
	if !math.IsNaN(a.pinMax) {
		hi = a.pinMax
	}
	switch {
	case math.IsNaN(lo) && math.IsNaN(hi):
		lo, hi = 0, 0
	case math.IsNaN(lo):
		lo = hi
	case math.IsNaN(hi):
		hi = lo
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// extent returns the smaller and larger ends of the receiver's domain.
func (a *Axis[T]) extent() (lo, hi float64) {
	start, end := a.bounds()
	return math.Min(start, end), math.Max(start, end)
}

// Domain returns the start and end of the receiver's domain.  An axis that
// has seen no values and has no pins has the domain [0, 0].  Only a floored
// axis may have an inverted domain.
func (a *Axis[T]) Domain() (start, end T) {
	fstart, fend := a.bounds()
	return a.fromFloat(fstart), a.fromFloat(fend)
}

// Degenerate reports whether the receiver's domain is a single point.
func (a *Axis[T]) Degenerate() bool {
	start, end := a.bounds()
	return start == end
}

// mapFloat maps a float position into the receiver's range.
func (a *Axis[T]) mapFloat(f float64) float64 {
	start, end := a.bounds()
	if start == end {
		return a.r0
	}
	return a.r0 + scale.Linear{Min: start, Max: end}.Map(f)*(a.r1-a.r0)
}

// Map returns the pixel position of the provided value.  Values outside the
// domain extrapolate linearly.
func (a *Axis[T]) Map(v T) float64 {
	return a.mapFloat(a.toFloat(v))
}

// Baseline returns the pixel position of the domain value nearest zero: the
// base from which bars extend.
func (a *Axis[T]) Baseline() float64 {
	lo, hi := a.extent()
	return a.mapFloat(math.Max(lo, math.Min(hi, 0)))
}

// Bucket returns which of n equal-width buckets spanning the receiver's
// domain the provided value falls into, clamped to [0, n-1].  Bucket 0 holds
// the domain start.  Returns 0 if the domain is degenerate or n < 1.
func (a *Axis[T]) Bucket(v T, n int) int {
	start, end := a.bounds()
	if n < 1 || start == end {
		return 0
	}
	f := a.toFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	idx := int(math.Floor(float64(n) * (f - start) / (end - start)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Thresholds returns the n-1 domain values separating the receiver's n
// buckets, ordered from the domain start.
func (a *Axis[T]) Thresholds(n int) []T {
	if n < 2 {
		return nil
	}
	start, end := a.bounds()
	ret := make([]T, n-1)
	for i := 1; i < n; i++ {
		ret[i-1] = a.fromFloat(start + float64(i)*(end-start)/float64(n))
	}
	return ret
}

// Ticks returns at most maxTicks evenly-spaced, round values within the
// receiver's domain, in increasing order.  A degenerate domain has a single
// tick.
func (a *Axis[T]) Ticks(maxTicks int) []T {
	lo, hi := a.extent()
	if lo == hi {
		return []T{a.fromFloat(lo)}
	}
	positions := a.ticks(lo, hi, maxTicks)
	ret := make([]T, len(positions))
	for idx, p := range positions {
		ret[idx] = a.fromFloat(p)
	}
	return ret
}

// Define annotates with a definition of the receiver.
func (a *Axis[T]) Define() util.PropertyUpdate {
	min, max := a.Domain()
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, a.axisType),
		a.Value(axisMinKey, min),
		a.Value(axisMaxKey, max),
		util.DoubleProperty(axisRangeMinKey, a.r0),
		util.DoubleProperty(axisRangeMaxKey, a.r1),
	)
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis[T]) CategoryID() string {
	return a.cat.ID()
}

// Category returns the receiver's category.
func (a *Axis[T]) Category() *category.Category {
	return a.cat
}

// Tick level l has spacing steps[l mod 3] * 10^(l div 3).
var steps = [3]int64{1, 2, 5}

func spacing(level int) (mantissa int64, exp int) {
	exp = level / 3
	idx := level % 3
	if idx < 0 {
		idx += 3
		exp--
	}
	return steps[idx], exp
}

// tickAt returns n*mantissa*10^exp, computed to avoid accumulating error.
func tickAt(n, mantissa int64, exp int) float64 {
	if exp >= 0 {
		return float64(n*mantissa) * math.Pow10(exp)
	}
	return float64(n*mantissa) / math.Pow10(-exp)
}

func tickRange(min, max float64, level int) (first, last int64, ok bool) {
	mantissa, exp := spacing(level)
	step := float64(mantissa) * math.Pow10(exp)
	if step == 0 || math.IsInf(step, 0) {
		return 0, 0, false
	}
	f, l := math.Ceil(min/step), math.Floor(max/step)
	if math.Abs(f) > 1e15 || math.Abs(l) > 1e15 {
		return 0, 0, false
	}
	return int64(f), int64(l), true
}

// niceTicker is a scale.Ticker over the 1-2-5 series within [min, max].
type niceTicker struct {
	min, max float64
}

func (nt niceTicker) CountTicks(level int) int {
	first, last, ok := tickRange(nt.min, nt.max, level)
	if !ok {
		return math.MaxInt32
	}
	if last < first {
		return 0
	}
	return int(last - first + 1)
}

func (nt niceTicker) TicksAtLevel(level int) interface{} {
	return nt.ticks(level)
}

func (nt niceTicker) ticks(level int) []float64 {
	first, last, ok := tickRange(nt.min, nt.max, level)
	if !ok || last < first {
		return nil
	}
	mantissa, exp := spacing(level)
	ret := make([]float64, 0, last-first+1)
	for n := first; n <= last; n++ {
		ret = append(ret, tickAt(n, mantissa, exp))
	}
	return ret
}

// niceTicks returns the 1-2-5 series ticks within [min, max] at the densest
// level yielding at most maxTicks.  If integral, ticks are whole numbers.
// If no such tick falls within [min, max], the ends themselves are ticks.
func niceTicks(min, max float64, maxTicks int, integral bool) []float64 {
	nt := niceTicker{min: min, max: max}
	o := scale.TickOptions{Max: maxTicks}
	if integral {
		o.MinLevel, o.MaxLevel = 0, 1000
	}
	guess := 0
	if span := (max - min) / float64(maxTicks); span > 0 {
		guess = 3 * int(math.Floor(math.Log10(span)))
	}
	level, ok := o.FindLevel(nt, guess)
	if !ok || nt.CountTicks(level) == 0 {
		return []float64{min, max}
	}
	return nt.ticks(level)
}

func yearStart(year int) float64 {
	return float64(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
}

// fractionalYear returns the year containing the provided epoch second plus
// the elapsed fraction of that year.
func fractionalYear(sec float64) float64 {
	year := time.Unix(int64(math.Floor(sec)), 0).UTC().Year()
	start, next := yearStart(year), yearStart(year+1)
	return float64(year) + (sec-start)/(next-start)
}

// yearTicks returns the starts of round years within [min, max], where min
// and max are epoch seconds.
func yearTicks(min, max float64, maxTicks int) []float64 {
	years := niceTicks(fractionalYear(min), fractionalYear(max), maxTicks, true)
	ret := make([]float64, len(years))
	for idx, year := range years {
		ret[idx] = yearStart(int(year))
	}
	return ret
}
