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

package continuousaxis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ilhamster/chartkit/category"
	testutil "github.com/ilhamster/chartkit/test_util"
	"github.com/ilhamster/chartkit/util"
)

const timeLayout = "Jan 2, 2006 at 3:04pm (MST)"

type testcase[T float64 | time.Duration | time.Time] struct {
	description string
	axis        *Axis[T]
	wantUpdates []util.PropertyUpdate
	wantValues  map[T]util.PropertyUpdate
}

func runTests[T float64 | time.Duration | time.Time](t *testing.T, testcases []testcase[T]) {
	for _, test := range testcases {
		t.Run(test.description, func(t *testing.T) {
			gotUpdates := test.axis.Define()
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(gotUpdates).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
			gotValues := map[any]util.PropertyUpdate{}
			for val := range test.wantValues {
				gotValues[val] = test.axis.Value(test.axis.CategoryID(), val)
			}
			for val := range test.wantValues {
				if msg, failed := testutil.NewUpdateComparator().
					WithTestUpdates(test.wantValues[val]).
					WithWantUpdates(gotValues[val]).
					Compare(t); failed {
					t.Fatalf("Unexpected value for '%v': %s", val, msg)
				}
			}
		})
	}
}

func TestAxis(t *testing.T) {
	refTime, err := time.Parse(timeLayout, "Jan 1, 2020 at 1:00am (PST)")
	if err != nil {
		t.Fatalf("failed to parse reference time: %s", err)
	}
	ts := func(offset time.Duration) time.Time {
		return refTime.Add(offset)
	}
	cat := category.New("axis", "My axis", "All about my axis")
	runTests(t, []testcase[time.Time]{{
		description: "timestamp",
		axis:        NewTimestampAxis(cat, ts(0), ts(100*time.Second)).WithRange(0, 750),
		wantUpdates: []util.PropertyUpdate{
			cat.Define(),
			util.StringProperty(axisTypeKey, timestampAxisType),
			util.TimestampProperty(axisMinKey, ts(0).UTC()),
			util.TimestampProperty(axisMaxKey, ts(100*time.Second).UTC()),
			util.DoubleProperty(axisRangeMinKey, 0),
			util.DoubleProperty(axisRangeMaxKey, 750),
		},
		wantValues: map[time.Time]util.PropertyUpdate{
			ts(10): util.TimestampProperty("axis", ts(10)),
		},
	}})
	runTests(t, []testcase[time.Duration]{{
		description: "duration",
		axis:        NewDurationAxis(cat, 0*time.Second, 100*time.Second),
		wantUpdates: []util.PropertyUpdate{
			cat.Define(),
			util.StringProperty(axisTypeKey, durationAxisType),
			util.DurationProperty(axisMinKey, 0),
			util.DurationProperty(axisMaxKey, 100*time.Second),
			util.DoubleProperty(axisRangeMinKey, 0),
			util.DoubleProperty(axisRangeMaxKey, 1),
		},
		wantValues: map[time.Duration]util.PropertyUpdate{
			10 * time.Second: util.DurationProperty("axis", 10*time.Second),
		},
	}})
	runTests(t, []testcase[float64]{{
		description: "double",
		axis:        NewDoubleAxis(cat, 0, 100).WithRange(500, 0),
		wantUpdates: []util.PropertyUpdate{
			cat.Define(),
			util.StringProperty(axisTypeKey, doubleAxisType),
			util.DoubleProperty(axisMinKey, 0),
			util.DoubleProperty(axisMaxKey, 100),
			util.DoubleProperty(axisRangeMinKey, 500),
			util.DoubleProperty(axisRangeMaxKey, 0),
		},
		wantValues: map[float64]util.PropertyUpdate{
			5.5: util.DoubleProperty("axis", 5.5),
		},
	}})
}

func TestDomain(t *testing.T) {
	cat := category.New("y", "GDP", "")
	for _, test := range []struct {
		description      string
		axis             *Axis[float64]
		wantMin, wantMax float64
		wantDegenerate   bool
	}{{
		description: "extent of included values",
		axis:        NewDoubleAxis(cat, 243.1, 18064.7, 1012.3),
		wantMin:     243.1,
		wantMax:     18064.7,
	}, {
		description: "zero floor",
		axis:        NewDoubleAxis(cat, 243.1, 18064.7).SetMin(0),
		wantMin:     0,
		wantMax:     18064.7,
	}, {
		description: "floor below the values",
		axis:        NewDoubleAxis(cat, 243.1, 18064.7).SetFloor(0),
		wantMin:     0,
		wantMax:     18064.7,
	}, {
		description: "floor above the values inverts the domain",
		axis:        NewDoubleAxis(cat, -5, -2).SetFloor(0),
		wantMin:     0,
		wantMax:     -5,
	}, {
		description: "pinned minimum overrides the floor",
		axis:        NewDoubleAxis(cat, -5, -2).SetFloor(0).SetMin(-10),
		wantMin:     -10,
		wantMax:     -2,
	}, {
		description:    "floor without values",
		axis:           NewDoubleAxis(cat).SetFloor(0),
		wantMin:        0,
		wantMax:        0,
		wantDegenerate: true,
	}, {
		description:    "empty",
		axis:           NewDoubleAxis(cat),
		wantMin:        0,
		wantMax:        0,
		wantDegenerate: true,
	}, {
		description:    "single value",
		axis:           NewDoubleAxis(cat, 7),
		wantMin:        7,
		wantMax:        7,
		wantDegenerate: true,
	}, {
		description: "pinned both ends",
		axis:        NewDoubleAxis(cat, 3, 7).SetMin(0).SetMax(100),
		wantMin:     0,
		wantMax:     100,
	}, {
		description: "inverted pins are reordered",
		axis:        NewDoubleAxis(cat).SetMin(100).SetMax(0),
		wantMin:     0,
		wantMax:     100,
	}} {
		t.Run(test.description, func(t *testing.T) {
			gotMin, gotMax := test.axis.Domain()
			if gotMin != test.wantMin || gotMax != test.wantMax {
				t.Errorf("Domain() = [%v, %v], want [%v, %v]", gotMin, gotMax, test.wantMin, test.wantMax)
			}
			if got := test.axis.Degenerate(); got != test.wantDegenerate {
				t.Errorf("Degenerate() = %t, want %t", got, test.wantDegenerate)
			}
		})
	}
}

func TestMap(t *testing.T) {
	cat := category.New("y", "GDP", "")
	y := NewDoubleAxis(cat, 42, 100).SetMin(0).WithRange(500, 0)
	for v, want := range map[float64]float64{0: 500, 25: 375, 100: 0, 200: -500} {
		if got := y.Map(v); got != want {
			t.Errorf("Map(%v) = %v, want %v", v, got, want)
		}
	}
	if got := y.Baseline(); got != 500 {
		t.Errorf("Baseline() = %v, want 500", got)
	}
	negative := NewDoubleAxis(cat, -10, 10).WithRange(0, 100)
	if got := negative.Baseline(); got != 50 {
		t.Errorf("Baseline() = %v, want 50", got)
	}
	degenerate := NewDoubleAxis(cat, 4).WithRange(20, 80)
	if got := degenerate.Map(4); got != 20 {
		t.Errorf("degenerate Map() = %v, want 20", got)
	}
}

func TestBucket(t *testing.T) {
	cat := category.New("education", "Education", "")
	a := NewDoubleAxis(cat, 2.6, 75.1).SetMin(0).SetMax(100)
	for v, want := range map[float64]int{0: 0, 9.99: 0, 10: 1, 55: 5, 100: 9, -5: 0, 150: 9} {
		if got := a.Bucket(v, 10); got != want {
			t.Errorf("Bucket(%v, 10) = %d, want %d", v, got, want)
		}
	}
	last := 0
	for v := 0.0; v <= 100; v += 0.5 {
		got := a.Bucket(v, 10)
		if got < last {
			t.Fatalf("Bucket(%v) = %d, below preceding bucket %d", v, got, last)
		}
		last = got
	}
	if got := NewDoubleAxis(cat, 5).Bucket(5, 10); got != 0 {
		t.Errorf("degenerate Bucket() = %d, want 0", got)
	}
	if diff := cmp.Diff([]float64{25, 50, 75}, a.Thresholds(4)); diff != "" {
		t.Errorf("Thresholds() diff (-want +got):\n%s", diff)
	}
}

func TestTicks(t *testing.T) {
	cat := category.New("axis", "Axis", "")
	t.Run("double", func(t *testing.T) {
		got := NewDoubleAxis(cat, 0, 243.1).Ticks(5)
		if diff := cmp.Diff([]float64{0, 50, 100, 150, 200}, got); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
	t.Run("fractional", func(t *testing.T) {
		got := NewDoubleAxis(cat, 0.05, 0.72).Ticks(4)
		if diff := cmp.Diff([]float64{0.2, 0.4, 0.6}, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
	t.Run("duration", func(t *testing.T) {
		got := NewDurationAxis(cat, 2210*time.Second, 2390*time.Second).Ticks(10)
		want := []time.Duration{}
		for s := 2220; s <= 2380; s += 20 {
			want = append(want, time.Duration(s)*time.Second)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
	t.Run("timestamp", func(t *testing.T) {
		got := NewTimestampAxis(cat,
			time.Date(1947, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC),
		).Ticks(10)
		want := []time.Time{}
		for year := 1950; year <= 2010; year += 10 {
			want = append(want, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
	t.Run("degenerate", func(t *testing.T) {
		if diff := cmp.Diff([]float64{3}, NewDoubleAxis(cat, 3).Ticks(10)); diff != "" {
			t.Errorf("Ticks() diff (-want +got):\n%s", diff)
		}
	})
}

func TestNiceTicker(t *testing.T) {
	nt := niceTicker{min: 0, max: 10}
	for level := -3; level <= 6; level++ {
		ticks := nt.TicksAtLevel(level).([]float64)
		if got := nt.CountTicks(level); got != len(ticks) {
			t.Errorf("CountTicks(%d) = %d, but TicksAtLevel(%d) has %d ticks", level, got, level, len(ticks))
		}
	}
	for _, test := range []struct {
		description string
		min, max    float64
		maxTicks    int
		integral    bool
		want        []float64
	}{{
		description: "twos",
		min:         0,
		max:         10,
		maxTicks:    6,
		want:        []float64{0, 2, 4, 6, 8, 10},
	}, {
		description: "fives",
		min:         -3,
		max:         12,
		maxTicks:    4,
		want:        []float64{0, 5, 10},
	}, {
		description: "integral ticks stay whole",
		min:         0.1,
		max:         0.9,
		maxTicks:    5,
		integral:    true,
		want:        []float64{0.1, 0.9},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := niceTicks(test.min, test.max, test.maxTicks, test.integral)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("niceTicks() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderSettings(t *testing.T) {
	x := XAxisRenderSettings{LabelHeightPx: 20, MarkersHeightPx: 10}
	y := YAxisRenderSettings{LabelWidthPx: 30, MarkersWidthPx: 40}
	sb := util.NewSceneBuilder()
	sb.Root().With(x.Apply(), y.Apply())
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("Scene() yielded unexpected error %s", err)
	}
	if got := XAxisRenderSettingsOf(scene); got != x {
		t.Errorf("XAxisRenderSettingsOf() = %v, want %v", got, x)
	}
	if got := YAxisRenderSettingsOf(scene); got != y {
		t.Errorf("YAxisRenderSettingsOf() = %v, want %v", got, y)
	}
}
