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

package color

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	testutil "github.com/ilhamster/chartkit/test_util"
	"github.com/ilhamster/chartkit/util"
)

func mustSpace(t *testing.T, name string, colors ...string) *Space {
	t.Helper()
	s, err := NewSpace(name, colors...)
	if err != nil {
		t.Fatalf("NewSpace(%q) yielded unexpected error %s", name, err)
	}
	return s
}

// closeTo reports whether two '#rrggbb' colors differ by at most tol in every
// channel.
func closeTo(t *testing.T, a, b string, tol int64) bool {
	t.Helper()
	if len(a) != 7 || len(b) != 7 {
		return false
	}
	for i := 1; i < 7; i += 2 {
		ac, err := strconv.ParseInt(a[i:i+2], 16, 64)
		if err != nil {
			t.Fatalf("bad color %q", a)
		}
		bc, err := strconv.ParseInt(b[i:i+2], 16, 64)
		if err != nil {
			t.Fatalf("bad color %q", b)
		}
		if d := ac - bc; d > tol || d < -tol {
			return false
		}
	}
	return true
}

func TestColorSpaceDefinition(t *testing.T) {
	for _, test := range []struct {
		description string
		spaces      func(t *testing.T) []*Space
		wantUpdates []util.PropertyUpdate
	}{{
		description: "single color space",
		spaces: func(t *testing.T) []*Space {
			return []*Space{mustSpace(t, "grey_space", "#888")}
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"grey_space", "#888"),
		},
	}, {
		description: "multiple color spaces",
		spaces: func(t *testing.T) []*Space {
			return []*Space{
				mustSpace(t, "fire", "#ffff00", "#ff0000"),
				mustSpace(t, "royal", "#0000ff", "#800080"),
			}
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"fire", "#ffff00", "#ff0000"),
			util.StringsProperty(colorSpaceNamePrefix+"royal", "#0000ff", "#800080"),
		},
	}, {
		description: "color space redefinition overwrites previous",
		spaces: func(t *testing.T) []*Space {
			return []*Space{
				mustSpace(t, "royal", "#0000ff", "#800080"),
				mustSpace(t, "royal", "#800080", "#0000ff"),
			}
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(colorSpaceNamePrefix+"royal", "#800080", "#0000ff"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			testUpdates := []util.PropertyUpdate{}
			for _, space := range test.spaces(t) {
				testUpdates = append(testUpdates, space.Define())
			}
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(testUpdates...).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}

func TestColorDeclarations(t *testing.T) {
	redToBlue := mustSpace(t, "red_to_blue", "#ff0000", "#c0c0c0", "#0000ff")
	whiteToBlack := mustSpace(t, "white_to_black", "#ffffff", "#000000")
	for _, test := range []struct {
		description  string
		buildUpdates func() util.PropertyUpdate
		wantUpdates  []util.PropertyUpdate
	}{{
		description: "primary from color space",
		buildUpdates: func() util.PropertyUpdate {
			return redToBlue.PrimaryColor(.5)
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+"red_to_blue"),
			util.DoubleProperty(primaryColorSpaceValueKey, .5),
			util.StringProperty(primaryColorKey, redToBlue.At(.5)),
		},
	}, {
		description: "all defined",
		buildUpdates: func() util.PropertyUpdate {
			return util.Chain(
				redToBlue.PrimaryColor(.3),
				Secondary("silver"),
				whiteToBlack.StrokeColor(1),
			)
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+"red_to_blue"),
			util.DoubleProperty(primaryColorSpaceValueKey, .3),
			util.StringProperty(primaryColorKey, redToBlue.At(.3)),
			util.StringProperty(secondaryColorKey, "silver"),
			util.StringProperty(strokeColorSpaceKey, colorSpaceNamePrefix+"white_to_black"),
			util.DoubleProperty(strokeColorSpaceValueKey, 1),
			util.StringProperty(strokeColorKey, "#000000"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			testUpdates := test.buildUpdates()
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(testUpdates).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}

func TestColorReaders(t *testing.T) {
	sb := util.NewSceneBuilder()
	sb.Root().With(Primary("#4e79a7"), Stroke("black"))
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("Scene() yielded unexpected error %s", err)
	}
	if got, ok := PrimaryOf(scene); !ok || got != "#4e79a7" {
		t.Errorf("PrimaryOf() = %q, %t, want #4e79a7, true", got, ok)
	}
	if got, ok := StrokeOf(scene); !ok || got != "black" {
		t.Errorf("StrokeOf() = %q, %t, want black, true", got, ok)
	}
	if _, ok := SecondaryOf(scene); ok {
		t.Errorf("SecondaryOf() found a color, but none was set")
	}
}

func TestAt(t *testing.T) {
	blackToWhite := mustSpace(t, "grey", "#000", "#fff")
	nearGreys := mustSpace(t, "near", "#000000", "#040404", "#080808")
	for _, test := range []struct {
		description string
		space       *Space
		x           float64
		want        string
		tolerance   int64
	}{{
		description: "left end",
		space:       blackToWhite,
		x:           0,
		want:        "#000000",
	}, {
		description: "right end",
		space:       blackToWhite,
		x:           1,
		want:        "#ffffff",
	}, {
		description: "below range clamps",
		space:       blackToWhite,
		x:           -3,
		want:        "#000000",
	}, {
		description: "above range clamps",
		space:       blackToWhite,
		x:           12,
		want:        "#ffffff",
	}, {
		description: "midpoint blends in linear RGB",
		space:       blackToWhite,
		x:           .5,
		want:        "#bcbcbc",
		tolerance:   2,
	}, {
		description: "first segment blends",
		space:       nearGreys,
		x:           .25,
		want:        "#020202",
		tolerance:   1,
	}, {
		description: "last segment blends",
		space:       nearGreys,
		x:           .75,
		want:        "#060606",
		tolerance:   1,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := test.space.At(test.x)
			if !closeTo(t, got, test.want, test.tolerance) {
				t.Errorf("At(%v) = %s, want %s (within %d)", test.x, got, test.want, test.tolerance)
			}
		})
	}
}

func TestSwatches(t *testing.T) {
	turbo, err := NewScheme("Turbo")
	if err != nil {
		t.Fatalf("NewScheme() yielded unexpected error %s", err)
	}
	if got := turbo.Swatches(0); got != nil {
		t.Errorf("Swatches(0) = %v, want nil", got)
	}
	if got, want := turbo.Swatches(1), []string{turbo.At(.5)}; !cmp.Equal(want, got) {
		t.Errorf("Swatches(1) = %v, want %v", got, want)
	}
	swatches := turbo.Swatches(11)
	if len(swatches) != 11 {
		t.Fatalf("Swatches(11) yielded %d swatches", len(swatches))
	}
	for idx, want := range turbo.Colors() {
		if !closeTo(t, swatches[idx], want, 3) {
			t.Errorf("swatch %d = %s, want about %s", idx, swatches[idx], want)
		}
	}
}

func TestCycle(t *testing.T) {
	tableau, err := NewScheme("tableau10")
	if err != nil {
		t.Fatalf("NewScheme() yielded unexpected error %s", err)
	}
	got := []string{tableau.Cycle(0), tableau.Cycle(1), tableau.Cycle(10), tableau.Cycle(-2)}
	want := []string{"#4e79a7", "#f28e2c", "#4e79a7", "#e15759"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cycle() diff (-want +got):\n%s", diff)
	}
}

func TestBadSpaces(t *testing.T) {
	for _, test := range []struct {
		description string
		build       func() (*Space, error)
	}{{
		description: "no colors",
		build: func() (*Space, error) {
			return NewSpace("empty")
		},
	}, {
		description: "named color",
		build: func() (*Space, error) {
			return NewSpace("named", "red")
		},
	}, {
		description: "bad hex digit",
		build: func() (*Space, error) {
			return NewSpace("bad", "#00zz00")
		},
	}, {
		description: "unknown scheme",
		build: func() (*Space, error) {
			return NewScheme("plasma")
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if _, err := test.build(); err == nil {
				t.Errorf("expected an error, got none")
			}
		})
	}
}
