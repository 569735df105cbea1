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

package tooltip

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
	"seehuhn.de/go/geom/vec"
)

const gdpTooltip = `{{quarter .date}}<br>${{number .gdp}} billion`

const dopingTooltip = `{{text .Name}}: {{text .Nationality}}<br>Year: {{plain .Year}}, Time: {{mmss .Time}}{{if .Doping}}<br>{{text .Doping}}{{end}}`

func gdpTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := template.New("gdp").Funcs(Funcs()).Parse(gdpTooltip)
	if err != nil {
		t.Fatalf("Parse() yielded unexpected error %s", err)
	}
	return NewTemplate(tmpl)
}

func gdpRow(year int, month time.Month, gdp float64) dataset.Row {
	return dataset.Row{
		"date": util.TimestampValue(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)),
		"gdp":  util.DoubleValue(gdp),
	}
}

// snapshot summarizes a Tooltip for comparison.
type snapshot struct {
	State   State
	Visible bool
	Opacity float64
	Content string
	X, Y    float64
}

func snap(c *Controller) snapshot {
	tip := c.Tooltip()
	return snapshot{c.State(), tip.Visible, tip.Opacity, tip.Content.String(), tip.X, tip.Y}
}

func TestTransitions(t *testing.T) {
	type event func(c *Controller) error
	enter := func(mark int, row dataset.Row, x, y float64) event {
		return func(c *Controller) error {
			return c.Enter(mark, row, vec.Vec2{X: x, Y: y})
		}
	}
	move := func(x, y float64) event {
		return func(c *Controller) error {
			c.Move(vec.Vec2{X: x, Y: y})
			return nil
		}
	}
	leave := func(c *Controller) error {
		c.Leave()
		return nil
	}
	for _, test := range []struct {
		description string
		events      []event
		want        snapshot
	}{{
		description: "initially idle",
		want:        snapshot{State: Idle},
	}, {
		description: "enter shows content offset from the pointer",
		events:      []event{enter(0, gdpRow(1947, 1, 243.1), 100, 200)},
		want:        snapshot{Hovering, true, .75, "Q1-1947<br>$243.1 billion", 105, 205},
	}, {
		description: "move updates position only",
		events: []event{
			enter(0, gdpRow(1947, 1, 243.1), 100, 200),
			move(110, 190),
			move(120, 180),
		},
		want: snapshot{Hovering, true, .75, "Q1-1947<br>$243.1 billion", 125, 185},
	}, {
		description: "move while idle is ignored",
		events:      []event{move(110, 190)},
		want:        snapshot{State: Idle},
	}, {
		description: "leave clears",
		events: []event{
			enter(0, gdpRow(1947, 1, 243.1), 100, 200),
			move(110, 190),
			leave,
		},
		want: snapshot{State: Idle},
	}, {
		description: "moves after leave are ignored",
		events: []event{
			enter(0, gdpRow(1947, 1, 243.1), 100, 200),
			leave,
			move(110, 190),
		},
		want: snapshot{State: Idle},
	}, {
		description: "entering another mark replaces content",
		events: []event{
			enter(0, gdpRow(1947, 1, 243.1), 100, 200),
			enter(1, gdpRow(2015, 7, 18064.7), 300, 10),
		},
		want: snapshot{Hovering, true, .75, "Q3-2015<br>$18,064.7 billion", 305, 15},
	}, {
		description: "leave while idle is a no-op",
		events:      []event{leave, leave},
		want:        snapshot{State: Idle},
	}} {
		t.Run(test.description, func(t *testing.T) {
			c := New(gdpTemplate(t))
			for _, e := range test.events {
				if err := e(c); err != nil {
					t.Fatalf("event yielded unexpected error %s", err)
				}
			}
			if diff := cmp.Diff(test.want, snap(c)); diff != "" {
				t.Errorf("tooltip diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnterMovesLeaveEndsIdle(t *testing.T) {
	c := New(gdpTemplate(t))
	for moves := 0; moves < 8; moves++ {
		if err := c.Enter(moves, gdpRow(1980, 4, 2725.3), vec.Vec2{X: 1, Y: 1}); err != nil {
			t.Fatalf("Enter() yielded unexpected error %s", err)
		}
		for i := 0; i < moves; i++ {
			c.Move(vec.Vec2{X: float64(i * 7 % 13), Y: float64(i * 5 % 11)})
		}
		c.Leave()
		if diff := cmp.Diff(snapshot{State: Idle}, snap(c)); diff != "" {
			t.Errorf("after enter, %d moves and leave, tooltip diff (-want +got):\n%s", moves, diff)
		}
	}
}

func TestFormatFailure(t *testing.T) {
	c := New(FormatFunc(func(row dataset.Row) (safehtml.HTML, error) {
		if row["gdp"] == nil {
			return safehtml.HTML{}, errors.New("no gdp")
		}
		return safehtml.HTMLEscaped(row.Text("gdp")), nil
	})).WithOffset(vec.Vec2{})
	if err := c.Enter(0, gdpRow(1947, 1, 243.1), vec.Vec2{X: 3, Y: 4}); err != nil {
		t.Fatalf("Enter() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(snapshot{Hovering, true, .75, "243.1", 3, 4}, snap(c)); diff != "" {
		t.Errorf("tooltip diff (-want +got):\n%s", diff)
	}
	if err := c.Enter(1, dataset.Row{}, vec.Vec2{X: 3, Y: 4}); err == nil {
		t.Errorf("Enter() of an unformattable row yielded no error")
	}
	if diff := cmp.Diff(snapshot{State: Idle}, snap(c)); diff != "" {
		t.Errorf("tooltip diff (-want +got):\n%s", diff)
	}
}

func TestTemplateEscaping(t *testing.T) {
	tmpl, err := template.New("doping").Funcs(Funcs()).Parse(dopingTooltip)
	if err != nil {
		t.Fatalf("Parse() yielded unexpected error %s", err)
	}
	for _, test := range []struct {
		description string
		row         dataset.Row
		want        string
	}{{
		description: "clean rider",
		row: dataset.Row{
			"Name":        util.StringValue("Marco Pantani"),
			"Nationality": util.StringValue("ITA"),
			"Year":        util.IntegerValue(1995),
			"Time":        util.DurationValue(2210 * time.Second),
		},
		want: "Marco Pantani: ITA<br>Year: 1995, Time: 36:50",
	}, {
		description: "markup in fields is escaped",
		row: dataset.Row{
			"Name":        util.StringValue("<b>Rider</b>"),
			"Nationality": util.StringValue("A&B"),
			"Year":        util.IntegerValue(2000),
			"Time":        util.DurationValue(2299 * time.Second),
			"Doping":      util.StringValue("Alleged drug use"),
		},
		want: "&lt;b&gt;Rider&lt;/b&gt;: A&amp;B<br>Year: 2000, Time: 38:19<br>Alleged drug use",
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := NewTemplate(tmpl).Format(test.row)
			if err != nil {
				t.Fatalf("Format() yielded unexpected error %s", err)
			}
			if diff := cmp.Diff(test.want, got.String()); diff != "" {
				t.Errorf("Format() diff (-want +got):\n%s", diff)
			}
		})
	}
}
