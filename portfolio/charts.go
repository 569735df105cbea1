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

package portfolio

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/safehtml/template"
	"github.com/ilhamster/chartkit/chart"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/style"
	"github.com/ilhamster/chartkit/tooltip"
	"github.com/ilhamster/chartkit/util"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
)

// Dataset roles.
const (
	dataRole     = "data"
	topologyRole = "topology"
)

const (
	countiesObject = "counties"
	statesObject   = "states"
	fipsWidth      = 5
	stateIDWidth   = 2
)

// The classic layout: a 750x500 canvas with room for titles above and axis
// titles below and to the left.
var classicMargin = chart.Margin{Top: 100, Right: 50, Bottom: 75, Left: 100}

var (
	gdpSchema = &dataset.Schema{
		Root:   "data",
		Tuples: true,
		Fields: []dataset.Field{
			{Name: "date", Kind: dataset.Time},
			{Name: "gdp", Kind: dataset.Number},
		},
		Derived: []dataset.Derived{dataset.Quarter("quarter", "date")},
	}
	dopingSchema = &dataset.Schema{
		Fields: []dataset.Field{
			{Name: "Name", Kind: dataset.String},
			{Name: "Nationality", Kind: dataset.String, Optional: true},
			{Name: "Year", Kind: dataset.Integer},
			{Name: "Time", Kind: dataset.Duration},
			{Name: "Seconds", Kind: dataset.Number},
			{Name: "Doping", Kind: dataset.String, Optional: true},
		},
		Derived: []dataset.Derived{
			dataset.Status("Status", "Doping", suspectStatus, cleanStatus),
		},
	}
	temperatureSchema = &dataset.Schema{
		Root: "monthlyVariance",
		Meta: []dataset.Field{{Name: "baseTemperature", Kind: dataset.Number}},
		Fields: []dataset.Field{
			{Name: "year", Kind: dataset.Integer},
			{Name: "month", Kind: dataset.Integer},
			{Name: "variance", Kind: dataset.Number},
		},
		Derived: []dataset.Derived{
			dataset.MonthName("monthName", "month"),
			dataset.Offset("temperature", "variance", "baseTemperature"),
		},
	}
	letterSchema = &dataset.Schema{
		Fields: []dataset.Field{
			{Name: "letter", Kind: dataset.String},
			{Name: "frequency", Kind: dataset.Number},
		},
	}
	olympianSchema = &dataset.Schema{
		Fields: []dataset.Field{
			{Name: "name", Kind: dataset.String},
			{Name: "nationality", Kind: dataset.String, Optional: true},
			{Name: "sex", Kind: dataset.String},
			{Name: "sport", Kind: dataset.String, Optional: true},
			{Name: "height", Kind: dataset.Number},
			{Name: "weight", Kind: dataset.Number},
		},
	}
)

// educationSchema looks up each county's state name among the provided
// state names, keyed by the first two digits of its FIPS code.
func educationSchema(stateNames map[string]string) *dataset.Schema {
	pad := dataset.PadKey(fipsWidth)
	return &dataset.Schema{
		Fields: []dataset.Field{
			// County FIPS codes are numbers, so lose their leading zero.
			{Name: "fips", Kind: dataset.String},
			{Name: "state", Kind: dataset.String},
			{Name: "area_name", Kind: dataset.String},
			{Name: "bachelorsOrHigher", Kind: dataset.Number},
		},
		Derived: []dataset.Derived{{
			Name: "state_name",
			Derive: func(row, meta dataset.Row) (*util.V, error) {
				fips := pad(row.Value("fips"))
				if name, ok := stateNames[fips[:stateIDWidth]]; ok {
					return util.StringValue(name), nil
				}
				return util.StringValue(row.Text("state")), nil
			},
		}},
	}
}

const (
	suspectStatus = "suspect of doping"
	cleanStatus   = "no doping allegations"
)

const (
	gdpTooltip         = `{{quarter .date}}<br>${{number .gdp}} billion`
	dopingTooltip      = `{{text .Name}}: {{text .Nationality}}<br>Year: {{plain .Year}}, Time: {{mmss .Seconds}}{{if .Doping}}<br>{{text .Doping}}{{end}}`
	temperatureTooltip = `{{plain .year}} - {{text .monthName}}<br>{{number .temperature}}℃<br>{{number .variance}}℃`
	letterTooltip      = `{{text .letter}}<br>frequency: {{number .frequency}}`
	olympianTooltip    = `{{text .name}} ({{text .nationality}})<br>{{text .sport}}<br>{{number .weight}} kg, {{number .height}} m`
	educationTooltip   = `{{text .area_name}}, {{text .state_name}}<br>Education: {{number .bachelorsOrHigher}}%<br>FIPS: {{text .fips}}`
	videoGamesTooltip  = `{{text .parent}}<br>{{text .name}}<br>Sales: {{number .value}}`
	moviesTooltip      = `{{text .parent}}<br>{{text .name}}<br>Gross: {{number .value}}`
	kickstarterTooltip = `{{text .parent}}<br>{{text .name}}<br>Pledged: {{number .value}}`
)

var (
	gdpTemplate         = template.Must(template.New("gdp").Funcs(tooltip.Funcs()).Parse(gdpTooltip))
	dopingTemplate      = template.Must(template.New("doping").Funcs(tooltip.Funcs()).Parse(dopingTooltip))
	temperatureTemplate = template.Must(template.New("temperature").Funcs(tooltip.Funcs()).Parse(temperatureTooltip))
	letterTemplate      = template.Must(template.New("letter").Funcs(tooltip.Funcs()).Parse(letterTooltip))
	olympianTemplate    = template.Must(template.New("olympian").Funcs(tooltip.Funcs()).Parse(olympianTooltip))
	educationTemplate   = template.Must(template.New("education").Funcs(tooltip.Funcs()).Parse(educationTooltip))
	videoGamesTemplate  = template.Must(template.New("videoGames").Funcs(tooltip.Funcs()).Parse(videoGamesTooltip))
	moviesTemplate      = template.Must(template.New("movies").Funcs(tooltip.Funcs()).Parse(moviesTooltip))
	kickstarterTemplate = template.Must(template.New("kickstarter").Funcs(tooltip.Funcs()).Parse(kickstarterTooltip))
)

type loadFunc func(ctx context.Context, f *Fetcher, files map[string]string) (*Data, error)

func loadRows(schema *dataset.Schema) loadFunc {
	return func(ctx context.Context, f *Fetcher, files map[string]string) (*Data, error) {
		ds, err := f.Dataset(ctx, files[dataRole], schema)
		if err != nil {
			return nil, err
		}
		return &Data{Rows: ds.Rows, Meta: ds.Meta}, nil
	}
}

func loadTree(ctx context.Context, f *Fetcher, files map[string]string) (*Data, error) {
	t, err := f.Tree(ctx, files[dataRole])
	if err != nil {
		return nil, err
	}
	return &Data{Tree: t}, nil
}

func loadEducation(ctx context.Context, f *Fetcher, files map[string]string) (*Data, error) {
	topo, err := f.Topology(ctx, files[topologyRole])
	if err != nil {
		return nil, err
	}
	counties, err := topo.Features(countiesObject)
	if err != nil {
		return nil, err
	}
	states, err := topo.Features(statesObject)
	if err != nil {
		return nil, err
	}
	stateNames := make(map[string]string, len(states))
	for _, s := range states {
		stateNames[s.ID] = s.Name
	}
	ds, err := f.Dataset(ctx, files[dataRole], educationSchema(stateNames))
	if err != nil {
		return nil, err
	}
	return &Data{Rows: ds.Rows, Meta: ds.Meta, Features: counties, Borders: states}, nil
}

func gdpConfig(data *Data) (chart.Config, error) {
	return chart.Config{
		Name:     "gdp",
		Title:    "USA GDP",
		Subtitle: "1947 - 2015",
		Caption:  "Seasonally adjusted annual rate. Source: Bureau of Economic Analysis, NIPA guide.",
		Width:    750,
		Height:   500,
		Margin:   classicMargin,
		X:        &scale.AxisSpec{Field: "date", Kind: scale.Time, Label: "Quarter", Format: scale.YearFormat},
		Y: &scale.AxisSpec{
			Field:     "gdp",
			Kind:      scale.Linear,
			Label:     "Gross Domestic Product [billion USD]",
			ZeroFloor: true,
			Format:    scale.NumberFormat,
		},
		Geometry:  chart.Bars(3, "#33adff"),
		Tooltip:   tooltip.NewTemplate(gdpTemplate),
		MarkStyle: style.New().With("shape-rendering", "crispEdges"),
	}, nil
}

func gdpPointsConfig(data *Data) (chart.Config, error) {
	return chart.Config{
		Name:     "gdp-points",
		Title:    "USA GDP",
		Subtitle: "1947-2015",
		Caption:  "Seasonally adjusted annual rate. Source: Bureau of Economic Analysis, NIPA guide.",
		Width:    750,
		Height:   600,
		Margin:   chart.Margin{Top: 80, Right: 30, Bottom: 70, Left: 90},
		X:        &scale.AxisSpec{Field: "date", Kind: scale.Time, Label: "quarter"},
		Y: &scale.AxisSpec{
			Field:     "gdp",
			Kind:      scale.Linear,
			Label:     "GDP [billion USD]",
			ZeroFloor: true,
			Format:    scale.NumberFormat,
		},
		Geometry: chart.Points(1.5, "blue", "none", chart.FillChannel),
		Tooltip:  tooltip.NewTemplate(gdpTemplate),
	}, nil
}

func dopingConfig(data *Data) (chart.Config, error) {
	return chart.Config{
		Name:     "doping",
		Title:    "Doping in cycling",
		Subtitle: "35 Fastest times up Alpe d'Huez",
		Caption:  "Climbing times to Alpe d'Huez for riders with and without doping allegations.",
		Width:    750,
		Height:   500,
		Margin:   classicMargin,
		X:        &scale.AxisSpec{Field: "Year", Kind: scale.Linear, Label: "Year", Format: scale.PlainFormat},
		Y:        &scale.AxisSpec{Field: "Seconds", Kind: scale.Linear, Label: "Time in minutes", Format: scale.ClockFormat},
		Color: &scale.AxisSpec{
			Field:      "Status",
			Kind:       scale.Ordinal,
			Categories: []string{suspectStatus, cleanStatus},
			CategoryLabels: map[string]string{
				suspectStatus: "Doping allegations",
				cleanStatus:   "No doping allegations",
			},
			Palette: "tableau10",
		},
		Legend:   &chart.LegendConfig{X: 500, Y: 120},
		Geometry: chart.Points(7.5, "gray", "black", chart.FillChannel),
		Tooltip:  tooltip.NewTemplate(dopingTemplate),
		MarkStyle: style.New().
			With("fill-opacity", "0.8"),
	}, nil
}

// yearExtent returns the first and last years of the provided rows.
func yearExtent(rows []dataset.Row, field string) (int, int, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		if y, ok := row.Number(field); ok {
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

const yearTickEvery = 25

func temperatureConfig(data *Data) (chart.Config, error) {
	base, ok := data.Meta.Number("baseTemperature")
	if !ok {
		return chart.Config{}, fmt.Errorf("temperature data has no base temperature")
	}
	subtitle := fmt.Sprintf("base temperature %s℃", scale.FormatNumber(base))
	if lo, hi, ok := yearExtent(data.Rows, "year"); ok {
		subtitle = fmt.Sprintf("%d - %d: %s", lo, hi, subtitle)
	}
	return chart.Config{
		Name:     "land-temperature",
		Title:    "Monthly Global Land-Surface Temperature",
		Subtitle: subtitle,
		Width:    750,
		Height:   560,
		Margin:   chart.Margin{Top: 100, Right: 50, Bottom: 135, Left: 100},
		X: &scale.AxisSpec{
			Field: "year",
			Kind:  scale.Band,
			Label: "Year",
			TickWhere: func(value string) bool {
				year, err := strconv.Atoi(value)
				return err == nil && year%yearTickEvery == 0
			},
		},
		Y: &scale.AxisSpec{
			Field:      "monthName",
			Kind:       scale.Band,
			Label:      "Month",
			Categories: dataset.MonthNames(),
		},
		Color: &scale.AxisSpec{
			Field:   "temperature",
			Kind:    scale.Quantize,
			Palette: "turbo",
			Buckets: 11,
		},
		Legend:   &chart.LegendConfig{Title: "Temperature [℃]", X: 100, Y: 500, Width: 400},
		Geometry: chart.Cells(),
		Tooltip:  tooltip.NewTemplate(temperatureTemplate),
	}, nil
}

func letterConfig(data *Data) (chart.Config, error) {
	return chart.Config{
		Name:    "letter-frequency",
		Title:   "Letter frequency in English",
		Caption: "How often each letter appears on average in written English. Source: Wikipedia.",
		Width:   750,
		Height:  600,
		Margin:  chart.Margin{Top: 80, Right: 30, Bottom: 70, Left: 90},
		X:       &scale.AxisSpec{Field: "letter", Kind: scale.Band, Label: "letter", Padding: .1},
		Y: &scale.AxisSpec{
			Field:     "frequency",
			Kind:      scale.Linear,
			Label:     "frequency",
			ZeroFloor: true,
		},
		Geometry: chart.Bars(0, "orange"),
		Tooltip:  tooltip.NewTemplate(letterTemplate),
	}, nil
}

func olympiansConfig(data *Data) (chart.Config, error) {
	return chart.Config{
		Name:    "olympians",
		Title:   "Olympians weight-to-height relation",
		Caption: "Athletes of the 2016 Olympic Games in Rio de Janeiro.",
		Width:   750,
		Height:  600,
		Margin:  chart.Margin{Top: 80, Right: 110, Bottom: 70, Left: 90},
		X:       &scale.AxisSpec{Field: "weight", Kind: scale.Linear, Label: "weight [kg]"},
		Y:       &scale.AxisSpec{Field: "height", Kind: scale.Linear, Label: "height [m]"},
		Color: &scale.AxisSpec{
			Field:   "sex",
			Kind:    scale.Ordinal,
			Palette: "tableau10",
		},
		Legend:   &chart.LegendConfig{Title: "sex", X: 660, Y: 100},
		Geometry: chart.Points(3, "none", "black", chart.StrokeChannel),
		Tooltip:  tooltip.NewTemplate(olympianTemplate),
	}, nil
}

func educationConfig(data *Data) (chart.Config, error) {
	if len(data.Features) == 0 {
		return chart.Config{}, fmt.Errorf("education map has no counties")
	}
	var outlines []chart.Outline
	if len(data.Borders) > 0 {
		outlines = []chart.Outline{{Features: data.Borders, Fit: data.Features, Stroke: "grey"}}
	}
	return chart.Config{
		Name:     "education",
		Title:    "United States Educational Attainment",
		Subtitle: "Percentage of adults age 25 and older with a bachelor's degree or higher (2010-2014)",
		Caption:  "Alaska at 0.35 times its true relative area.",
		Width:    1000,
		Height:   600,
		Margin:   chart.Margin{Top: 110, Right: 30, Bottom: 40, Left: 30},
		Color: &scale.AxisSpec{
			Field:   "bachelorsOrHigher",
			Kind:    scale.Quantize,
			Min:     util.DoubleValue(0),
			Max:     util.DoubleValue(100),
			Palette: "inferno",
			Buckets: 10,
		},
		Legend: &chart.LegendConfig{
			Title: "% of adults age 25+ with a bachelor's degree or higher",
			X:     600,
			Y:     70,
			Width: 300,
		},
		Geometry: chart.Regions(data.Features, "fips", dataset.PadKey(fipsWidth)),
		Tooltip:  tooltip.NewTemplate(educationTemplate),
		Outlines: outlines,
	}, nil
}

// treemapConfig returns a treemap configuration builder, with leaves filled
// by their parent's name.
func treemapConfig(name, title, subtitle string, tmpl *template.Template) func(data *Data) (chart.Config, error) {
	return func(data *Data) (chart.Config, error) {
		return chart.Config{
			Name:     name,
			Title:    title,
			Subtitle: subtitle,
			Width:    1000,
			Height:   600,
			Margin:   chart.Margin{Top: 70, Right: 160, Bottom: 10, Left: 10},
			Color: &scale.AxisSpec{
				Field:   "parent",
				Kind:    scale.Ordinal,
				Palette: "tableau10",
			},
			Treemap:  &weightedtree.Layout{Tiling: weightedtree.Squarify, Padding: 2},
			Legend:   &chart.LegendConfig{X: 860, Y: 80},
			Geometry: chart.Leaves(4, nil),
			Tooltip:  tooltip.NewTemplate(tmpl),
			MarkStyle: style.New().
				With("stroke", "white").
				With("stroke-width", "0.5"),
		}, nil
	}
}

var definitions = []*Definition{{
	Name:        "gdp",
	Description: "United States GDP per quarter, as bars",
	Datasets:    map[string]string{dataRole: "usa-gdp.json"},
	load:        loadRows(gdpSchema),
	config:      gdpConfig,
}, {
	Name:        "gdp-points",
	Description: "United States GDP per quarter, as points",
	Datasets:    map[string]string{dataRole: "usa-gdp.json"},
	load:        loadRows(gdpSchema),
	config:      gdpPointsConfig,
}, {
	Name:        "doping",
	Description: "Alpe d'Huez climbing times by year and doping allegations",
	Datasets:    map[string]string{dataRole: "doping-cycling.json"},
	load:        loadRows(dopingSchema),
	config:      dopingConfig,
}, {
	Name:        "land-temperature",
	Description: "Monthly global land-surface temperature heatmap",
	Datasets:    map[string]string{dataRole: "global-land-temperature.json"},
	load:        loadRows(temperatureSchema),
	config:      temperatureConfig,
}, {
	Name:        "letter-frequency",
	Description: "Frequency of letters in written English",
	Datasets:    map[string]string{dataRole: "english-alphabet-freq.json"},
	load:        loadRows(letterSchema),
	config:      letterConfig,
}, {
	Name:        "olympians",
	Description: "Weight against height of 2016 Olympians",
	Datasets:    map[string]string{dataRole: "olympians.json"},
	load:        loadRows(olympianSchema),
	config:      olympiansConfig,
}, {
	Name:        "education",
	Description: "Educational attainment per United States county",
	Datasets: map[string]string{
		dataRole:     "usa-education-data.json",
		topologyRole: "usa-counties-albers-10m.json",
	},
	load:   loadEducation,
	config: educationConfig,
}, {
	Name:        "video-games",
	Description: "Top video game sales grouped by platform",
	Datasets:    map[string]string{dataRole: "video-game-sales.json"},
	load:        loadTree,
	config: treemapConfig("video-games", "Video Game Sales",
		"Top 100 Most Sold Video Games Grouped by Platform", videoGamesTemplate),
}, {
	Name:        "movies",
	Description: "Top movie grosses grouped by genre",
	Datasets:    map[string]string{dataRole: "movie-data.json"},
	load:        loadTree,
	config: treemapConfig("movies", "Movie Sales",
		"Top 100 Highest Grossing Movies Grouped by Genre", moviesTemplate),
}, {
	Name:        "kickstarter",
	Description: "Top Kickstarter pledges grouped by category",
	Datasets:    map[string]string{dataRole: "kickstarter-funding-data.json"},
	load:        loadTree,
	config: treemapConfig("kickstarter", "Kickstarter Pledges",
		"Top 100 Most Pledged Kickstarter Campaigns Grouped by Category", kickstarterTemplate),
}}
