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
	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/scale"
	"github.com/ilhamster/chartkit/util"
)

// Funcs returns the value formatting functions available to tooltip
// templates.  Each accepts a row value, and yields "" for an absent one.
//
//	text     the value's display text
//	number   grouped digits, e.g. 18,064.7
//	plain    ungrouped digits
//	year     a timestamp's year
//	quarter  a timestamp's quarter, e.g. Q1-1947
//	month    a timestamp's month name
//	date     a timestamp as YYYY-MM-DD
//	mmss     a duration as minutes and seconds
func Funcs() template.FuncMap {
	format := func(f string) func(v *util.V) string {
		return func(v *util.V) string {
			return scale.FormatValue(f, v)
		}
	}
	return template.FuncMap{
		"text":    func(v *util.V) string { return v.Text() },
		"number":  format(scale.NumberFormat),
		"plain":   format(scale.PlainFormat),
		"year":    format(scale.YearFormat),
		"quarter": format(scale.QuarterFormat),
		"month":   format(scale.MonthFormat),
		"date":    format(scale.DateFormat),
		"mmss":    format(scale.ClockFormat),
	}
}

// Template formats rows with a safehtml template, executed with the row as
// its data, so `{{number .gdp}}` formats the row's gdp field.  Field values
// are escaped into the template's HTML context.
type Template struct {
	tmpl *template.Template
}

// NewTemplate returns a Template executing the provided parsed template.
// Callers typically parse constant template text with Funcs:
//
//	tmpl := template.Must(template.New("gdp").Funcs(tooltip.Funcs()).Parse(gdpTooltip))
func NewTemplate(tmpl *template.Template) *Template {
	return &Template{tmpl: tmpl}
}

// Format formats the provided row.
func (t *Template) Format(row dataset.Row) (safehtml.HTML, error) {
	return t.tmpl.ExecuteToHTML(map[string]*util.V(row))
}
