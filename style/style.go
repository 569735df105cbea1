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

// Package style supports specifying SVG presentation attributes.
//
// A Style instance comprises a mapping from attribute name to value, both
// represented as strings.  A Style may be attached to a scene Datum via the
// `Define()` method, and read back from a Datum with `Attrs()`.  Attribute
// names and values are those of SVG presentation attributes, e.g.
// https://developer.mozilla.org/en-US/docs/Web/SVG/Attribute.
package style

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ilhamster/chartkit/util"
)

const (
	keyPrefix = "style_"
)

// Style defines a set of styles that can be attached to a Datum.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (s *Style) Define() util.PropertyUpdate {
	ret := make([]util.PropertyUpdate, 0, len(s.attrs))
	for attr, val := range s.attrs {
		ret = append(ret, util.StringProperty(keyPrefix+attr, val))
	}
	return util.Chain(ret...)
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}

// With sets the specified attribute type and value in the receiver.
func (s *Style) With(attrType string, attrVal string) *Style {
	s.attrs[attrType] = attrVal
	return s
}

func attr(name, val string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(val))
}

// Attrs returns the receiver's attributes, formatted as escaped SVG
// attribute assignments (`name="value"`) sorted by name.
func (s *Style) Attrs() []string {
	ret := make([]string, 0, len(s.attrs))
	for name, val := range s.attrs {
		ret = append(ret, attr(name, val))
	}
	sort.Strings(ret)
	return ret
}

// Attrs returns the style attributes defined on the provided Datum, formatted
// as by Style.Attrs.
func Attrs(d *util.Datum) []string {
	ret := []string{}
	for key := range d.Properties {
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		val, ok := d.GetString(key)
		if !ok {
			continue
		}
		ret = append(ret, attr(strings.TrimPrefix(key, keyPrefix), val))
	}
	sort.Strings(ret)
	return ret
}
