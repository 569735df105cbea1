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

// Package label supports attaching text labels to scene Datums, and fitting
// label text into a limited pixel width.
package label

import (
	"unicode/utf8"

	"github.com/ilhamster/chartkit/util"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	labelFormatKey = "label_format"
	labelLinesKey  = "label_lines"

	// Ellipsis is appended to truncated labels.
	Ellipsis = "…"

	// DefaultGlyphPx is the default estimated width of one rendered glyph.
	DefaultGlyphPx = 8
)

// Format annotates with a label format string, such as a tick format.
func Format(labelFormat string) util.PropertyUpdate {
	return util.StringProperty(labelFormatKey, labelFormat)
}

// FormatOf returns the label format of the provided Datum.
func FormatOf(d *util.Datum) (string, bool) {
	return d.GetString(labelFormatKey)
}

// Text annotates with the provided lines of label text.
func Text(lines ...string) util.PropertyUpdate {
	return util.StringsProperty(labelLinesKey, lines...)
}

// TextOf returns the label lines of the provided Datum.
func TextOf(d *util.Datum) []string {
	lines, _ := d.GetStrings(labelLinesKey)
	return lines
}

// Measurer is implemented by types that can estimate the rendered width of
// text, in pixels.
type Measurer interface {
	Width(text string) float64
}

// Estimate measures text as a fixed width per glyph.
type Estimate struct {
	GlyphPx float64
}

// Width returns the estimated width of the provided text.
func (e Estimate) Width(text string) float64 {
	glyphPx := e.GlyphPx
	if glyphPx <= 0 {
		glyphPx = DefaultGlyphPx
	}
	return float64(utf8.RuneCountInString(text)) * glyphPx
}

// Face measures text as it would be drawn in a font face.
type Face struct {
	Face font.Face
}

// Basic returns a Face measurer for the 7x13 fixed-width basic font.
func Basic() Face {
	return Face{Face: basicfont.Face7x13}
}

// Width returns the advance width of the provided text in the receiver's face.
func (f Face) Width(text string) float64 {
	return float64(font.MeasureString(f.Face, text).Ceil())
}

// Fit returns the provided text, truncated and ellipsized if necessary so
// that its measured width does not exceed widthPx.  If not even the ellipsis
// fits, Fit returns the empty string.
func Fit(text string, widthPx float64, m Measurer) string {
	if m.Width(text) <= widthPx {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n >= 0; n-- {
		candidate := string(runes[:n]) + Ellipsis
		if m.Width(candidate) <= widthPx {
			return candidate
		}
	}
	return ""
}

// FitAll fits each of the provided lines into widthPx.
func FitAll(lines []string, widthPx float64, m Measurer) []string {
	ret := make([]string, len(lines))
	for idx, line := range lines {
		ret[idx] = Fit(line, widthPx, m)
	}
	return ret
}
