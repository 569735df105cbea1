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

package style

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	testutil "github.com/ilhamster/chartkit/test_util"
	"github.com/ilhamster/chartkit/util"
)

func TestStyle(t *testing.T) {
	axisLine := New().With("stroke", "#888").With("stroke-width", Px(2))
	if err := testutil.CompareResponses(t,
		func(db util.DataBuilder) {
			db.With(axisLine.Define())
		},
		func(db testutil.Builder) {
			db.With(
				util.StringProperty("style_stroke", "#888"),
				util.StringProperty("style_stroke-width", "2.00px"),
			)
		},
	); err != nil {
		t.Fatalf("encountered unexpected error building the style: %s", err)
	}
}

func TestAttrs(t *testing.T) {
	sb := util.NewSceneBuilder()
	sb.Root().With(
		New().With("text-anchor", "middle").With("font-size", "8").Define(),
		util.StringProperty("label", "ignored"),
	)
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("Scene() yielded unexpected error %s", err)
	}
	want := []string{`font-size="8"`, `text-anchor="middle"`}
	if diff := cmp.Diff(want, Attrs(scene)); diff != "" {
		t.Errorf("Attrs() diff (-want +got):\n%s", diff)
	}
}

func TestStyleAttrs(t *testing.T) {
	s := New().With("stroke", "#fff").With("title", `"a" & b`)
	want := []string{`stroke="#fff"`, `title="&#34;a&#34; &amp; b"`}
	if diff := cmp.Diff(want, s.Attrs()); diff != "" {
		t.Errorf("Attrs() diff (-want +got):\n%s", diff)
	}
}
