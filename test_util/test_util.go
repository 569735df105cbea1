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

// Package testutil holds helpers for tests that build or inspect chart
// scenes.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/chartkit/util"
)

// UpdateComparator checks that a set of PropertyUpdates under test leaves a
// scene datum in the same state as a set of expected PropertyUpdates.
type UpdateComparator struct {
	got, want []util.PropertyUpdate
}

// NewUpdateComparator returns an empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates sets the updates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates sets the expected updates.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies both update sets to sibling datums and returns a diff
// message and true if the datums differ.  Later updates to a key win, and
// string lists keep their order.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	sb := util.NewSceneBuilder()
	sb.Root().Child().With(uc.got...)
	sb.Root().Child().With(uc.want...)
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("failed to apply updates: %s", err)
	}
	got, want := scene.Children[0], scene.Children[1]
	if diff := cmp.Diff(want.PrettyPrint(""), got.PrettyPrint("")); diff != "" {
		return fmt.Sprintf("updates yielded %s, diff (-want +got):\n%s", got.PrettyPrint(""), diff), true
	}
	return "", false
}

// Builder fluently assembles an expected scene.  Unlike util.DataBuilder it
// can step back to a datum's parent, so sibling marks can be written as
// one chain.
type Builder interface {
	With(updates ...util.PropertyUpdate) Builder
	// Child adds a child to the current datum and moves to it.
	Child() Builder
	// AndChild adds a sibling of the current datum and moves to it.  At
	// the root it behaves like Child.
	AndChild() Builder
	// Parent moves to the current datum's parent.  At the root it stays
	// put.
	Parent() Builder
}

type builder struct {
	db     util.DataBuilder
	parent *builder
}

func (b *builder) With(updates ...util.PropertyUpdate) Builder {
	b.db.With(updates...)
	return b
}

func (b *builder) Child() Builder {
	return &builder{
		db:     b.db.Child(),
		parent: b,
	}
}

func (b *builder) AndChild() Builder {
	return b.Parent().Child()
}

func (b *builder) Parent() Builder {
	if b.parent == nil {
		return b
	}
	return b.parent
}

// CompareScenes reports a test error if got and want print differently.
func CompareScenes(t *testing.T, got, want *util.Datum) {
	t.Helper()
	gotPP, wantPP := got.PrettyPrint(""), want.PrettyPrint("")
	if diff := cmp.Diff(wantPP, gotPP); diff != "" {
		t.Errorf("got scene %s, diff (-want +got):\n%s", gotPP, diff)
	}
}

// CompareResponses builds a scene under test and an expected scene, then
// compares them with CompareScenes.  Each callback is either a
// func(util.DataBuilder), as scene-producing code accepts, or a
// func(Builder).  Scene construction errors are returned.
func CompareResponses(t *testing.T, buildGot, buildWant any) error {
	t.Helper()
	got, err := build(t, buildGot)
	if err != nil {
		return err
	}
	want, err := build(t, buildWant)
	if err != nil {
		return err
	}
	CompareScenes(t, got, want)
	return nil
}

func build(t *testing.T, cb any) (*util.Datum, error) {
	t.Helper()
	sb := util.NewSceneBuilder()
	switch cb := cb.(type) {
	case func(util.DataBuilder):
		cb(sb.Root())
	case func(Builder):
		cb(&builder{db: sb.Root()})
	default:
		t.Fatalf("scene callback is %T, wanted func(util.DataBuilder) or func(testutil.Builder)", cb)
	}
	return sb.Scene()
}

// At returns the datum reached from root by following the provided child
// indices, failing the test if any index is out of range.
func At(t *testing.T, root *util.Datum, path ...int) *util.Datum {
	t.Helper()
	d := root
	for depth, idx := range path {
		if idx < 0 || idx >= len(d.Children) {
			t.Fatalf("scene path %v: datum at depth %d has %d children", path, depth, len(d.Children))
		}
		d = d.Children[idx]
	}
	return d
}

// Find returns, in depth-first order, every datum under root (root
// included) whose string property key holds value.
func Find(root *util.Datum, key, value string) []*util.Datum {
	var ret []*util.Datum
	var visit func(d *util.Datum)
	visit = func(d *util.Datum) {
		if got, ok := d.GetString(key); ok && got == value {
			ret = append(ret, d)
		}
		for _, child := range d.Children {
			visit(child)
		}
	}
	visit(root)
	return ret
}

// Outline renders the shape of the scene under root as an indented list
// of each datum's string property key, or "-" where it is unset.  It lets
// tests assert on structure without pinning every property.
func Outline(root *util.Datum, key string) string {
	var sb strings.Builder
	var visit func(d *util.Datum, depth int)
	visit = func(d *util.Datum, depth int) {
		label, ok := d.GetString(key)
		if !ok {
			label = "-"
		}
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", depth), label)
		for _, child := range d.Children {
			visit(child, depth+1)
		}
	}
	visit(root, 0)
	return sb.String()
}
