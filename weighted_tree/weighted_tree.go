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

// Package weightedtree provides hierarchical, weighted data, such as the
// platform-grouped sales figures presented in a treemap, and lays such
// hierarchies out as nested rectangles.  A new tree may be constructed via:
//
//	tree := New("Video Game Sales Data Top 100")
//
// A tree has a single root node, and nodes may have other nodes as children:
//
//	wii := tree.Root.Node("Wii", 0)
//	wii.Node("Wii Sports", 82.53)
//
// Each node's self-magnitude is provided at its creation; a node's total-
// magnitude is computed as the sum of its self-magnitude and the total-
// magnitude of all its children.  A node's laid-out area is proportional to
// its total-magnitude.
//
// Trees may also be decoded from the nested JSON form
//
//	{"name": ..., "children": [{"name": ..., "value": ...}, ...]}
//
// in which leaves carry a numeric (or numeric string) value and any other
// scalar fields, which are kept as the leaf's Row.
package weightedtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
)

// Tree represents a tree of hierarchical, weighted data.
type Tree struct {
	Root      *Node
	malformed dataset.MalformedRows
}

// New returns a new Tree whose root has the provided name.
func New(name string) *Tree {
	return &Tree{
		Root: &Node{Name: name},
	}
}

// Err returns the leaves dropped while decoding the receiver, or nil.
func (t *Tree) Err() error {
	if len(t.malformed) == 0 {
		return nil
	}
	return t.malformed
}

// Node represents a node within a Tree.
type Node struct {
	Name string
	// Self is the node's own weight, excluding its children.
	Self     float64
	Children []*Node
	// Row holds the node's scalar fields.
	Row    dataset.Row
	parent *Node
}

// Node creates and returns a new child node with the specified name and
// magnitude beneath the receiver.
func (n *Node) Node(name string, selfMagnitude float64) *Node {
	child := &Node{
		Name:   name,
		Self:   selfMagnitude,
		parent: n,
	}
	n.Children = append(n.Children, child)
	return child
}

// With sets the receiver's scalar fields, returning the receiver to
// facilitate chaining.
func (n *Node) With(row dataset.Row) *Node {
	n.Row = row
	return n
}

// Parent returns the receiver's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Depth returns the number of ancestors of the receiver.
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Total returns the receiver's total magnitude.
func (n *Node) Total() float64 {
	ret := n.Self
	for _, child := range n.Children {
		ret += child.Total()
	}
	return ret
}

// Leaves returns the receiver's leaf descendants in pre-order, or the
// receiver itself if it has no children.
func (n *Node) Leaves() []*Node {
	if len(n.Children) == 0 {
		return []*Node{n}
	}
	ret := []*Node{}
	for _, child := range n.Children {
		ret = append(ret, child.Leaves()...)
	}
	return ret
}

const (
	nameKey     = "name"
	childrenKey = "children"
	valueKey    = "value"
)

// FromJSON decodes a Tree from its nested JSON form.  Leaves whose value is
// missing or not a non-negative number are dropped and reported by the
// returned Tree's Err().
func FromJSON(raw []byte) (*Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	name, _ := obj[nameKey].(string)
	t := New(name)
	leafIdx := 0
	if err := t.decodeChildren(t.Root, obj, &leafIdx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) decodeChildren(parent *Node, obj map[string]any, leafIdx *int) error {
	rawChildren, ok := obj[childrenKey]
	if !ok {
		return nil
	}
	children, ok := rawChildren.([]any)
	if !ok {
		return fmt.Errorf("node '%s': expected a children array, got %T", parent.Name, rawChildren)
	}
	for _, rawChild := range children {
		childObj, ok := rawChild.(map[string]any)
		if !ok {
			return fmt.Errorf("node '%s': expected child objects, got %T", parent.Name, rawChild)
		}
		name, _ := childObj[nameKey].(string)
		if _, isInner := childObj[childrenKey]; isInner {
			child := parent.Node(name, 0)
			if err := t.decodeChildren(child, childObj, leafIdx); err != nil {
				return err
			}
			continue
		}
		idx := *leafIdx
		*leafIdx++
		weight, err := leafWeight(childObj[valueKey])
		if err != nil {
			t.malformed = append(t.malformed, &dataset.MalformedRowError{
				Index: idx,
				Field: valueKey,
				Err:   fmt.Errorf("leaf '%s': %w", name, err),
			})
			continue
		}
		parent.Node(name, weight).With(leafRow(childObj, weight))
	}
	return nil
}

func leafWeight(raw any) (float64, error) {
	var s string
	switch r := raw.(type) {
	case json.Number:
		s = r.String()
	case string:
		s = strings.TrimSpace(r)
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, fmt.Errorf("'%s' is not a non-negative number", s)
	}
	return w, nil
}

func leafRow(obj map[string]any, weight float64) dataset.Row {
	row := dataset.Row{}
	for key, raw := range obj {
		switch r := raw.(type) {
		case string:
			row[key] = util.StringValue(r)
		case json.Number:
			row[key] = util.StringValue(r.String())
		}
	}
	row[valueKey] = util.DoubleValue(weight)
	return row
}
