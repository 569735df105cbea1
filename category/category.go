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

// Package category supports declaring data categories, such as axis titles,
// legend entries, or the groups a categorical colour scale distinguishes
// (riders with and without doping allegations, the platforms of a treemap).
// A scene Datum may define one Category, or be tagged as pertaining to one or
// more categories defined elsewhere.
package category

import (
	"github.com/ilhamster/chartkit/util"
)

const (
	categoryDefinedIDKey   = "category_defined_id"
	categoryDescriptionKey = "category_description"
	categoryDisplayNameKey = "category_display_name"
	categoryIDsKey         = "category_ids"
)

// Category defines a data category.
type Category struct {
	id, description, displayName string
}

// New returns a new Category with the provided ID, display name, and
// description.
func New(id, displayName, description string) *Category {
	return &Category{
		id:          id,
		description: description,
		displayName: displayName,
	}
}

// Define defines a category.  If multiple categories are Defined on the same
// DataBuilder, only the last takes effect.
func (c *Category) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(categoryDefinedIDKey, c.id),
		util.StringProperty(categoryDisplayNameKey, c.displayName),
		util.StringProperty(categoryDescriptionKey, c.description),
	)
}

// ID returns the category's ID.
func (c *Category) ID() string {
	return c.id
}

// DisplayName returns the category's display name.
func (c *Category) DisplayName() string {
	return c.displayName
}

// Tag annotates an item as belonging to a category.  Multiple Categories may
// Tag the same item in succession.
func (c *Category) Tag() util.PropertyUpdate {
	return util.StringsPropertyExtended(categoryIDsKey, c.id)
}

// Tag annotates with the provided set of Categories.
func Tag(cats ...*Category) util.PropertyUpdate {
	categoryIDs := make([]string, len(cats))
	for idx, cat := range cats {
		categoryIDs[idx] = cat.id
	}
	return util.StringsPropertyExtended(categoryIDsKey, categoryIDs...)
}

// TagsOf returns the IDs of the categories the provided Datum is tagged with.
func TagsOf(d *util.Datum) []string {
	ids, _ := d.GetStrings(categoryIDsKey)
	return ids
}

// Set is an ordered set of categories, keyed by ID.  The order of a Set is
// the order in which its categories were first added.
type Set struct {
	cats    []*Category
	indices map[string]int
}

// NewSet returns a new Set containing the provided categories.  Later
// categories with an already-present ID are ignored.
func NewSet(cats ...*Category) *Set {
	s := &Set{
		indices: map[string]int{},
	}
	for _, cat := range cats {
		s.Add(cat)
	}
	return s
}

// Add adds the provided category to the receiver if its ID is not already
// present, returning the category's index within the Set.
func (s *Set) Add(cat *Category) int {
	if idx, ok := s.indices[cat.id]; ok {
		return idx
	}
	idx := len(s.cats)
	s.cats = append(s.cats, cat)
	s.indices[cat.id] = idx
	return idx
}

// Index returns the index of the category with the specified ID.
func (s *Set) Index(id string) (int, bool) {
	idx, ok := s.indices[id]
	return idx, ok
}

// Get returns the category with the specified ID.
func (s *Set) Get(id string) (*Category, bool) {
	idx, ok := s.indices[id]
	if !ok {
		return nil, false
	}
	return s.cats[idx], true
}

// Categories returns the receiver's categories in order.
func (s *Set) Categories() []*Category {
	return append([]*Category{}, s.cats...)
}

// Len returns the number of categories in the receiver.
func (s *Set) Len() int {
	return len(s.cats)
}
