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
	"io/fs"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/topology"
	weightedtree "github.com/ilhamster/chartkit/weighted_tree"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads dataset files from a root file system, keeping the most
// recently used decoded files in memory.  Each file is read and decoded once
// while it stays cached, even when several charts request it concurrently,
// so its malformed-row report is logged once.
type Fetcher struct {
	root fs.FS
	// simplelru is not safe for concurrent use.
	mu    sync.Mutex
	lru   *simplelru.LRU
	loads singleflight.Group
}

// NewFetcher returns a new Fetcher reading from root and caching up to
// capacity decoded files.
func NewFetcher(root fs.FS, capacity int) (*Fetcher, error) {
	lru, err := simplelru.NewLRU(capacity, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		root: root,
		lru:  lru,
	}, nil
}

func (f *Fetcher) cached(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lru.Get(key)
}

func (f *Fetcher) fetch(ctx context.Context, kind, file string, decode func(raw []byte) (any, error)) (any, error) {
	key := kind + ":" + file
	if v, ok := f.cached(key); ok {
		return v, nil
	}
	v, err, _ := f.loads.Do(key, func() (any, error) {
		if v, ok := f.cached(key); ok {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		raw, err := fs.ReadFile(f.root, file)
		if err != nil {
			return nil, err
		}
		v, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s '%s': %w", kind, file, err)
		}
		f.mu.Lock()
		f.lru.Add(key, v)
		f.mu.Unlock()
		log.Printf("Loaded %s '%s' (%d bytes) in %s", kind, file, len(raw), time.Since(start))
		return v, nil
	})
	return v, err
}

func logMalformed(file string, err error) {
	if err == nil {
		return
	}
	if mr, ok := err.(dataset.MalformedRows); ok {
		log.Printf("Dropped %d malformed rows from '%s': %s", len(mr), file, err)
		return
	}
	log.Printf("Dropped malformed rows from '%s': %s", file, err)
}

// Dataset returns the named file normalized per the provided schema.  The
// schema is only used on a cache miss, so a file should always be fetched
// with the same schema.
func (f *Fetcher) Dataset(ctx context.Context, file string, schema *dataset.Schema) (*dataset.Dataset, error) {
	v, err := f.fetch(ctx, "dataset", file, func(raw []byte) (any, error) {
		ds, err := dataset.Normalize(raw, schema)
		if err != nil {
			return nil, err
		}
		logMalformed(file, ds.Err())
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	ds, ok := v.(*dataset.Dataset)
	if !ok {
		return nil, fmt.Errorf("fetched '%s' wasn't a dataset", file)
	}
	return ds, nil
}

// Tree returns the named hierarchical file.
func (f *Fetcher) Tree(ctx context.Context, file string) (*weightedtree.Tree, error) {
	v, err := f.fetch(ctx, "tree", file, func(raw []byte) (any, error) {
		t, err := weightedtree.FromJSON(raw)
		if err != nil {
			return nil, err
		}
		logMalformed(file, t.Err())
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	t, ok := v.(*weightedtree.Tree)
	if !ok {
		return nil, fmt.Errorf("fetched '%s' wasn't a tree", file)
	}
	return t, nil
}

// Topology returns the named TopoJSON file.
func (f *Fetcher) Topology(ctx context.Context, file string) (*topology.Topology, error) {
	v, err := f.fetch(ctx, "topology", file, func(raw []byte) (any, error) {
		return topology.Decode(raw)
	})
	if err != nil {
		return nil, err
	}
	t, ok := v.(*topology.Topology)
	if !ok {
		return nil, fmt.Errorf("fetched '%s' wasn't a topology", file)
	}
	return t, nil
}

// Len returns the number of files currently cached.
func (f *Fetcher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lru.Len()
}
