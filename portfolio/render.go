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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ilhamster/chartkit/chart"
	"github.com/ilhamster/chartkit/dataset"
	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/vec"
)

// Format is an output encoding.
type Format string

// Output formats.
const (
	SVG   Format = "svg"
	Scene Format = "json"
)

// ParseFormat returns the named Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case SVG, Scene:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format '%s' (known: %s, %s)", name, SVG, Scene)
}

// Request asks for one rendered chart.
type Request struct {
	Entry  Entry
	Format Format
	// Hover, if set, renders the chart as if the pointer rested at this
	// canvas position.
	Hover *vec.Vec2
}

// Result is one rendered chart.
type Result struct {
	Name   string
	Output []byte
	Marks  int
	// Malformed reports rows the chart could not place; they are left out
	// of Output.
	Malformed error
	// Err reports a chart that could not be rendered at all.
	Err error
}

type container interface {
	chart.Container
	io.WriterTo
}

func newContainer(f Format) (container, error) {
	switch f {
	case SVG, "":
		return chart.NewSVG(), nil
	case Scene:
		return chart.NewScene(), nil
	}
	return nil, fmt.Errorf("unknown output format '%s'", f)
}

// Renderer renders portfolio charts concurrently.
type Renderer struct {
	fetcher     *Fetcher
	parallelism int
}

// NewRenderer returns a new Renderer loading data through the provided
// Fetcher and rendering up to parallelism charts at once.
func NewRenderer(fetcher *Fetcher, parallelism int) *Renderer {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Renderer{
		fetcher:     fetcher,
		parallelism: parallelism,
	}
}

// Render renders the requested charts, returning a Result per Request in
// request order.  A chart that fails does not affect the others.  Render
// returns an error only if the context is cancelled.
func (r *Renderer) Render(ctx context.Context, reqs ...Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	var errg errgroup.Group
	errg.SetLimit(r.parallelism)
	for idx, req := range reqs {
		func(idx int, req Request) {
			errg.Go(func() error {
				results[idx] = r.render(ctx, req)
				return nil
			})
		}(idx, req)
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Renderer) render(ctx context.Context, req Request) Result {
	res := Result{Name: req.Entry.Name}
	start := time.Now()
	out, err := r.renderChart(ctx, req, &res)
	if err != nil {
		res.Err = fmt.Errorf("chart '%s': %w", req.Entry.Name, err)
		log.Printf("Failed to render %s: %s", req.Entry.Name, err)
		return res
	}
	res.Output = out
	log.Printf("Rendered %s (%d marks, %d bytes) in %s", req.Entry.Name, res.Marks, len(out), time.Since(start))
	return res
}

func (r *Renderer) renderChart(ctx context.Context, req Request, res *Result) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def, err := Lookup(req.Entry.Name)
	if err != nil {
		return nil, err
	}
	data, err := def.Load(ctx, r.fetcher, req.Entry.Datasets)
	if err != nil {
		return nil, err
	}
	cfg, err := def.Config(data, req.Entry.Options())
	if err != nil {
		return nil, err
	}
	cont, err := newContainer(req.Format)
	if err != nil {
		return nil, err
	}
	c, err := chart.Mount(cont, cfg)
	if err != nil {
		return nil, err
	}
	defer c.Unmount()
	if data.Tree != nil {
		err = c.UpdateTree(data.Tree)
	} else {
		err = c.Update(data.Rows)
	}
	if err != nil {
		if !errors.Is(err, dataset.ErrMalformedRow) {
			return nil, err
		}
		res.Malformed = err
	}
	if req.Hover != nil {
		if err := c.PointerMove(*req.Hover); err != nil {
			return nil, err
		}
	}
	res.Marks = len(c.Marks())
	var buf bytes.Buffer
	if _, err := cont.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
