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

// Binary chartkit renders the portfolio charts to SVG documents or JSON
// scenes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ilhamster/chartkit/portfolio"
	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"
)

var (
	configPath string
	dataRoot   string
	outDir     string
	format     string
	hover      string
	charts     []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chartkit",
		Short: "Render the chart portfolio",
		Long: `chartkit renders a portfolio of charts over public datasets (USA GDP,
doping in cycling, global land temperature, and more) as SVG documents or JSON
scenes.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML portfolio config (default: every chart)")
	rootCmd.PersistentFlags().StringVar(&dataRoot, "data_root", "", "Directory holding the datasets; overrides the config's data_root")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render charts into an output directory",
		Args:  cobra.NoArgs,
		RunE:  render,
	}
	renderCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	renderCmd.Flags().StringVarP(&format, "format", "f", string(portfolio.SVG), "Output format: svg or json")
	renderCmd.Flags().StringVar(&hover, "hover", "", "Render with the pointer resting at canvas position x,y")
	renderCmd.Flags().StringSliceVar(&charts, "chart", nil, "Render only the named charts")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the portfolio charts",
		Args:  cobra.NoArgs,
		RunE:  list,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective portfolio config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			raw, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	rootCmd.AddCommand(renderCmd, listCmd, configCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*portfolio.Config, error) {
	var cfg *portfolio.Config
	if configPath == "" {
		cfg = portfolio.DefaultConfig(".")
	} else {
		var err error
		if cfg, err = portfolio.ReadConfig(configPath); err != nil {
			return nil, err
		}
		// Relative data roots are relative to the config.
		if cfg.DataRoot != "" && !filepath.IsAbs(cfg.DataRoot) {
			cfg.DataRoot = filepath.Join(filepath.Dir(configPath), cfg.DataRoot)
		}
	}
	if dataRoot != "" {
		cfg.DataRoot = dataRoot
	}
	return cfg, nil
}

// parseHover parses an `x,y` canvas position.
func parseHover(s string) (*vec.Vec2, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("hover position '%s' is not x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("hover position '%s': %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("hover position '%s': %w", s, err)
	}
	return &vec.Vec2{X: x, Y: y}, nil
}

// requests returns the render requests for the config's entries, limited
// to the named charts if any are named.
func requests(cfg *portfolio.Config, f portfolio.Format, pt *vec.Vec2, only []string) ([]portfolio.Request, error) {
	selected := map[string]bool{}
	for _, name := range only {
		if _, err := portfolio.Lookup(name); err != nil {
			return nil, err
		}
		selected[name] = true
	}
	var ret []portfolio.Request
	for _, e := range cfg.Charts {
		if len(selected) > 0 && !selected[e.Name] {
			continue
		}
		ret = append(ret, portfolio.Request{Entry: e, Format: f, Hover: pt})
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no charts selected")
	}
	return ret, nil
}

func render(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := portfolio.ParseFormat(format)
	if err != nil {
		return err
	}
	pt, err := parseHover(hover)
	if err != nil {
		return err
	}
	reqs, err := requests(cfg, f, pt, charts)
	if err != nil {
		return err
	}
	fetcher, err := portfolio.NewFetcher(os.DirFS(cfg.DataRoot), cfg.CacheSize)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := portfolio.NewRenderer(fetcher, cfg.Parallelism).Render(ctx, reqs...)
	if err != nil {
		return err
	}
	failed := 0
	for idx, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if res.Malformed != nil {
			log.Printf("%s: left out rows: %s", res.Name, res.Malformed)
		}
		path := filepath.Join(outDir, reqs[idx].Entry.OutputName()+"."+string(f))
		if err := os.WriteFile(path, res.Output, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(results))
	}
	return nil
}

func list(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, name := range portfolio.Names() {
		def, err := portfolio.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", def.Name, def.Description)
	}
	return w.Flush()
}
