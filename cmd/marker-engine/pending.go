// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/stavtech/marker-engine/internal/resolve"
	"github.com/stavtech/marker-engine/pkg/types"
)

var pendingCmd = &cobra.Command{
	Use:   "pending [catalog-dir]",
	Short: "Emit resolver batches for unresolved norm references",
	Long: `Pending collects pending_perplexity_lookups from catalog files and
groups them into resolver batch requests. The external resolver consumes
batches at its own pace; results come back through the patch subcommand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPending,
}

func init() {
	pendingCmd.Flags().String("out", "batches", "output directory for resolver batch files")

	rootCmd.AddCommand(pendingCmd)
}

func runPending(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	catalogDir := "catalogs"
	if len(args) == 1 {
		catalogDir = args[0]
	}

	catalogs, _, err := readCatalogs(catalogDir)
	if err != nil {
		return err
	}

	var pending []types.PendingLookup
	for _, c := range catalogs {
		pending = append(pending, c.PendingPerplexityLookups...)
	}

	batches := resolve.Batches(pending, cfg.Resolve.BatchLimitOrDefault())
	if len(batches) == 0 {
		fmt.Fprintln(os.Stdout, "no pending lookups")
		return nil
	}

	outDir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i, batch := range batches {
		data, err := yaml.Marshal(batch)
		if err != nil {
			return fmt.Errorf("marshaling batch: %w", err)
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("batch-%03d.yaml", i+1))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing batch: %w", err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s (%d lookups)\n", outPath, len(batch.Lookups))
	}
	return nil
}

// readCatalogs loads every catalog YAML from a directory, returning the
// catalogs and their file paths in matching order.
func readCatalogs(dir string) ([]*types.Catalog, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var catalogs []*types.Catalog
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "-catalog.yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var catalog types.Catalog
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		catalogs = append(catalogs, &catalog)
		paths = append(paths, path)
	}
	return catalogs, paths, nil
}
