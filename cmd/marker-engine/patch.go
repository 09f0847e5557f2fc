// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/stavtech/marker-engine/internal/resolve"
	"github.com/stavtech/marker-engine/pkg/types"
)

var patchCmd = &cobra.Command{
	Use:   "patch <results.yaml> [catalog-dir]",
	Short: "Merge resolver results back into catalog files",
	Long: `Patch applies a resolver result file onto the matching norm references
in every catalog, keyed by designation and section. The patch is
idempotent: replaying a result file, or applying a partial batch, is safe.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPatch,
}

func init() {
	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading results file: %w", err)
	}
	var results []types.ResolverResult
	if err := yaml.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing results file: %w", err)
	}

	catalogDir := "catalogs"
	if len(args) == 2 {
		catalogDir = args[1]
	}

	catalogs, paths, err := readCatalogs(catalogDir)
	if err != nil {
		return err
	}

	total := 0
	for i, catalog := range catalogs {
		patched := resolve.ApplyResults(catalog, results)
		if patched == 0 {
			continue
		}
		if err := writeCatalog(paths[i], catalog); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "patched %s (%d references)\n", paths[i], patched)
		total += patched
	}

	logger.Info("patch complete", zap.Int("results", len(results)), zap.Int("patched", total))
	return nil
}
