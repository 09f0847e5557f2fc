// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/internal/pipeline"
	"github.com/stavtech/marker-engine/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [page-files...]",
	Short: "Run the marker extraction pipeline over normalized pages",
	Long: `Process reads normalized page text (a YAML pages file via --pages, or
plain-text files given as arguments), runs the extraction pipeline against
the configured knowledge snapshot, and writes one catalog YAML per page
into the output directory.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("pages", "", "YAML file with a list of pages (page_number, text, extraction_method)")
	processCmd.Flags().String("out", "catalogs", "output directory for catalog files")
	processCmd.Flags().String("knowledge-db", "", "SQLite knowledge snapshot (overrides config)")
	processCmd.Flags().String("knowledge-seed", "", "YAML knowledge seed (overrides config)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("knowledge-db"); v != "" {
		cfg.Knowledge.SnapshotDB = v
	}
	if v, _ := cmd.Flags().GetString("knowledge-seed"); v != "" {
		cfg.Knowledge.SeedFile = v
	}

	pagesFile, _ := cmd.Flags().GetString("pages")
	pages, err := loadPages(pagesFile, args)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages to process: provide --pages or page files")
	}

	snap, closeSnap, err := knowledge.OpenSnapshot(cfg.Knowledge.SnapshotDB, cfg.Knowledge.SeedFile)
	if err != nil {
		return err
	}
	if closeSnap != nil {
		defer closeSnap()
	}

	outDir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	engine := pipeline.New(snap, cfg.Engine, logger)
	results := engine.ProcessPages(cmd.Context(), pages)

	processed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "failed  page %d: %v\n", r.PageNumber, r.Err)
			failed++
			continue
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("page-%03d-catalog.yaml", r.PageNumber))
		if err := writeCatalog(outPath, r.Catalog); err != nil {
			fmt.Fprintf(os.Stderr, "failed  page %d: write error: %v\n", r.PageNumber, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "processed page %d (%d markers, %d pending lookups)\n",
			r.PageNumber, len(r.Catalog.Markers), len(r.Catalog.PendingPerplexityLookups))
		processed++
	}

	logger.Info("batch complete", zap.Int("processed", processed), zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(pages))
	}
	return nil
}

// pageNumberRe pulls a page number out of a file name like "017.txt" or
// "page-17.txt".
var pageNumberRe = regexp.MustCompile(`(\d+)`)

// loadPages reads page inputs from a YAML pages file or plain-text files.
func loadPages(pagesFile string, args []string) ([]types.PageInput, error) {
	if pagesFile != "" {
		data, err := os.ReadFile(pagesFile)
		if err != nil {
			return nil, fmt.Errorf("reading pages file: %w", err)
		}
		var pages []types.PageInput
		if err := yaml.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("parsing pages file: %w", err)
		}
		return pages, nil
	}

	var pages []types.PageInput
	sorted := append([]string(nil), args...)
	sort.Strings(sorted)
	for i, path := range sorted {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading page %s: %w", path, err)
		}
		number := i + 1
		if m := pageNumberRe.FindString(filepath.Base(path)); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				number = n
			}
		}
		pages = append(pages, types.PageInput{
			PageNumber:       number,
			Text:             string(data),
			ExtractionMethod: "file:" + strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		})
	}
	return pages, nil
}

func writeCatalog(path string, catalog *types.Catalog) error {
	data, err := yaml.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
