// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/pkg/types"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect the knowledge snapshot",
}

var knowledgeLookupCmd = &cobra.Command{
	Use:   "lookup <category> <value>",
	Short: "Resolve a value against the snapshot's canonical set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, closeSnap, err := openConfiguredSnapshot(cmd)
		if err != nil {
			return err
		}
		if closeSnap != nil {
			defer closeSnap()
		}

		cfg, err := loadPipelineConfig()
		if err != nil {
			return err
		}

		m, ok := snap.Lookup(types.MarkerCategory(args[0]), args[1], cfg.Engine.FuzzyThresholdOrDefault())
		if !ok {
			fmt.Fprintf(os.Stdout, "no match for %s %q\n", args[0], args[1])
			return nil
		}
		fmt.Fprintf(os.Stdout, "%s (similarity %.2f)\n", m.Canonical, m.Similarity)
		return nil
	},
}

var knowledgeNormCmd = &cobra.Command{
	Use:   "norm <designation> [section]",
	Short: "Resolve a norm designation against the snapshot",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, closeSnap, err := openConfiguredSnapshot(cmd)
		if err != nil {
			return err
		}
		if closeSnap != nil {
			defer closeSnap()
		}

		section := ""
		if len(args) == 2 {
			section = args[1]
		}
		nm, ok := snap.LookupNorm(args[0], section)
		if !ok {
			fmt.Fprintf(os.Stdout, "unknown norm %q: external lookup required\n", args[0])
			return nil
		}
		fmt.Fprintf(os.Stdout, "%s", nm.Designation)
		if nm.FullName != "" {
			fmt.Fprintf(os.Stdout, ": %s", nm.FullName)
		}
		if nm.Country != "" {
			fmt.Fprintf(os.Stdout, " (%s)", nm.Country)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

func init() {
	knowledgeCmd.PersistentFlags().String("knowledge-db", "", "SQLite knowledge snapshot (overrides config)")
	knowledgeCmd.PersistentFlags().String("knowledge-seed", "", "YAML knowledge seed (overrides config)")

	knowledgeCmd.AddCommand(knowledgeLookupCmd)
	knowledgeCmd.AddCommand(knowledgeNormCmd)
	rootCmd.AddCommand(knowledgeCmd)
}

func openConfiguredSnapshot(cmd *cobra.Command) (knowledge.Snapshot, func() error, error) {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return nil, nil, err
	}
	if v, _ := cmd.Flags().GetString("knowledge-db"); v != "" {
		cfg.Knowledge.SnapshotDB = v
	}
	if v, _ := cmd.Flags().GetString("knowledge-seed"); v != "" {
		cfg.Knowledge.SeedFile = v
	}
	return knowledge.OpenSnapshot(cfg.Knowledge.SnapshotDB, cfg.Knowledge.SeedFile)
}
