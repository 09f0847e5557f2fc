// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadSeed reads a snapshot seed from a YAML file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("reading seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parsing seed %s: %w", path, err)
	}
	return seed, nil
}

// OpenSnapshot opens the snapshot named by cfg: the SQLite database when
// SnapshotDB is set, otherwise the YAML seed. The returned closer is nil
// for seed-backed snapshots.
func OpenSnapshot(snapshotDB, seedFile string) (Snapshot, func() error, error) {
	if snapshotDB != "" {
		db, err := OpenSQLiteSnapshot(snapshotDB)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
	if seedFile != "" {
		seed, err := LoadSeed(seedFile)
		if err != nil {
			return nil, nil, err
		}
		return NewMemorySnapshot(seed), nil, nil
	}
	// No source configured: an empty snapshot makes every lookup miss,
	// which degrades extraction to pattern-only evidence.
	return NewMemorySnapshot(Seed{}), nil, nil
}
