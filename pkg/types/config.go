package types

// EngineConfig holds tunables for per-page marker extraction.
type EngineConfig struct {
	// FuzzyThreshold is the minimum similarity for a fuzzy knowledge-base
	// hit (default 0.90).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// ContextWindow is the number of tokens captured on each side of a
	// matched span (default 5).
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// MaxWorkers bounds concurrent page processing in batch mode
	// (default 4). Within a page, extractors always run concurrently.
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`
}

// FuzzyThresholdOrDefault returns the configured threshold or 0.90.
func (c EngineConfig) FuzzyThresholdOrDefault() float64 {
	if c.FuzzyThreshold <= 0 {
		return 0.90
	}
	return c.FuzzyThreshold
}

// ContextWindowOrDefault returns the configured window or 5.
func (c EngineConfig) ContextWindowOrDefault() int {
	if c.ContextWindow <= 0 {
		return 5
	}
	return c.ContextWindow
}

// MaxWorkersOrDefault returns the configured worker bound or 4.
func (c EngineConfig) MaxWorkersOrDefault() int {
	if c.MaxWorkers <= 0 {
		return 4
	}
	return c.MaxWorkers
}

// KnowledgeConfig locates the read-only knowledge snapshot.
type KnowledgeConfig struct {
	// SnapshotDB is the path to a SQLite snapshot database. Takes
	// precedence over SeedFile when both are set.
	SnapshotDB string `json:"snapshot_db,omitempty" yaml:"snapshot_db,omitempty"`

	// SeedFile is the path to a YAML seed holding canonical values and
	// known norms.
	SeedFile string `json:"seed_file,omitempty" yaml:"seed_file,omitempty"`
}

// ResolveConfig holds settings for pending-lookup batch emission.
type ResolveConfig struct {
	// BatchLimit caps the number of lookups per emitted batch (default 50).
	BatchLimit int `json:"batch_limit" yaml:"batch_limit"`
}

// BatchLimitOrDefault returns the configured limit or 50.
func (c ResolveConfig) BatchLimitOrDefault() int {
	if c.BatchLimit <= 0 {
		return 50
	}
	return c.BatchLimit
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Engine    EngineConfig    `json:"engine" yaml:"engine"`
	Knowledge KnowledgeConfig `json:"knowledge" yaml:"knowledge"`
	Resolve   ResolveConfig   `json:"resolve" yaml:"resolve"`
}
