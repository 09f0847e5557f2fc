// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates per-page marker extraction: classify the
// page, fan the category extractors out, detect and resolve norm
// references, attach context, deduplicate, and assemble the catalog.
// Processing a page is a pure function of (text, metadata, snapshot);
// pages share no state and may run fully in parallel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stavtech/marker-engine/internal/analyze"
	"github.com/stavtech/marker-engine/internal/classify"
	"github.com/stavtech/marker-engine/internal/dedupe"
	"github.com/stavtech/marker-engine/internal/extract"
	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/internal/resolve"
	"github.com/stavtech/marker-engine/internal/tables"
	"github.com/stavtech/marker-engine/pkg/types"
)

// ErrInvalidPage marks the only page-fatal failure: structurally invalid
// input (empty or undecodable text). Everything else degrades into quality
// flags; a failed page never produces a partial catalog.
var ErrInvalidPage = errors.New("invalid page input")

// Engine runs the extraction pipeline against one knowledge snapshot. The
// snapshot is borrowed read-only for the duration of a batch; swapping in
// a refreshed snapshot means building a new Engine.
type Engine struct {
	snapshot   knowledge.Snapshot
	cfg        types.EngineConfig
	logger     *zap.Logger
	extractors []extract.Extractor
}

// New builds an Engine. A nil logger disables logging.
func New(snap knowledge.Snapshot, cfg types.EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		snapshot:   snap,
		cfg:        cfg,
		logger:     logger,
		extractors: extract.All(),
	}
}

// ProcessPage converts one normalized page into a marker catalog.
func (e *Engine) ProcessPage(ctx context.Context, in types.PageInput) (*types.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("page %d: empty text: %w", in.PageNumber, ErrInvalidPage)
	}
	if !utf8.ValidString(in.Text) {
		return nil, fmt.Errorf("page %d: undecodable text: %w", in.PageNumber, ErrInvalidPage)
	}

	page := extract.NewPage(in.Text, e.snapshot, e.cfg.FuzzyThresholdOrDefault())
	pageType := classify.Page(in.Text, len(in.TableRegions))

	// Category extractors fan out concurrently; Run joins them. Norm
	// detection runs on the same page view but outside the overlap
	// resolution, because detection is deliberately category-agnostic.
	result := extract.Run(e.extractors, page)
	cands := append(result.Candidates, extract.DetectNorms(page)...)

	analyze.Analyze(page, cands, e.cfg.ContextWindowOrDefault())

	raw := make([]types.Marker, len(cands))
	for i, c := range cands {
		raw[i] = c.Marker
	}

	resolve.Classify(raw, e.snapshot)
	ded := dedupe.Markers(raw)

	annotations := extract.ExtractAnnotations(in.Text)
	for i := range annotations {
		annotations[i].RelatedElements = analyze.Domains(annotations[i].Text)
	}

	pending := resolve.PendingLookups(ded.Markers)

	catalog := &types.Catalog{
		PageMetadata: types.PageMetadata{
			PageNumber:       in.PageNumber,
			ExtractionMethod: in.ExtractionMethod,
			PageType:         pageType,
		},
		Markers:                  ded.Markers,
		Tables:                   tables.Parse(in.TableRegions),
		Annotations:              annotations,
		PendingPerplexityLookups: pending,
		Statistics:               computeStatistics(len(raw), ded.Markers),
		QualityFlags:             computeQualityFlags(result, ded, pending),
	}

	e.logger.Debug("page processed",
		zap.Int("page", in.PageNumber),
		zap.String("page_type", string(pageType)),
		zap.Int("raw_candidates", len(raw)),
		zap.Int("markers", len(ded.Markers)),
		zap.Int("pending_lookups", len(pending)),
	)

	return catalog, nil
}

// PageResult pairs a page with its catalog or its error.
type PageResult struct {
	PageNumber int
	Catalog    *types.Catalog
	Err        error
}

// ProcessPages runs pages through a bounded worker pool. Results come back
// in input order; a failed page carries its error and never blocks the
// others.
func (e *Engine) ProcessPages(ctx context.Context, pages []types.PageInput) []PageResult {
	results := make([]PageResult, len(pages))

	sem := make(chan struct{}, e.cfg.MaxWorkersOrDefault())
	var wg sync.WaitGroup

	for i, in := range pages {
		wg.Add(1)
		go func(i int, in types.PageInput) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			catalog, err := e.ProcessPage(ctx, in)
			results[i] = PageResult{PageNumber: in.PageNumber, Catalog: catalog, Err: err}
		}(i, in)
	}

	wg.Wait()
	return results
}
