package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boxlogic/stowplan/pkg/cache"
	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/observability"
	"github.com/boxlogic/stowplan/pkg/packer"
	"github.com/boxlogic/stowplan/pkg/scene"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Packer is the remote service client; nil means no remote packing
	// and every run uses the shelf layout (unless positions are
	// supplied directly).
	Packer *packer.Client
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pack → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Pack
	packStart := time.Now()
	observability.Pipeline().OnPackStart(ctx, len(opts.Items))
	resp, packHit, err := r.pack(ctx, opts)
	containers := 0
	if resp != nil {
		containers = resp.NumContainers
	}
	observability.Pipeline().OnPackComplete(ctx, len(opts.Items), containers, time.Since(packStart), err)
	if err != nil {
		return nil, err
	}
	result.Response = resp
	result.Stats.PackTime = time.Since(packStart)
	result.CacheInfo.PackHit = packHit

	packed := selectPacked(opts, resp)
	if resp != nil {
		// Index 0 with an empty result list falls through to the shelf
		// layout instead of failing.
		if opts.ContainerIndex > 0 && opts.ContainerIndex >= len(resp.Results) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"container index %d out of range (%d containers)",
				opts.ContainerIndex, len(resp.Results))
		}
		r.Logger.Info("received packing result",
			"containers", resp.NumContainers,
			"items", len(packed),
			"cached", packHit,
			"duration", result.Stats.PackTime)
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(opts.Items))
	sc := buildScene(opts, packed)
	result.Scene = sc
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, sc.Diagnostics.Interpretation,
		len(sc.Solids), sc.Diagnostics.Dropped, result.Stats.LayoutTime)
	result.Stats.Solids = len(sc.Solids)
	result.Stats.Dropped = sc.Diagnostics.Dropped
	result.Utilization = r.utilizationFor(opts, resp, sc)

	r.Logger.Info("built scene",
		"solids", len(sc.Solids),
		"reading", sc.Diagnostics.Interpretation,
		"fallback", sc.Diagnostics.UsedFallback,
		"dropped", sc.Diagnostics.Dropped,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, sc, result.Utilization, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// pack obtains a packing response from the remote service, or nil when
// the pipeline should lay out the items itself.
func (r *Runner) pack(ctx context.Context, opts Options) (*packer.PlanResponse, bool, error) {
	if len(opts.Packed) > 0 || r.Packer == nil {
		return nil, false, nil
	}
	return r.Packer.Plan(ctx, opts.Container, opts.Items, opts.planOptions())
}

// utilizationFor prefers the service-reported figure and falls back to
// computing one from the scene.
func (r *Runner) utilizationFor(opts Options, resp *packer.PlanResponse, sc scene.Scene) string {
	if resp != nil && opts.ContainerIndex < len(resp.Results) {
		if u := resp.Results[opts.ContainerIndex].Utilization; u != "" {
			return u
		}
	}
	return utilization(opts.Container, sc)
}

// renderWithCacheInfo renders artifacts with caching and reports
// whether every format came from cache.
func (r *Runner) renderWithCacheInfo(ctx context.Context, sc scene.Scene, util string, opts Options) (map[string][]byte, bool, error) {
	sceneData, err := json.Marshal(sc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene for cache key")
	}
	extra := fmt.Sprintf("|%s|%s|%t|%t", util, opts.PlanName, opts.Compact, opts.SideView)
	sceneHash := cache.Hash(append(sceneData, extra...))

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		key := r.Keyer.SceneKey(sceneHash, r.sceneKeyOpts(opts, format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := renderScene(sc, util, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.SceneKey(sceneHash, r.sceneKeyOpts(opts, format))
		_ = r.Cache.Set(ctx, key, data, TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

func (r *Runner) sceneKeyOpts(opts Options, format string) cache.SceneKeyOpts {
	labels := opts.Labels
	if format == FormatJSON {
		// JSON output always carries names; labels only affect SVG.
		labels = false
	}
	return cache.SceneKeyOpts{Format: format, Labels: labels}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
