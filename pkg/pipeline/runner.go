package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsort/pkg/cache"
	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// cachedOrder is the cache payload of an ordering.
type cachedOrder struct {
	Order []string `json:"order"`
	Nodes int      `json:"nodes"`
	Edges int      `json:"edges"`
}

// cachedCycles is the cache payload of a cycle report.
type cachedCycles struct {
	Cycles [][]string `json:"cycles"`
}

// Execute orders the document described by opts.
//
// A cyclic document fails with a coded CYCLIC_DEPENDENCY error wrapping
// *dsort.CyclicDependencyError[string]; extract the cycles with
// dsort.CyclesOf[string]. Malformed documents fail with INVALID_SHAPE.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	data, err := r.readDocument(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Hash: documentHash(data, opts.Format)}

	cacheKey := r.Keyer.OrderKey(result.Hash, opts.Mode)
	if !opts.NoCache {
		var cached cachedOrder
		if r.cacheGet(ctx, cacheKey, "order", &cached) {
			result.Order = cached.Order
			result.CacheHit = true
			result.Stats.NodeCount = cached.Nodes
			result.Stats.EdgeCount = cached.Edges
			logger.Debug("order from cache", "document", opts.Name(), "nodes", cached.Nodes)
			return result, nil
		}
	}

	g, err := r.load(ctx, data, opts, result)
	if err != nil {
		return nil, err
	}

	// Stage 2: Sort
	hooks := observability.Pipeline()
	hooks.OnSortStart(ctx, opts.Mode, g.Len())
	sortStart := time.Now()
	order, err := dsort.Sort(g)
	result.Stats.SortTime = time.Since(sortStart)
	if err != nil {
		cycles, _ := dsort.CyclesOf[string](err)
		hooks.OnSortComplete(ctx, opts.Mode, len(cycles), result.Stats.SortTime, err)
		logger.Warn("cyclic dependencies", "document", opts.Name(), "cycles", len(cycles))
		return nil, errors.Wrap(errors.ErrCodeCyclicDependency, err, "cannot order %s", opts.Name())
	}
	if opts.Mode == ModePrecedence {
		slices.Reverse(order)
	}
	hooks.OnSortComplete(ctx, opts.Mode, 0, result.Stats.SortTime, nil)
	result.Order = order

	logger.Info("sorted dependencies",
		"mode", opts.Mode,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.SortTime)

	if !opts.NoCache {
		r.cacheSet(ctx, cacheKey, "order", cachedOrder{
			Order: order,
			Nodes: result.Stats.NodeCount,
			Edges: result.Stats.EdgeCount,
		}, opts.TTL)
	}
	return result, nil
}

// Cycles reports every circular dependency of the document without
// failing on them. An acyclic document yields an empty Cycles list.
func (r *Runner) Cycles(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := r.readDocument(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Hash: documentHash(data, opts.Format)}

	cacheKey := r.Keyer.CyclesKey(result.Hash)
	if !opts.NoCache {
		var cached cachedCycles
		if r.cacheGet(ctx, cacheKey, "cycles", &cached) {
			result.Cycles = cached.Cycles
			result.CacheHit = true
			return result, nil
		}
	}

	g, err := r.load(ctx, data, opts, result)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result.Cycles = dsort.Cycles(g)
	result.Stats.SortTime = time.Since(start)
	if result.Cycles == nil {
		result.Cycles = [][]string{}
	}

	if !opts.NoCache {
		r.cacheSet(ctx, cacheKey, "cycles", cachedCycles{Cycles: result.Cycles}, opts.TTL)
	}
	return result, nil
}

// Load reads and normalizes the document without sorting it.
func (r *Runner) Load(ctx context.Context, opts Options) (*dsort.Graph[string], error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	data, err := r.readDocument(opts)
	if err != nil {
		return nil, err
	}
	return r.load(ctx, data, opts, &Result{})
}

// load decodes and normalizes data, filling the graph statistics of result.
func (r *Runner) load(ctx context.Context, data []byte, opts Options, result *Result) (*dsort.Graph[string], error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, string(opts.Format), len(data))
	start := time.Now()

	g, err := decode(data, opts)
	result.Stats.LoadTime = time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, string(opts.Format), 0, 0, result.Stats.LoadTime, err)
		return nil, err
	}

	result.Graph = g
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()
	hooks.OnLoadComplete(ctx, string(opts.Format), g.Len(), g.EdgeCount(), result.Stats.LoadTime, nil)

	r.logger(opts).Debug("loaded document",
		"document", opts.Name(),
		"format", opts.Format,
		"nodes", g.Len(),
		"edges", g.EdgeCount())
	return g, nil
}

func decode(data []byte, opts Options) (*dsort.Graph[string], error) {
	in, err := pkgio.Decode(data, opts.Format)
	if err != nil {
		return nil, classifyDecodeError(err, opts)
	}
	g, err := dsort.Normalize(in)
	if err != nil {
		return nil, classifyDecodeError(err, opts)
	}
	return g, nil
}

func classifyDecodeError(err error, opts Options) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, dsort.ErrInputShape):
		return errors.Wrap(errors.ErrCodeInvalidShape, err, "malformed %s", opts.Name())
	default:
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot parse %s", opts.Name())
	}
}

func (r *Runner) readDocument(opts Options) ([]byte, error) {
	if opts.Path == "" {
		if len(opts.Data) > MaxDocumentSize {
			return nil, errors.New(errors.ErrCodeInvalidInput, "document exceeds %d bytes", MaxDocumentSize)
		}
		return opts.Data, nil
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Path)
		}
		return nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Path, err)
	}
	if len(data) > MaxDocumentSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", opts.Path, MaxDocumentSize)
	}
	return data, nil
}

// cacheGet decodes a cached payload into v. Backend failures and corrupt
// payloads count as misses: the cache never makes a run fail.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) cacheSet(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// documentHash identifies a document by format and content; the same bytes
// parse differently as JSON and YAML.
func documentHash(data []byte, f pkgio.Format) string {
	buf := make([]byte, 0, len(f)+1+len(data))
	buf = append(buf, string(f)...)
	buf = append(buf, 0)
	buf = append(buf, data...)
	return cache.Hash(buf)
}
