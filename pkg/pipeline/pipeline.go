// Package pipeline runs the load → sort → report pipeline shared by the CLI
// and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a dependency document and normalize it into a graph
//  2. Sort: compute the dependency or precedence order, or fail with the
//     complete list of cycles
//  3. Report: cache the order and hand it back, or render the graph
//
// Orders are cached by document hash and mode. Cycle failures are never
// cached, so fixing the document takes effect immediately.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path: "deps.yaml",
//	    Mode: pipeline.ModePrecedence,
//	})
//	if cycles, ok := dsort.CyclesOf[string](err); ok {
//	    // report cycles
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
	pkgio "github.com/matzehuels/depsort/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Ordering modes.
const (
	// ModeDependency lists every node after the nodes it depends on.
	ModeDependency = "dependency"

	// ModePrecedence is the reverse: every node before its dependencies.
	ModePrecedence = "precedence"
)

// Modes lists the accepted ordering modes.
var Modes = []string{ModeDependency, ModePrecedence}

const (
	// DefaultMode is used when Options.Mode is empty.
	DefaultMode = ModeDependency

	// DefaultTTL is how long computed orders stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// MaxDocumentSize bounds documents accepted by the pipeline.
	MaxDocumentSize = 32 << 20
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// Exactly one of Path and Data is required.
type Options struct {
	Path   string       `json:"path,omitempty"`
	Data   []byte       `json:"-"`
	Format pkgio.Format `json:"format,omitempty"` // inferred from Path when empty
	Mode   string       `json:"mode,omitempty"`

	NoCache bool          `json:"no_cache,omitempty"` // skip both cache read and write
	TTL     time.Duration `json:"ttl,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Order is the computed ordering. Empty for cycle-only runs.
	Order []string

	// Graph is the normalized graph. It is nil when Order came from the cache.
	Graph *dsort.Graph[string]

	// Cycles lists every circular dependency. Only cycle runs set it;
	// Execute reports cycles through its error instead.
	Cycles [][]string

	// Hash identifies the document (raw bytes and format).
	Hash string

	// CacheHit reports whether Order or Cycles came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	LoadTime  time.Duration
	SortTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a mode is valid.
func ValidateMode(mode string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidMode, "mode", mode, Modes)
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	switch {
	case o.Path == "" && o.Data == nil:
		return errors.New(errors.ErrCodeInvalidInput, "a document path or document data is required")
	case o.Path != "" && o.Data != nil:
		return errors.New(errors.ErrCodeInvalidInput, "path and data are mutually exclusive")
	case o.Path != "":
		if err := errors.ValidatePath(o.Path); err != nil {
			return err
		}
	}

	if o.Format == "" {
		if o.Path == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "format is required when data is passed directly")
		}
		f, err := pkgio.DetectFormat(o.Path)
		if err != nil {
			return err
		}
		o.Format = f
	} else {
		f, err := pkgio.ParseFormat(string(o.Format))
		if err != nil {
			return err
		}
		o.Format = f
	}

	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	o.validated = true
	return nil
}

// Name returns a display name for the document.
func (o *Options) Name() string {
	if o.Path != "" {
		return o.Path
	}
	return "<" + string(o.Format) + " document>"
}
