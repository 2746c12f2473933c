package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/observability"
)

const rubyDoc = "dsort: [ruby, rspec]\nruby: C\nrspec: ruby\n"

const cyclicDoc = `{"1": [2], "2": [3, 4], "3": [2], "4": [5, 6], "5": [4], "6": [4]}`

// memCache is an in-memory cache.Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c *memCache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"dependency", false},
		{"precedence", false},
		{"Dependency", true}, // case-sensitive
		{"reverse", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMode(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"path and data", Options{Path: "a.json", Data: []byte("{}")}, errors.ErrCodeInvalidInput},
		{"data without format", Options{Data: []byte("{}")}, errors.ErrCodeInvalidFormat},
		{"unknown extension", Options{Path: "deps.txt"}, errors.ErrCodeInvalidFormat},
		{"bad format", Options{Data: []byte("{}"), Format: "xml"}, errors.ErrCodeInvalidFormat},
		{"bad mode", Options{Data: []byte("{}"), Format: "json", Mode: "sideways"}, errors.ErrCodeInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}

	opts := Options{Path: "deps/tasks.yml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != pkgio.FormatYAML || opts.Mode != DefaultMode || opts.TTL != DefaultTTL {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestExecuteOrders(t *testing.T) {
	r := quietRunner(newMemCache())
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Data: []byte(rubyDoc), Format: "yaml"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"C", "ruby", "rspec", "dsort"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("dependency order = %v, want %v", res.Order, want)
	}
	if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Graph == nil || res.Hash == "" {
		t.Error("graph and hash should be set")
	}

	res, err = r.Execute(ctx, Options{Data: []byte(rubyDoc), Format: "yaml", Mode: ModePrecedence})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"dsort", "rspec", "ruby", "C"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("precedence order = %v, want %v", res.Order, want)
	}
}

func TestExecuteCaches(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()
	opts := Options{Data: []byte(rubyDoc), Format: "yaml"}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if !reflect.DeepEqual(first.Order, second.Order) {
		t.Errorf("cached order = %v, want %v", second.Order, first.Order)
	}
	if second.Stats.NodeCount != first.Stats.NodeCount {
		t.Errorf("cached node count = %d", second.Stats.NodeCount)
	}

	// Modes are cached separately.
	prec, err := r.Execute(ctx, Options{Data: []byte(rubyDoc), Format: "yaml", Mode: ModePrecedence})
	if err != nil {
		t.Fatal(err)
	}
	if prec.CacheHit {
		t.Error("precedence run should not reuse the dependency order")
	}

	// NoCache neither reads nor writes.
	sets := c.sets
	res, err := r.Execute(ctx, Options{Data: []byte(rubyDoc), Format: "yaml", NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || c.sets != sets {
		t.Errorf("NoCache run touched the cache (hit %v, sets %d -> %d)", res.CacheHit, sets, c.sets)
	}
}

func TestExecuteCycles(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)

	_, err := r.Execute(context.Background(), Options{Data: []byte(cyclicDoc), Format: "json"})
	if !errors.Is(err, errors.ErrCodeCyclicDependency) {
		t.Fatalf("error = %v, want CYCLIC_DEPENDENCY", err)
	}
	cycles, ok := dsort.CyclesOf[string](err)
	if !ok {
		t.Fatalf("cycles not reachable from %v", err)
	}
	want := [][]string{{"2", "3"}, {"4", "5", "6"}}
	if !reflect.DeepEqual(cycles, want) {
		t.Errorf("cycles = %v, want %v", cycles, want)
	}
	if c.sets != 0 {
		t.Error("cycle failures must not be cached")
	}
}

func TestExecuteInputErrors(t *testing.T) {
	r := quietRunner(newMemCache())
	ctx := context.Background()

	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"shape", Options{Data: []byte(`[["a", "b", "c"]]`), Format: "json"}, errors.ErrCodeInvalidShape},
		{"syntax", Options{Data: []byte(`{"a": `), Format: "json"}, errors.ErrCodeInvalidInput},
		{"empty node", Options{Data: []byte(`{"": "b"}`), Format: "json"}, errors.ErrCodeInvalidShape},
		{"missing file", Options{Path: filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.toml")
	if err := os.WriteFile(path, []byte("[dependencies]\napp = [\"lib\"]\nlib = \"log\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := quietRunner(newMemCache()).Execute(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"log", "lib", "app"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("order = %v, want %v", res.Order, want)
	}
}

func TestRunnerCycles(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()

	res, err := r.Cycles(ctx, Options{Data: []byte(rubyDoc), Format: "yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cycles == nil || len(res.Cycles) != 0 {
		t.Errorf("acyclic document cycles = %#v, want empty", res.Cycles)
	}

	opts := Options{Data: []byte(cyclicDoc), Format: "json"}
	res, err = r.Cycles(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Cycles) != 2 || len(res.Cycles[0]) != 2 {
		t.Errorf("cycles = %v", res.Cycles)
	}

	again, err := r.Cycles(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || !reflect.DeepEqual(again.Cycles, res.Cycles) {
		t.Errorf("cached cycles = %v (hit %v)", again.Cycles, again.CacheHit)
	}
}

func TestRenderDOT(t *testing.T) {
	r := quietRunner(newMemCache())
	out, err := r.Render(context.Background(), Options{Data: []byte(cyclicDoc), Format: "json"}, RenderOptions{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dot := string(out)
	if !strings.HasPrefix(dot, "digraph G {") || !strings.Contains(dot, `"2" -> "3"`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}

	_, err = r.Render(context.Background(), Options{Data: []byte(cyclicDoc), Format: "json"}, RenderOptions{Format: "pdf"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string, int) { h.record("load") }
func (h *recordingHooks) OnSortComplete(_ context.Context, _ string, cycles int, _ time.Duration, err error) {
	if err != nil {
		h.record("sort-failed")
		return
	}
	h.record("sorted")
}
func (h *recordingHooks) OnCacheHit(context.Context, string)  { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string) { h.record("miss") }

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := quietRunner(newMemCache())
	ctx := context.Background()
	opts := Options{Data: []byte(rubyDoc), Format: "yaml"}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	_, _ = r.Execute(ctx, Options{Data: []byte(cyclicDoc), Format: "json"})

	want := []string{"miss", "load", "sorted", "hit", "miss", "load", "sort-failed"}
	if !reflect.DeepEqual(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
