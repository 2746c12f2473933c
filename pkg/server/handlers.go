package server

import (
	"net/http"

	"github.com/matzehuels/depsort/pkg/buildinfo"
	"github.com/matzehuels/depsort/pkg/httputil"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Build   buildinfo.Info `json:"build"`
}

// OrderResponse is the body of a successful POST /v1/order.
type OrderResponse struct {
	Order  []string `json:"order"`
	Mode   string   `json:"mode"`
	Nodes  int      `json:"nodes"`
	Hash   string   `json:"hash"`
	Cached bool     `json:"cached"`
}

// CyclesResponse is the body of POST /v1/cycles.
type CyclesResponse struct {
	Cycles [][]string `json:"cycles"`
	Hash   string     `json:"hash"`
	Cached bool       `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: info.Version, Build: info})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	opts, err := s.documentOptions(w, r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OrderResponse{
		Order:  res.Order,
		Mode:   opts.Mode,
		Nodes:  res.Stats.NodeCount,
		Hash:   res.Hash,
		Cached: res.CacheHit,
	})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	opts, err := s.documentOptions(w, r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	res, err := s.Runner.Cycles(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CyclesResponse{Cycles: res.Cycles, Hash: res.Hash, Cached: res.CacheHit})
}

var diagramContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.documentOptions(w, r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	q := r.URL.Query()
	ropts := pipeline.RenderOptions{
		Format:      q.Get("output"),
		Detailed:    q.Get("detailed") == "true",
		LeftToRight: q.Get("rankdir") == "LR",
	}
	if ropts.Format == "" {
		ropts.Format = pipeline.FormatSVG
	}

	out, err := s.Runner.Render(r.Context(), opts, ropts)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", diagramContentTypes[ropts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
