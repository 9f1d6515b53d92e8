package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/myrho/hovercard/pkg/cache"
	"github.com/myrho/hovercard/pkg/config"
	hcerrors "github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/geom"
	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/place"
	"github.com/myrho/hovercard/pkg/probe"
	"github.com/myrho/hovercard/pkg/render"
)

// serveCommand creates the serve command for the demo server and placement API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		redisAddr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server with the placement API",
		Long: `Run the demo server with the placement API.

The server exposes the placement engine over HTTP:

  GET  /healthz     liveness check
  POST /api/place   compute a placement from reference/viewport/panel boxes
  POST /api/render  render a placement into hovercard markup
  GET  /            interactive demo page

With --redis, computed placements are cached in redis so that a fleet of
demo servers shares one result store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, redisAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file (default: built-in defaults)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the shared placement cache (default: in-process only)")

	return cmd
}

// runServe builds the handler and serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, configPath, redisAddr string) error {
	card := config.Default()
	var err error
	if configPath != "" {
		card, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	store := cache.Cache(cache.NewNullCache())
	if redisAddr != "" {
		store, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
	}
	defer store.Close()

	srv := &server{card: card, store: store, logger: c.Logger}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// Server
// =============================================================================

// server holds the demo server state.
type server struct {
	card   config.Card
	store  cache.Cache
	logger *log.Logger
}

// router assembles the HTTP routes.
func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthzHandler)
	r.Post("/api/place", s.placeHandler)
	r.Post("/api/probe", s.probeHandler)
	r.Post("/api/render", s.renderHandler)
	r.Get("/", s.demoHandler)

	return r
}

func (s *server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// placeRequest is the body of POST /api/place.
type placeRequest struct {
	Reference geom.Box   `json:"reference"`
	Viewport  geom.Box   `json:"viewport"`
	Panel     *geom.Size `json:"panel"`
	Variant   string     `json:"variant,omitempty"`
}

// placeHandler computes a placement for the posted geometry.
func (s *server) placeHandler(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, hcerrors.Wrap(hcerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	card := s.card
	if req.Variant != "" {
		card.Variant = req.Variant
	}
	strategy, err := card.Strategy()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg := card.PlaceConfig()
	cfg.SetDefaults()

	placement, hit, err := s.cachedPlace(r.Context(), strategy, req, cfg)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("placement served", "variant", strategy.Name(), "side", placement.Side, "cache_hit", hit)
	s.writeJSON(w, placement)
}

// cachedPlace serves a placement from the cache when possible. The cache key
// hashes the full request, so a variant or panel change never aliases.
func (s *server) cachedPlace(ctx context.Context, strategy place.Strategy, req placeRequest, cfg place.Config) (place.Placement, bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return place.Placement{}, false, err
	}
	key := cache.PlaceKey(strategy.Name(), body)

	if data, hit, err := s.store.Get(ctx, key); err == nil && hit {
		var p place.Placement
		if json.Unmarshal(data, &p) == nil {
			return p, true, nil
		}
		_ = s.store.Delete(ctx, key)
	}

	var panel geom.Size
	measured := req.Panel != nil
	if measured {
		panel = *req.Panel
	}
	p := strategy.Place(req.Reference, req.Viewport, panel, measured, cfg)

	if data, err := json.Marshal(p); err == nil {
		_ = s.store.Set(ctx, key, data, time.Minute)
	}
	return p, false, nil
}

// probeRequest is the body of POST /api/probe.
type probeRequest struct {
	URL       string `json:"url"`
	ElementID string `json:"element_id"`
}

// probeHandler measures an element on a live page and returns the snapshot.
// Probe results go through the shared cache, so repeated probes of one page
// do not each pay for a browser round-trip.
func (s *server) probeHandler(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, hcerrors.Wrap(hcerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.URL == "" || req.ElementID == "" {
		s.writeError(w, http.StatusBadRequest, hcerrors.New(hcerrors.ErrCodeInvalidInput, "url and element_id are required"))
		return
	}

	browser, err := probe.NewBrowser(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, hcerrors.Wrap(hcerrors.ErrCodeProbe, err, "start browser"))
		return
	}
	defer browser.Close()

	prober := probe.NewCached(browser, s.store, req.URL, 0)
	snap, err := measure.Acquire(r.Context(), prober, req.ElementID)
	if err != nil {
		if hcerrors.Is(err, hcerrors.ErrCodeElementNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, snap)
}

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	Placement place.Placement `json:"placement"`
	Content   string          `json:"content"`
}

// renderHandler turns a placement into hovercard markup.
func (s *server) renderHandler(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, hcerrors.Wrap(hcerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	style := s.card.RenderStyle()
	style.SetDefaults()

	markup := render.Card(req.Placement, style, s.card.TickLength, req.Content)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

// demoHandler serves the interactive demo page.
func (s *server) demoHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(demoPage))
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error": hcerrors.UserMessage(err),
		"code":  string(hcerrors.GetCode(err)),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// demoPage drives the placement API from the browser: it measures the target
// and the (invisibly mounted) panel with getBoundingClientRect, posts the
// boxes to /api/place, and applies the returned placement. The panel starts
// hidden and stays hidden until the first measured round, and the page
// re-measures on every window resize.
const demoPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>hovercard demo</title>
<style>
  body { font-family: sans-serif; margin: 0; height: 200vh; }
  #target { position: absolute; top: 240px; left: 40%; padding: 1em;
            background: #eef; border: 1px solid #88f; cursor: pointer; }
</style>
</head>
<body>
<div id="target">hover me</div>
<div id="target-hovercard"></div>
<script>
  const target = document.getElementById("target");
  const panel = document.getElementById("target-hovercard");
  panel.style.position = "absolute";
  panel.style.opacity = "0";

  function box(el) {
    const r = el.getBoundingClientRect();
    return {x: r.x, y: r.y, width: r.width, height: r.height};
  }

  async function update() {
    const body = {
      reference: box(target),
      viewport: {x: 0, y: 0, width: window.innerWidth, height: window.innerHeight},
      panel: {width: panel.offsetWidth, height: panel.offsetHeight},
    };
    const res = await fetch("/api/place", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(body),
    });
    const p = await res.json();
    const markup = await (await fetch("/api/render", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({placement: p, content: "<div style='padding:1em'>hovercard</div>"}),
    })).text();
    panel.innerHTML = markup;
    panel.style.opacity = p.visible ? "1" : "0";
  }

  target.addEventListener("mouseenter", update);
  window.addEventListener("resize", update);
</script>
</body>
</html>
`
