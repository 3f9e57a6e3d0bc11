package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowdoc/internal/server"
	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/observability/prom"
)

type serveOpts struct {
	addr        string
	metricsAddr string
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API with the configured store and render cache.

The listen address, timeouts, body limit and backends come from the
config file and FLOWDOC_* environment variables. With --metrics-addr the
Prometheus endpoint moves to its own listener.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "separate listen address for /metrics")
	return cmd
}

// serve runs the API, and optionally a metrics listener, until ctx is
// cancelled or either listener fails.
func (c *CLI) serve(ctx context.Context, opts serveOpts) error {
	cfg := c.cfg.Server
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, cc, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Register()
	}

	srvOpts := server.Options{
		Runner:       runner,
		Store:        st,
		Logger:       c.Logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	if reg != nil && opts.metricsAddr == "" {
		srvOpts.Gatherer = reg
	}
	srv := server.New(srvOpts)

	c.Logger.Info("starting server",
		"addr", cfg.Addr,
		"store", c.cfg.Store.Backend,
		"cache", c.cfg.Cache.Backend,
		"metrics", cfg.Metrics)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg) })
	if reg != nil && opts.metricsAddr != "" {
		g.Go(func() error { return serveMetrics(gctx, opts.metricsAddr, reg, cfg) })
	}
	return g.Wait()
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, cfg config.ServerConfig) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", prom.Handler(reg))
	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
