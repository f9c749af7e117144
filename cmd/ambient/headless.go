package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/ambient"
)

const shutdownTimeout = 5 * time.Second

type headlessOptions struct {
	metricsAddr string
	duration    time.Duration
	interval    time.Duration
	burstEvery  time.Duration
}

func newHeadlessCmd(a *app) *cobra.Command {
	var o headlessOptions
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without a display",
		Long: `headless runs the frame loop on a wall-clock ticker with no renderer,
spawning bursts at random points, and optionally serves Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			_, err := a.runHeadless(ctx, o)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.DurationVar(&o.duration, "duration", 0, "stop after this long; 0 runs until interrupted")
	f.DurationVar(&o.interval, "interval", 16*time.Millisecond, "frame interval")
	f.DurationVar(&o.burstEvery, "burst-every", time.Second, "spawn a burst at a random point this often; 0 disables")
	return cmd
}

// runHeadless drives an engine until ctx ends or o.duration passes, serving
// metrics alongside when o.metricsAddr is set. It returns the final stats.
func (a *app) runHeadless(ctx context.Context, o headlessOptions) (ambient.Stats, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	world, overlay := ambient.NewLayer(), ambient.NewLayer()
	e, err := a.newEngine(world, overlay, ambient.NewMetricsWith(reg))
	if err != nil {
		return ambient.Stats{}, err
	}
	defer e.Close()

	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}
	if o.burstEvery > 0 {
		e.Scheduler().Every(o.burstEvery, func() bool {
			cfg := e.Config()
			x := e.Rand().Float64() * float64(cfg.Width)
			y := e.Rand().Float64() * float64(cfg.Height)
			if _, err := e.Spawn(x, y, cfg.BurstCount); err != nil {
				a.log.Warn("burst rejected", zap.Error(err))
			}
			return true
		})
	}

	reload := a.watch()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("headless loop started", zap.Duration("interval", o.interval))
		return e.Scheduler().Run(gctx, o.interval, func(dt time.Duration) {
			reload.apply(e)
			e.Update(dt)
		})
	})

	if o.metricsAddr != "" {
		srv := &http.Server{
			Addr:              o.metricsAddr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.log.Info("serving metrics", zap.String("addr", o.metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve metrics on %s", o.metricsAddr)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	stats := e.Stats()
	a.log.Info("headless loop stopped",
		zap.Uint64("frames", stats.Frame),
		zap.Duration("sim_time", stats.Now),
		zap.Int("particles", stats.LiveParticles),
		zap.Int("rebinds", stats.Rebinds),
	)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return stats, err
}

// metricsHandler serves reg in the Prometheus text format.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
