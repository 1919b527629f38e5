package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/stminst/internal/log"
	"github.com/kolkov/stminst/internal/stm/orec"
	"github.com/kolkov/stminst/internal/stm/sandbox"
)

// maxOps keeps the float32 counter exact.
const maxOps = 1 << 24

type runOptions struct {
	workers          int
	iterations       int
	tableBits        uint
	cancelEvery      int
	watchdogInterval time.Duration
	sampleRate       uint64
	metricsAddr      string
}

func defaultRunOptions() runOptions {
	return runOptions{
		workers:     runtime.GOMAXPROCS(0),
		iterations:  10000,
		tableBits:   orec.DefaultConfig().TableBits,
		cancelEvery: 10,
	}
}

func (o runOptions) validate() error {
	switch {
	case o.workers < 1:
		return fmt.Errorf("--workers must be at least 1, got %d", o.workers)
	case o.iterations < 1:
		return fmt.Errorf("--iterations must be at least 1, got %d", o.iterations)
	case o.tableBits < 1 || o.tableBits > 30:
		return fmt.Errorf("--table-bits must be in [1, 30], got %d", o.tableBits)
	case o.workers*o.iterations > maxOps:
		return fmt.Errorf("workers*iterations must not exceed %d", maxOps)
	case o.cancelEvery < 0:
		return fmt.Errorf("--cancel-every must not be negative, got %d", o.cancelEvery)
	}
	return nil
}

func newRunCommand() *cobra.Command {
	opts := defaultRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the counter workload and verify the result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := runBench(cmd.Context(), opts)
			if res != nil {
				res.print(cmd.OutOrStdout())
			}
			return err
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.workers, "workers", "w", opts.workers, "number of concurrent workers")
	f.IntVarP(&opts.iterations, "iterations", "n", opts.iterations, "transactions per worker")
	f.UintVar(&opts.tableBits, "table-bits", opts.tableBits, "log2 of the number of ownership records")
	f.IntVar(&opts.cancelEvery, "cancel-every", opts.cancelEvery, "run a cancelled nested scope every N transactions (0 disables)")
	f.DurationVar(&opts.watchdogInterval, "watchdog-interval", 0, "validation watchdog interval (0 disables the watchdog)")
	f.Uint64Var(&opts.sampleRate, "sample-rate", 0, "validate every N barrier calls when the watchdog is enabled (0 disables)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	return cmd
}

type result struct {
	ops     uint64
	elapsed time.Duration
	stats   orec.Stats
}

func (r *result) print(w io.Writer) {
	rate := float64(r.ops) / r.elapsed.Seconds()
	fmt.Fprintf(w, "transactions: %d in %s (%.0f tx/s)\n", r.ops, r.elapsed.Round(time.Microsecond), rate)
	fmt.Fprintf(w, "commits:      rw=%d ro=%d\n", r.stats.CommitsRW, r.stats.CommitsRO)
	fmt.Fprintf(w, "aborts:       %d %v\n", r.stats.TotalAborts(), r.stats.Aborts)
	fmt.Fprintf(w, "scopes:       cancelled=%d\n", r.stats.ScopeCancels)
	fmt.Fprintf(w, "validations:  %d (extensions=%d)\n", r.stats.Validations, r.stats.Extensions)
}

// runBench runs the workload. The result is returned even when
// verification fails.
func runBench(ctx context.Context, opts runOptions) (*result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := orec.DefaultConfig()
	cfg.TableBits = opts.tableBits
	if opts.watchdogInterval > 0 {
		cfg.Watchdog = sandbox.NewWatchdog(sandbox.Config{
			Interval: opts.watchdogInterval,
			Sampler:  sandbox.SamplerConfig{Enabled: opts.sampleRate > 0, Rate: opts.sampleRate},
		})
	}
	s := orec.New(cfg)

	bg, bgCtx := errgroup.WithContext(ctx)
	if cfg.Watchdog != nil {
		bg.Go(func() error { return cfg.Watchdog.Run(bgCtx) })
	}
	if opts.metricsAddr != "" {
		bg.Go(func() error { return serveMetrics(bgCtx, opts.metricsAddr, s) })
	}

	log.InfoS("starting workload", "workers", opts.workers, "iterations", opts.iterations)

	c := &counters{}
	start := time.Now()
	// A failing background service stops the workers.
	workers, wctx := errgroup.WithContext(bgCtx)
	for range opts.workers {
		workers.Go(func() error { return work(wctx, s, c, opts) })
	}
	werr := workers.Wait()
	elapsed := time.Since(start)

	cancel()
	if err := bg.Wait(); err != nil {
		return nil, err
	}
	if werr != nil {
		return nil, werr
	}

	ops := uint64(opts.workers * opts.iterations)
	res := &result{ops: ops, elapsed: elapsed, stats: s.Stats()}
	if err := c.verify(ops); err != nil {
		log.ErrorS("workload verification failed", "err", err)
		return res, fmt.Errorf("verification failed: %w", err)
	}
	log.InfoS("workload verified", "transactions", ops, "elapsed", elapsed)
	return res, nil
}

func work(ctx context.Context, s *orec.STM, c *counters, opts runOptions) error {
	for i := range opts.iterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		cancelScope := opts.cancelEvery > 0 && i%opts.cancelEvery == 0
		err := s.Atomically(func(tx *orec.Tx) error {
			c.increment(tx)
			if !cancelScope {
				return nil
			}
			err := tx.Nested(0, func(tx *orec.Tx) error {
				c.increment(tx)
				tx.Cancel()
				return nil
			})
			if !errors.Is(err, orec.ErrCancelled) {
				return fmt.Errorf("nested scope: expected cancellation, got %v", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// serveMetrics serves the STM's counters until ctx is done.
func serveMetrics(ctx context.Context, addr string, s *orec.STM) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(orec.NewCollector("stmbench", s)); err != nil {
		return fmt.Errorf("registering collector: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.InfoS("serving metrics", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		<-errc
		return nil
	}
}
