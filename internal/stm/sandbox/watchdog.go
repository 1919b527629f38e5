package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kolkov/stminst/internal/log"
)

// Validatable is a transaction that can be asked to validate.
type Validatable interface {
	// RequestValidation flags the transaction so that it validates at its
	// next barrier. It must be safe to call from any goroutine.
	RequestValidation()
}

// Config configures a Watchdog.
type Config struct {
	// Interval between validation rounds.
	Interval time.Duration

	// Sampler configures access-count triggered validation for the
	// transactions the watchdog serves.
	Sampler SamplerConfig
}

// DefaultConfig returns the default watchdog configuration.
func DefaultConfig() Config {
	return Config{Interval: 10 * time.Millisecond}
}

// ErrBadInterval is returned by Run for a non-positive interval.
var ErrBadInterval = errors.New("sandbox: watchdog interval must be positive")

// Watchdog periodically requests validation from registered transactions.
//
// Thread Safety: Register and Unregister may be called from any goroutine,
// concurrently with Run.
type Watchdog struct {
	cfg     Config
	sampler *Sampler

	mu      sync.Mutex
	members map[Validatable]struct{}
	rounds  uint64
}

// NewWatchdog creates a Watchdog. It does nothing until Run is called.
func NewWatchdog(cfg Config) *Watchdog {
	return &Watchdog{
		cfg:     cfg,
		sampler: NewSampler(cfg.Sampler),
		members: make(map[Validatable]struct{}),
	}
}

// Sampler returns the access-count sampler shared by the watchdog's
// transactions.
func (w *Watchdog) Sampler() *Sampler { return w.sampler }

// Register adds v to the set of watched transactions.
func (w *Watchdog) Register(v Validatable) {
	w.mu.Lock()
	w.members[v] = struct{}{}
	w.mu.Unlock()
}

// Unregister removes v.
func (w *Watchdog) Unregister(v Validatable) {
	w.mu.Lock()
	delete(w.members, v)
	w.mu.Unlock()
}

// Len returns the number of watched transactions.
func (w *Watchdog) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.members)
}

// Rounds returns the number of completed validation rounds.
func (w *Watchdog) Rounds() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rounds
}

// Tick runs one validation round.
func (w *Watchdog) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for v := range w.members {
		v.RequestValidation()
	}
	w.rounds++
}

// Run ticks every Interval until ctx is done. It returns nil when ctx is
// cancelled.
func (w *Watchdog) Run(ctx context.Context) error {
	if w.cfg.Interval <= 0 {
		return fmt.Errorf("%w: %v", ErrBadInterval, w.cfg.Interval)
	}

	log.InfoS("watchdog started", "interval", w.cfg.Interval, "sample_rate", w.sampler.Rate())
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.InfoS("watchdog stopped", "rounds", w.Rounds())
			return nil
		case <-ticker.C:
			w.Tick()
		}
	}
}
