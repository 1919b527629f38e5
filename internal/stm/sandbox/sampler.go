package sandbox

import "sync/atomic"

// SamplerConfig configures access-count triggered validation.
type SamplerConfig struct {
	// Enabled turns sampling on. When false ShouldValidate never fires.
	Enabled bool

	// Rate fires validation once every Rate barrier calls.
	// Rate 0 and 1 both mean every call.
	Rate uint64
}

// Sampler counts barrier calls and reports when one should validate.
//
// It uses a single atomic counter shared by all transactions, so the
// calls that validate are spread across whichever goroutines are running.
//
// Thread Safety: all methods are safe for concurrent calls.
type Sampler struct {
	config SamplerConfig
	pos    atomic.Uint64
	stats  samplerStats
}

// SamplerStats tracks how many calls were counted and how many validated.
type SamplerStats struct {
	Calls       uint64
	Validations uint64
}

type samplerStats struct {
	calls       atomic.Uint64
	validations atomic.Uint64
}

// NewSampler creates a Sampler.
func NewSampler(config SamplerConfig) *Sampler {
	if config.Rate == 0 {
		config.Rate = 1
	}
	return &Sampler{config: config}
}

// ShouldValidate counts one barrier call and reports whether it should
// validate.
//
//go:nosplit
func (s *Sampler) ShouldValidate() bool {
	if s == nil || !s.config.Enabled {
		return false
	}
	s.stats.calls.Add(1)
	pos := s.pos.Add(1)
	if pos%s.config.Rate != 0 {
		return false
	}
	s.stats.validations.Add(1)
	return true
}

// Stats returns a copy of the sampling statistics. The counters are
// approximate while transactions are running.
func (s *Sampler) Stats() SamplerStats {
	return SamplerStats{
		Calls:       s.stats.calls.Load(),
		Validations: s.stats.validations.Load(),
	}
}

// Rate returns the effective rate, or 0 when sampling is disabled.
func (s *Sampler) Rate() uint64 {
	if s == nil || !s.config.Enabled {
		return 0
	}
	return s.config.Rate
}
