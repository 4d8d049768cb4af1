package chain

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Prober answers whether the security scanner knows a contract on a
// given network. Implemented by the scanner provider; mocked in tests.
type Prober interface {
	Probe(ctx context.Context, c Chain, address string) (bool, error)
}

// KnownChains resolves an address to a chain without any network call.
// Implemented by the curated allow-list tables.
type KnownChains interface {
	ChainOf(address string) (string, bool)
}

// Detector resolves which EVM network an address lives on.
type Detector struct {
	known      KnownChains
	prober     Prober
	probeLimit time.Duration // per-probe budget
	totalLimit time.Duration // overall detection budget
}

func NewDetector(known KnownChains, prober Prober) *Detector {
	return &Detector{
		known:      known,
		prober:     prober,
		probeLimit: 3 * time.Second,
		totalLimit: 12 * time.Second,
	}
}

// Detect returns the network an EVM address lives on. Allow-listed
// addresses resolve instantly; everything else is probed in the fixed
// EVM order, short-circuiting on the first hit. Every probe gets its own
// deadline so one hung provider cannot stall the rest, and the whole
// detection is bounded by totalLimit. When all probes fail the primary
// chain is assumed.
func (d *Detector) Detect(ctx context.Context, address string) Chain {
	if d.known != nil {
		if id, ok := d.known.ChainOf(Normalize(address)); ok {
			if c, ok := ByID(id); ok {
				return c
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.totalLimit)
	defer cancel()

	for _, c := range EVMProbeOrder {
		if ctx.Err() != nil {
			break
		}
		probeCtx, probeCancel := context.WithTimeout(ctx, d.probeLimit)
		found, err := d.prober.Probe(probeCtx, c, address)
		probeCancel()
		if err != nil {
			log.Debug().Err(err).Str("chain", c.ID).Str("address", address).Msg("chain probe failed")
			continue
		}
		if found {
			return c
		}
	}

	log.Debug().Str("address", address).Str("fallback", Default.ID).Msg("chain detection exhausted, assuming primary chain")
	return Default
}
