// Package market sequences the pass marketplace operations: creating and
// managing pass books, buying passes and redeeming memberships.
//
// Every operation runs inside one storage.Update. Token movements are
// collected in a token.Batch and executed as the last step of that
// transaction, so a failed transfer discards every record write and a
// rejected request never leaves partial effects.
package market

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/config"
	"github.com/bitfsorg/passbook-go/metrics"
	"github.com/bitfsorg/passbook-go/revshare"
	"github.com/bitfsorg/passbook-go/storage"
	"github.com/bitfsorg/passbook-go/token"
)

// Engine is the purchase and lifecycle orchestrator.
type Engine struct {
	store   storage.Store
	deriver *address.Deriver
	tokens  token.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time

	royaltyBPS      uint16
	maxMarketFeeBPS uint16
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRoyalty sets the royalty creators keep once a collectible's primary
// sale has happened.
func WithRoyalty(bps uint16) Option {
	return func(e *Engine) {
		e.royaltyBPS = bps
	}
}

// WithMaxMarketFee caps the market fee a purchase may request.
func WithMaxMarketFee(bps uint16) Option {
	return func(e *Engine) {
		e.maxMarketFeeBPS = bps
	}
}

// New constructs an Engine. The deriver must be the verifier the store was
// opened with.
func New(store storage.Store, deriver *address.Deriver, tokens token.Service, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		deriver:         deriver,
		tokens:          tokens,
		clock:           time.Now,
		maxMarketFeeBPS: revshare.BasisPointsDenominator,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Open builds an Engine from cfg: it derives addresses under cfg.ProgramID
// with secret and opens the configured storage backend.
func Open(cfg config.Config, secret []byte, tokens token.Service, opts ...Option) (*Engine, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	programID, err := address.FromHex(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("market: program id: %w", err)
	}
	deriver, err := address.NewDeriver(programID, secret)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	switch cfg.Backend {
	case config.BackendMemory:
		store = storage.NewMemStore(deriver)
	default:
		if store, err = storage.OpenBoltStore(cfg.DatabasePath(), deriver); err != nil {
			return nil, err
		}
	}

	opts = append([]Option{
		WithRoyalty(cfg.RoyaltyBPS),
		WithMaxMarketFee(cfg.MaxMarketFeeBPS),
	}, opts...)
	return New(store, deriver, tokens, opts...), nil
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}

func (e *Engine) now() int64 {
	return e.clock().Unix()
}

// observe records the outcome and latency of one operation.
func (e *Engine) observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(CategoryOf(err))
	}
	e.metrics.IncrementOperation(operation, outcome)
	e.metrics.ObserveOperationLatency(operation, e.clock().Sub(start))
}
