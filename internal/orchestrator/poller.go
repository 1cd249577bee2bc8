package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/thirdweb-dev/blob-indexer/internal/decoder"
	"github.com/thirdweb-dev/blob-indexer/internal/metrics"
	"github.com/thirdweb-dev/blob-indexer/internal/publisher"
	"github.com/thirdweb-dev/blob-indexer/internal/rpc"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
)

const DEFAULT_BACKOFF_INTERVAL = 10000

// PollerState is the phase the ingestion loop is in for the current height.
type PollerState int

const (
	StateFetching PollerState = iota
	StateBackoff
)

func (s PollerState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateBackoff:
		return "backoff"
	default:
		return fmt.Sprintf("PollerState(%d)", int(s))
	}
}

// Poller ingests one height at a time. A height only counts as done once all its blobs
// are stored and the cursor points past it.
type Poller struct {
	rpc             rpc.IRPCClient
	decoder         *decoder.Decoder
	storage         storage.IStorage
	publisher       publisher.IPublisher
	backoffInterval time.Duration
	untilHeight     uint64
	sleep           func(ctx context.Context, d time.Duration) error

	state  PollerState
	height uint64
}

type PollerOption func(*Poller)

func WithPollerPublisher(p publisher.IPublisher) PollerOption {
	return func(poller *Poller) {
		if p == nil {
			return
		}
		poller.publisher = p
	}
}

func WithPollerBackoffInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.backoffInterval = d
		}
	}
}

func WithPollerUntilHeight(h uint64) PollerOption {
	return func(p *Poller) {
		p.untilHeight = h
	}
}

func withPollerSleep(sleep func(ctx context.Context, d time.Duration) error) PollerOption {
	return func(p *Poller) {
		p.sleep = sleep
	}
}

func NewPoller(rpc rpc.IRPCClient, dec *decoder.Decoder, storage storage.IStorage, opts ...PollerOption) *Poller {
	backoffInterval := config.Cfg.Poller.BackoffInterval
	if backoffInterval == 0 {
		backoffInterval = DEFAULT_BACKOFF_INTERVAL
	}

	poller := &Poller{
		rpc:             rpc,
		decoder:         dec,
		storage:         storage,
		backoffInterval: time.Duration(backoffInterval) * time.Millisecond,
		untilHeight:     config.Cfg.Poller.UntilHeight,
		sleep:           sleepContext,
		state:           StateFetching,
	}

	for _, opt := range opts {
		opt(poller)
	}

	return poller
}

// Run loads the cursor and loops until ctx is cancelled or the cursor passes the
// configured until height. Only an unreadable cursor ends the loop with an error.
func (p *Poller) Run(ctx context.Context) error {
	height, err := p.storage.CursorStorage.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cursor: %w", err)
	}
	p.height = height
	p.state = StateFetching
	metrics.CursorHeight.Set(float64(height))

	log.Info().Uint64("height", height).Str("rpc", p.rpc.GetURL()).Msg("Poller starting")

	for {
		if ctx.Err() != nil {
			log.Info().Uint64("height", p.height).Msg("Poller shutting down")
			return nil
		}
		if p.untilHeight > 0 && p.height > p.untilHeight {
			log.Info().Uint64("until_height", p.untilHeight).Msg("Reached configured until height, stopping poller")
			return nil
		}

		switch p.state {
		case StateFetching:
			if err := p.ingest(ctx, p.height); err != nil {
				if ctx.Err() != nil {
					continue
				}
				metrics.FailedCycles.WithLabelValues(failureCause(err)).Inc()
				log.Error().Err(err).Uint64("height", p.height).Msg("Failed to ingest height, backing off")
				p.state = StateBackoff
				continue
			}
			p.height++
			metrics.CursorHeight.Set(float64(p.height))
			metrics.SuccessfulCycles.Inc()
		case StateBackoff:
			metrics.BackoffActive.Set(1)
			err := p.sleep(ctx, p.backoffInterval)
			metrics.BackoffActive.Set(0)
			if err != nil {
				continue
			}
			p.state = StateFetching
		}
	}
}

// ingest runs one Fetching cycle. The cursor is saved last so an interrupted cycle is
// simply repeated.
func (p *Poller) ingest(ctx context.Context, height uint64) error {
	start := time.Now()
	log.Debug().Uint64("height", height).Msg("Fetching block")

	txs, err := p.rpc.GetBlockTransactions(ctx, height)
	if err != nil {
		return err
	}

	records, skipped := p.decoder.DecodeBlock(height, txs)

	for _, record := range records {
		writeStart := time.Now()
		if err := p.storage.BlobStorage.Put(ctx, record); err != nil {
			return fmt.Errorf("failed to store blob %s: %w", record.ContentID, err)
		}
		metrics.BlobWriteDuration.Observe(time.Since(writeStart).Seconds())
	}

	if p.storage.CatalogStorage != nil {
		if err := p.storage.CatalogStorage.Record(ctx, records); err != nil {
			return fmt.Errorf("failed to record blobs in catalog: %w", err)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.PublishBlobs(ctx, records); err != nil {
			return fmt.Errorf("%w: %w", errPublish, err)
		}
	}

	if err := p.storage.CursorStorage.Save(ctx, height+1); err != nil {
		return fmt.Errorf("failed to advance cursor to %d: %w", height+1, err)
	}

	metrics.CycleDuration.Observe(time.Since(start).Seconds())
	log.Debug().
		Uint64("height", height).
		Int("transactions", len(txs)).
		Int("blobs", len(records)).
		Int("skipped", skipped).
		Dur("took", time.Since(start)).
		Msg("Ingested block")
	return nil
}

// Height returns the next height the poller will fetch.
func (p *Poller) Height() uint64 {
	return p.height
}

func (p *Poller) State() PollerState {
	return p.state
}

var errPublish = errors.New("publish failed")

func failureCause(err error) string {
	switch {
	case errors.Is(err, common.ErrNetwork):
		return "network"
	case errors.Is(err, common.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, common.ErrIO), errors.Is(err, common.ErrInvalidContentID):
		return "storage"
	case errors.Is(err, errPublish):
		return "publish"
	default:
		return "other"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
