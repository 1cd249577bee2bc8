package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/decoder"
	"github.com/thirdweb-dev/blob-indexer/internal/publisher"
	"github.com/thirdweb-dev/blob-indexer/internal/rpc"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Orchestrator struct {
	rpc       rpc.IRPCClient
	storage   storage.IStorage
	decoder   *decoder.Decoder
	publisher publisher.IPublisher
	apiServer *http.Server
	cancel    context.CancelFunc
}

type OrchestratorOption func(*Orchestrator)

// WithAPIServer serves the status API next to the poller and stops it on shutdown.
func WithAPIServer(srv *http.Server) OrchestratorOption {
	return func(o *Orchestrator) {
		o.apiServer = srv
	}
}

func NewOrchestrator(rpc rpc.IRPCClient, storage storage.IStorage, opts ...OrchestratorOption) (*Orchestrator, error) {
	mode, err := decoder.ParseMode(config.Cfg.Decoder.Mode)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		rpc:     rpc,
		storage: storage,
		decoder: decoder.NewDecoder(mode),
	}

	if config.Cfg.Publisher.Enabled {
		p, err := publisher.NewPublisher(&config.Cfg.Publisher)
		if err != nil {
			return nil, err
		}
		o.publisher = p
	}

	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Start blocks until SIGINT/SIGTERM, until the poller fails, or until a bounded poller
// finishes while no API server is attached.
func (o *Orchestrator) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Msgf("Received signal %v, initiating graceful shutdown", sig)
			o.cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("decoder_mode", string(o.decoder.Mode())).Msg("Starting blob indexer")
		poller := NewPoller(o.rpc, o.decoder, o.storage, WithPollerPublisher(o.publisher))
		if err := poller.Run(gctx); err != nil {
			return err
		}
		// a bounded run keeps serving the API until shutdown
		if o.apiServer != nil && gctx.Err() == nil {
			log.Info().Msg("Poller finished, API keeps serving until shutdown")
			<-gctx.Done()
		}
		return nil
	})

	if o.apiServer != nil {
		g.Go(func() error {
			return o.serveAPI(gctx)
		})
	}

	err := g.Wait()
	o.close()
	return err
}

func (o *Orchestrator) serveAPI(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", o.apiServer.Addr).Msg("Starting API server")
		errChan <- o.apiServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := o.apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown failed")
		}
		return nil
	}
}

func (o *Orchestrator) close() {
	if o.publisher != nil {
		if err := o.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close publisher")
		}
	}
	if err := o.storage.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}
	o.rpc.Close()
}

func (o *Orchestrator) Shutdown() {
	if o.cancel != nil {
		o.cancel()
	}
}
