package cmd

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/handlers"
	"github.com/thirdweb-dev/blob-indexer/internal/orchestrator"
	"github.com/thirdweb-dev/blob-indexer/internal/rpc"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
)

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the ingestion loop",
		Long:  "Run the ingestion loop and, when api.enabled is set, the status API on the same storage.",
		Run: func(cmd *cobra.Command, args []string) {
			RunIndexer(cmd, args)
		},
	}
)

func RunIndexer(cmd *cobra.Command, args []string) {
	log.Info().Msg("Starting blob indexer")
	rpcClient, err := rpc.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RPC")
	}

	s, err := storage.NewStorageConnector(&config.Cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	var opts []orchestrator.OrchestratorOption
	if config.Cfg.API.Enabled {
		handlers.SetStorage(s)
		opts = append(opts, orchestrator.WithAPIServer(newAPIServer()))
	}

	o, err := orchestrator.NewOrchestrator(rpcClient, s, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create orchestrator")
	}

	if err := o.Start(); err != nil {
		log.Fatal().Err(err).Msg("Indexer stopped")
	}
}

func newAPIServer() *http.Server {
	host := config.Cfg.API.Host
	if host == "" {
		host = DEFAULT_API_HOST
	}
	return &http.Server{
		Addr:    host,
		Handler: handlers.NewRouter(),
	}
}
