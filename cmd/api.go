package cmd

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const DEFAULT_API_HOST = ":3000"

var (
	apiCmd = &cobra.Command{
		Use:   "api",
		Short: "Serve the status API without ingesting",
		Long:  "Serve stored blobs, the catalog and the cursor position read-only. The catalog can only be opened by one process, so point a standalone API at a copy or leave storage.catalog.path empty.",
		Run: func(cmd *cobra.Command, args []string) {
			RunApi(cmd, args)
		},
	}
)

func RunApi(cmd *cobra.Command, args []string) {
	srv := newAPIServer()
	log.Info().Str("addr", srv.Addr).Msg("Starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("API server failed")
	}
}
