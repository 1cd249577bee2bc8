package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
)

var (
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the next height the indexer will fetch",
		Run: func(cmd *cobra.Command, args []string) {
			RunStatus(cmd, args)
		},
	}
)

func RunStatus(cmd *cobra.Command, args []string) {
	s, err := storage.NewStorageConnector(&config.Cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer s.Close()

	height, err := s.CursorStorage.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load cursor")
	}
	fmt.Fprintln(cmd.OutOrStdout(), height)
}
