package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/blob-indexer/api"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/decoder"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
)

type StatusResponse struct {
	NextHeight  uint64 `json:"next_height"`
	StorageRoot string `json:"storage_root"`
	DecoderMode string `json:"decoder_mode"`
}

func GetHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func GetStatus(c *gin.Context) {
	s, err := getStorage()
	if err != nil {
		api.InternalErrorHandler(c)
		return
	}

	height, err := s.CursorStorage.Load(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error loading cursor")
		api.InternalErrorHandler(c)
		return
	}

	root := config.Cfg.Storage.Root
	if root == "" {
		root = storage.DEFAULT_STORAGE_ROOT
	}
	mode, err := decoder.ParseMode(config.Cfg.Decoder.Mode)
	if err != nil {
		log.Error().Err(err).Msg("Invalid decoder mode in config")
		api.InternalErrorHandler(c)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		NextHeight:  height,
		StorageRoot: root,
		DecoderMode: string(mode),
	})
}
