package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/blob-indexer/api"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

var errCatalogDisabled = errors.New("blob catalog is not enabled")

// GetBlob streams the stored payload of a blob.
func GetBlob(c *gin.Context) {
	s, err := getStorage()
	if err != nil {
		api.InternalErrorHandler(c)
		return
	}

	payload, err := s.BlobStorage.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleStorageError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", payload)
}

// GetBlobMeta returns the catalog entry of a blob.
func GetBlobMeta(c *gin.Context) {
	s, err := getStorage()
	if err != nil {
		api.InternalErrorHandler(c)
		return
	}
	if s.CatalogStorage == nil {
		api.NotFoundErrorHandler(c, errCatalogDisabled)
		return
	}

	entry, err := s.CatalogStorage.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetBlobsByHeight lists the blobs recorded for a height in transaction order.
func GetBlobsByHeight(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		api.BadRequestErrorHandler(c, errors.New("height must be a non-negative integer"))
		return
	}

	queryParams, err := api.ParseQueryParams(c.Request)
	if err != nil {
		api.BadRequestErrorHandler(c, err)
		return
	}

	s, err := getStorage()
	if err != nil {
		api.InternalErrorHandler(c)
		return
	}
	if s.CatalogStorage == nil {
		api.NotFoundErrorHandler(c, errCatalogDisabled)
		return
	}

	entries, err := s.CatalogStorage.ListByHeight(c.Request.Context(), height, queryParams.Limit)
	if err != nil {
		handleStorageError(c, err)
		return
	}
	if entries == nil {
		entries = []common.CatalogEntry{}
	}

	c.JSON(http.StatusOK, api.QueryResponse{
		Meta: api.Meta{
			Height:     height,
			Limit:      queryParams.Limit,
			TotalItems: len(entries),
		},
		Data: entries,
	})
}

func handleStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidContentID):
		api.BadRequestErrorHandler(c, err)
	case errors.Is(err, common.ErrBlobNotFound):
		api.NotFoundErrorHandler(c, err)
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Error reading storage")
		api.InternalErrorHandler(c)
	}
}
