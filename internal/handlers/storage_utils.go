package handlers

import (
	"sync"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/storage"
)

// package-level storage shared by all handlers
var (
	sharedStorage storage.IStorage
	storageOnce   sync.Once
	storageErr    error
)

// SetStorage hands the handlers an already opened storage so the API reads the same
// cursor and catalog as the poller. It must run before the router serves requests.
func SetStorage(s storage.IStorage) {
	storageOnce.Do(func() {
		sharedStorage = s
	})
}

// getStorage opens the storage from config on first use unless SetStorage ran.
func getStorage() (storage.IStorage, error) {
	storageOnce.Do(func() {
		sharedStorage, storageErr = storage.NewStorageConnector(&config.Cfg.Storage)
		if storageErr != nil {
			log.Error().Err(storageErr).Msg("Error creating storage connector")
		}
	})
	return sharedStorage, storageErr
}
