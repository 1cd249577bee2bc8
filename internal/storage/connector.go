package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

const DEFAULT_STORAGE_ROOT = "./data"

type IStorage struct {
	CursorStorage ICursorStorage
	BlobStorage   IBlobStorage
	// CatalogStorage is nil when no catalog path is configured.
	CatalogStorage ICatalogStorage
}

type ICursorStorage interface {
	// Load returns the next height to fetch, 1 when nothing was persisted yet.
	Load(ctx context.Context) (uint64, error)
	Save(ctx context.Context, height uint64) error
}

type IBlobStorage interface {
	Put(ctx context.Context, record common.BlobRecord) error
	Get(ctx context.Context, contentID string) ([]byte, error)
	Has(ctx context.Context, contentID string) (bool, error)
}

// IBlobMirror receives a copy of every blob after the local write succeeded.
type IBlobMirror interface {
	Put(ctx context.Context, record common.BlobRecord) error
}

type ICatalogStorage interface {
	Record(ctx context.Context, records []common.BlobRecord) error
	Get(ctx context.Context, contentID string) (*common.CatalogEntry, error)
	ListByHeight(ctx context.Context, height uint64, limit int) ([]common.CatalogEntry, error)
	Close() error
}

func NewStorageConnector(cfg *config.StorageConfig) (IStorage, error) {
	return NewStorageConnectorWithFs(cfg, afero.NewOsFs())
}

func NewStorageConnectorWithFs(cfg *config.StorageConfig, fs afero.Fs) (IStorage, error) {
	var storage IStorage
	var err error

	root := cfg.Root
	if root == "" {
		root = DEFAULT_STORAGE_ROOT
	}

	if cfg.Cursor.Redis != nil && cfg.Cursor.Redis.Addr != "" {
		storage.CursorStorage, err = NewRedisCursor(cfg.Cursor.Redis)
	} else {
		storage.CursorStorage, err = NewFileCursor(fs, root)
	}
	if err != nil {
		return IStorage{}, fmt.Errorf("failed to create cursor storage: %w", err)
	}

	localBlobs, err := NewFSBlobStore(fs, root)
	if err != nil {
		return IStorage{}, fmt.Errorf("failed to create blob storage: %w", err)
	}
	storage.BlobStorage = localBlobs

	if cfg.S3 != nil && cfg.S3.Bucket != "" {
		mirror, err := NewS3Mirror(cfg.S3)
		if err != nil {
			return IStorage{}, fmt.Errorf("failed to create s3 mirror: %w", err)
		}
		storage.BlobStorage = NewMirroredBlobStore(localBlobs, mirror)
	}

	if cfg.Catalog.Path != "" {
		storage.CatalogStorage, err = NewPebbleCatalog(cfg.Catalog.Path)
		if err != nil {
			return IStorage{}, fmt.Errorf("failed to create catalog storage: %w", err)
		}
	}

	return storage, nil
}

func (s IStorage) Close() error {
	var errs []error
	if closer, ok := s.CursorStorage.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if s.CatalogStorage != nil {
		errs = append(errs, s.CatalogStorage.Close())
	}
	return errors.Join(errs...)
}
