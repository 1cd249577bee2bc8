package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/thirdweb-dev/blob-indexer/internal/metrics"
)

// FSBlobStore lays blobs out as {root}/{content_id[0:4]}/{content_id}.
type FSBlobStore struct {
	fs   afero.Fs
	root string
}

func NewFSBlobStore(fs afero.Fs, root string) (*FSBlobStore, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage root %s: %v", common.ErrIO, root, err)
	}
	return &FSBlobStore{fs: fs, root: root}, nil
}

func (s *FSBlobStore) Path(contentID string) (string, error) {
	id, err := common.NormalizeContentID(contentID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, common.Shard(id), id), nil
}

func (s *FSBlobStore) Put(ctx context.Context, record common.BlobRecord) error {
	id, err := common.NormalizeContentID(record.ContentID)
	if err != nil {
		return err
	}

	shardDir := filepath.Join(s.root, common.Shard(id))
	if err := s.fs.MkdirAll(shardDir, 0o755); err != nil {
		return fmt.Errorf("%w: create shard %s: %v", common.ErrIO, shardDir, err)
	}

	if err := writeFileAtomic(s.fs, shardDir, id, record.Payload); err != nil {
		return err
	}

	metrics.BlobsStored.Inc()
	metrics.BlobBytesStored.Add(float64(len(record.Payload)))
	log.Debug().Str("content_id", id).Uint64("height", record.Height).Int("size", len(record.Payload)).Msg("Stored blob")
	return nil
}

func (s *FSBlobStore) Get(ctx context.Context, contentID string) ([]byte, error) {
	path, err := s.Path(contentID)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrBlobNotFound, contentID)
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIO, path, err)
	}
	return data, nil
}

func (s *FSBlobStore) Has(ctx context.Context, contentID string) (bool, error) {
	path, err := s.Path(contentID)
	if err != nil {
		return false, err
	}
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %v", common.ErrIO, path, err)
	}
	return exists, nil
}

// MirroredBlobStore writes to the local store first, then to every mirror.
// Reads are always served locally.
type MirroredBlobStore struct {
	local   IBlobStorage
	mirrors []IBlobMirror
}

func NewMirroredBlobStore(local IBlobStorage, mirrors ...IBlobMirror) *MirroredBlobStore {
	return &MirroredBlobStore{local: local, mirrors: mirrors}
}

func (m *MirroredBlobStore) Put(ctx context.Context, record common.BlobRecord) error {
	if err := m.local.Put(ctx, record); err != nil {
		return err
	}
	for _, mirror := range m.mirrors {
		if err := mirror.Put(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (m *MirroredBlobStore) Get(ctx context.Context, contentID string) ([]byte, error) {
	return m.local.Get(ctx, contentID)
}

func (m *MirroredBlobStore) Has(ctx context.Context, contentID string) (bool, error) {
	return m.local.Has(ctx, contentID)
}
