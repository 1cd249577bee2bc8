package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

const DEFAULT_CATALOG_LIST_LIMIT = 1000

// PebbleCatalog indexes stored blobs by content id and by origin height.
//
//	blob:{content_id}              -> CatalogEntry json of the latest sighting
//	height:{%020d height}:{%010d}  -> CatalogEntry json of that sighting
type PebbleCatalog struct {
	db        *pebble.DB
	nowFunc   func() time.Time
	closeOnce sync.Once
}

func NewPebbleCatalog(path string) (*PebbleCatalog, error) {
	return openPebbleCatalog(path, vfs.Default)
}

func openPebbleCatalog(path string, fs vfs.FS) (*PebbleCatalog, error) {
	cache := pebble.NewCache(32 << 20) // 32MB, entries are tiny
	defer cache.Unref()

	opts := &pebble.Options{
		FS:                          fs,
		Cache:                       cache,
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
		MaxConcurrentCompactions:    func() int { return 1 },
		Levels:                      make([]pebble.LevelOptions, 7),
	}
	for i := range opts.Levels {
		opts.Levels[i] = pebble.LevelOptions{
			BlockSize:    32 << 10,
			FilterPolicy: nil,
		}
		if i == 0 {
			opts.Levels[i].TargetFileSize = 8 << 20
			opts.Levels[i].Compression = pebble.SnappyCompression
		} else {
			opts.Levels[i].TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
			opts.Levels[i].Compression = pebble.ZstdCompression
		}
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}

	log.Debug().Str("path", path).Msg("Opened blob catalog")
	return &PebbleCatalog{db: db, nowFunc: time.Now}, nil
}

// Record writes every record of a height in one synced batch. The blob key always
// points at the latest sighting while every height key keeps its own entry.
func (pc *PebbleCatalog) Record(ctx context.Context, records []common.BlobRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := pc.db.NewBatch()
	defer batch.Close()

	storedAt := pc.nowFunc().UTC()
	for _, record := range records {
		id, err := common.NormalizeContentID(record.ContentID)
		if err != nil {
			return err
		}
		entry := common.CatalogEntry{
			ContentID: id,
			Height:    record.Height,
			Index:     record.Index,
			Size:      len(record.Payload),
			StoredAt:  storedAt,
		}
		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal catalog entry: %w", err)
		}
		if err := batch.Set(pebbleBlobKey(id), value, nil); err != nil {
			return fmt.Errorf("%w: catalog set: %v", common.ErrIO, err)
		}
		if err := batch.Set(pebbleHeightKey(record.Height, record.Index), value, nil); err != nil {
			return fmt.Errorf("%w: catalog set: %v", common.ErrIO, err)
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("%w: catalog commit: %v", common.ErrIO, err)
	}
	return nil
}

func (pc *PebbleCatalog) Get(ctx context.Context, contentID string) (*common.CatalogEntry, error) {
	id, err := common.NormalizeContentID(contentID)
	if err != nil {
		return nil, err
	}

	value, closer, err := pc.db.Get(pebbleBlobKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrBlobNotFound, id)
		}
		return nil, fmt.Errorf("%w: catalog get: %v", common.ErrIO, err)
	}
	defer closer.Close()

	var entry common.CatalogEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog entry %s: %w", id, err)
	}
	return &entry, nil
}

// ListByHeight returns the entries recorded for a height in transaction order.
func (pc *PebbleCatalog) ListByHeight(ctx context.Context, height uint64, limit int) ([]common.CatalogEntry, error) {
	if limit <= 0 {
		limit = DEFAULT_CATALOG_LIST_LIMIT
	}

	prefix := pebbleHeightKeyRange(height)
	iter, err := pc.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: append(bytes.Clone(prefix), 0xff),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: catalog iterator: %v", common.ErrIO, err)
	}
	defer iter.Close()

	var entries []common.CatalogEntry
	for iter.First(); iter.Valid() && len(entries) < limit; iter.Next() {
		var entry common.CatalogEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog entry %s: %w", iter.Key(), err)
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: catalog iterator: %v", common.ErrIO, err)
	}
	return entries, nil
}

func (pc *PebbleCatalog) Close() error {
	var err error
	pc.closeOnce.Do(func() {
		err = pc.db.Close()
	})
	return err
}

// Key construction helpers for Pebble
func pebbleBlobKey(contentID string) []byte {
	return fmt.Appendf(nil, "blob:%s", contentID)
}

func pebbleHeightKey(height uint64, index int) []byte {
	return fmt.Appendf(nil, "height:%020d:%010d", height, index)
}

func pebbleHeightKeyRange(height uint64) []byte {
	return fmt.Appendf(nil, "height:%020d:", height)
}
