package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

const (
	CursorFileName = "index"
	// InitialHeight is where a fresh storage root starts fetching.
	InitialHeight uint64 = 1
)

// FileCursor persists the next height to fetch as decimal text in {root}/index.
type FileCursor struct {
	fs   afero.Fs
	root string
}

func NewFileCursor(fs afero.Fs, root string) (*FileCursor, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage root %s: %v", common.ErrIO, root, err)
	}
	return &FileCursor{fs: fs, root: root}, nil
}

func (c *FileCursor) path() string {
	return filepath.Join(c.root, CursorFileName)
}

func (c *FileCursor) Load(ctx context.Context) (uint64, error) {
	data, err := afero.ReadFile(c.fs, c.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return InitialHeight, nil
		}
		return 0, fmt.Errorf("%w: read cursor %s: %v", common.ErrIO, c.path(), err)
	}
	return parseHeight(string(data))
}

func (c *FileCursor) Save(ctx context.Context, height uint64) error {
	return writeFileAtomic(c.fs, c.root, CursorFileName, []byte(strconv.FormatUint(height, 10)))
}

func parseHeight(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	height, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a height", common.ErrCorruptCursor, trimmed)
	}
	return height, nil
}
