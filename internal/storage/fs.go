package storage

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

// writeFileAtomic replaces dir/name with data so a crash leaves either the old or
// the new content. The temp file lives in dir so the rename stays on one filesystem.
func writeFileAtomic(fs afero.Fs, dir, name string, data []byte) error {
	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", common.ErrIO, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", common.ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", common.ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", common.ErrIO, tmpName, err)
	}

	target := filepath.Join(dir, name)
	if err := fs.Rename(tmpName, target); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("%w: rename %s to %s: %v", common.ErrIO, tmpName, target, err)
	}
	return nil
}
