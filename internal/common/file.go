package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DataDirName = ".neutaro-wallet"

	dirPerm  = 0o700
	filePerm = 0o600
)

// DataDir returns ~/.neutaro-wallet, or a relative .neutaro-wallet when the
// home directory cannot be determined.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory. The temp file is created 0600 with O_EXCL and fsynced before it
// is moved into place. Without overwrite an existing path is never replaced
// and the returned error wraps os.ErrExist.
func WriteFileAtomic(path string, data []byte, overwrite bool) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// the temp file never outlives this call
		_ = os.Remove(tmpPath)
	}()

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if overwrite {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("failed to replace file: %w", err)
		}
	} else {
		// link fails with EEXIST instead of clobbering
		if err := os.Link(tmpPath, path); err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("file already exists: %w", os.ErrExist)
			}
			return fmt.Errorf("failed to move file into place: %w", err)
		}
	}

	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return fmt.Errorf("failed to sync directory: %w", err)
	}
	return nil
}

// ReadFileNoBOM reads a file and drops a leading UTF-8 BOM if present.
func ReadFileNoBOM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Skip UTF-8 BOM if present
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	return data, nil
}
