package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight writes. The watcher ignores these files.
const TempFilePrefix = "inkwell-tmp-"

// replaceFile swaps the content of target in one rename. A reader sees
// either the old value or the new one. The temp file is created with
// os.CreateTemp, whose 0600 mode is what FilePerm asks for.
func replaceFile(target string, data []byte) (err error) {
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filepath.Base(target), err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, werr := tmp.Write(data)
	serr := tmp.Sync()
	cerr := tmp.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		return fmt.Errorf("failed to stage %s: %w", filepath.Base(target), err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(target), err)
	}
	syncDir(dir)
	return nil
}

// syncDir flushes the rename itself. Not every platform can open a
// directory for syncing, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
