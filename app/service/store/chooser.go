package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Chooser picks file handles. ok=false means nothing was chosen and the
// caller should do nothing.
type Chooser interface {
	SaveTarget() (handle string, ok bool, err error)
	OpenTarget() (handle string, ok bool, err error)
}

// DirChooser saves into fresh timestamped files and opens the most recently
// modified file with a matching extension.
type DirChooser struct {
	dir string
	ext string
	now func() time.Time
}

func NewDirChooser(dir, ext string) *DirChooser {
	return &DirChooser{dir: dir, ext: ext, now: time.Now}
}

func (c *DirChooser) SaveTarget() (string, bool, error) {
	name := "graph-" + c.now().Format("20060102-150405") + c.ext
	return filepath.Join(c.dir, name), true, nil
}

func (c *DirChooser) OpenTarget() (string, bool, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to list %s: %w", c.dir, err)
	}

	var (
		newest   string
		newestAt time.Time
	)

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), c.ext) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if newest == "" || info.ModTime().After(newestAt) {
			newest = entry.Name()
			newestAt = info.ModTime()
		}
	}

	if newest == "" {
		return "", false, nil
	}

	return filepath.Join(c.dir, newest), true, nil
}

// FixedChooser always answers with the same handle, or with no selection
// when the handle is empty.
type FixedChooser string

func (c FixedChooser) SaveTarget() (string, bool, error) {
	return string(c), c != "", nil
}

func (c FixedChooser) OpenTarget() (string, bool, error) {
	return string(c), c != "", nil
}
