package syncer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/strmsync/internal/naming"
)

type writeOutcome int

const (
	pointerSkipped writeOutcome = iota
	pointerCreated
	pointerUpdated
)

// writePointer makes path hold url. An existing file is left alone unless
// verify is set, in which case its content is compared and rewritten when
// the URL changed.
func (r *run) writePointer(path, url string, verify bool) (writeOutcome, error) {
	if err := naming.ValidatePath(path, r.layout.Root); err != nil {
		return pointerSkipped, err
	}
	fsys := r.s.fs

	exists, err := fsys.Exists(path)
	if err != nil {
		return pointerSkipped, fmt.Errorf("stat %s: %w", path, err)
	}
	if exists {
		if !verify {
			return pointerSkipped, nil
		}
		current, err := fsys.ReadFile(path)
		if err != nil {
			return pointerSkipped, fmt.Errorf("read %s: %w", path, err)
		}
		if strings.TrimSpace(string(current)) == url {
			return pointerSkipped, nil
		}
		if err := fsys.WriteFile(path, []byte(url)); err != nil {
			return pointerSkipped, fmt.Errorf("rewrite %s: %w", path, err)
		}
		return pointerUpdated, nil
	}

	if err := fsys.MkdirAll(filepath.Dir(path)); err != nil {
		return pointerSkipped, fmt.Errorf("create folder for %s: %w", path, err)
	}
	if err := fsys.WriteFile(path, []byte(url)); err != nil {
		return pointerSkipped, fmt.Errorf("write %s: %w", path, err)
	}
	return pointerCreated, nil
}
