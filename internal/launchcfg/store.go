package launchcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/and161185/mhf-auth/internal/errs"
)

// DefaultPath is where the launcher looks for its configuration.
const DefaultPath = "config.json"

// Save writes c as indented JSON to path. The document goes to a temp file in
// the same directory first and is renamed over path, so a failed write leaves
// any previous file intact.
func Save(path string, c Configuration) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailed, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err = enc.Encode(c); err != nil {
		return fmt.Errorf("%w: encode %s: %w", errs.ErrWriteFailed, path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", errs.ErrWriteFailed, path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrWriteFailed, path, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", errs.ErrWriteFailed, path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", errs.ErrWriteFailed, path, err)
	}
	return nil
}

// Load reads a configuration written by Save. Unknown enumeration names are rejected.
func Load(path string) (Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, err
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		return Configuration{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}
