package outline

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Write serializes the document and writes it to path, atomically. When the
// file already holds byte-identical content the write is skipped, so
// watchers and modification times are not disturbed by no-op saves.
func (d *Document) Write(path string, options FormatOptions) error {
	serialized := d.String(options)

	if old, err := os.ReadFile(path); err == nil {
		if sha256.Sum256(old) == sha256.Sum256([]byte(serialized)) {
			return nil
		}
	}

	if err := atomic.WriteFile(path, strings.NewReader(serialized)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
