package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes a bank export waiting in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Inbox is the import/ directory where bank exports are dropped. Imported
// files move to import/processed/.
type Inbox struct {
	dir string
}

// NewInbox returns the inbox under a data directory.
func NewInbox(dataDir string) Inbox {
	return Inbox{dir: filepath.Join(dataDir, "import")}
}

// Dir returns the inbox directory.
func (in Inbox) Dir() string { return in.dir }

// Pending returns the CSV files waiting in the inbox, by name. A missing
// inbox is empty.
func (in Inbox) Pending() ([]FileInfo, error) {
	entries, err := os.ReadDir(in.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(in.dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves an inbox file to import/processed/.
func (in Inbox) MarkProcessed(name string) error {
	done := filepath.Join(in.dir, "processed")
	if err := os.MkdirAll(done, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(filepath.Join(in.dir, name), filepath.Join(done, name)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}
