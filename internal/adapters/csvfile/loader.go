// Package csvfile loads dataset snapshots from local CSV files. The first
// record is the header and fixes column identity and order.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"listing_gate/internal/dataset"
)

// Source resolves snapshot names against a base directory and implements
// the DatasetSource port. The version is ignored for local files.
type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) Fetch(_ context.Context, name, _ string) (*dataset.Table, error) {
	return Load(filepath.Join(s.dir, name))
}

// Load reads one CSV file into a Table.
func Load(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvfile: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csvfile: %s is empty", path)
	}
	t, err := dataset.New(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("csvfile: %s: %w", path, err)
	}
	return t, nil
}
