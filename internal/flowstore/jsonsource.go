package flowstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// JSONSource serves lifecycle records from a normalized JSON export file.
// The whole file is decoded once at open time; filtering happens in memory.
type JSONSource struct {
	records []schema.LifecycleRecord
}

var _ contract.RecordSource = &JSONSource{} // Compile-time check

// NewJSONSource reads and decodes a JSON export of lifecycle records.
func NewJSONSource(path string) (*JSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	var records []schema.LifecycleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records file %q: %w", path, err)
	}
	return &JSONSource{records: records}, nil
}

// FetchRecords filters the loaded records by period and, when scope is
// nonempty, by team or train label.
func (s *JSONSource) FetchRecords(ctx context.Context, scope, period string) ([]schema.LifecycleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []schema.LifecycleRecord
	for _, r := range s.records {
		if period != "" && r.Period != period {
			continue
		}
		if scope != "" && r.Team != scope && r.Train != scope {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Records returns every record in the export, for bulk imports.
func (s *JSONSource) Records() []schema.LifecycleRecord {
	return s.records
}

// Close is a no-op; the file is fully decoded at open time.
func (s *JSONSource) Close() error {
	return nil
}

// OpenSource builds the RecordSource selected by the configuration.
func OpenSource(cfg *contract.Config) (contract.RecordSource, error) {
	if cfg.Backend == schema.JSONBackend {
		return NewJSONSource(cfg.InputFile)
	}
	return NewStore(cfg.Backend, cfg.DBConnect)
}
