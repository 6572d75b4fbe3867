package grid

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

// RawDump is the on-disk form of a fetch, used to replay analysis offline.
type RawDump struct {
	Meta    domain.FetchMeta         `json:"meta"`
	Records []domain.RawSeriesRecord `json:"records"`
}

func SaveRaw(path string, meta domain.FetchMeta, records []domain.RawSeriesRecord) error {
	if records == nil {
		records = []domain.RawSeriesRecord{}
	}
	data, err := json.MarshalIndent(RawDump{Meta: meta, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode raw records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write raw records: %w", err)
	}
	return nil
}

func LoadRaw(path string) (RawDump, error) {
	var dump RawDump
	data, err := os.ReadFile(path)
	if err != nil {
		return dump, fmt.Errorf("failed to read raw records: %w", err)
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return dump, fmt.Errorf("failed to decode raw records: %w", err)
	}
	return dump, nil
}
