package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/mediscan/mediscan-api/logging"
)

// Load reads and parses the registry file at path. Records without a drug
// name are dropped (they cannot be searched or displayed). Some registry
// exports come out of legacy tooling in ISO-8859-1, so the bytes are decoded
// before unmarshalling when they are not valid UTF-8.
func Load(path string) ([]Medicine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	medicines, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return medicines, nil
}

// Parse decodes registry JSON bytes into canonical records.
func Parse(raw []byte) ([]Medicine, error) {
	if !utf8.Valid(raw) {
		decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode registry data: %w", err)
		}
		raw = decoded
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse registry data: %w", err)
	}

	medicines := make([]Medicine, 0, len(records))
	dropped := 0
	for _, record := range records {
		m := fromRecord(record)
		if m.DrugName == "" {
			dropped++
			continue
		}
		medicines = append(medicines, m)
	}

	if dropped > 0 {
		logging.Warn("Dropped registry records without a drug name", "count", dropped)
	}

	return medicines, nil
}
