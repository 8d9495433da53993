package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Loader errors shared by every pipeline.
var (
	ErrReportMissing = errors.New("report file not found")
	ErrParse         = errors.New("report is not valid JSON")
)

// LoadJSON reads a JSON artifact from disk into out.
// A missing file wraps ErrReportMissing and bad content wraps ErrParse.
func LoadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrReportMissing, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return nil
}
