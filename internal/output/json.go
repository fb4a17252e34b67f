package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/voldctl/internal/vold"
)

// JSONFormatter formats volumes as JSON.
type JSONFormatter struct{}

// FormatVolume formats a single volume as a JSON object.
func (f *JSONFormatter) FormatVolume(v vold.Volume) (string, error) {
	data, err := json.MarshalIndent(toRecord(v), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal volume to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatVolumeList formats a list of volumes as a JSON array.
func (f *JSONFormatter) FormatVolumeList(vols []vold.Volume) (string, error) {
	if len(vols) == 0 {
		return "[]\n", nil
	}

	records := make([]record, 0, len(vols))
	for _, v := range vols {
		records = append(records, toRecord(v))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal volumes to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
