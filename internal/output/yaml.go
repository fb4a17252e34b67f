package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/voldctl/internal/vold"
)

// YAMLFormatter formats volumes as YAML.
type YAMLFormatter struct{}

// FormatVolume formats a single volume as YAML.
func (f *YAMLFormatter) FormatVolume(v vold.Volume) (string, error) {
	data, err := yaml.Marshal(toRecord(v))
	if err != nil {
		return "", fmt.Errorf("failed to marshal volume to YAML: %w", err)
	}

	return string(data), nil
}

// FormatVolumeList formats a list of volumes as a YAML stream
// (documents separated by ---).
func (f *YAMLFormatter) FormatVolumeList(vols []vold.Volume) (string, error) {
	if len(vols) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	for i, v := range vols {
		data, err := yaml.Marshal(toRecord(v))
		if err != nil {
			return "", fmt.Errorf("failed to marshal volume %s to YAML: %w", v.Path, err)
		}

		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(data)
	}

	return buf.String(), nil
}
