package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jbweber/voldctl/internal/vold"
)

// TableFormatter formats volumes as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatVolume formats a single volume as a table row.
func (f *TableFormatter) FormatVolume(v vold.Volume) (string, error) {
	return f.FormatVolumeList([]vold.Volume{v})
}

// FormatVolumeList formats a list of volumes as a table.
func (f *TableFormatter) FormatVolumeList(vols []vold.Volume) (string, error) {
	if len(vols) == 0 {
		return "No volumes found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "LABEL\tPATH\tSTATE\tCODE")
	}

	for _, v := range vols {
		label := v.Label
		if label == "" {
			label = "-"
		}

		mark := ""
		if !v.State.Known() {
			mark = "?"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d%s\n",
			label, v.Path, v.StateLabel(), int(v.State), mark)
	}

	_ = w.Flush()
	return buf.String(), nil
}
