package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/voldctl/internal/vold"
)

func testVolumes() []vold.Volume {
	return []vold.Volume{
		{Label: "sdcard", Path: "/mnt/sdcard", State: vold.StateMounted},
		{Label: "usb", Path: "/storage/usb", State: vold.StateShared},
		{Label: "odd", Path: "/storage/odd", State: vold.State(42)},
	}
}

func TestTableFormatter_FormatVolume(t *testing.T) {
	formatter := &TableFormatter{}
	output, err := formatter.FormatVolume(vold.Volume{Label: "sdcard", Path: "/mnt/sdcard", State: vold.StateChecking})
	if err != nil {
		t.Fatalf("FormatVolume() error = %v", err)
	}

	for _, want := range []string{"LABEL", "sdcard", "/mnt/sdcard", "Checking", "3"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestTableFormatter_FormatVolumeList(t *testing.T) {
	tests := []struct {
		name       string
		vols       []vold.Volume
		noHeaders  bool
		wantCount  int
		wantHeader bool
	}{
		{
			name:      "empty list",
			vols:      []vold.Volume{},
			wantCount: 0,
		},
		{
			name:       "multiple volumes",
			vols:       testVolumes(),
			wantCount:  3,
			wantHeader: true,
		},
		{
			name:       "no headers",
			vols:       testVolumes()[:1],
			noHeaders:  true,
			wantCount:  1,
			wantHeader: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TableFormatter{NoHeaders: tt.noHeaders}
			output, err := formatter.FormatVolumeList(tt.vols)
			if err != nil {
				t.Fatalf("FormatVolumeList() error = %v", err)
			}

			if tt.wantCount == 0 {
				if !strings.Contains(output, "No volumes found") {
					t.Errorf("expected 'No volumes found' message, got: %s", output)
				}
				return
			}

			hasHeader := strings.Contains(output, "LABEL") && strings.Contains(output, "STATE")
			if tt.wantHeader != hasHeader {
				t.Errorf("header present = %v, want %v: %s", hasHeader, tt.wantHeader, output)
			}

			lines := strings.Split(strings.TrimSpace(output), "\n")
			expectedLines := tt.wantCount
			if tt.wantHeader {
				expectedLines++
			}
			if len(lines) != expectedLines {
				t.Errorf("expected %d lines, got %d: %s", expectedLines, len(lines), output)
			}
		})
	}
}

func TestTableFormatter_UnknownState(t *testing.T) {
	formatter := &TableFormatter{NoHeaders: true}
	output, err := formatter.FormatVolume(vold.Volume{Path: "/storage/odd", State: vold.State(42)})
	if err != nil {
		t.Fatalf("FormatVolume() error = %v", err)
	}

	fields := strings.Fields(output)
	want := []string{"-", "/storage/odd", vold.UnknownLabel, "42?"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("got %q, want %q", fields, want)
	}
}

func TestYAMLFormatter_FormatVolume(t *testing.T) {
	formatter := &YAMLFormatter{}
	output, err := formatter.FormatVolume(vold.Volume{Label: "usb", Path: "/storage/usb", State: vold.StateShared})
	if err != nil {
		t.Fatalf("FormatVolume() error = %v", err)
	}

	for _, field := range []string{"label: usb", "path: /storage/usb", "state: 7", "stateLabel: Shared-Unmounted"} {
		if !strings.Contains(output, field) {
			t.Errorf("output missing required field %q: %s", field, output)
		}
	}
}

func TestYAMLFormatter_FormatVolumeList(t *testing.T) {
	formatter := &YAMLFormatter{}

	output, err := formatter.FormatVolumeList(nil)
	if err != nil {
		t.Fatalf("FormatVolumeList() error = %v", err)
	}
	if output != "" {
		t.Errorf("expected empty output, got: %s", output)
	}

	output, err = formatter.FormatVolumeList(testVolumes())
	if err != nil {
		t.Fatalf("FormatVolumeList() error = %v", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(output))
	var paths []string
	for {
		var r record
		if err := dec.Decode(&r); err != nil {
			break
		}
		paths = append(paths, r.Path)
	}
	if strings.Join(paths, ",") != "/mnt/sdcard,/storage/usb,/storage/odd" {
		t.Errorf("unexpected documents: %v\n%s", paths, output)
	}
}

func TestJSONFormatter_FormatVolume(t *testing.T) {
	formatter := &JSONFormatter{}
	output, err := formatter.FormatVolume(vold.Volume{Label: "sdcard", Path: "/mnt/sdcard", State: vold.StateMounted})
	if err != nil {
		t.Fatalf("FormatVolume() error = %v", err)
	}

	for _, field := range []string{`"label": "sdcard"`, `"path": "/mnt/sdcard"`, `"state": 4`, `"stateLabel": "Mounted"`} {
		if !strings.Contains(output, field) {
			t.Errorf("output missing required field %q: %s", field, output)
		}
	}
}

func TestJSONFormatter_FormatVolumeList(t *testing.T) {
	formatter := &JSONFormatter{}

	output, err := formatter.FormatVolumeList([]vold.Volume{})
	if err != nil {
		t.Fatalf("FormatVolumeList() error = %v", err)
	}
	if output != "[]\n" {
		t.Errorf("expected %q, got: %q", "[]\n", output)
	}

	output, err = formatter.FormatVolumeList(testVolumes())
	if err != nil {
		t.Fatalf("FormatVolumeList() error = %v", err)
	}

	var records []record
	if err := json.Unmarshal([]byte(output), &records); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, output)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[2].StateLabel != vold.UnknownLabel || records[2].State != 42 {
		t.Errorf("unexpected unknown-state record: %+v", records[2])
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "table format", opts: Options{Format: FormatTable}},
		{name: "yaml format", opts: Options{Format: FormatYAML}},
		{name: "json format", opts: Options{Format: FormatJSON}},
		{name: "invalid format", opts: Options{Format: "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, err := NewFormatter(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && formatter == nil {
				t.Error("NewFormatter() returned nil formatter")
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "valid table", format: "table"},
		{name: "valid yaml", format: "yaml"},
		{name: "valid json", format: "json"},
		{name: "invalid format", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
