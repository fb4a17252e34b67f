package vdc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jbweber/voldctl/internal/vold"
)

// Daemon response codes.
const (
	CodeActionInitiated  = 100
	CodeVolumeListResult = 110

	CodeCommandOkay = 200

	CodeOperationFailed         = 400
	CodeOpFailedNoMedia         = 401
	CodeOpFailedMediaBlank      = 402
	CodeOpFailedMediaCorrupt    = 403
	CodeOpFailedVolNotMounted   = 404
	CodeOpFailedStorageBusy     = 405
	CodeOpFailedStorageNotFound = 406

	CodeCommandSyntaxError    = 500
	CodeCommandParameterError = 501
	CodeCommandNoPermission   = 502

	CodeVolumeStateChange = 605
)

// Response is one line of daemon output: "<code> [<seq>] <message>".
type Response struct {
	Code int
	// Seq is the command sequence number, -1 for daemons that do not send one.
	Seq     int
	Message string
	// Fields is Message split on whitespace.
	Fields []string
}

// Interim reports a 1xx line; more lines follow.
func (r Response) Interim() bool { return r.Code >= 100 && r.Code < 200 }

// Final reports a 2xx, 4xx or 5xx line that completes a command.
func (r Response) Final() bool { return r.Code >= 200 && r.Code < 600 }

// Failed reports a final failure.
func (r Response) Failed() bool { return r.Code >= 400 && r.Code < 600 }

// Broadcast reports an unsolicited 6xx line.
func (r Response) Broadcast() bool { return r.Code >= 600 && r.Code < 700 }

// ParseResponse parses a single response line.
func ParseResponse(line string) (Response, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Response{}, fmt.Errorf("empty response line")
	}

	code, err := strconv.Atoi(fields[0])
	if err != nil || code < 100 || code > 699 {
		return Response{}, fmt.Errorf("invalid response code in %q", line)
	}

	resp := Response{Code: code, Seq: -1}
	rest := fields[1:]

	// Newer daemons echo the command sequence number after the code.
	if len(rest) > 0 {
		if seq, err := strconv.Atoi(rest[0]); err == nil && seq >= 0 {
			resp.Seq = seq
			rest = rest[1:]
		}
	}

	resp.Fields = rest
	resp.Message = strings.Join(rest, " ")
	return resp, nil
}

// parseOutput splits helper output into responses, skipping lines that are
// not responses (the helper may print its own diagnostics).
func parseOutput(out []byte) []Response {
	var resps []Response
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := ParseResponse(line)
		if err != nil {
			continue
		}
		resps = append(resps, resp)
	}
	return resps
}

// finalResponse returns the first final response.
func finalResponse(resps []Response) (Response, bool) {
	for _, r := range resps {
		if r.Final() {
			return r, true
		}
	}
	return Response{}, false
}

// parseVolumeRow parses a 110 row: "<label> <path> <state>".
func parseVolumeRow(r Response) (vold.Volume, error) {
	if r.Code != CodeVolumeListResult {
		return vold.Volume{}, fmt.Errorf("not a volume list row: code %d", r.Code)
	}

	n := len(r.Fields)
	if n < 3 {
		return vold.Volume{}, fmt.Errorf("malformed volume list row %q", r.Message)
	}

	state, err := strconv.Atoi(r.Fields[n-1])
	if err != nil {
		return vold.Volume{}, fmt.Errorf("invalid state in volume list row %q: %w", r.Message, err)
	}

	return vold.Volume{
		Label: r.Fields[n-3],
		Path:  r.Fields[n-2],
		State: vold.State(state),
	}, nil
}

// StateChange is a decoded 605 broadcast.
type StateChange struct {
	Label string
	Path  string
	From  vold.State
	To    vold.State
}

// ParseStateChange decodes
// "Volume <label> <path> state changed from <old> (<desc>) to <new> (<desc>)".
func ParseStateChange(r Response) (StateChange, bool) {
	if r.Code != CodeVolumeStateChange {
		return StateChange{}, false
	}

	f := r.Fields
	if len(f) < 10 || f[0] != "Volume" || f[3] != "state" || f[4] != "changed" || f[5] != "from" {
		return StateChange{}, false
	}

	from, err := strconv.Atoi(f[6])
	if err != nil {
		return StateChange{}, false
	}

	// f[7] is the "(desc)" of the old state, f[8] is "to".
	if f[8] != "to" {
		return StateChange{}, false
	}
	to, err := strconv.Atoi(f[9])
	if err != nil {
		return StateChange{}, false
	}

	return StateChange{
		Label: f[1],
		Path:  f[2],
		From:  vold.State(from),
		To:    vold.State(to),
	}, true
}
