// Package report writes and locates the marker-delimited benchmark report.
package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/davidbz/streambench/internal/domain"
)

const (
	// BeginMarker precedes the JSON report on the output channel.
	BeginMarker = "ACCELBENCH_JSON_BEGIN"
	// EndMarker follows the JSON report on the output channel.
	EndMarker = "ACCELBENCH_JSON_END"
)

// ErrNoReport is returned when no report could be located in the input.
var ErrNoReport = errors.New("no valid report found")

// Write emits the report as one JSON line bracketed by the markers.
func Write(w io.Writer, r *domain.Report) error {
	if r == nil {
		return errors.New("report cannot be nil")
	}

	// A nil request list still serializes as an array.
	out := *r
	if out.Requests == nil {
		out.Requests = []domain.RequestResult{}
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, BeginMarker)
	bw.Write(payload) //nolint:errcheck // surfaced by Flush
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, EndMarker)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Parse locates a report in output that may be interleaved with other lines.
// It tries the marker-delimited block, then the whole input, then each line.
func Parse(data []byte) (*domain.Report, error) {
	if begin := bytes.Index(data, []byte(BeginMarker)); begin >= 0 {
		rest := data[begin+len(BeginMarker):]
		if end := bytes.Index(rest, []byte(EndMarker)); end >= 0 {
			var out domain.Report
			if err := json.Unmarshal(bytes.TrimSpace(rest[:end]), &out); err == nil {
				return &out, nil
			}
		}
	}

	var out domain.Report
	if err := json.Unmarshal(data, &out); err == nil {
		return &out, nil
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var candidate domain.Report
		if err := json.Unmarshal(line, &candidate); err == nil && len(candidate.Requests) > 0 {
			return &candidate, nil
		}
	}

	return nil, fmt.Errorf("%w in %d bytes of output", ErrNoReport, len(data))
}
