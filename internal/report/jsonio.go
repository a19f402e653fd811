package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/pipeline"
)

// RunReport is the machine-readable shape of one run, emitted by --json.
type RunReport struct {
	Source  string             `json:"source,omitempty"`
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Items   []ReportItem       `json:"items"`
	Matches []extract.Location `json:"matches"`
	Cleaned string             `json:"cleaned"`
}

type ReportItem struct {
	ID          int    `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Value       string `json:"value"`
}

// NewRunReport converts an outcome into its report form. Slices are never
// nil so the JSON always carries arrays.
func NewRunReport(source string, out pipeline.Outcome) RunReport {
	r := RunReport{
		Source:  source,
		Status:  out.Status.State.String(),
		Message: out.Status.Message,
		Items:   make([]ReportItem, 0, len(out.Items)),
		Matches: out.Matches,
		Cleaned: out.Cleaned,
	}
	if r.Matches == nil {
		r.Matches = []extract.Location{}
	}
	for _, it := range out.Items {
		r.Items = append(r.Items, ReportItem{ID: it.ID, Fingerprint: Fingerprint(it.Value), Value: it.Value})
	}
	return r
}

// MarshalReports pretty-prints reports as a JSON array.
func MarshalReports(w io.Writer, reports []RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reports)
}

// UnmarshalReports decodes reports JSON, useful for ingestion tests.
func UnmarshalReports(r io.Reader) ([]RunReport, error) {
	var rs []RunReport
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// WriteItems stores each payload in dir as <prefix><id>-<fingerprint>.b64
// and returns the written paths in item order.
func WriteItems(dir, prefix string, items []pipeline.Item) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	paths := make([]string, 0, len(items))
	for _, it := range items {
		name := prefix + strconv.Itoa(it.ID) + "-" + Fingerprint(it.Value)[:8] + ".b64"
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(it.Value), 0o644); err != nil {
			return paths, errors.Wrapf(err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
