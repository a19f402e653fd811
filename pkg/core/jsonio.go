package core

import (
	"io"

	"github.com/redactyl/imgstrip/internal/report"
)

// Report is the machine-readable form of one run.
type Report = report.RunReport

// NewReport converts an outcome for serialization. source names the input.
func NewReport(source string, out Outcome) Report { return report.NewRunReport(source, out) }

// MarshalReports pretty-prints reports as JSON for humans or pipelines.
func MarshalReports(w io.Writer, reports []Report) error {
	return report.MarshalReports(w, reports)
}

// UnmarshalReports decodes reports JSON, useful for ingestion tests.
func UnmarshalReports(r io.Reader) ([]Report, error) {
	return report.UnmarshalReports(r)
}
