// Package core provides a small, stable facade over imgstrip's extraction
// pipeline for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	out := core.Extract(body, core.Options{})
//	if out.Status.State == core.Error { /* handle */ }
//	_ = core.MarshalReports(os.Stdout, []core.Report{core.NewReport("body.json", out)})
package core
