package core

import (
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/redactyl/imgstrip/internal/pipeline"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Options = pipeline.Options
type Outcome = pipeline.Outcome
type Item = pipeline.Item
type Matcher = extract.Matcher
type Location = extract.Location

// Run states.
const (
	Idle    = pipeline.Idle
	Running = pipeline.Running
	Success = pipeline.Success
	Error   = pipeline.Error
)

// Extract runs one extraction over input with a fresh extractor.
func Extract(input string, opts Options) Outcome {
	return pipeline.New(opts).Run(input)
}

// DefaultMatcher matches "/9j/" strings under "src" and "image" keys.
func DefaultMatcher() Matcher { return extract.DefaultMatcher() }

// EncodeImage returns the file at path as a base64 data URL.
func EncodeImage(path string) (string, error) { return imgenc.EncodeFile(path) }
