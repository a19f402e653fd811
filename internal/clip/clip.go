// Package clip writes text to the system clipboard.
package clip

import (
	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// ClipboardError wraps a failed clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string { return "clipboard: " + e.Err.Error() }

func (e *ClipboardError) Unwrap() error { return e.Err }

var errUnsupported = errors.New("no clipboard utility available")

// System is the platform clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return &ClipboardError{Err: errUnsupported}
	}
	if err := clipboard.WriteAll(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}

// Copy writes text through w. Failures are logged and returned wrapped in a
// ClipboardError; they never affect extraction state.
func Copy(w Writer, text string, log *zap.Logger) error {
	err := w.WriteAll(text)
	if err == nil {
		return nil
	}
	var ce *ClipboardError
	if !errors.As(err, &ce) {
		err = &ClipboardError{Err: err}
	}
	if log != nil {
		log.Warn("clipboard write failed", zap.Error(err), zap.Int("bytes", len(text)))
	}
	return err
}
