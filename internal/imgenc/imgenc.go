// Package imgenc turns image files into base64 data URLs. It does no image
// decoding: bytes are encoded as they are read.
package imgenc

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps how much of a file is read before giving up.
const DefaultMaxBytes int64 = 32 << 20

const fallbackMIME = "application/octet-stream"

// FileReadError reports a file that could not be read or was too large.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ErrTooLarge is wrapped by FileReadError when the input exceeds MaxBytes.
var ErrTooLarge = errors.New("file exceeds size limit")

// Encoder builds data URLs. The zero value uses DefaultMaxBytes.
type Encoder struct {
	MaxBytes int64
}

// EncodeFile reads path with a default Encoder.
func EncodeFile(path string) (string, error) {
	return Encoder{}.EncodeFile(path)
}

// EncodeFile returns "data:<mime>;base64,<payload>" for the file at path.
func (e Encoder) EncodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	defer f.Close()
	return e.EncodeReader(f, path)
}

// EncodeReader encodes everything read from r. name is only used in errors.
func (e Encoder) EncodeReader(r io.Reader, name string) (string, error) {
	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", &FileReadError{Path: name, Err: err}
	}
	if int64(len(data)) > limit {
		return "", &FileReadError{Path: name, Err: errors.Wrapf(ErrTooLarge, "limit %d bytes", limit)}
	}
	return DataURL(DetectMIME(data, name), data), nil
}

// DetectMIME sniffs the content type of data, dropping any parameters.
// An empty file falls back to the extension, then to octet-stream.
func DetectMIME(data []byte, name string) string {
	if len(data) == 0 {
		if m := mimetype.Lookup(extMIME(name)); m != nil {
			return m.String()
		}
		return fallbackMIME
	}
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" {
		return fallbackMIME
	}
	return mt
}

func extMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

// DataURL formats data as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// StripDataURL returns the base64 part of a data URL. Strings that are not
// base64 data URLs are returned unchanged.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
		return s
	}
	return s[comma+1:]
}
