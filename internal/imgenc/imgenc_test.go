package imgenc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestEncodeFile_JPEG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "photo.bin")
	require.NoError(t, os.WriteFile(p, jpegHeader, 0o644))

	got, err := EncodeFile(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/jpeg;base64,/9j/"), got)
	assert.True(t, strings.HasPrefix(StripDataURL(got), "/9j/"))
}

func TestEncodeReader_PNG(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	got, err := Encoder{}.EncodeReader(bytes.NewReader(png), "x.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,iVBOR"), got)
}

func TestEncodeReader_TextDropsCharset(t *testing.T) {
	got, err := Encoder{}.EncodeReader(strings.NewReader("hello"), "note.txt")
	require.NoError(t, err)
	assert.Equal(t, "data:text/plain;base64,aGVsbG8=", got)
}

func TestEncodeReader_Empty(t *testing.T) {
	got, err := Encoder{}.EncodeReader(bytes.NewReader(nil), "empty.jpg")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,", got)

	got, err = Encoder{}.EncodeReader(bytes.NewReader(nil), "empty")
	require.NoError(t, err)
	assert.Equal(t, "data:application/octet-stream;base64,", got)
}

func TestEncodeReader_TooLarge(t *testing.T) {
	_, err := Encoder{MaxBytes: 4}.EncodeReader(bytes.NewReader(jpegHeader), "big.jpg")
	require.Error(t, err)
	var fre *FileReadError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, "big.jpg", fre.Path)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestEncodeFile_Missing(t *testing.T) {
	_, err := EncodeFile(filepath.Join(t.TempDir(), "nope.jpg"))
	var fre *FileReadError
	require.True(t, errors.As(err, &fre))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data:image/jpeg;base64,/9j/AAA", "/9j/AAA"},
		{"/9j/AAA", "/9j/AAA"},
		{"data:text/plain,hello", "data:text/plain,hello"},
		{"data:broken", "data:broken"},
	}
	for _, tt := range tests {
		if got := StripDataURL(tt.in); got != tt.want {
			t.Errorf("StripDataURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
