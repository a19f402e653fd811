package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutcome(t *testing.T) pipeline.Outcome {
	t.Helper()
	out := pipeline.New(pipeline.Options{}).Run(`{"a":{"src":"/9j/AAAAAAAAAAAAAAAAAAAA"},"b":[{"image":"/9j/AAAAAAAAAAAAAAAAAAAA"},{"src":"/9j/B"}]}`)
	require.Equal(t, pipeline.Success, out.Status.State)
	return out
}

func TestPrintItems_NoPayloads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintItems(&buf, nil, nil, PrintOptions{}))
	if !strings.Contains(buf.String(), "No payloads found") {
		t.Fatalf("expected friendly empty message; got: %q", buf.String())
	}
}

func TestPrintItems_Table(t *testing.T) {
	out := sampleOutcome(t)
	var buf bytes.Buffer
	require.NoError(t, PrintItems(&buf, out.Items, GroupPaths(out.Matches), PrintOptions{Source: "doc.json"}))
	got := buf.String()

	assert.Contains(t, got, "doc.json: 2 unique payload(s)")
	assert.Contains(t, strings.ToUpper(got), "FINGERPRINT")
	assert.Contains(t, got, Fingerprint(out.Items[0].Value))
	assert.Contains(t, got, "/a/src (+1)")
	assert.Contains(t, got, "/b/1/src")
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("/9j/AAA")
	assert.Len(t, a, 16)
	assert.Equal(t, a, Fingerprint("/9j/AAA"))
	assert.NotEqual(t, a, Fingerprint("/9j/AAB"))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "/9j/short", MaskValue("/9j/short"))
	assert.Equal(t, "/9j/ABCDEF…WXYZ", MaskValue("/9j/ABCDEFGHIJKLMNOPQRSTUVWXYZ"))

	// Multi-byte payloads are cut between runes, never inside one.
	got := MaskValue("ééééééééééééééééééé")
	assert.Equal(t, "éééééééééé…éééé", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ééé", MaskValue("ééé"))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "12 B", humanSize(12))
	assert.Equal(t, "1.5 KiB", humanSize(1536))
	assert.Equal(t, "2.0 MiB", humanSize(2<<20))
}

func TestHighlight_KeepsText(t *testing.T) {
	in := "{\n  \"src\": \"\"\n}"
	got := Highlight(in)
	assert.Contains(t, got, "src")
	assert.NotEmpty(t, got)
}

func TestGroupPaths(t *testing.T) {
	g := GroupPaths([]extract.Location{{Path: "/a", Value: "x"}, {Path: "/b", Value: "y"}, {Path: "/c", Value: "x"}})
	assert.Equal(t, []string{"/a", "/c"}, g["x"])
	assert.Equal(t, []string{"/b"}, g["y"])
}

func TestReports_RoundTrip(t *testing.T) {
	out := sampleOutcome(t)
	var buf bytes.Buffer
	require.NoError(t, MarshalReports(&buf, []RunReport{NewRunReport("doc.json", out)}))

	rs, err := UnmarshalReports(&buf)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "success", rs[0].Status)
	assert.Len(t, rs[0].Items, 2)
	assert.Len(t, rs[0].Matches, 3)
	assert.Equal(t, out.Cleaned, rs[0].Cleaned)
}

func TestNewRunReport_ErrorHasEmptyArrays(t *testing.T) {
	out := pipeline.New(pipeline.Options{}).Run("")
	var buf bytes.Buffer
	require.NoError(t, MarshalReports(&buf, []RunReport{NewRunReport("", out)}))
	assert.Contains(t, buf.String(), `"items": []`)
	assert.Contains(t, buf.String(), `"matches": []`)
	assert.Contains(t, buf.String(), `"status": "error"`)
}

func TestWriteItems(t *testing.T) {
	out := sampleOutcome(t)
	dir := filepath.Join(t.TempDir(), "payloads")
	paths, err := WriteItems(dir, "doc-", out.Items)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasPrefix(filepath.Base(paths[0]), "doc-0-"))

	b, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "/9j/B", string(b))

	none, err := WriteItems(dir, "", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
