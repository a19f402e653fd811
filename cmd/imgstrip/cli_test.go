package imgstrip

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/redactyl/imgstrip/internal/config"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"github.com/redactyl/imgstrip/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{"a":{"src":"/9j/AAAA"},"b":[{"image":"/9j/AAAA"},{"src":"/9j/BBBB"},],}`

// jpegHeader is the SOI marker plus the start of a JFIF APP0 segment.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

func resetFlags() {
	flagNoColor, flagLogLevel, flagLogFile, flagConfig = false, "", "", ""
	flagFile, flagGlob, flagOutDir = "", "", ""
	flagJSON, flagTable, flagQuiet = false, true, false
	flagKeys, flagPrefix = "", ""
	flagRaw, flagMaxBytes = false, 0
	flagNoDesc = false
	cfgOutput, cfgKeys, cfgPrefix, cfgOutDir, cfgLogLevel = ".imgstrip.yml", "src,image", "/9j/", "", ""
	cfgMaxImageBytes, cfgHistory, cfgNoColor, cfgForce = 32<<20, 3, false, false
}

// runCLI executes the root command in-process with isolated config lookup.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExtract_Stdin(t *testing.T) {
	stdout, stderr, err := runCLI(t, doc, "extract", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"src": ""`)
	assert.NotContains(t, stdout, "/9j/")
	assert.Contains(t, stderr, "[OK] stdin: Extracted 2 unique payloads.")
	assert.Contains(t, stderr, report.Fingerprint("/9j/AAAA"))
}

func TestExtract_InvalidJSONExitsOne(t *testing.T) {
	_, stderr, err := runCLI(t, `{"src": }`, "extract", "-")
	var ee *exitError
	require.True(t, errors.As(err, &ee), "got %v", err)
	assert.Equal(t, 1, ee.code)
	assert.Contains(t, stderr, pipeline.MsgInvalidJSON)
}

func TestExtract_JSONReport(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(p, []byte(doc), 0644))

	stdout, _, err := runCLI(t, "", "extract", "-f", p, "--json")
	require.NoError(t, err)

	rs, err := report.UnmarshalReports(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, p, rs[0].Source)
	assert.Equal(t, "success", rs[0].Status)
	assert.Len(t, rs[0].Items, 2)
	assert.Len(t, rs[0].Matches, 3)
}

func TestExtract_GlobWithOutDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.json"), []byte(`{"src":"/9j/ONE"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "two.json"), []byte(`[{"image":"/9j/TWO"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte(`{"src":"/9j/NO"}`), 0644))
	out := filepath.Join(dir, "payloads")

	stdout, _, err := runCLI(t, "", "extract", "--glob", filepath.Join(dir, "**", "*.json"), "--out-dir", out, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, "==> "+filepath.Join(dir, "nested", "two.json")+" <==")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 2)
	assert.True(t, strings.HasPrefix(names[0], "one-0-"), names[0])
	assert.True(t, strings.HasPrefix(names[1], "two-0-"), names[1])
}

func TestExtract_GlobWithoutMatches(t *testing.T) {
	_, _, err := runCLI(t, "", "extract", "--glob", filepath.Join(t.TempDir(), "*.json"))
	assert.ErrorContains(t, err, "no files match")
}

func TestExtract_CustomKeys(t *testing.T) {
	stdout, _, err := runCLI(t, `{"thumb":"iVBORw0","src":"/9j/AAAA"}`, "extract", "--keys", "thumb", "--prefix", "iVBOR", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"thumb": ""`)
	assert.Contains(t, stdout, `"src": "/9j/AAAA"`)
}

func TestEncode_Raw(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pic.jpg")
	require.NoError(t, os.WriteFile(p, jpegHeader, 0644))

	stdout, _, err := runCLI(t, "", "encode", p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "data:image/jpeg;base64,/9j/"), stdout)

	stdout, _, err = runCLI(t, "", "encode", "--raw", p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "/9j/"), stdout)
}

func TestEncode_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, "", "encode", filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestConfigInit_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".imgstrip.yml")
	_, _, err := runCLI(t, "", "config", "init", "--output", p, "--history", "5")
	require.NoError(t, err)

	fc, err := config.LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, fc.History)
	assert.Equal(t, 5, *fc.History)
	assert.Equal(t, "/9j/", *fc.Prefix)

	_, _, err = runCLI(t, "", "config", "init", "--output", p)
	assert.ErrorContains(t, err, "already exists")
}

func TestExtract_ConfigFilePrefix(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(p, []byte("keys: thumb\nprefix: iVBOR\n"), 0644))

	stdout, _, err := runCLI(t, `{"thumb":"iVBORw0"}`, "extract", "--config", p, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"thumb": ""`)
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_imgstrip"},
		{"zsh", "#compdef imgstrip"},
		{"fish", "complete -c imgstrip"},
		{"powershell", "imgstrip"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			stdout, _, err := runCLI(t, "", "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestCompletion_NoDescriptions(t *testing.T) {
	stdout, _, err := runCLI(t, "", "completion", "zsh", "--no-descriptions")
	require.NoError(t, err)
	assert.Contains(t, stdout, "#compdef imgstrip")
	assert.Contains(t, stdout, "__completeNoDesc")
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	_, _, err := runCLI(t, "", "completion", "tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid argument "tcsh"`)

	_, _, err = runCLI(t, "", "completion")
	assert.Error(t, err)
}
