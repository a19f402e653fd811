package imgstrip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"github.com/redactyl/imgstrip/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	flagFile   string
	flagGlob   string
	flagOutDir string
	flagJSON   bool
	flagTable  bool
	flagKeys   string
	flagPrefix string
	flagQuiet  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract base64 JPEG payloads and print the cleaned JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
		Example: `
# Read a file, write cleaned JSON to stdout and the payload table to stderr
imgstrip extract -f response.json

# Pipe from another tool and keep the payloads
curl -s https://example.test/api | imgstrip extract --out-dir payloads

# Batch mode
imgstrip extract --glob 'fixtures/**/*.json' --json
`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "JSON file to read (- or empty for stdin)")
	cmd.Flags().StringVar(&flagGlob, "glob", "", "process every file matching this doublestar pattern")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "write each unique payload to <dir>/<id>-<fingerprint>.b64")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit a JSON report instead of the cleaned document")
	cmd.Flags().BoolVar(&flagTable, "table", true, "print the payload table to stderr")
	cmd.Flags().StringVar(&flagKeys, "keys", "", "comma-separated keys holding payloads (default src,image)")
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", "payload prefix (default /9j/)")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress status lines")
}

// source is one input document.
type source struct {
	name string // "" for stdin
	text string
}

func runExtract(c *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	noColor := s.noColor()
	applyColor(noColor)

	log, err := s.logger(flagLogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srcs, err := readSources(c, args, log)
	if err != nil {
		return err
	}

	matcher := matcherFor(s, flagKeys, flagPrefix)
	outDir := pickString(flagOutDir, s.local.OutDir, s.global.OutDir)
	stdout, stderr := c.OutOrStdout(), c.ErrOrStderr()
	highlight := !noColor && !flagJSON && isTerminal(stdout)

	var (
		reports  []report.RunReport
		failures int
	)
	for _, src := range srcs {
		ex := pipeline.New(pipeline.Options{Matcher: &matcher, Logger: log.With(zap.String("source", displayName(src.name)))})
		out := ex.Run(src.text)
		if out.Status.State == pipeline.Error {
			failures++
		}

		if outDir != "" && len(out.Items) > 0 {
			prefix := ""
			if len(srcs) > 1 {
				prefix = strings.TrimSuffix(filepath.Base(src.name), filepath.Ext(src.name)) + "-"
			}
			paths, err := report.WriteItems(outDir, prefix, out.Items)
			if err != nil {
				return err
			}
			log.Info("payloads written", zap.Int("count", len(paths)), zap.String("dir", outDir))
		}

		if flagJSON {
			reports = append(reports, report.NewRunReport(src.name, out))
			continue
		}

		printStatus(stderr, displayName(src.name), out.Status)
		if out.Status.State != pipeline.Success {
			continue
		}
		if flagTable {
			if err := report.PrintItems(stderr, out.Items, report.GroupPaths(out.Matches), report.PrintOptions{Source: src.name}); err != nil {
				return err
			}
		}
		if len(srcs) > 1 {
			fmt.Fprintf(stdout, "==> %s <==\n", src.name)
		}
		cleaned := out.Cleaned
		if highlight {
			cleaned = report.Highlight(cleaned)
		}
		fmt.Fprintln(stdout, cleaned)
	}

	if flagJSON {
		if err := report.MarshalReports(stdout, reports); err != nil {
			return err
		}
	}
	if failures > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// readSources resolves the inputs: --glob matches, a file argument, or stdin.
func readSources(c *cobra.Command, args []string, log *zap.Logger) ([]source, error) {
	if flagGlob != "" {
		matches, err := doublestar.FilepathGlob(flagGlob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "glob %q", flagGlob)
		}
		if len(matches) == 0 {
			return nil, errors.Newf("no files match %q", flagGlob)
		}
		sort.Strings(matches)
		srcs := make([]source, 0, len(matches))
		for _, p := range matches {
			b, err := os.ReadFile(p)
			if err != nil {
				rerr := &imgenc.FileReadError{Path: p, Err: err}
				log.Warn("skipping unreadable file", zap.Error(rerr))
				continue
			}
			srcs = append(srcs, source{name: p, text: string(b)})
		}
		return srcs, nil
	}

	path := flagFile
	if path == "" && len(args) == 1 {
		path = args[0]
	}
	if path == "" || path == "-" {
		in := c.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(c.ErrOrStderr(), "Reading JSON from stdin (Ctrl+D to finish)...")
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, &imgenc.FileReadError{Path: "stdin", Err: err}
		}
		return []source{{text: string(b)}}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &imgenc.FileReadError{Path: path, Err: err}
	}
	return []source{{name: path, text: string(b)}}, nil
}

func printStatus(w io.Writer, name string, st pipeline.Status) {
	if flagQuiet {
		return
	}
	switch st.State {
	case pipeline.Success:
		color.New(color.FgGreen).Fprintf(w, "[OK] %s: %s\n", name, st.Message)
	case pipeline.Error:
		color.New(color.FgRed, color.Bold).Fprintf(w, "[ERROR] %s: %s\n", name, st.Message)
	default:
		fmt.Fprintf(w, "%s: %s\n", name, st.State)
	}
}

func displayName(name string) string {
	if name == "" {
		return "stdin"
	}
	return name
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
