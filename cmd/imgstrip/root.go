package imgstrip

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/redactyl/imgstrip/internal/config"
	"github.com/redactyl/imgstrip/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagNoColor  bool
	flagLogLevel string
	flagLogFile  string
	flagConfig   string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the imgstrip CLI.
var rootCmd = &cobra.Command{
	Use:           "imgstrip",
	Short:         "Pull base64 JPEG payloads out of JSON",
	Long:          "imgstrip finds base64 JPEG payloads under src/image keys in a JSON document, lists the unique ones and prints the document with those values blanked.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code without an extra message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the imgstrip CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.imgstrip.yml, then $XDG_CONFIG_HOME/imgstrip/config.yml)")
}

// settings is the merged view of flags, local and global config files.
type settings struct {
	local, global config.FileConfig
}

func loadSettings() (settings, error) {
	var s settings
	if flagConfig != "" {
		fc, err := config.LoadFile(flagConfig)
		if err != nil {
			return s, err
		}
		s.local = fc
	} else {
		fc, err := config.LoadLocal(".")
		if err != nil && !config.IsNotFound(err) {
			return s, err
		}
		s.local = fc
	}
	fc, err := config.LoadGlobal()
	if err != nil && !config.IsNotFound(err) {
		// A broken global file should not block work in a project.
		fmt.Fprintln(os.Stderr, "warning: ignoring global config:", err)
		fc = config.FileConfig{}
	}
	s.global = fc
	return s, nil
}

func (s settings) noColor() bool {
	return pickBool(flagNoColor, s.local.NoColor, s.global.NoColor)
}

func (s settings) logger(path string) (*zap.Logger, error) {
	level := pickString(flagLogLevel, s.local.LogLevel, s.global.LogLevel)
	return logging.New(level, path)
}

func applyColor(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}
