package imgstrip

import (
	"fmt"
	"os"
	"strings"

	"github.com/redactyl/imgstrip/internal/config"
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/history"
	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput        string
	cfgKeys          string
	cfgPrefix        string
	cfgOutDir        string
	cfgLogLevel      string
	cfgMaxImageBytes int64
	cfgHistory       int
	cfgNoColor       bool
	cfgForce         bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .imgstrip.yml with the default matcher and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".imgstrip.yml", "output file path")
	initCmd.Flags().StringVar(&cfgKeys, "keys", strings.Join(extract.DefaultKeys, ","), "comma-separated keys holding payloads")
	initCmd.Flags().StringVar(&cfgPrefix, "prefix", extract.JPEGPrefix, "payload prefix")
	initCmd.Flags().StringVar(&cfgOutDir, "out-dir", "", "default directory for extracted payloads")
	initCmd.Flags().StringVar(&cfgLogLevel, "log-level", "", "default log level")
	initCmd.Flags().Int64Var(&cfgMaxImageBytes, "max-image-bytes", imgenc.DefaultMaxBytes, "largest image encode will read")
	initCmd.Flags().IntVar(&cfgHistory, "history", history.DefaultLimit, "cleaned documents kept in the TUI history")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(c *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		Keys:          strPtr(cfgKeys),
		Prefix:        strPtr(cfgPrefix),
		NoColor:       boolPtr(cfgNoColor),
		LogLevel:      optStrPtr(cfgLogLevel),
		OutDir:        optStrPtr(cfgOutDir),
		MaxImageBytes: int64Ptr(cfgMaxImageBytes),
		History:       intPtr(cfgHistory),
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}
