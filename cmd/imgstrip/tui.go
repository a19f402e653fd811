package imgstrip

import (
	"os"

	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"github.com/redactyl/imgstrip/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagTUIFile string

func init() {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive extractor with clipboard copy and history",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagTUIFile, "file", "f", "", "preload the input with this JSON file")
	cmd.Flags().StringVar(&flagKeys, "keys", "", "comma-separated keys holding payloads (default src,image)")
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", "payload prefix (default /9j/)")
}

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; only log when a file is given.
	log := zap.NewNop()
	if flagLogFile != "" {
		if log, err = s.logger(flagLogFile); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	var input string
	if flagTUIFile != "" {
		b, err := os.ReadFile(flagTUIFile)
		if err != nil {
			return &imgenc.FileReadError{Path: flagTUIFile, Err: err}
		}
		input = string(b)
	}

	matcher := matcherFor(s, flagKeys, flagPrefix)
	ex := pipeline.New(pipeline.Options{
		Matcher:      &matcher,
		Logger:       log,
		HistoryLimit: pickInt(0, s.local.History, s.global.History),
	})

	return tui.Run(tui.Options{
		Extractor: ex,
		Logger:    log,
		Encoder:   imgenc.Encoder{MaxBytes: pickInt64(0, s.local.MaxImageBytes, s.global.MaxImageBytes)},
		Input:     input,
		Prefs:     tui.LoadPrefs(),
		SavePrefs: tui.SavePrefs,
	})
}
