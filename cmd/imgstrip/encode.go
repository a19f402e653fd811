package imgstrip

import (
	"fmt"

	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagRaw      bool
	flagMaxBytes int64
)

func init() {
	cmd := &cobra.Command{
		Use:   "encode <image>",
		Short: "Print an image file as a base64 data URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runEncode,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagRaw, "raw", false, "print only the base64 payload")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "refuse files larger than this (default 32 MiB)")
}

func runEncode(c *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, err := s.logger(flagLogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	enc := imgenc.Encoder{MaxBytes: pickInt64(flagMaxBytes, s.local.MaxImageBytes, s.global.MaxImageBytes)}
	dataURL, err := enc.EncodeFile(args[0])
	if err != nil {
		log.Warn("image encode failed", zap.String("path", args[0]), zap.Error(err))
		return err
	}
	if flagRaw {
		dataURL = imgenc.StripDataURL(dataURL)
	}
	fmt.Fprintln(c.OutOrStdout(), dataURL)
	return nil
}
