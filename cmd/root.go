package cmd

import (
	"github.com/jsphweid/sound2sight/constants"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sound2sight",
	Short: "Turns midi performances into pattern timelines",
	Long: `Turns midi performances into bar aligned, deduplicated pattern timelines
and the JSON documents the video templates are built from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func setupLogging() error {
	level, err := logrus.ParseLevel(constants.GetLogLevel())
	if err != nil {
		return errors.Wrap(err, "bad S2S_LOG_LEVEL")
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
