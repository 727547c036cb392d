package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/sound2sight/layout"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const pollInterval = 250 * time.Millisecond

var (
	watchConfig runConfig
	quiet       time.Duration
)

func init() {
	watchConfig.addFlags(watchCmd)
	watchCmd.Flags().DurationVar(&quiet, "debounce", time.Second, "how long the file must be unchanged before exporting")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Exports a bundle every time an event log changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := watchConfig.catalog()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watch(ctx, &watchConfig, cat, args[0], quiet)
	},
}

// watch polls the modification time of path and exports once it has settled.
func watch(ctx context.Context, c *runConfig, cat *layout.Catalog, path string, wait time.Duration) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, "cannot watch")
	}

	debounced := debounce.New(wait)
	rebuild := func() {
		if _, err := c.export(path, cat); err != nil {
			logrus.WithError(err).WithField("input", path).Error("could not export")
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	for {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			logrus.WithError(err).WithField("input", path).Warn("could not stat")
		case info.ModTime() != lastMod:
			lastMod = info.ModTime()
			debounced(rebuild)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
