package cmd

import (
	"github.com/jsphweid/sound2sight/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	parseConfig runConfig
	clean       bool
)

func init() {
	parseConfig.addFlags(parseCmd)
	parseCmd.Flags().BoolVar(&clean, "clean", false, "empty the out directory first")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [files or directories...]",
	Short: "Exports a bundle per event log",
	Long: `Parses every midicsv (.csv) or standard midi (.mid) file given, walking
directories, and writes one bundle of JSON documents per file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseAll(&parseConfig, args)
	},
}

func gatherPaths(args []string) ([]string, error) {
	var res []string
	for _, arg := range args {
		paths, err := util.GatherEventLogPaths(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read %s", arg)
		}
		res = append(res, paths...)
	}
	if len(res) == 0 {
		return nil, errors.New("no .csv or .mid files found")
	}
	return res, nil
}

func parseAll(c *runConfig, args []string) error {
	paths, err := gatherPaths(args)
	if err != nil {
		return err
	}
	cat, err := c.catalog()
	if err != nil {
		return err
	}
	if clean {
		if err := util.RecreateDir(c.outDir); err != nil {
			return errors.Wrap(err, "could not clean out directory")
		}
	}
	for _, path := range paths {
		if _, err := c.export(path, cat); err != nil {
			return err
		}
	}
	return nil
}
