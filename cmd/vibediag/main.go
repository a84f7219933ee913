package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "vibediag",
		Short:         "Score wellness questionnaires and interpret the results",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file path (default: ~/.vibediag.yaml)")
	root.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(
		newListCmd(g),
		newShowCmd(g),
		newScoreCmd(g),
		newHistoryCmd(g),
		newConfigCmd(g),
		newCheckCatalogCmd(g),
	)
	return root
}
