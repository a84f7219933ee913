package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/vibediag/internal/config"
)

type configInitFlags struct {
	user  string
	db    string
	force bool
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the vibediag config file",
	}
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigInitCmd(g *globalFlags) *cobra.Command {
	f := &configInitFlags{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(g, f, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.user, "user", "", "User email to record assessments under")
	flags.StringVar(&f.db, "db", "", "Database path")
	flags.BoolVar(&f.force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runConfigInit(g *globalFlags, f *configInitFlags, stdout io.Writer) error {
	path := g.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if !f.force {
		if _, err := os.Stat(path); err == nil {
			return exitError(exitInput, "%s already exists: pass --force to overwrite", path)
		}
	}

	cfg := config.DefaultConfig()
	if f.user != "" {
		cfg.User = f.user
	}
	if f.db != "" {
		cfg.DatabasePath = f.db
	}
	if err := cfg.Validate(); err != nil {
		return exitError(exitInput, "%v", err)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
