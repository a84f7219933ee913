package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/vibediag/internal/render"
)

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available questionnaires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cat, err := loadCatalog(e.cfg.CatalogDir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.List(cat.Definitions()))
			return nil
		},
	}
}

func newShowCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <questionnaire>",
		Short: "Show a questionnaire with its options and result bands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(g, args[0], format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&format, "format", "md", "Output format: json, md or text")
	return cmd
}

func runShow(g *globalFlags, id, format string, stdout, stderr io.Writer) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	e, err := loadEnv(g, stderr)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(e.cfg.CatalogDir)
	if err != nil {
		return err
	}
	def, err := cat.Get(id)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	if format == "json" {
		data, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	out, err := markdownOutput(format, render.Definition(def))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

func newCheckCatalogCmd(g *globalFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "check-catalog",
		Short: "Validate questionnaire definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckCatalog(g, dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Catalog directory (default: configured catalog, else builtin)")
	return cmd
}

func runCheckCatalog(g *globalFlags, dir string, stdout, stderr io.Writer) error {
	e, err := loadEnv(g, stderr)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = e.cfg.CatalogDir
	}
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return exitError(exitInput, "catalog directory: %v", err)
		}
	}
	cat, err := loadCatalog(dir)
	if err != nil {
		return err
	}
	source := "builtin"
	if dir != "" {
		source = dir
	}
	e.logger.Debug("catalog loaded", zap.String("source", source), zap.Int("definitions", len(cat.Definitions())))
	fmt.Fprintf(stdout, "%s: %d questionnaires OK (%s)\n", source, len(cat.Definitions()), cat.Fingerprint())
	return nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
