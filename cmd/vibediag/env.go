package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/config"
	"github.com/dshills/vibediag/internal/logging"
	"github.com/dshills/vibediag/internal/render"
	"github.com/dshills/vibediag/internal/store"
	"github.com/dshills/vibediag/internal/validation"
)

// Exit codes.
const (
	exitThreshold  = 2
	exitInput      = 3
	exitIncomplete = 4
	exitDefect     = 5
	exitStorage    = 6
)

type globalFlags struct {
	configPath string
	verbose    bool
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// env is the state shared by every subcommand.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv(g *globalFlags, stderr io.Writer) (*env, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, exitError(exitInput, "%v", err)
	}
	path := g.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitError(exitInput, "failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitInput, "%v", err)
	}
	logger, err := logging.NewWriter(stderr, cfg.Logging.Level, g.verbose)
	if err != nil {
		return nil, exitError(exitInput, "failed to create logger: %v", err)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// resolveUser returns flagUser, or the configured user when the flag is empty.
// The result keys the assessment log, so it must be an email address.
func (e *env) resolveUser(flagUser, missing string) (string, error) {
	user := flagUser
	if user == "" {
		user = e.cfg.User
	}
	if user == "" {
		return "", exitError(exitInput, "%s", missing)
	}
	if err := validation.Email(user); err != nil {
		return "", exitError(exitInput, "invalid user: %v", err)
	}
	return user, nil
}

// openStore opens flagDB, or the configured database when the flag is empty.
func (e *env) openStore(flagDB string) (*store.Store, error) {
	dbPath := flagDB
	if dbPath == "" {
		dbPath = e.cfg.DatabasePath
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, exitError(exitStorage, "failed to open store: %v", err)
	}
	e.logger.Debug("opened store", zap.String("path", st.Path()))
	return st, nil
}

// loadCatalog returns the builtin catalog, or the one in dir when set.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		c, err := catalog.Builtin()
		if err != nil {
			return nil, exitError(exitDefect, "builtin catalog is invalid: %v", err)
		}
		return c, nil
	}
	c, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, exitError(exitDefect, "failed to load catalog: %v", err)
	}
	return c, nil
}

func checkFormat(format string) error {
	switch format {
	case "json", "md", "text":
		return nil
	}
	return exitError(exitInput, "unknown format: %s", format)
}

// markdownOutput renders md as-is, or styled for the terminal with format "text".
func markdownOutput(format, md string) (string, error) {
	if format != "text" {
		return md, nil
	}
	out, err := render.Terminal(md, "auto", 0)
	if err != nil {
		return "", fmt.Errorf("failed to render output: %w", err)
	}
	return out, nil
}
