package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/vibediag/internal/analysis"
	"github.com/dshills/vibediag/internal/answers"
	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/config"
	"github.com/dshills/vibediag/internal/llm"
	"github.com/dshills/vibediag/internal/profile"
	"github.com/dshills/vibediag/internal/redact"
	"github.com/dshills/vibediag/internal/render"
	"github.com/dshills/vibediag/internal/report"
	"github.com/dshills/vibediag/internal/scoring"
)

const debugPromptFile = "vibediag-debug-prompt.txt"

type scoreFlags struct {
	format         string
	out            string
	answers        string
	answersFile    string
	note           string
	profileFile    string
	analyze        bool
	model          string
	temperature    float64
	hasTemperature bool
	maxTokens      int
	seed           int
	hasSeed        bool
	timeout        time.Duration
	redactEnabled  bool
	save           bool
	user           string
	db             string
	failOn         string
	debug          bool

	// provider replaces provider resolution when set.
	provider llm.Provider
}

func newScoreCmd(g *globalFlags) *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <questionnaire>",
		Short: "Score a completed questionnaire and optionally interpret the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasSeed = cmd.Flags().Changed("seed")
			f.hasTemperature = cmd.Flags().Changed("temperature")
			return runScore(cmd.Context(), g, args[0], f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "md", "Output format: json, md or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVarP(&f.answers, "answers", "a", "", "Comma-separated answers (values or option labels)")
	flags.StringVar(&f.answersFile, "answers-file", "", "YAML or JSON answers file")
	flags.StringVar(&f.note, "note", "", "Free-text note passed to the interpretation")
	flags.StringVar(&f.profileFile, "profile-file", "", "Onboarding profile YAML used as interpretation context")
	flags.BoolVar(&f.analyze, "analyze", false, "Ask a model to interpret the result")
	flags.StringVar(&f.model, "model", "", "Model ID (e.g., gemini-2.5-flash, claude-sonnet-4-5, gpt-4o)")
	flags.Float64Var(&f.temperature, "temperature", 0, "Model temperature (default from config)")
	flags.IntVar(&f.maxTokens, "max-tokens", 0, "Max response tokens (default from config)")
	flags.IntVar(&f.seed, "seed", 0, "Random seed (if supported)")
	flags.DurationVar(&f.timeout, "timeout", 0, "Model timeout (default from config)")
	flags.BoolVar(&f.redactEnabled, "redact", true, "Redact personal data before sending to the model")
	flags.BoolVar(&f.save, "save", false, "Save the result to the assessment log")
	flags.StringVar(&f.user, "user", "", "User email (default from config)")
	flags.StringVar(&f.db, "db", "", "Database path (default from config)")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit 2 if the result severity is at least: minimal, mild, moderate, severe")
	flags.BoolVar(&f.debug, "debug", false, "Save the model prompt to "+debugPromptFile)

	return cmd
}

func runScore(ctx context.Context, g *globalFlags, id string, f *scoreFlags, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkFormat(f.format); err != nil {
		return err
	}
	var threshold catalog.Severity
	if f.failOn != "" {
		sev, ok := catalog.ParseSeverity(f.failOn)
		if !ok {
			return exitError(exitInput, "unrecognized --fail-on value %q: use minimal, mild, moderate or severe", f.failOn)
		}
		threshold = sev
	}
	if f.answers != "" && f.answersFile != "" {
		return exitError(exitInput, "use either --answers or --answers-file, not both")
	}
	if f.maxTokens != 0 && (f.maxTokens < config.MinMaxTokens || f.maxTokens > config.MaxMaxTokens) {
		return exitError(exitInput, "--max-tokens must be between %d and %d", config.MinMaxTokens, config.MaxMaxTokens)
	}

	e, err := loadEnv(g, stderr)
	if err != nil {
		return err
	}
	log := e.logger.With(zap.String("questionnaire", id))

	// 1. Load definition
	cat, err := loadCatalog(e.cfg.CatalogDir)
	if err != nil {
		return err
	}
	def, err := cat.Get(id)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}

	// 2. Resolve answers
	note := f.note
	var set scoring.AnswerSet
	var answersFile *answers.File
	if f.answersFile != "" {
		log.Debug("loading answers", zap.String("path", f.answersFile))
		answersFile, err = answers.LoadFile(f.answersFile)
		if err != nil {
			return exitError(exitInput, "failed to load answers: %v", err)
		}
		if answersFile.QuestionnaireID != "" && answersFile.QuestionnaireID != def.ID {
			return exitError(exitInput, "answers file is for %q, not %q", answersFile.QuestionnaireID, def.ID)
		}
		set, err = answers.Resolve(def, answersFile.Tokens)
		if note == "" {
			note = answersFile.Note
		}
	} else {
		set, err = answers.Parse(def, f.answers)
	}
	if err != nil {
		return exitError(exitInput, "invalid answers: %v", err)
	}

	// 3. Score
	res, err := scoring.Score(def, set)
	if err != nil {
		return scoringExit(err)
	}
	log.Debug("scored", zap.Int("total", res.Total), zap.String("label", res.Band.Label))

	payload, err := scoring.Summarize(def, set, res.Total, res.Band)
	if err != nil {
		return scoringExit(err)
	}

	rep := report.New(version, def, res, payload, cat.Fingerprint())
	if answersFile != nil {
		rep.Input.AnswersFile = filepath.Base(answersFile.FilePath)
		rep.Input.AnswersHash = answersFile.Hash
	}

	// 4. Interpret
	if f.analyze {
		var prof *profile.Profile
		if f.profileFile != "" {
			pf, err := profile.Load(f.profileFile)
			if err != nil {
				return exitError(exitInput, "failed to load profile: %v", err)
			}
			prof = &pf.Profile
			rep.Input.ProfileFile = filepath.Base(pf.FilePath)
			rep.Input.ProfileHash = pf.Hash
		}
		if f.redactEnabled {
			log.Debug("redacting personal data")
			note = redact.Redact(note)
			if prof != nil {
				prof.MedicalHistory = redact.Redact(prof.MedicalHistory)
				prof.Goals = redact.Redact(prof.Goals)
			}
		}
		rep.Analysis = analyze(ctx, e, f, log, analysis.Request{Payload: payload, Profile: prof, Note: note}, rep)
	}

	// 5. Save
	if f.save {
		if err := saveReport(ctx, e, f, rep); err != nil {
			return err
		}
		log.Debug("saved", zap.String("id", rep.Meta.RecordID), zap.String("date", rep.Meta.Date))
	}

	// 6. Output
	var output string
	switch f.format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		output = string(data) + "\n"
	default:
		output, err = markdownOutput(f.format, render.Markdown(rep))
		if err != nil {
			return err
		}
	}
	if err := writeOutput(stdout, f.out, output); err != nil {
		return err
	}

	// 7. Exit code based on --fail-on
	if threshold != "" && res.Band.Severity.AtLeast(threshold) {
		return exitError(exitThreshold, "result %s meets fail threshold %s", res.Band.Severity, threshold)
	}
	return nil
}

func analyze(ctx context.Context, e *env, f *scoreFlags, log *zap.Logger, req analysis.Request, rep *report.Report) analysis.Outcome {
	model := f.model
	if model == "" {
		model = e.cfg.LLM.Model
	}
	provider := f.provider
	if provider == nil {
		p, err := llm.ResolveProvider(model)
		if err != nil {
			log.Warn("analysis unavailable", zap.Error(err))
			return analysis.Unavailable(err.Error(), err)
		}
		provider = p
	}

	settings := llm.Settings{
		Model:       model,
		Temperature: e.cfg.LLM.Temperature,
		MaxTokens:   e.cfg.LLM.MaxTokens,
	}
	if f.hasTemperature {
		settings.Temperature = f.temperature
	}
	if f.maxTokens > 0 {
		settings.MaxTokens = f.maxTokens
	}
	if f.hasSeed {
		settings.Seed = &f.seed
	}
	timeout := e.cfg.LLMTimeout()
	if f.timeout > 0 {
		timeout = f.timeout
	}

	a := &analysis.Analyzer{Provider: provider, Settings: settings, Timeout: timeout, Logger: log}
	out := a.Analyze(ctx, req)

	if f.debug && out.Prompt != "" {
		log.Debug("writing debug prompt", zap.String("path", debugPromptFile))
		if err := os.WriteFile(debugPromptFile, []byte(out.Prompt), 0600); err != nil {
			log.Warn("failed to write debug prompt", zap.Error(err))
		}
	}

	modelName := model
	if modelName == "" {
		modelName = "(default)"
	}
	rep.Meta.Model = provider.Name() + "/" + modelName
	rep.Meta.Temperature = settings.Temperature
	return out
}

func saveReport(ctx context.Context, e *env, f *scoreFlags, rep *report.Report) error {
	user, err := e.resolveUser(f.user, "--save needs a user: pass --user or set user in the config")
	if err != nil {
		return err
	}
	st, err := e.openStore(f.db)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := rep.Record(user)
	if err := st.Save(ctx, rec); err != nil {
		return exitError(exitStorage, "failed to save result: %v", err)
	}
	rep.Meta.User = rec.User
	rep.Meta.Date = rec.Date
	rep.Meta.RecordID = rec.ID
	return nil
}

// scoringExit maps a scoring failure to its exit code.
func scoringExit(err error) error {
	var incomplete *scoring.IncompleteAnswersError
	if errors.As(err, &incomplete) {
		return exitError(exitIncomplete, "%v", err)
	}
	return exitError(exitDefect, "%v", err)
}
