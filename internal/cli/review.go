package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/critic-dev/critic/internal/cache"
	"github.com/critic-dev/critic/internal/config"
	"github.com/critic-dev/critic/internal/logging"
	"github.com/critic-dev/critic/internal/output"
	"github.com/critic-dev/critic/internal/pipeline"
	"github.com/critic-dev/critic/internal/providers"
	"github.com/critic-dev/critic/internal/review"
)

// Review flags
var (
	flagConfig     string
	flagStrict     bool
	flagFormat     string
	flagOut        string
	flagProvider   string
	flagModel      string
	flagNoModel    bool
	flagRules      string
	flagToolOutput string
	flagDebug      bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file path")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "Strict mode: escalate severities and apply heavier penalties")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().BoolVar(&flagNoModel, "no-model", false, "Skip the model stage, run rules and tools only")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Rules overlay file path (YAML)")
	cmd.Flags().StringVar(&flagToolOutput, "tool-output", "", "External tool output JSON (flake8/bandit per file)")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	if flagStrict {
		m["strict"] = "true"
	}
	return m
}

// toolOutputs is the shape of the --tool-output file: the caller runs
// flake8/bandit itself and hands us the raw JSON, keyed by filename.
type toolOutputs map[string]struct {
	Flake8 map[string]any `json:"flake8"`
	Bandit map[string]any `json:"bandit"`
}

func loadToolOutputs(path string) (toolOutputs, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tool output: %w", err)
	}
	var out toolOutputs
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing tool output %s: %w", path, err)
	}
	return out, nil
}

func collectInputs(paths []string, tools toolOutputs) ([]pipeline.FileInput, error) {
	inputs := make([]pipeline.FileInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		in := pipeline.FileInput{
			Filename: p,
			Code:     string(data),
			Language: "python",
		}
		if t, ok := tools[p]; ok {
			in.Flake8 = t.Flake8
			in.Bandit = t.Bandit
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// effectiveStrict resolves strict mode: the rules overlay wins over config.
func effectiveStrict(cfg config.Config, overlay config.RulesOverlay) bool {
	if overlay.Strict != nil {
		return *overlay.Strict
	}
	return cfg.Strict
}

// apiKey falls back to the provider's conventional environment variable
// when the config carries none.
func apiKey(cfg config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	switch cfg.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func hasBlockingIssues(result *review.ReviewResult) bool {
	for _, iss := range result.Issues {
		if iss.Severity == review.SeverityCritical || iss.Severity == review.SeverityHigh {
			return true
		}
	}
	return false
}

var reviewCmd = &cobra.Command{
	Use:   "review <file> [files...]",
	Short: "Review Python source files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			return err
		}
		overlay, err := config.LoadRules(cfg.RulesFile)
		if err != nil {
			return err
		}
		if flagDebug {
			cfg.Debug = true
		}
		runReview(args, cfg, overlay)
		return nil
	},
}

func runReview(paths []string, cfg config.Config, overlay config.RulesOverlay) {
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	defer logger.Sync()

	var provider providers.Reviewer
	if !flagNoModel {
		provider, err = providers.New(providers.Config{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			BaseURL:  cfg.BaseURL,
			APIKey:   apiKey(cfg),
			Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
	}

	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	tools, err := loadToolOutputs(flagToolOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	inputs, err := collectInputs(paths, tools)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	strict := effectiveStrict(cfg, overlay)
	pipe := pipeline.New(provider, c, logger, pipeline.Options{
		Strict:         strict,
		Model:          cfg.Model,
		EnabledRules:   overlay.Rules,
		EnabledChecks:  overlay.Checks,
		RedactSecrets:  cfg.Privacy.RedactSecrets,
		RedactPaths:    cfg.Privacy.RedactPaths,
		MaxConcurrency: cfg.MaxConcurrency,
	})

	project, err := pipe.ReviewProject(context.Background(), inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	report := output.NewReport(project, strict)
	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if hasBlockingIssues(project.Overall) {
		exitCode = ExitFindings
	}
}

func init() {
	addReviewFlags(reviewCmd)
}
