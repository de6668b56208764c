package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/critic-dev/critic/internal/adapters"
	"github.com/critic-dev/critic/internal/cache"
	"github.com/critic-dev/critic/internal/llm"
	"github.com/critic-dev/critic/internal/parser"
	"github.com/critic-dev/critic/internal/providers"
	"github.com/critic-dev/critic/internal/redact"
	"github.com/critic-dev/critic/internal/review"
	"github.com/critic-dev/critic/internal/rules"
)

// FileInput is one file submitted for review, along with any external tool
// output the caller already collected. The pipeline never invokes tools.
type FileInput struct {
	Filename string
	Code     string
	Language string
	Flake8   map[string]any
	Bandit   map[string]any
}

// Options tune one pipeline instance.
type Options struct {
	Strict         bool
	Model          string
	EnabledRules   map[string]bool
	EnabledChecks  map[string]bool // category toggles: security, style, performance
	RedactSecrets  bool
	RedactPaths    []string
	MaxConcurrency int
}

// Pipeline runs reviews. A nil provider disables the model stage.
type Pipeline struct {
	provider providers.Reviewer
	cache    *cache.Cache
	logger   *zap.Logger
	opts     Options
}

// New creates a Pipeline. cache and logger may not be nil; pass a disabled
// cache and zap.NewNop() to opt out.
func New(provider providers.Reviewer, c *cache.Cache, logger *zap.Logger, opts Options) *Pipeline {
	return &Pipeline{provider: provider, cache: c, logger: logger, opts: opts}
}

// ReviewFile reviews a single file. Anticipated failures surface inside the
// result as issues or diagnostics; a panic anywhere below is recovered at
// this boundary with the original value's type preserved.
func (p *Pipeline) ReviewFile(ctx context.Context, file FileInput) (result *review.ReviewResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("review pipeline panic (%T): %v", r, r)
		}
	}()

	code := Preprocess(file.Code)
	lang := strings.ToLower(strings.TrimSpace(file.Language))
	if lang == "" {
		lang = "python"
	}

	staticRaw := map[string]any{
		"flake8": toolRaw(file.Flake8),
		"bandit": toolRaw(file.Bandit),
	}

	var issues []review.Issue
	var diagnostics []review.Diagnostic

	if lang == "python" {
		issues = append(issues, p.runRules(ctx, file.Filename, code)...)
		issues = append(issues, adapters.FromFlake8(file.Flake8, file.Filename)...)
		issues = append(issues, adapters.FromBandit(file.Bandit, file.Filename)...)
	}

	if p.provider == nil {
		diagnostics = append(diagnostics, review.Diagnostic{
			Code:      review.DiagModelDisabled,
			Message:   "model review is disabled (no provider configured)",
			Severity:  "info",
			Retryable: review.Bool(false),
		})
	} else {
		modelIssues, diag := p.modelStage(ctx, file.Filename, lang, code, staticRaw)
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
		}
		issues = append(issues, modelIssues...)
	}

	deduped := review.Dedupe(issues)
	filtered := p.filterCategories(deduped)
	score := review.Score(filtered, p.opts.Strict)

	return &review.ReviewResult{
		Issues:            review.Rank(filtered),
		Score:             score,
		Diagnostics:       diagnostics,
		StaticAnalysisRaw: staticRaw,
	}, nil
}

// ReviewProject fans per-file reviews out across a bounded worker group and
// re-aggregates the union. Results are merged in submission order so the
// outcome is independent of the concurrency schedule.
func (p *Pipeline) ReviewProject(ctx context.Context, files []FileInput) (*review.ProjectReviewResult, error) {
	results := make([]*review.ReviewResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := p.opts.MaxConcurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res, err := p.ReviewFile(gctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Filename, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	perFile := make(map[string]*review.ReviewResult, len(files))
	filesStatic := make(map[string]any, len(files))
	var allIssues []review.Issue
	var diagnostics []review.Diagnostic

	for i, f := range files {
		r := results[i]
		perFile[f.Filename] = r
		filesStatic[f.Filename] = r.StaticAnalysisRaw
		allIssues = append(allIssues, r.Issues...)
		diagnostics = append(diagnostics, r.Diagnostics...)
	}

	overallIssues := review.Dedupe(allIssues)
	overall := &review.ReviewResult{
		Issues:            review.Rank(overallIssues),
		Score:             review.Score(overallIssues, p.opts.Strict),
		Diagnostics:       diagnostics,
		StaticAnalysisRaw: map[string]any{"files": filesStatic},
	}

	return &review.ProjectReviewResult{
		PerFile:     perFile,
		Overall:     overall,
		Diagnostics: diagnostics,
	}, nil
}

// runRules parses the source and executes the rule engine. A syntax error
// yields no rule issues; the file may still get tool and model findings.
func (p *Pipeline) runRules(ctx context.Context, filename, code string) []review.Issue {
	tree, err := parser.Parse(ctx, []byte(code))
	if err != nil {
		if errors.Is(err, parser.ErrSyntax) {
			p.logger.Debug("rule engine skipped: source does not parse",
				zap.String("file", filename))
			return nil
		}
		p.logger.Warn("rule engine skipped", zap.String("file", filename), zap.Error(err))
		return nil
	}
	defer tree.Close()

	return rules.RunAll(rules.Context{
		Filename: filename,
		Source:   []byte(code),
		Tree:     tree,
		Strict:   p.opts.Strict,
	}, p.opts.EnabledRules)
}

// modelStage builds the prompt, consults the response cache, calls the
// provider, and validates the output. Transport failures come back as a
// diagnostic with a nil issue slice.
func (p *Pipeline) modelStage(ctx context.Context, filename, lang, code string, staticRaw map[string]any) ([]review.Issue, *review.Diagnostic) {
	promptCode := code
	if p.opts.RedactSecrets {
		promptCode = redact.Source(code, filename, p.opts.RedactPaths)
	}

	userPrompt, err := llm.BuildPrompt(llm.Request{
		Filename:       filename,
		Language:       lang,
		Code:           promptCode,
		StaticAnalysis: staticRaw,
		Strict:         p.opts.Strict,
	})
	if err != nil {
		diag := ClassifyModelError(err)
		return nil, &diag
	}

	key := cache.Key(p.provider.Name(), p.opts.Model, userPrompt)
	raw, hit := p.cache.Get(key)
	if hit {
		p.logger.Debug("model response served from cache", zap.String("file", filename))
	} else {
		resp, err := p.provider.Review(ctx, providers.ReviewRequest{
			SystemPrompt: llm.SystemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  0.2,
		})
		if err != nil {
			p.logger.Warn("model stage failed", zap.String("file", filename), zap.Error(err))
			diag := ClassifyModelError(err)
			return nil, &diag
		}
		raw = resp.Content
		if err := p.cache.Put(key, p.provider.Name(), p.opts.Model, raw); err != nil {
			p.logger.Debug("cache write failed", zap.Error(err))
		}
	}

	outcome := llm.ParseResponse(raw, code)
	issues := outcome.Issues
	for i := range issues {
		if issues[i].File == "" {
			issues[i].File = filename
		}
	}
	return issues, nil
}

// filterCategories drops issues whose category toggle is off. Categories
// without an explicit toggle stay always-on.
func (p *Pipeline) filterCategories(issues []review.Issue) []review.Issue {
	if len(p.opts.EnabledChecks) == 0 {
		return issues
	}
	allowed := func(c review.Category) bool {
		switch c {
		case review.CategorySecurity, review.CategoryStyle, review.CategoryPerformance:
			if v, ok := p.opts.EnabledChecks[string(c)]; ok {
				return v
			}
		}
		return true
	}
	out := issues[:0]
	for _, i := range issues {
		if allowed(i.Category) {
			out = append(out, i)
		}
	}
	return out
}

func toolRaw(m map[string]any) any {
	if m == nil {
		return map[string]any{"skipped": true}
	}
	return m
}
