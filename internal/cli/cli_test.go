package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/critic-dev/critic/internal/config"
	"github.com/critic-dev/critic/internal/review"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagConfig = ""
	flagStrict = false
	flagFormat = ""
	flagOut = ""
	flagProvider = ""
	flagModel = ""
	flagNoModel = false
	flagRules = ""
	flagToolOutput = ""
	flagDebug = false
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagProvider = "anthropic"
	flagModel = "claude-sonnet-4"
	flagFormat = "json"
	flagRules = "rules.yaml"
	flagStrict = true

	m := buildOverrides()

	expected := map[string]string{
		"provider":  "anthropic",
		"model":     "claude-sonnet-4",
		"format":    "json",
		"rulesFile": "rules.yaml",
		"strict":    "true",
	}

	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_StrictUnsetOmitted(t *testing.T) {
	resetFlags()
	flagModel = "gpt-4o"

	m := buildOverrides()
	if _, ok := m["strict"]; ok {
		t.Error("strict should not appear in overrides when the flag is unset")
	}
	if m["model"] != "gpt-4o" {
		t.Errorf("model override = %q", m["model"])
	}
}

// --- loadToolOutputs tests ---

func TestLoadToolOutputs_EmptyPath(t *testing.T) {
	out, err := loadToolOutputs("")
	if err != nil {
		t.Fatalf("loadToolOutputs(\"\") error: %v", err)
	}
	if out != nil {
		t.Errorf("loadToolOutputs(\"\") = %v, want nil", out)
	}
}

func TestLoadToolOutputs_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	data := `{
		"app.py": {
			"flake8": {"issues": [{"code": "F401", "message": "unused import", "line": 1}]},
			"bandit": {"results": []}
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := loadToolOutputs(path)
	if err != nil {
		t.Fatalf("loadToolOutputs: %v", err)
	}
	entry, ok := out["app.py"]
	if !ok {
		t.Fatalf("missing app.py entry: %v", out)
	}
	if entry.Flake8 == nil || entry.Bandit == nil {
		t.Errorf("entry = %+v, want both tools populated", entry)
	}
}

func TestLoadToolOutputs_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadToolOutputs(path); err == nil {
		t.Error("expected error for malformed tool output")
	}
}

func TestLoadToolOutputs_MissingFile(t *testing.T) {
	if _, err := loadToolOutputs(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing tool output file")
	}
}

// --- collectInputs tests ---

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tools := toolOutputs{
		path: {Flake8: map[string]any{"issues": []any{}}},
	}

	inputs, err := collectInputs([]string{path}, tools)
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("len(inputs) = %d, want 1", len(inputs))
	}
	in := inputs[0]
	if in.Filename != path {
		t.Errorf("Filename = %q", in.Filename)
	}
	if in.Code != "print('hi')\n" {
		t.Errorf("Code = %q", in.Code)
	}
	if in.Language != "python" {
		t.Errorf("Language = %q", in.Language)
	}
	if in.Flake8 == nil {
		t.Error("Flake8 output not attached")
	}
	if in.Bandit != nil {
		t.Error("Bandit output should be absent")
	}
}

func TestCollectInputs_MissingFile(t *testing.T) {
	if _, err := collectInputs([]string{filepath.Join(t.TempDir(), "gone.py")}, nil); err == nil {
		t.Error("expected error for missing source file")
	}
}

// --- strict resolution tests ---

func TestEffectiveStrict(t *testing.T) {
	on := true
	off := false

	tests := []struct {
		name    string
		cfg     bool
		overlay *bool
		want    bool
	}{
		{"config off, no overlay", false, nil, false},
		{"config on, no overlay", true, nil, true},
		{"overlay forces on", false, &on, true},
		{"overlay forces off", true, &off, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{Strict: tt.cfg}
			overlay := config.RulesOverlay{Strict: tt.overlay}
			if got := effectiveStrict(cfg, overlay); got != tt.want {
				t.Errorf("effectiveStrict() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- API key resolution tests ---

func TestAPIKey_ConfigWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	cfg := config.Config{Provider: "openai", APIKey: "cfg-key"}
	if got := apiKey(cfg); got != "cfg-key" {
		t.Errorf("apiKey() = %q, want config value", got)
	}
}

func TestAPIKey_EnvFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	cfg := config.Config{Provider: "anthropic"}
	if got := apiKey(cfg); got != "env-key" {
		t.Errorf("apiKey() = %q, want env value", got)
	}
}

func TestAPIKey_OllamaNone(t *testing.T) {
	cfg := config.Config{Provider: "ollama"}
	if got := apiKey(cfg); got != "" {
		t.Errorf("apiKey() = %q, want empty", got)
	}
}

// --- exit gating tests ---

func TestHasBlockingIssues(t *testing.T) {
	tests := []struct {
		name     string
		severity review.Severity
		want     bool
	}{
		{"critical blocks", review.SeverityCritical, true},
		{"high blocks", review.SeverityHigh, true},
		{"medium passes", review.SeverityMedium, false},
		{"low passes", review.SeverityLow, false},
		{"info passes", review.SeverityInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &review.ReviewResult{Issues: []review.Issue{{Severity: tt.severity}}}
			if got := hasBlockingIssues(res); got != tt.want {
				t.Errorf("hasBlockingIssues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasBlockingIssues_Empty(t *testing.T) {
	if hasBlockingIssues(&review.ReviewResult{}) {
		t.Error("empty result should not block")
	}
}
