package output

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/critic-dev/critic/internal/review"
)

// Version is the report schema version.
const Version = "1.0"

// Report is the output envelope around a project review.
type Report struct {
	Tool    string                      `json:"tool"`
	Version string                      `json:"version"`
	RunID   string                      `json:"runId"`
	Strict  bool                        `json:"strict"`
	Project *review.ProjectReviewResult `json:"project"`
}

// NewReport wraps a project result with run identity.
func NewReport(project *review.ProjectReviewResult, strict bool) *Report {
	return &Report{
		Tool:    "critic",
		Version: Version,
		RunID:   uuid.NewString(),
		Strict:  strict,
		Project: project,
	}
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to outPath, or stdout when outPath is empty.
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}
