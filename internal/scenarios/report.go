package scenarios

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
)

// Report is the JSON document written after a run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Results     []Result  `json:"results"`
}

// NewReport summarizes results.
func NewReport(results []Result) Report {
	report := Report{GeneratedAt: time.Now().UTC(), Results: results}
	for _, res := range results {
		if res.Success {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	return report
}

// EncodeReport writes the report for results as indented JSON.
func EncodeReport(w io.Writer, results []Result) error {
	data, err := json.MarshalIndent(NewReport(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteReport writes the report to path. A leading ~ is expanded to the
// home directory and missing parent directories are created.
func WriteReport(path string, results []Result) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("invalid report path %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", expanded, err)
	}
	if err := EncodeReport(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
